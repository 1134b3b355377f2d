package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/USRSE/usrse-go/internal/config"
	"github.com/USRSE/usrse-go/internal/render"
	"github.com/USRSE/usrse-go/internal/result"
)

// applyBaseURLFlag overlays the --baseurl flag onto the config. Only a
// flag explicitly set by the user wins over the file.
func applyBaseURLFlag(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("baseurl") {
		cfg.BaseURL, _ = cmd.Flags().GetString("baseurl")
	}
}

// resolveLimit picks the row limit: flag over config over default.
func resolveLimit(cmd *cobra.Command, cfg *config.Config) int {
	if cmd.Flags().Changed("limit") {
		limit, _ := cmd.Flags().GetInt("limit")
		return limit
	}
	if cfg.Limit > 0 {
		return cfg.Limit
	}
	return result.DefaultLimit
}

// resolveDelay picks the animation step unit in the same order.
func resolveDelay(cmd *cobra.Command, cfg *config.Config) time.Duration {
	if cmd.Flags().Changed("delay") {
		delay, _ := cmd.Flags().GetFloat64("delay")
		return time.Duration(delay * float64(time.Second))
	}
	if cfg.Delay > 0 {
		return time.Duration(cfg.Delay * float64(time.Second))
	}
	return render.DefaultDelay
}
