package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "usrse",
	Short:        "Command line client for the US-RSE community API",
	Long:         "usrse fetches jobs, posts, events, newsletters, and member counts from the US-RSE public API and renders them as terminal tables or structured output.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().String("baseurl", "", "override the API base URL")
	rootCmd.PersistentFlags().Bool("quiet", false, "only log warnings and errors")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func setupLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		level = slog.LevelWarn
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
