package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/USRSE/usrse-go/internal/client"
	"github.com/USRSE/usrse-go/internal/config"
	"github.com/USRSE/usrse-go/internal/endpoints"
	"github.com/USRSE/usrse-go/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <endpoint>",
	Short: "Watch an endpoint and notify about new records",
	Long:  "Polls a named endpoint on an interval or cron schedule and sends a notification (via Shoutrrr service URLs) whenever records appear that were not in the previous fetch. Ctrl-C stops the watch.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(cmd)

		cfg, cfgPath, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}
		applyBaseURLFlag(cmd, cfg)

		every, _ := cmd.Flags().GetDuration("every")
		cronSpec, _ := cmd.Flags().GetString("cron")
		notifyTo, _ := cmd.Flags().GetStringSlice("notify")
		tmpl, _ := cmd.Flags().GetString("template")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		// Config supplies watch defaults when flags are unset.
		if !cmd.Flags().Changed("every") && cfg.Watch.Every != "" {
			if d, err := time.ParseDuration(cfg.Watch.Every); err == nil {
				every = d
			}
		}
		if cronSpec == "" {
			cronSpec = cfg.Watch.Cron
		}
		if len(notifyTo) == 0 {
			notifyTo = cfg.Watch.Notify
		}
		if tmpl == "" {
			tmpl = cfg.Watch.Template
		}

		c := client.New(cfg.BaseURL, endpoints.Registry(), logger)

		w, err := watch.New(c, cfg.Services, watch.Options{
			Endpoint:   args[0],
			Every:      every,
			Cron:       cronSpec,
			Template:   tmpl,
			Notify:     notifyTo,
			DryRun:     dryRun,
			ConfigPath: cfgPath,
		}, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return w.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().Duration("every", 0, "polling interval (default 1h)")
	watchCmd.Flags().String("cron", "", "cron schedule (overrides --every)")
	watchCmd.Flags().StringSlice("notify", nil, "notification services (config names or shoutrrr URLs)")
	watchCmd.Flags().String("template", "", "notification message template")
	watchCmd.Flags().Bool("dry-run", false, "validate targets without sending notifications")
	rootCmd.AddCommand(watchCmd)
}
