package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/USRSE/usrse-go/internal/client"
	"github.com/USRSE/usrse-go/internal/config"
	"github.com/USRSE/usrse-go/internal/endpoints"
	"github.com/USRSE/usrse-go/internal/export"
	"github.com/USRSE/usrse-go/internal/notify"
	"github.com/USRSE/usrse-go/internal/render"
	"github.com/USRSE/usrse-go/internal/result"
)

var getCmd = &cobra.Command{
	Use:   "get <endpoint>",
	Short: "Fetch an endpoint and render it",
	Long:  "Fetches a named US-RSE endpoint and renders the records as a table (static or animated), JSON, YAML, or a per-record template. Use --outfile to save JSON to a file instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(cmd)

		cfg, _, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}
		applyBaseURLFlag(cmd, cfg)

		animate, _ := cmd.Flags().GetBool("animate")
		jsonOut, _ := cmd.Flags().GetBool("json")
		yamlOut, _ := cmd.Flags().GetBool("yaml")
		tmpl, _ := cmd.Flags().GetString("template")
		outfile, _ := cmd.Flags().GetString("outfile")
		noColor, _ := cmd.Flags().GetBool("no-color")
		seed, _ := cmd.Flags().GetInt64("seed")

		c := client.New(cfg.BaseURL, endpoints.Registry(), logger)

		var res *result.Result
		fetch := func() error {
			var err error
			res, err = c.Get(cmd.Context(), args[0])
			return err
		}

		if animate {
			err = render.Spin(fmt.Sprintf("Fetching %s...", args[0]), fetch)
		} else {
			err = fetch()
		}
		if err != nil {
			return err
		}

		if urls, _ := cmd.Flags().GetStringSlice("notify-url"); len(urls) > 0 {
			if err := announce(res, urls); err != nil {
				return err
			}
		}

		opts := render.Options{
			Limit:   resolveLimit(cmd, cfg),
			Delay:   resolveDelay(cmd, cfg),
			Seed:    seed,
			NoColor: noColor,
		}

		switch {
		case outfile != "":
			return res.Save(outfile)
		case jsonOut:
			return res.WriteJSON(os.Stdout)
		case yamlOut:
			return res.WriteYAML(os.Stdout)
		case tmpl != "":
			return export.Template(os.Stdout, res.ToRecords(), tmpl)
		case animate:
			return render.Animate(res, opts)
		default:
			return render.Table(os.Stdout, res, opts)
		}
	},
}

func init() {
	getCmd.Flags().Int("limit", result.DefaultLimit, "max rows to display")
	getCmd.Flags().Bool("animate", false, "reveal the table step by step")
	getCmd.Flags().Float64("delay", 0.04, "animation step unit in seconds")
	getCmd.Flags().Bool("json", false, "print records as JSON")
	getCmd.Flags().Bool("yaml", false, "print records as YAML")
	getCmd.Flags().String("template", "", "render each record with a Go template")
	getCmd.Flags().String("outfile", "", "save records as JSON to a file")
	getCmd.Flags().Bool("no-color", false, "disable table colors")
	getCmd.Flags().Int64("seed", 0, "seed for column color assignment (0 means random)")
	getCmd.Flags().StringSlice("notify-url", nil, "shoutrrr URLs to send the fetched records to")
	rootCmd.AddCommand(getCmd)
}

// announce sends the fetched records to raw shoutrrr URLs using the
// default notification template.
func announce(res *result.Result, urls []string) error {
	data := notify.BuildTemplateData(res.Endpoint, res.ToRecords())

	services := make(map[string]notify.ServiceDef, len(urls))
	names := make([]string, 0, len(urls))
	for _, u := range urls {
		name := u
		if i := strings.Index(u, "://"); i >= 0 {
			name = u[:i]
		}
		services[name] = notify.ServiceDef{URL: u}
		names = append(names, name)
	}

	targets, err := notify.ResolveTargets(services, names, notify.DefaultTemplate, data)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if err := notify.Send(t); err != nil {
			return fmt.Errorf("notifying %s: %w", t.ServiceName, err)
		}
	}
	return nil
}
