package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/carry/pkg/commands/options"
	"tableflip.dev/carry/pkg/runner/rollover"
	"tableflip.dev/carry/pkg/runner/watch"
)

func addRollover(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rollover [page]",
		Short: "Carry unfinished tasks from the previous journal into a journal page.",
		Long: `Carry unfinished tasks from the most recent earlier journal into the
named journal page. This normally happens on its own when a journal is
created; run it by hand to repeat it after editing the earlier page.`,
		Example: `
carry rollover
carry rollover 2025-10-11 -o json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			r := rollover.Rollover{
				App:    e.App,
				Format: output.Format(),
				Out:    cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				r.Page = args[0]
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddFormatArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run rollovers as journals are created by other carry processes.",
		Long: `Watch the shared change feed and run a rollover whenever a new journal
page appears. Requires feed.enabled in .carry.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeWatch)
			if err != nil {
				return err
			}
			if !e.Settings.Feed.Enabled {
				e.Logger.Warn("feed.enabled is off, journals are rolled over by the command that creates them")
			}
			w := watch.Watch{
				Feed:     e.Feed,
				Rollover: e.App.Rollover,
				Logger:   e.Logger,
			}
			return w.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
