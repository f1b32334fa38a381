package commands

import (
	"time"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/carry/pkg/commands/options"
	"tableflip.dev/carry/pkg/runner/journal"
	"tableflip.dev/carry/pkg/runner/journals"
	"tableflip.dev/carry/pkg/runner/show"
)

func addJournal(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: base.Wrap80("Open the journal for a day, creating it and carrying unfinished tasks forward when it is new."),
		Example: `
carry journal
carry journal --on 2025-10-11
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := on.GetOn(time.Now())
			if err != nil {
				return err
			}
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			j := journal.Journal{
				App:    e.App,
				On:     day,
				Format: output.Format(),
				ShowID: ids.ShowID,
				Out:    cmd.OutOrStdout(),
			}
			return output.HandleError(j.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, ids)
	options.AddFormatArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	ids := &options.IDOptions{}
	open := false

	cmd := &cobra.Command{
		Use:   "show [page]",
		Short: "Print a page outline.",
		Example: `
carry show
carry show yesterday -k
carry show --open
carry show "Reading List" -o yaml
`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return pageCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			s := show.Show{
				App:        e.App,
				Format:     output.Format(),
				ShowID:     ids.ShowID,
				Open:       open,
				Delimiters: e.Settings.Highlight,
				Out:        cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				s.Page = args[0]
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, ids)
	options.AddFormatArg(cmd, output)
	cmd.Flags().BoolVar(&open, "open", false,
		"List only pending tasks, each with the nodes above it.")

	topLevel.AddCommand(cmd)
}

func addJournals(topLevel *cobra.Command) {
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "journals",
		Short: "List journal pages with their open task counts.",
		Example: `
carry journals
carry journals --on 2025-9-1 -o json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := on.GetOn(time.Now())
			if err != nil {
				return err
			}
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			j := journals.Journals{
				App:    e.App,
				Format: output.Format(),
				Month:  month,
				Out:    cmd.OutOrStdout(),
			}
			return output.HandleError(j.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddFormatArg(cmd, output)

	topLevel.AddCommand(cmd)
}
