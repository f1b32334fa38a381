package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/commands/options"
	"tableflip.dev/carry/pkg/runner/edit"
)

func addAdd(topLevel *cobra.Command) {
	po := &options.PageOptions{}
	at := &options.PositionOptions{}
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a node to a page.",
		Example: `
carry add LATER call the plumber
carry add --page yesterday DONE pay rent
carry add --parent 6f1c... draft the outline
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			a := edit.Add{
				App:     e.App,
				Page:    po.Page,
				Content: strings.Join(args, " "),
				Where:   app.Where{Parent: at.Parent, After: at.After},
				ShowID:  ids.ShowID,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddPageArgs(cmd, po)
	_ = cmd.RegisterFlagCompletionFunc("page", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return pageCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	options.AddPositionArgs(cmd, at)
	options.AddShowIDArgs(cmd, ids)

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id> [text]",
		Short: "Replace the text of a node.",
		Example: `
carry edit 6f1c... LATER call the plumber before noon
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			r := edit.Edit{
				App:     e.App,
				ID:      args[0],
				Content: strings.Join(args[1:], " "),
				ShowID:  ids.ShowID,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, ids)

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete nodes and everything under them.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			r := edit.Remove{App: e.App, IDs: args}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "mv <id> <after-id>",
		Short: "Move a node right after another node on the same page.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			m := edit.Move{
				App:    e.App,
				ID:     args[0],
				After:  args[1],
				ShowID: ids.ShowID,
				Out:    cmd.OutOrStdout(),
			}
			return output.HandleError(m.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, ids)

	topLevel.AddCommand(cmd)
}
