package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/carry/pkg/commands/options"
	"tableflip.dev/carry/pkg/keymap"
	"tableflip.dev/carry/pkg/runner/toggle"
)

func addToggle(topLevel *cobra.Command) {
	addToggleAction(topLevel, "toggle", keymap.ToggleMarker, []string{"todo"},
		"Cycle the task marker of the given nodes.")
}

func addHighlight(topLevel *cobra.Command) {
	addToggleAction(topLevel, "highlight", keymap.ToggleHighlight, nil,
		"Wrap or unwrap the text of the given nodes in highlight delimiters.")
}

func addToggleAction(topLevel *cobra.Command, use, action string, aliases []string, short string) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     use + " <id>...",
		Aliases: aliases,
		Short:   short,
		Example: fmt.Sprintf(`
carry %s 6f1c...
carry %s 6f1c... 91ab...
`, use, use),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			t := toggle.Toggle{
				App:    e.App,
				Action: action,
				IDs:    args,
				ShowID: ids.ShowID,
				Out:    cmd.OutOrStdout(),
			}
			return output.HandleError(t.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, ids)

	topLevel.AddCommand(cmd)
}

func addPress(topLevel *cobra.Command) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "press <binding> <id>...",
		Short: "Run the command bound to a key on the given nodes.",
		Example: `
carry press mod+1 6f1c...
carry press ctrl+2 6f1c...
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			t := toggle.Toggle{
				App:     e.App,
				Binding: args[0],
				IDs:     args[1:],
				ShowID:  ids.ShowID,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(t.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, ids)

	topLevel.AddCommand(cmd)
}
