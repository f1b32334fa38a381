package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/carry/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the task markers and key bindings",
		Example: `
carry key
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(modeCLI)
			if err != nil {
				return output.HandleError(err)
			}
			k := key.Key{
				Workflow: e.Workflow,
				Keymap:   e.App.Keymap,
				Out:      cmd.OutOrStdout(),
			}
			return output.HandleError(k.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
