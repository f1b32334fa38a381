// Package commands builds the carry command tree.
package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/carry/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "carry",
		Short: base.Wrap80("Journal pages that carry unfinished tasks forward to the next day."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config-dir", "",
		"Directory holding .carry.yaml. Defaults to $CARRY_CONFIG_PATH, the working directory and $HOME.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addJournal(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addRemove(topLevel)
	addMove(topLevel)
	addShow(topLevel)
	addJournals(topLevel)
	addToggle(topLevel)
	addHighlight(topLevel)
	addPress(topLevel)
	addRollover(topLevel)
	addWatch(topLevel)
	addKey(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
