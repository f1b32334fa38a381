// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// PageOptions selects the page a command works on.
type PageOptions struct {
	Page string
}

// AddPageArgs wires the page flag on the provided command.
func AddPageArgs(cmd *cobra.Command, o *PageOptions) {
	cmd.Flags().StringVarP(&o.Page, "page", "p", "today",
		`Page name, a date like "2025-10-11", "today" or "yesterday".`)
}

// PositionOptions says where a new node goes.
type PositionOptions struct {
	Parent string
	After  string
}

// AddPositionArgs wires --parent and --after.
func AddPositionArgs(cmd *cobra.Command, o *PositionOptions) {
	cmd.Flags().StringVar(&o.Parent, "parent", "",
		"Append as the last child of this node id.")
	cmd.Flags().StringVar(&o.After, "after", "",
		"Insert right after this node id.")
}
