// Package key provides CLI helpers to display the journaling legend.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/carry/pkg/keymap"
	"tableflip.dev/carry/pkg/marker"
)

// Key prints the marker legend for a workflow and the command bindings.
type Key struct {
	Workflow marker.Workflow
	Keymap   *keymap.Map
	Out      io.Writer
}

// Do renders the marker and binding tables.
func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	km := k.Keymap
	if km == nil {
		var err error
		if km, err = keymap.New(nil); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "")
	k.Markers(ctx, out)
	_, _ = fmt.Fprintln(out, "")
	k.Bindings(ctx, out, km)
	_, _ = fmt.Fprintln(out, "")
	return nil
}

// Markers renders the legend of the active workflow.
func (k *Key) Markers(_ context.Context, out io.Writer) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Marker"), bold.Sprint(""), bold.Sprint("Meaning"))
	for _, g := range marker.DefaultGlyphs(k.Workflow) {
		name := g.Marker.String()
		if g.Marker == marker.None {
			name = "-"
		}
		tbl.AddRow(name, g.Symbol, g.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintf(out, "%s workflow\n", k.Workflow)
	_, _ = fmt.Fprintln(out, tbl)
}

// Bindings renders the command key bindings.
func (k *Key) Bindings(_ context.Context, out io.Writer, km *keymap.Map) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Command"), bold.Sprint("Id"))
	for _, a := range km.Actions() {
		tbl.AddRow(a.Binding, a.Label, a.Key)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}
