// Package toggle runs the marker and highlight toggles from the command line.
package toggle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/keymap"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/printers"
)

// Toggle applies Action, or the action bound to Binding when set, to IDs.
type Toggle struct {
	App     *app.Service
	Action  string
	Binding string
	IDs     []string
	ShowID  bool
	Out     io.Writer
}

func (t *Toggle) Do(ctx context.Context) error {
	if t.App == nil {
		return errors.New("can not toggle, no app")
	}
	var (
		nodes []*outline.Node
		err   error
	)
	switch {
	case t.Binding != "":
		_, nodes, err = t.App.Press(ctx, t.Binding, t.IDs...)
	case t.Action == keymap.ToggleMarker:
		nodes, err = t.App.ToggleMarker(ctx, t.IDs...)
	case t.Action == keymap.ToggleHighlight:
		nodes, err = t.App.ToggleHighlight(ctx, t.IDs...)
	default:
		err = fmt.Errorf("unknown action %q", t.Action)
	}
	if err != nil {
		return err
	}

	out := t.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{Out: out, ShowID: t.ShowID}
	if t.App.Toggler != nil {
		pp.Delimiters = t.App.Toggler.Delimiters
	}
	pp.Nodes(nodes...)
	return nil
}
