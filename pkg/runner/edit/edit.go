// Package edit holds the runners that change outline nodes.
package edit

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/printers"
	"tableflip.dev/carry/pkg/rollover"
	"tableflip.dev/carry/pkg/store"
)

var errNoApp = errors.New("edit: no app")

// Add writes a new node onto a page and prints the page.
type Add struct {
	App     *app.Service
	Page    string
	Content string
	Where   app.Where
	ShowID  bool
	Out     io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	if a.App == nil {
		return errNoApp
	}
	name := a.App.ResolvePage(a.Page)
	var report *rollover.Report
	if outline.IsJournalName(name) {
		day, err := outline.ParseJournalName(name)
		if err != nil {
			return err
		}
		if _, report, err = a.App.CreateJournal(ctx, day); err != nil {
			return err
		}
	} else if _, err := a.App.CreatePage(ctx, name); err != nil && !errors.Is(err, store.ErrPageExists) {
		return err
	}
	n, err := a.App.Add(ctx, name, a.Content, a.Where)
	if err != nil {
		return err
	}
	if report != nil {
		pp := printers.PrettyPrint{Out: a.Out}
		pp.NewLine()
		pp.Rollover(report)
	}
	return printPage(ctx, a.App, n.Page, a.ShowID, a.Out)
}

// Edit replaces the content of a node.
type Edit struct {
	App     *app.Service
	ID      string
	Content string
	ShowID  bool
	Out     io.Writer
}

func (e *Edit) Do(ctx context.Context) error {
	if e.App == nil {
		return errNoApp
	}
	n, err := e.App.Edit(ctx, e.ID, e.Content)
	if err != nil {
		return err
	}
	return printPage(ctx, e.App, n.Page, e.ShowID, e.Out)
}

// Remove deletes nodes along with their children.
type Remove struct {
	App *app.Service
	IDs []string
}

func (r *Remove) Do(ctx context.Context) error {
	if r.App == nil {
		return errNoApp
	}
	for _, id := range r.IDs {
		if err := r.App.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Move places a node right after another one on the same page.
type Move struct {
	App    *app.Service
	ID     string
	After  string
	ShowID bool
	Out    io.Writer
}

func (m *Move) Do(ctx context.Context) error {
	if m.App == nil {
		return errNoApp
	}
	n, err := m.App.Move(ctx, m.ID, m.After)
	if err != nil {
		return err
	}
	return printPage(ctx, m.App, n.Page, m.ShowID, m.Out)
}

func printPage(ctx context.Context, a *app.Service, name string, showID bool, out io.Writer) error {
	if out == nil {
		out = color.Output
	}
	p, roots, err := a.Page(ctx, name)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: out, ShowID: showID}
	if a.Toggler != nil {
		pp.Delimiters = a.Toggler.Delimiters
	}
	pp.NewLine()
	pp.Page(p, roots)
	return nil
}
