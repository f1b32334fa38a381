// Package journal opens the journal page for a day.
package journal

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/printers"
	"tableflip.dev/carry/pkg/rollover"
)

// Journal creates the journal for On when it is missing and prints it. A
// rollover that ran as part of the creation is printed first.
type Journal struct {
	App    *app.Service
	On     time.Time
	Format string
	ShowID bool
	Out    io.Writer
}

type document struct {
	Page     string           `json:"page" yaml:"page"`
	DateKey  int              `json:"dateKey" yaml:"dateKey"`
	Rollover *rollover.Report `json:"rollover,omitempty" yaml:"rollover,omitempty"`
}

func (j *Journal) Do(ctx context.Context) error {
	if j.App == nil {
		return errors.New("can not open journal, no app")
	}
	out := j.Out
	if out == nil {
		out = color.Output
	}
	on := j.On
	if on.IsZero() {
		on = time.Now()
	}

	p, report, err := j.App.CreateJournal(ctx, on)
	if err != nil {
		return err
	}
	if j.Format != printers.FormatPretty {
		return printers.Encode(out, j.Format, document{Page: p.Name, DateKey: p.DateKey, Rollover: report})
	}

	_, roots, err := j.App.Page(ctx, p.Name)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: out, ShowID: j.ShowID}
	if j.App.Toggler != nil {
		pp.Delimiters = j.App.Toggler.Delimiters
	}
	pp.NewLine()
	if report != nil {
		pp.Rollover(report)
		pp.NewLine()
	}
	pp.Page(p, roots)
	return nil
}
