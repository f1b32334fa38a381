// Package journals lists journal pages with a month calendar.
package journals

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/printers"
)

type Journals struct {
	App    *app.Service
	Format string
	// Month picks the calendar shown; zero means the current month.
	Month time.Time
	Out   io.Writer
}

func (j *Journals) Do(ctx context.Context) error {
	if j.App == nil {
		return errors.New("can not list journals, no app")
	}
	out := j.Out
	if out == nil {
		out = color.Output
	}

	pages, err := j.App.Journals(ctx)
	if err != nil {
		return err
	}
	tallies, err := j.App.Report(ctx, names(pages)...)
	if err != nil {
		return err
	}
	if j.Format != printers.FormatPretty {
		return printers.Encode(out, j.Format, tallies)
	}

	month := j.Month
	if month.IsZero() {
		month = time.Now()
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.Calendar(month, pages...)
	pp.NewLine()
	for _, t := range tallies {
		pp.TitleWithCount(t.Page, t.Pending)
	}
	return nil
}

func names(pages []*outline.Page) []string {
	n := make([]string, 0, len(pages))
	for _, p := range pages {
		n = append(n, p.Name)
	}
	return n
}
