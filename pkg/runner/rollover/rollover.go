// Package rollover runs a rollover into a named journal on demand.
package rollover

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/printers"
)

type Rollover struct {
	App    *app.Service
	Page   string
	Format string
	Out    io.Writer
}

func (r *Rollover) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("can not roll over, no app")
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}
	report, err := r.App.Carry(ctx, r.App.ResolvePage(r.Page))
	if err != nil {
		return err
	}
	if r.Format != printers.FormatPretty {
		return printers.Encode(out, r.Format, report)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.Rollover(report)
	return nil
}
