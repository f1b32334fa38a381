package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/carry/pkg/rollover"
)

// Rollover prints the outcome of a rollover run.
func (pp *PrettyPrint) Rollover(r *rollover.Report) {
	if r == nil {
		return
	}
	f := color.New(color.Faint, color.Italic)
	if r.Source == "" {
		_, _ = f.Fprintf(pp.out(), "nothing to carry into %s\n", r.Target)
		return
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("from"), r.Source)
	tbl.AddRow(bold.Sprint("into"), r.Target)
	tbl.AddRow(bold.Sprint("groups"), r.Groups)
	tbl.AddRow(bold.Sprint("carried"), r.Migrated)
	tbl.AddRow(bold.Sprint("left"), r.Skipped)
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}
