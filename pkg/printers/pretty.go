package printers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
)

// ColorFor turns color output off unless f is a terminal.
func ColorFor(f *os.File) {
	fd := f.Fd()
	color.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

type PrettyPrint struct {
	Out        io.Writer
	ShowID     bool
	Width      int
	Delimiters marker.Delimiters
}

var (
	spacing = strings.Repeat(" ", len("1f6b7c1e-0b9a-4c55-8b1e-5a1f3c3c6e21  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " open task")
	default:
		_, _ = c.Fprintln(pp.out(), " open tasks")
	}
}

// Page prints the outline of a page under its title.
func (pp *PrettyPrint) Page(p *outline.Page, roots []*outline.Node) {
	open := 0
	for _, r := range roots {
		r.Walk(func(n *outline.Node) bool {
			if marker.Extract(n.Content).Pending() {
				open++
			}
			return true
		})
	}
	pp.TitleWithCount(p.Name, open)

	if len(roots) == 0 || (len(roots) == 1 && roots[0].IsEmpty() && roots[0].Leaf()) {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = fmt.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " empty\n\n")
		return
	}
	for _, r := range roots {
		pp.node(r, 0)
	}
	pp.NewLine()
}

// Nodes prints nodes flat, one per line.
func (pp *PrettyPrint) Nodes(nodes ...*outline.Node) {
	for _, n := range nodes {
		c := *n
		c.Children = nil
		pp.node(&c, 0)
	}
}

func (pp *PrettyPrint) node(n *outline.Node, depth int) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	if pp.ShowID {
		_, _ = y.Fprint(pp.out(), n.ID)
		if pad := len(spacing) - len(n.ID); pad > 0 {
			_, _ = fmt.Fprint(pp.out(), strings.Repeat(" ", pad))
		}
	}

	m := marker.Extract(n.Content)
	style := color.New()
	switch {
	case m.Terminal():
		style = color.New(color.Faint)
	case pp.Delimiters.Highlighted(n.Content):
		style = color.New(color.Bold)
	}

	lead := strings.Repeat("  ", depth)
	text := marker.Strip(n.Content)
	if text == "" && m == marker.None {
		_, _ = fmt.Fprintln(pp.out())
	} else {
		body := wordwrap.String(text, pp.width()-len(lead)-2)
		lines := strings.SplitN(body, "\n", 2)
		_, _ = style.Fprintf(pp.out(), "%s%s %s\n", lead, m.Symbol(), lines[0])
		if len(lines) > 1 {
			rest := indent.String(lines[1], uint(len(lead)+2))
			if pp.ShowID {
				rest = indent.String(rest, uint(len(spacing)))
			}
			_, _ = style.Fprintln(pp.out(), rest)
		}
	}

	for _, c := range n.Children {
		pp.node(c, depth+1)
	}
}
