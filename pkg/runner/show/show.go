// Package show prints a page outline.
package show

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/printers"
)

type Show struct {
	App        *app.Service
	Page       string
	Format     string
	ShowID     bool
	Open       bool
	Delimiters marker.Delimiters
	Out        io.Writer
}

type document struct {
	Page  *outline.Page   `json:"page" yaml:"page"`
	Nodes []*outline.Node `json:"nodes" yaml:"nodes"`
}

func (s *Show) Do(ctx context.Context) error {
	if s.App == nil {
		return errors.New("can not show, no app")
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}

	name := s.App.ResolvePage(s.Page)
	if s.Open {
		return s.open(ctx, name, out)
	}

	p, roots, err := s.App.Page(ctx, name)
	if err != nil {
		return err
	}
	if s.Format != printers.FormatPretty {
		return printers.Encode(out, s.Format, document{Page: p, Nodes: roots})
	}

	pp := printers.PrettyPrint{Out: out, ShowID: s.ShowID, Delimiters: s.Delimiters}
	pp.NewLine()
	pp.Page(p, roots)
	return nil
}

type openItem struct {
	ID      string   `json:"id" yaml:"id"`
	Marker  string   `json:"marker" yaml:"marker"`
	Content string   `json:"content" yaml:"content"`
	Path    []string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (s *Show) open(ctx context.Context, name string, out io.Writer) error {
	items, err := s.App.Open(ctx, name)
	if err != nil {
		return err
	}
	if s.Format != printers.FormatPretty {
		docs := make([]openItem, 0, len(items))
		for _, it := range items {
			docs = append(docs, openItem{ID: it.Node.ID, Marker: it.Marker.String(), Content: it.Node.Content, Path: it.Path})
		}
		return printers.Encode(out, s.Format, docs)
	}

	pp := printers.PrettyPrint{Out: out, ShowID: s.ShowID, Delimiters: s.Delimiters}
	pp.NewLine()
	pp.TitleWithCount(name, len(items))
	nodes := make([]*outline.Node, 0, len(items))
	for _, it := range items {
		c := *it.Node
		if len(it.Path) > 0 {
			c.Content = marker.Apply(it.Marker, strings.Join(append(it.Path, marker.Strip(c.Content)), " › "))
		}
		nodes = append(nodes, &c)
	}
	pp.Nodes(nodes...)
	return nil
}
