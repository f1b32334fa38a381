package app

import (
	"context"
	"fmt"

	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/rollover"
)

// Carry runs a rollover into the journal page target. Unlike the automatic
// run, failures are returned.
func (s *Service) Carry(ctx context.Context, target string) (*rollover.Report, error) {
	if s.Store == nil {
		return nil, ErrNoStore
	}
	if s.Rollover == nil {
		return nil, fmt.Errorf("app: rollover disabled")
	}
	p, err := s.Store.Page(ctx, target)
	if err != nil {
		return nil, err
	}
	if !p.Journal {
		return nil, fmt.Errorf("%w: %q", ErrNotJournal, target)
	}
	return s.Rollover.Carry(ctx, p.Name, p.DateKey)
}

// OpenItem is a pending task found on a page.
type OpenItem struct {
	Node   *outline.Node
	Marker marker.Marker
	Path   []string
}

// Open lists the pending tasks on page, depth first, with the contents of
// their ancestors.
func (s *Service) Open(ctx context.Context, page string) ([]OpenItem, error) {
	_, roots, err := s.Page(ctx, page)
	if err != nil {
		return nil, err
	}
	var out []OpenItem
	var visit func(n *outline.Node, path []string)
	visit = func(n *outline.Node, path []string) {
		m := marker.Extract(n.Content)
		if m.Terminal() {
			return
		}
		if m.Pending() {
			out = append(out, OpenItem{Node: n, Marker: m, Path: append([]string(nil), path...)})
		}
		for _, c := range n.Children {
			visit(c, append(path, n.Content))
		}
	}
	for _, r := range roots {
		visit(r, nil)
	}
	return out, nil
}
