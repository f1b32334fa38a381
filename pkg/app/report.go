package app

import (
	"context"

	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
)

// Tally counts the nodes of a page by kind.
type Tally struct {
	Page        string `json:"page" yaml:"page"`
	Pending     int    `json:"pending" yaml:"pending"`
	Done        int    `json:"done" yaml:"done"`
	Notes       int    `json:"notes" yaml:"notes"`
	Highlighted int    `json:"highlighted" yaml:"highlighted"`
	Groups      int    `json:"groups" yaml:"groups"`
}

// Report tallies each page named, or every journal when none are.
func (s *Service) Report(ctx context.Context, pages ...string) ([]Tally, error) {
	if len(pages) == 0 {
		journals, err := s.Journals(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range journals {
			pages = append(pages, p.Name)
		}
	}
	delims := marker.DefaultDelimiters
	if s.Toggler != nil {
		delims = s.Toggler.Delimiters
	}

	out := make([]Tally, 0, len(pages))
	for _, name := range pages {
		_, roots, err := s.Page(ctx, name)
		if err != nil {
			return nil, err
		}
		t := Tally{Page: name}
		inGroup := false
		for _, r := range roots {
			if r.IsEmpty() {
				inGroup = false
			} else if !inGroup {
				inGroup = true
				t.Groups++
			}
			r.Walk(func(n *outline.Node) bool {
				if n.IsEmpty() {
					return true
				}
				m := marker.Extract(n.Content)
				switch {
				case m.Terminal():
					t.Done++
				case m.Pending():
					t.Pending++
				default:
					t.Notes++
				}
				if delims.Highlighted(n.Content) {
					t.Highlighted++
				}
				return true
			})
		}
		out = append(out, t)
	}
	return out, nil
}
