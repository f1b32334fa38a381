// Package toggle cycles task markers and highlight delimiters on selected
// outline nodes.
package toggle

import (
	"context"
	"fmt"

	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
)

// Updater writes node content.
type Updater interface {
	UpdateNode(ctx context.Context, id, content string) error
}

// Selection is what a command acts on: several selected nodes, or the
// focused one.
type Selection struct {
	Selected []*outline.Node
	Focused  *outline.Node
}

// Nodes returns the multi-selection when it holds more than one node, else
// the focused node (or the lone selected node when nothing has focus). Nil
// entries are skipped.
func (s Selection) Nodes() []*outline.Node {
	selected := make([]*outline.Node, 0, len(s.Selected))
	for _, n := range s.Selected {
		if n != nil {
			selected = append(selected, n)
		}
	}
	if len(selected) > 1 {
		return selected
	}
	if s.Focused != nil {
		return []*outline.Node{s.Focused}
	}
	if len(selected) == 1 {
		return selected
	}
	return nil
}

// Toggler applies marker and highlight toggles through Backend.
type Toggler struct {
	Backend    Updater
	Workflow   marker.Workflow
	Delimiters marker.Delimiters
}

// ToggleMarker advances every node's marker along the workflow. A selection
// with differing markers is cleared instead.
func (t *Toggler) ToggleMarker(ctx context.Context, sel Selection) ([]*outline.Node, error) {
	nodes := sel.Nodes()
	if len(nodes) == 0 {
		return nil, nil
	}

	current := marker.Extract(nodes[0].Content)
	for _, n := range nodes[1:] {
		if marker.Extract(n.Content) != current {
			current = marker.Done
			break
		}
	}
	next := t.Workflow.Next(current)

	return t.apply(ctx, nodes, func(text string) string {
		return marker.Apply(next, marker.Strip(text))
	})
}

// ToggleHighlight wraps every node in the delimiters, or unwraps them all when
// they are already highlighted or disagree.
func (t *Toggler) ToggleHighlight(ctx context.Context, sel Selection) ([]*outline.Node, error) {
	nodes := sel.Nodes()
	if len(nodes) == 0 {
		return nil, nil
	}

	lit := 0
	for _, n := range nodes {
		if t.Delimiters.Highlighted(n.Content) {
			lit++
		}
	}
	wrap := lit == 0

	return t.apply(ctx, nodes, func(text string) string {
		if wrap {
			return t.Delimiters.Wrap(text)
		}
		return t.Delimiters.Unwrap(text)
	})
}

func (t *Toggler) apply(ctx context.Context, nodes []*outline.Node, edit func(string) string) ([]*outline.Node, error) {
	out := make([]*outline.Node, 0, len(nodes))
	for _, n := range nodes {
		text := edit(n.Content)
		if text == n.Content {
			out = append(out, n)
			continue
		}
		if err := t.Backend.UpdateNode(ctx, n.ID, text); err != nil {
			return out, fmt.Errorf("toggle: update %s: %w", n.ID, err)
		}
		n.Content = text
		out = append(out, n)
	}
	return out, nil
}
