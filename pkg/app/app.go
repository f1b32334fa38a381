package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/keymap"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/rollover"
	"tableflip.dev/carry/pkg/store"
	"tableflip.dev/carry/pkg/toggle"
)

// Service provides high-level operations on journal pages and nodes.
// It wraps the store, the rollover engine and the toggles so the CLI and the
// MCP server share logic.
type Service struct {
	Store    *store.Store
	Rollover *rollover.Service
	Toggler  *toggle.Toggler
	Keymap   *keymap.Map
	Logger   *zap.Logger

	// Inline runs a rollover right after CreateJournal. Leave it off when a
	// feed subscriber already reacts to journal creation.
	Inline bool
	// Clock defaults to time.Now.
	Clock func() time.Time
}

var (
	ErrNoStore     = errors.New("app: no store configured")
	ErrNotJournal  = errors.New("app: page is not a journal")
	ErrNoSelection = errors.New("app: no nodes selected")
)

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// CreateJournal creates the journal page for day. If one exists it is
// returned as is. The report is non-nil when an inline rollover ran.
func (s *Service) CreateJournal(ctx context.Context, day time.Time) (*outline.Page, *rollover.Report, error) {
	if s.Store == nil {
		return nil, nil, ErrNoStore
	}
	p, err := s.Store.CreateJournal(ctx, day)
	if errors.Is(err, store.ErrJournalExists) {
		return p, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if !s.Inline || s.Rollover == nil {
		return p, nil, nil
	}
	report, err := s.Rollover.Carry(ctx, p.Name, p.DateKey)
	if err != nil {
		s.logger().Error("rollover aborted", zap.String("target", p.Name), zap.Error(err))
	}
	return p, report, nil
}

// Today returns today's journal, creating it when missing.
func (s *Service) Today(ctx context.Context) (*outline.Page, *rollover.Report, error) {
	return s.CreateJournal(ctx, s.now())
}

// CreatePage creates a plain page.
func (s *Service) CreatePage(ctx context.Context, name string) (*outline.Page, error) {
	if s.Store == nil {
		return nil, ErrNoStore
	}
	return s.Store.CreatePage(ctx, name)
}

// Where says where Add puts a node.
type Where struct {
	// Parent appends as the last child of this node.
	Parent string
	// After inserts right after this node.
	After string
}

// Add writes content onto page. When the page ends in an empty node and no
// position is given, that node is filled instead of appending.
func (s *Service) Add(ctx context.Context, page, content string, at Where) (*outline.Node, error) {
	if s.Store == nil {
		return nil, ErrNoStore
	}
	switch {
	case at.After != "":
		return s.Store.InsertSibling(ctx, at.After, content)
	case at.Parent != "":
		return s.Store.AppendChild(ctx, at.Parent, content)
	}

	roots, err := s.Store.TopLevelNodes(ctx, page)
	if err != nil {
		return nil, err
	}
	if n := len(roots); n > 0 && roots[n-1].IsEmpty() && roots[n-1].Leaf() {
		last := roots[n-1]
		if err := s.Store.UpdateNode(ctx, last.ID, content); err != nil {
			return nil, err
		}
		last.Content = content
		return last, nil
	}
	return s.Store.AppendTopLevel(ctx, page, content)
}

// Edit replaces the content of id.
func (s *Service) Edit(ctx context.Context, id, content string) (*outline.Node, error) {
	if s.Store == nil {
		return nil, ErrNoStore
	}
	if err := s.Store.UpdateNode(ctx, id, content); err != nil {
		return nil, err
	}
	return s.Store.Node(ctx, id)
}

// Delete removes id and its subtree.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.Store == nil {
		return ErrNoStore
	}
	return s.Store.DeleteNode(ctx, id)
}

// Move places id (with its subtree) right after another node.
func (s *Service) Move(ctx context.Context, id, after string) (*outline.Node, error) {
	if s.Store == nil {
		return nil, ErrNoStore
	}
	if err := s.Store.MoveNode(ctx, id, after); err != nil {
		return nil, err
	}
	return s.Store.Node(ctx, id)
}

// Page returns a page and its outline.
func (s *Service) Page(ctx context.Context, name string) (*outline.Page, []*outline.Node, error) {
	if s.Store == nil {
		return nil, nil, ErrNoStore
	}
	return s.Store.Tree(ctx, name)
}

// Pages lists all pages, journals first.
func (s *Service) Pages(ctx context.Context) ([]*outline.Page, error) {
	if s.Store == nil {
		return nil, ErrNoStore
	}
	return s.Store.Pages(ctx)
}

// Journals lists journal pages, most recent first.
func (s *Service) Journals(ctx context.Context) ([]*outline.Page, error) {
	if s.Store == nil {
		return nil, ErrNoStore
	}
	return s.Store.Journals(ctx)
}

// ResolvePage accepts a page name, a date ("2025-10-11"), "today" or
// "yesterday" and returns the matching page name.
func (s *Service) ResolvePage(name string) string {
	trimmed := strings.TrimSpace(name)
	switch strings.ToLower(trimmed) {
	case "", "today":
		return outline.JournalName(s.now())
	case "yesterday":
		return outline.JournalName(s.now().AddDate(0, 0, -1))
	}
	if t, err := time.ParseInLocation("2006-01-02", trimmed, time.Local); err == nil {
		return outline.JournalName(t)
	}
	return trimmed
}

func (s *Service) selection(ctx context.Context, ids []string) (toggle.Selection, error) {
	if s.Store == nil {
		return toggle.Selection{}, ErrNoStore
	}
	if len(ids) == 0 {
		return toggle.Selection{}, ErrNoSelection
	}
	nodes := make([]*outline.Node, 0, len(ids))
	for _, id := range ids {
		n, err := s.Store.Node(ctx, id)
		if err != nil {
			return toggle.Selection{}, err
		}
		nodes = append(nodes, n)
	}
	sel := toggle.Selection{Selected: nodes}
	if len(nodes) == 1 {
		sel.Focused = nodes[0]
	}
	return sel, nil
}

func (s *Service) toggler() *toggle.Toggler {
	if s.Toggler != nil {
		return s.Toggler
	}
	return &toggle.Toggler{Backend: s.Store}
}

// ToggleMarker cycles the task marker of the given nodes.
func (s *Service) ToggleMarker(ctx context.Context, ids ...string) ([]*outline.Node, error) {
	sel, err := s.selection(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.toggler().ToggleMarker(ctx, sel)
}

// ToggleHighlight wraps or unwraps the given nodes in the highlight delimiters.
func (s *Service) ToggleHighlight(ctx context.Context, ids ...string) ([]*outline.Node, error) {
	sel, err := s.selection(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.toggler().ToggleHighlight(ctx, sel)
}

// Press runs the action bound to binding on the given nodes.
func (s *Service) Press(ctx context.Context, binding string, ids ...string) (keymap.Action, []*outline.Node, error) {
	km := s.Keymap
	if km == nil {
		var err error
		if km, err = keymap.New(nil); err != nil {
			return keymap.Action{}, nil, err
		}
	}
	a, ok := km.Lookup(binding)
	if !ok {
		return keymap.Action{}, nil, fmt.Errorf("app: nothing bound to %q", binding)
	}
	var (
		nodes []*outline.Node
		err   error
	)
	switch a.Key {
	case keymap.ToggleMarker:
		nodes, err = s.ToggleMarker(ctx, ids...)
	case keymap.ToggleHighlight:
		nodes, err = s.ToggleHighlight(ctx, ids...)
	default:
		err = fmt.Errorf("app: no handler for %s", a.Key)
	}
	return a, nodes, err
}
