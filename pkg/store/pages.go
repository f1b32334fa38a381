package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/carry/pkg/change"
	"tableflip.dev/carry/pkg/outline"
)

// Page returns the named page.
func (s *Store) Page(_ context.Context, name string) (*outline.Page, error) {
	return s.readPage(name)
}

// Pages lists every page, journals first by date key descending, then the
// remaining pages by name.
func (s *Store) Pages(ctx context.Context) ([]*outline.Page, error) {
	done := make(chan struct{})
	defer close(done)

	pages := make([]*outline.Page, 0)
	for key := range s.kv.KeysPrefix(pagePrefix, done) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(key, pagePrefix))
		if err != nil {
			s.logger.Sugar().Warnf("skipping page key %s: %v", key, err)
			continue
		}
		p, err := s.readPage(string(raw))
		if err != nil {
			if errors.Is(err, outline.ErrPageNotFound) {
				continue
			}
			return nil, err
		}
		pages = append(pages, p)
	}
	sort.SliceStable(pages, func(i, j int) bool {
		left, right := pages[i], pages[j]
		switch {
		case left.Journal && right.Journal:
			return left.DateKey > right.DateKey
		case left.Journal != right.Journal:
			return left.Journal
		default:
			return left.Name < right.Name
		}
	})
	return pages, nil
}

// Journals lists journal pages, most recent first.
func (s *Store) Journals(ctx context.Context) ([]*outline.Page, error) {
	all, err := s.Pages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*outline.Page, 0, len(all))
	for _, p := range all {
		if p.Journal {
			out = append(out, p)
		}
	}
	return out, nil
}

// JournalsBefore returns every journal page with a date key strictly less
// than dateKey.
func (s *Store) JournalsBefore(ctx context.Context, dateKey int) ([]*outline.Page, error) {
	all, err := s.Journals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*outline.Page, 0, len(all))
	for _, p := range all {
		if p.DateKey < dateKey {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreatePage creates a plain page holding a single empty node.
func (s *Store) CreatePage(ctx context.Context, name string) (*outline.Page, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("store: page name required")
	}
	return s.createPage(ctx, &outline.Page{Name: name})
}

// CreateJournal creates the journal page for the day containing day. At most
// one journal exists per date key.
func (s *Store) CreateJournal(ctx context.Context, day time.Time) (*outline.Page, error) {
	p := outline.NewJournal(day)
	existing, err := s.Journals(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.DateKey == p.DateKey {
			return e, fmt.Errorf("%w: %s", ErrJournalExists, e.Name)
		}
	}
	return s.createPage(ctx, p)
}

func (s *Store) createPage(ctx context.Context, p *outline.Page) (*outline.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readPage(p.Name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrPageExists, p.Name)
	} else if !errors.Is(err, outline.ErrPageNotFound) {
		return nil, err
	}

	at := s.now()
	p.Created = at
	p.Updated = at
	if err := s.writePage(p); err != nil {
		return nil, err
	}

	first := &outline.Node{
		ID:      s.newID(),
		Page:    p.Name,
		Created: at,
		Updated: at,
	}
	if err := s.writeNode(first); err != nil {
		return nil, err
	}

	b := change.Batch{}
	b.Set(p.Name, change.AttrUpdatedAt, at.Millis())
	b.Set(p.Name, change.AttrCreatedAt, at.Millis())
	b.Set(p.Name, change.AttrName, p.Name)
	if p.Journal {
		b.Set(p.Name, change.AttrJournal, true)
		b.Set(p.Name, change.AttrJournalDay, p.DateKey)
	}
	b.Touch(pageTouched(p))
	nodeRecords(&b, first)
	s.publish(ctx, b)
	return p, nil
}

// DeletePage removes a page and all of its nodes.
func (s *Store) DeletePage(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.readPage(name)
	if err != nil {
		return err
	}
	nodes, err := s.pageNodes(ctx, name)
	if err != nil {
		return err
	}
	b := change.Batch{}
	for _, n := range nodes {
		if err := s.eraseNode(n.ID); err != nil {
			return err
		}
		b.Retract(n.ID, change.AttrContent, n.Content)
	}
	if err := s.kv.Erase(pageKey(name)); err != nil && !isNotFound(err) {
		return err
	}
	b.Retract(p.Name, change.AttrName, p.Name)
	b.Touch(pageTouched(p))
	s.publish(ctx, b)
	return nil
}

// Tree returns a page with its full outline.
func (s *Store) Tree(ctx context.Context, name string) (*outline.Page, []*outline.Node, error) {
	p, err := s.readPage(name)
	if err != nil {
		return nil, nil, err
	}
	roots, err := s.TopLevelNodes(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return p, roots, nil
}
