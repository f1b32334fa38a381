// Package mcp provides the Model Context Protocol server integration for carry.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/rollover"
)

// Service adapts the application service to transport-friendly values.
type Service struct {
	App        *app.Service
	Delimiters marker.Delimiters
}

// NewService builds a service wrapper around a.
func NewService(a *app.Service) *Service {
	s := &Service{App: a, Delimiters: marker.DefaultDelimiters}
	if a != nil && a.Toggler != nil {
		s.Delimiters = a.Toggler.Delimiters
	}
	return s
}

// NodeDTO is a transport-friendly projection of a node.
type NodeDTO struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Marker      string    `json:"marker,omitempty"`
	Highlighted bool      `json:"highlighted,omitempty"`
	Updated     string    `json:"updated,omitempty"`
	Children    []NodeDTO `json:"children,omitempty"`
}

// PageDTO is a page with its outline.
type PageDTO struct {
	Name    string    `json:"name"`
	Journal bool      `json:"journal"`
	DateKey int       `json:"dateKey,omitempty"`
	Created string    `json:"created,omitempty"`
	Updated string    `json:"updated,omitempty"`
	Nodes   []NodeDTO `json:"nodes"`
}

// JournalSummary describes a journal page with open and finished counts.
type JournalSummary struct {
	Name    string `json:"name"`
	DateKey int    `json:"dateKey"`
	Pending int    `json:"pending"`
	Done    int    `json:"done"`
}

// CreateJournalResult reports the page and any rollover that ran.
type CreateJournalResult struct {
	Page     PageDTO          `json:"page"`
	Rollover *rollover.Report `json:"rollover,omitempty"`
}

func (s *Service) app() (*app.Service, error) {
	if s.App == nil {
		return nil, errors.New("application service is not configured")
	}
	return s.App, nil
}

func (s *Service) node(n *outline.Node) NodeDTO {
	dto := NodeDTO{
		ID:          n.ID,
		Content:     n.Content,
		Marker:      marker.Extract(n.Content).String(),
		Highlighted: s.Delimiters.Highlighted(n.Content),
	}
	if !n.Updated.IsZero() {
		dto.Updated = outline.FormatTime(n.Updated.Time)
	}
	for _, c := range n.Children {
		dto.Children = append(dto.Children, s.node(c))
	}
	return dto
}

func (s *Service) page(p *outline.Page, roots []*outline.Node) PageDTO {
	dto := PageDTO{Name: p.Name, Journal: p.Journal, DateKey: p.DateKey, Nodes: []NodeDTO{}}
	if !p.Created.IsZero() {
		dto.Created = outline.FormatTime(p.Created.Time)
	}
	if !p.Updated.IsZero() {
		dto.Updated = outline.FormatTime(p.Updated.Time)
	}
	for _, r := range roots {
		dto.Nodes = append(dto.Nodes, s.node(r))
	}
	return dto
}

// ListJournals summarizes every journal page, most recent first.
func (s *Service) ListJournals(ctx context.Context) ([]JournalSummary, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	journals, err := a.Journals(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(journals))
	for _, p := range journals {
		names = append(names, p.Name)
	}
	tallies, err := a.Report(ctx, names...)
	if err != nil {
		return nil, err
	}
	out := make([]JournalSummary, 0, len(journals))
	for i, p := range journals {
		out = append(out, JournalSummary{
			Name:    p.Name,
			DateKey: p.DateKey,
			Pending: tallies[i].Pending,
			Done:    tallies[i].Done,
		})
	}
	return out, nil
}

// ShowPage returns the named page. Dates and "today" are accepted.
func (s *Service) ShowPage(ctx context.Context, name string) (PageDTO, error) {
	a, err := s.app()
	if err != nil {
		return PageDTO{}, err
	}
	p, roots, err := a.Page(ctx, a.ResolvePage(name))
	if err != nil {
		return PageDTO{}, err
	}
	return s.page(p, roots), nil
}

// CreateJournal creates the journal for date (YYYY-MM-DD, empty for today).
func (s *Service) CreateJournal(ctx context.Context, date string) (CreateJournalResult, error) {
	a, err := s.app()
	if err != nil {
		return CreateJournalResult{}, err
	}
	day := time.Now()
	if strings.TrimSpace(date) != "" {
		if day, err = time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.Local); err != nil {
			return CreateJournalResult{}, fmt.Errorf("invalid date %q: %w", date, err)
		}
	}
	p, report, err := a.CreateJournal(ctx, day)
	if err != nil {
		return CreateJournalResult{}, err
	}
	dto, err := s.ShowPage(ctx, p.Name)
	if err != nil {
		return CreateJournalResult{}, err
	}
	return CreateJournalResult{Page: dto, Rollover: report}, nil
}

// AddNodeOptions captures the parameters used to add a node.
type AddNodeOptions struct {
	Page    string
	Content string
	Parent  string
	After   string
}

// AddNode writes a node onto a page.
func (s *Service) AddNode(ctx context.Context, opts AddNodeOptions) (NodeDTO, error) {
	a, err := s.app()
	if err != nil {
		return NodeDTO{}, err
	}
	n, err := a.Add(ctx, a.ResolvePage(opts.Page), opts.Content, app.Where{Parent: opts.Parent, After: opts.After})
	if err != nil {
		return NodeDTO{}, err
	}
	return s.node(n), nil
}

// ToggleMarker cycles the marker of ids.
func (s *Service) ToggleMarker(ctx context.Context, ids []string) ([]NodeDTO, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	nodes, err := a.ToggleMarker(ctx, ids...)
	if err != nil {
		return nil, err
	}
	return s.nodes(nodes), nil
}

// ToggleHighlight wraps or unwraps ids.
func (s *Service) ToggleHighlight(ctx context.Context, ids []string) ([]NodeDTO, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	nodes, err := a.ToggleHighlight(ctx, ids...)
	if err != nil {
		return nil, err
	}
	return s.nodes(nodes), nil
}

// Rollover carries unfinished work into the journal page.
func (s *Service) Rollover(ctx context.Context, page string) (*rollover.Report, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	return a.Carry(ctx, a.ResolvePage(page))
}

func (s *Service) nodes(nodes []*outline.Node) []NodeDTO {
	out := make([]NodeDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, s.node(n))
	}
	return out
}
