package rollover

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/change"
	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
)

// ErrMissingCursor means the destination page has no node to write into.
// A fresh journal page always has one, so this aborts the run.
var ErrMissingCursor = errors.New("rollover: destination has no nodes")

// Report summarizes one run.
type Report struct {
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Target   string `json:"target" yaml:"target"`
	Groups   int    `json:"groups" yaml:"groups"`
	Migrated int    `json:"migrated" yaml:"migrated"`
	Skipped  int    `json:"skipped" yaml:"skipped"`
}

// Service runs rollovers against a Backend, one at a time.
type Service struct {
	backend  Backend
	migrator *Migrator
	logger   *zap.Logger

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithDelimiters sets the highlight pair used to recognize group titles.
func WithDelimiters(d marker.Delimiters) Option {
	return func(s *Service) { s.migrator.Delimiters = d }
}

// New builds a Service on b.
func New(b Backend, opts ...Option) *Service {
	s := &Service{
		backend:  b,
		migrator: &Migrator{Backend: b, Delimiters: marker.DefaultDelimiters},
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Watch handles every batch from batches until the channel closes or ctx is
// done.
func (s *Service) Watch(ctx context.Context, batches <-chan change.Batch) {
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-batches:
			if !ok {
				return
			}
			s.HandleBatch(ctx, b)
		}
	}
}

// HandleBatch runs a rollover when b announces a new journal page. Failures
// are logged, never returned. The report is nil when nothing ran.
func (s *Service) HandleBatch(ctx context.Context, b change.Batch) *Report {
	created, ok := change.Classify(b)
	if !ok {
		return nil
	}
	log := s.logger.With(zap.String("target", created.Page), zap.Int("dateKey", created.DateKey))
	log.Debug("journal created")

	report, err := s.Carry(ctx, created.Page, created.DateKey)
	if err != nil {
		log.Error("rollover aborted", zap.Error(err))
		return report
	}
	if report.Source != "" {
		log.Info("rollover finished",
			zap.String("source", report.Source),
			zap.Int("migrated", report.Migrated),
			zap.Int("skipped", report.Skipped))
	}
	return report
}

// Carry moves unfinished groups from the journal preceding dateKey into
// target. Runs are serialized.
func (s *Service) Carry(ctx context.Context, target string, dateKey int) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &Report{Target: target}

	src, ok := s.SelectSource(ctx, dateKey)
	if !ok {
		return report, nil
	}
	report.Source = src.Name

	roots, err := s.backend.TopLevelNodes(ctx, src.Name)
	if err != nil {
		return report, fmt.Errorf("rollover: read %q: %w", src.Name, err)
	}
	groups := Groups(roots)
	report.Groups = len(groups)

	cursor, err := s.tail(ctx, target)
	if err != nil {
		return report, err
	}

	for _, g := range groups {
		if !g.HasIncomplete {
			report.Skipped++
			continue
		}
		if cursor, err = s.migrateGroup(ctx, target, g, cursor); err != nil {
			return report, err
		}
		report.Migrated++
	}

	if report.Migrated == 0 {
		return report, nil
	}
	if _, err := s.Cleanup(ctx, target); err != nil {
		return report, err
	}
	if _, err := s.Cleanup(ctx, src.Name); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Service) migrateGroup(ctx context.Context, target string, g Group, cursor *outline.Node) (*outline.Node, error) {
	if cursor == nil {
		return nil, ErrMissingCursor
	}
	var lefts []string
	fresh := cursor.IsEmpty() && cursor.Leaf()
	for _, n := range g.Nodes {
		r, err := s.migrator.MigrateAt(ctx, n, cursor, fresh, g.HasAnyDone)
		if err != nil {
			return nil, err
		}
		cursor, fresh = r.Cursor, r.Fresh
		if r.Deleted {
			lefts = append(lefts, n.Left)
		}
	}

	for _, left := range lefts {
		if err := s.dropSeparators(ctx, left); err != nil {
			return nil, err
		}
	}

	for i := 0; i < 2; i++ {
		if _, err := s.backend.AppendTopLevel(ctx, target, ""); err != nil {
			return nil, fmt.Errorf("rollover: append separator: %w", err)
		}
	}
	return s.tail(ctx, target)
}

// dropSeparators deletes empty childless nodes walking left from id.
func (s *Service) dropSeparators(ctx context.Context, id string) error {
	for id != "" {
		n, err := s.backend.Node(ctx, id)
		if errors.Is(err, outline.ErrNodeNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("rollover: read %s: %w", id, err)
		}
		if !n.IsEmpty() || !n.Leaf() {
			return nil
		}
		if err := s.backend.DeleteNode(ctx, n.ID); err != nil {
			return fmt.Errorf("rollover: delete separator %s: %w", n.ID, err)
		}
		id = n.Left
	}
	return nil
}

// tail re-reads the last top-level node of page.
func (s *Service) tail(ctx context.Context, page string) (*outline.Node, error) {
	roots, err := s.backend.TopLevelNodes(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("rollover: read %q: %w", page, err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingCursor, page)
	}
	return roots[len(roots)-1], nil
}

// Cleanup removes trailing empty childless top-level nodes from page and
// returns how many went.
func (s *Service) Cleanup(ctx context.Context, page string) (int, error) {
	removed := 0
	for {
		roots, err := s.backend.TopLevelNodes(ctx, page)
		if err != nil {
			return removed, fmt.Errorf("rollover: read %q: %w", page, err)
		}
		if len(roots) == 0 {
			return removed, nil
		}
		last := roots[len(roots)-1]
		if !last.IsEmpty() || !last.Leaf() {
			return removed, nil
		}
		if err := s.backend.DeleteNode(ctx, last.ID); err != nil {
			return removed, fmt.Errorf("rollover: trim %s: %w", last.ID, err)
		}
		removed++
	}
}
