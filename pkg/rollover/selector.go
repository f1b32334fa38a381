package rollover

import (
	"context"

	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/outline"
)

// SelectSource returns the journal page with the greatest date key below
// dateKey. A failing query is logged and treated as no source.
func (s *Service) SelectSource(ctx context.Context, dateKey int) (*outline.Page, bool) {
	pages, err := s.backend.JournalsBefore(ctx, dateKey)
	if err != nil {
		s.logger.Warn("QueryFailure: journals before",
			zap.Int("dateKey", dateKey), zap.Error(err))
		return nil, false
	}
	var best *outline.Page
	for _, p := range pages {
		if p == nil || p.DateKey >= dateKey {
			continue
		}
		if best == nil || p.DateKey > best.DateKey {
			best = p
		}
	}
	return best, best != nil
}
