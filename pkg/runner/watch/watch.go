// Package watch runs the rollover engine against the change feed until
// interrupted.
package watch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/feed"
	"tableflip.dev/carry/pkg/rollover"
)

type Watch struct {
	Feed     feed.Subscriber
	Rollover *rollover.Service
	Logger   *zap.Logger
}

// Do blocks until ctx is done or the feed closes.
func (w *Watch) Do(ctx context.Context) error {
	if w.Feed == nil {
		return errors.New("watch: no change feed configured")
	}
	if w.Rollover == nil {
		return errors.New("watch: rollover is disabled")
	}
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}

	batches, err := w.Feed.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("watch: subscribe: %w", err)
	}
	log.Info("watching for new journals")
	w.Rollover.Watch(ctx, batches)
	log.Info("watch stopped")
	return nil
}
