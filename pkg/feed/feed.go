// Package feed delivers store change batches to the rollover engine, either
// in-process or across processes through a watched directory.
package feed

import (
	"context"
	"errors"

	"tableflip.dev/carry/pkg/change"
)

// Publisher accepts batches produced by a store transaction.
type Publisher interface {
	Publish(ctx context.Context, b change.Batch) error
}

// Subscriber streams batches until ctx is cancelled. The returned channel is
// closed once ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan change.Batch, error)
}

// Discard drops every batch.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, change.Batch) error { return nil }

// Multi publishes to each publisher in order and joins their errors.
func Multi(publishers ...Publisher) Publisher {
	return multi(publishers)
}

type multi []Publisher

func (m multi) Publish(ctx context.Context, b change.Batch) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
