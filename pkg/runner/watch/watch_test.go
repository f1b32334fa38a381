package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/carry/pkg/change"
	"tableflip.dev/carry/pkg/feed"
	"tableflip.dev/carry/pkg/rollover"
	"tableflip.dev/carry/pkg/store"
)

// subscribed closes ready once the subscription is in place.
type subscribed struct {
	feed.Subscriber
	ready chan struct{}
}

func (s subscribed) Subscribe(ctx context.Context) (<-chan change.Batch, error) {
	ch, err := s.Subscriber.Subscribe(ctx)
	close(s.ready)
	return ch, err
}

func TestWatchRollsOverNewJournals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local := feed.NewLocal()
	st := store.New(store.NewMemoryKV(), store.WithPublisher(local))
	sub := subscribed{Subscriber: local, ready: make(chan struct{})}
	w := &Watch{Feed: sub, Rollover: rollover.New(st)}

	day := time.Date(2025, time.October, 10, 8, 0, 0, 0, time.Local)
	prev, err := st.CreateJournal(ctx, day)
	require.NoError(t, err)
	roots, err := st.TopLevelNodes(ctx, prev.Name)
	require.NoError(t, err)
	require.NoError(t, st.UpdateNode(ctx, roots[0].ID, "LATER water plants"))

	done := make(chan error, 1)
	go func() { done <- w.Do(ctx) }()
	<-sub.ready

	next, err := st.CreateJournal(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		roots, err := st.TopLevelNodes(ctx, next.Name)
		return err == nil && len(roots) > 0 && roots[0].Content == "LATER water plants"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchNeedsFeedAndRollover(t *testing.T) {
	st := store.New(store.NewMemoryKV())
	assert.Error(t, (&Watch{Rollover: rollover.New(st)}).Do(context.Background()))
	assert.Error(t, (&Watch{Feed: feed.NewLocal()}).Do(context.Background()))
}

