package feed

import (
	"context"
	"sync"

	"tableflip.dev/carry/pkg/change"
)

// Local fans batches out to in-process subscribers. Each subscriber gets an
// unbounded queue so a slow consumer, including one that publishes while
// handling a batch, never blocks the publisher or loses a batch.
type Local struct {
	mu   sync.Mutex
	seq  uint64
	next int
	subs map[int]*queue
}

// NewLocal returns an empty in-process feed.
func NewLocal() *Local {
	return &Local{subs: make(map[int]*queue)}
}

// Publish implements Publisher.
func (l *Local) Publish(_ context.Context, b change.Batch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	if b.Seq == 0 {
		b.Seq = l.seq
	}
	for _, q := range l.subs {
		q.push(b)
	}
	return nil
}

// Subscribe implements Subscriber.
func (l *Local) Subscribe(ctx context.Context) (<-chan change.Batch, error) {
	q := &queue{signal: make(chan struct{}, 1)}

	l.mu.Lock()
	if l.subs == nil {
		l.subs = make(map[int]*queue)
	}
	id := l.next
	l.next++
	l.subs[id] = q
	l.mu.Unlock()

	out := make(chan change.Batch)
	go func() {
		defer close(out)
		defer func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		}()
		for {
			for _, b := range q.drain() {
				select {
				case out <- b:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-q.signal:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

type queue struct {
	mu     sync.Mutex
	items  []change.Batch
	signal chan struct{}
}

func (q *queue) push(b change.Batch) {
	q.mu.Lock()
	q.items = append(q.items, b)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *queue) drain() []change.Batch {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
