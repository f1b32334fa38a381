package rollover

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tableflip.dev/carry/pkg/change"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/store"
)

var (
	sourceDay = time.Date(2025, time.October, 10, 9, 0, 0, 0, time.Local)
	targetDay = time.Date(2025, time.October, 11, 9, 0, 0, 0, time.Local)
)

// item describes an outline to seed: text plus children.
type item struct {
	text string
	kids []item
}

func leaf(text string) item { return item{text: text} }

func tree(text string, kids ...item) item { return item{text: text, kids: kids} }

type capture struct {
	mu      sync.Mutex
	batches []change.Batch
}

func (c *capture) Publish(_ context.Context, b change.Batch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, b)
	return nil
}

func (c *capture) last() change.Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches[len(c.batches)-1]
}

type fixture struct {
	store  *store.Store
	feed   *capture
	source *outline.Page
}

func newFixture(t *testing.T, source ...item) *fixture {
	t.Helper()
	f := &fixture{feed: &capture{}}
	f.store = store.New(store.NewMemoryKV(), store.WithPublisher(f.feed))
	f.source = f.journal(t, sourceDay, source...)
	return f
}

// journal creates the journal page for day and fills it with items. The
// page's initial empty node takes the first item.
func (f *fixture) journal(t *testing.T, day time.Time, items ...item) *outline.Page {
	t.Helper()
	ctx := context.Background()
	p, err := f.store.CreateJournal(ctx, day)
	require.NoError(t, err)
	if len(items) == 0 {
		return p
	}
	roots, err := f.store.TopLevelNodes(ctx, p.Name)
	require.NoError(t, err)
	first := roots[0]
	require.NoError(t, f.store.UpdateNode(ctx, first.ID, items[0].text))
	f.children(t, first.ID, items[0].kids)
	for _, it := range items[1:] {
		n, err := f.store.AppendTopLevel(ctx, p.Name, it.text)
		require.NoError(t, err)
		f.children(t, n.ID, it.kids)
	}
	return p
}

func (f *fixture) children(t *testing.T, parent string, items []item) {
	t.Helper()
	for _, it := range items {
		n, err := f.store.AppendChild(context.Background(), parent, it.text)
		require.NoError(t, err)
		f.children(t, n.ID, it.kids)
	}
}

// create makes the target journal and returns its creation batch.
func (f *fixture) create(t *testing.T) (*outline.Page, change.Batch) {
	t.Helper()
	p := f.journal(t, targetDay)
	return p, f.feed.last()
}

func (f *fixture) dump(t *testing.T, page string) []item {
	t.Helper()
	roots, err := f.store.TopLevelNodes(context.Background(), page)
	require.NoError(t, err)
	return items(roots)
}

func items(nodes []*outline.Node) []item {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]item, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, item{text: n.Content, kids: items(n.Children)})
	}
	return out
}
