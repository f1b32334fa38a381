package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/carry/pkg/change"
	"tableflip.dev/carry/pkg/outline"
)

type recorder struct {
	mu      sync.Mutex
	batches []change.Batch
}

func (r *recorder) Publish(_ context.Context, b change.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, b)
	return nil
}

func (r *recorder) last() change.Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[len(r.batches)-1]
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%03d", n)
	}
}

func drivers(t *testing.T) map[string]KV {
	t.Helper()
	out := map[string]KV{DriverMemory: NewMemoryKV()}

	d, err := NewDiskvKV(t.TempDir())
	require.NoError(t, err)
	out[DriverDiskv] = d

	if s, err := NewSQLiteKV(t.TempDir()); err == nil {
		t.Cleanup(func() { _ = s.Close() })
		out[DriverSQLite] = s
	} else {
		t.Logf("sqlite driver unavailable: %v", err)
	}
	return out
}

func contents(nodes []*outline.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Content)
	}
	return out
}

func TestCreateJournal(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, time.October, 11, 9, 0, 0, 0, time.Local)

	for name, kv := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			rec := &recorder{}
			s := New(kv, WithPublisher(rec), WithIDs(sequentialIDs()))

			p, err := s.CreateJournal(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, "October 11, 2025", p.Name)
			assert.Equal(t, 20251011, p.DateKey)
			assert.True(t, p.Created.Equal(p.Updated.Time))

			created, ok := change.Classify(rec.last())
			require.True(t, ok, "journal creation batch should classify")
			assert.Equal(t, change.Created{Page: p.Name, DateKey: 20251011}, created)

			roots, err := s.TopLevelNodes(ctx, p.Name)
			require.NoError(t, err)
			require.Len(t, roots, 1)
			assert.True(t, roots[0].IsEmpty())

			_, err = s.CreateJournal(ctx, day.Add(3*time.Hour))
			assert.ErrorIs(t, err, ErrJournalExists)
		})
	}
}

func TestEditsDoNotClassify(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := New(NewMemoryKV(), WithPublisher(rec))

	p, err := s.CreateJournal(ctx, time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	n, err := s.AppendTopLevel(ctx, p.Name, "TODO call")
	require.NoError(t, err)
	require.NoError(t, s.UpdateNode(ctx, n.ID, "DONE call"))
	require.NoError(t, s.DeleteNode(ctx, n.ID))

	for _, b := range rec.batches[1:] {
		_, ok := change.Classify(b)
		assert.False(t, ok, "edit batch classified as creation: %+v", b)
	}
}

func TestInsertOrdering(t *testing.T) {
	ctx := context.Background()

	for name, kv := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			s := New(kv, WithIDs(sequentialIDs()))
			_, err := s.CreatePage(ctx, "Inbox")
			require.NoError(t, err)

			roots, err := s.TopLevelNodes(ctx, "Inbox")
			require.NoError(t, err)
			first := roots[0]
			require.NoError(t, s.UpdateNode(ctx, first.ID, "a"))

			c, err := s.AppendTopLevel(ctx, "Inbox", "c")
			require.NoError(t, err)
			_, err = s.InsertSibling(ctx, first.ID, "b")
			require.NoError(t, err)

			_, err = s.AppendChild(ctx, c.ID, "c2")
			require.NoError(t, err)
			_, err = s.InsertChild(ctx, c.ID, "c1")
			require.NoError(t, err)

			roots, err = s.TopLevelNodes(ctx, "Inbox")
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, contents(roots))
			assert.Equal(t, []string{"c1", "c2"}, contents(roots[2].Children))

			got, err := s.Node(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"c1", "c2"}, contents(got.Children))
		})
	}
}

func TestDeleteNodeRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), WithIDs(sequentialIDs()))
	_, err := s.CreatePage(ctx, "Inbox")
	require.NoError(t, err)

	parent, err := s.AppendTopLevel(ctx, "Inbox", "parent")
	require.NoError(t, err)
	child, err := s.AppendChild(ctx, parent.ID, "child")
	require.NoError(t, err)
	after, err := s.AppendTopLevel(ctx, "Inbox", "after")
	require.NoError(t, err)

	require.NoError(t, s.DeleteNode(ctx, parent.ID))

	_, err = s.Node(ctx, child.ID)
	assert.ErrorIs(t, err, outline.ErrNodeNotFound)

	got, err := s.Node(ctx, after.ID)
	require.NoError(t, err)
	assert.NotEqual(t, parent.ID, got.Left)

	roots, err := s.TopLevelNodes(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "after"}, contents(roots))
}

func TestMoveNode(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), WithIDs(sequentialIDs()))
	_, err := s.CreatePage(ctx, "Inbox")
	require.NoError(t, err)

	a, err := s.AppendTopLevel(ctx, "Inbox", "a")
	require.NoError(t, err)
	b, err := s.AppendTopLevel(ctx, "Inbox", "b")
	require.NoError(t, err)
	a1, err := s.AppendChild(ctx, a.ID, "a1")
	require.NoError(t, err)

	require.NoError(t, s.MoveNode(ctx, a.ID, b.ID))
	roots, err := s.TopLevelNodes(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "b", "a"}, contents(roots))
	assert.Equal(t, []string{"a1"}, contents(roots[2].Children))

	assert.Error(t, s.MoveNode(ctx, a.ID, a1.ID))
}

func TestJournalsBefore(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())
	for _, d := range []int{3, 1, 7} {
		_, err := s.CreateJournal(ctx, time.Date(2025, 3, d, 12, 0, 0, 0, time.Local))
		require.NoError(t, err)
	}
	_, err := s.CreatePage(ctx, "Projects")
	require.NoError(t, err)

	before, err := s.JournalsBefore(ctx, 20250307)
	require.NoError(t, err)
	keys := make([]int, 0, len(before))
	for _, p := range before {
		keys = append(keys, p.DateKey)
	}
	assert.Equal(t, []int{20250303, 20250301}, keys)

	all, err := s.Pages(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Projects", all[3].Name)
}

func TestUpdateTouchesPage(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		at = at.Add(time.Second)
		return at
	}
	s := New(NewMemoryKV(), WithClock(clock))
	p, err := s.CreatePage(ctx, "Inbox")
	require.NoError(t, err)
	roots, err := s.TopLevelNodes(ctx, "Inbox")
	require.NoError(t, err)

	require.NoError(t, s.UpdateNode(ctx, roots[0].ID, "hello"))
	got, err := s.Page(ctx, "Inbox")
	require.NoError(t, err)
	assert.True(t, got.Updated.After(p.Created.Time))
	assert.True(t, got.Created.Equal(p.Created.Time))
}

func TestMissingRecords(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())

	_, err := s.Node(ctx, "nope")
	assert.ErrorIs(t, err, outline.ErrNodeNotFound)
	_, err = s.TopLevelNodes(ctx, "nope")
	assert.ErrorIs(t, err, outline.ErrPageNotFound)
	_, err = s.CreatePage(ctx, " ")
	assert.Error(t, err)

	_, err = s.CreatePage(ctx, "Inbox")
	require.NoError(t, err)
	_, err = s.CreatePage(ctx, "Inbox")
	assert.ErrorIs(t, err, ErrPageExists)
}

func TestOpenKV(t *testing.T) {
	kv, err := OpenKV(testConfig{path: t.TempDir(), driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	_, err = OpenKV(testConfig{path: t.TempDir(), driver: "bolt"})
	assert.Error(t, err)
}

type testConfig struct {
	path, driver string
}

func (c testConfig) BasePath() string { return c.path }
func (c testConfig) Driver() string   { return c.driver }
