package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/carry/pkg/keymap"
	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
	"tableflip.dev/carry/pkg/rollover"
	"tableflip.dev/carry/pkg/store"
	"tableflip.dev/carry/pkg/toggle"
)

var day = time.Date(2025, time.October, 11, 9, 30, 0, 0, time.Local)

func newService(inline bool) *Service {
	st := store.New(store.NewMemoryKV())
	return &Service{
		Store:    st,
		Rollover: rollover.New(st),
		Toggler:  &toggle.Toggler{Backend: st, Workflow: marker.TodoWorkflow, Delimiters: marker.DefaultDelimiters},
		Inline:   inline,
		Clock:    func() time.Time { return day },
	}
}

func contents(nodes []*outline.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Content)
	}
	return out
}

func TestAddFillsTrailingEmptyNode(t *testing.T) {
	ctx := context.Background()
	svc := newService(false)
	p, _, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}

	first, err := svc.Add(ctx, p.Name, "LATER write report", Where{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, p.Name, "LATER send report", Where{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, p.Name, "draft", Where{Parent: first.ID}); err != nil {
		t.Fatalf("Add child: %v", err)
	}

	_, roots, err := svc.Page(ctx, p.Name)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if got := contents(roots); len(got) != 2 || got[0] != "LATER write report" || got[1] != "LATER send report" {
		t.Fatalf("unexpected roots %q", got)
	}
	if got := contents(roots[0].Children); len(got) != 1 || got[0] != "draft" {
		t.Fatalf("unexpected children %q", got)
	}
}

func TestTodayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(false)
	a, _, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	b, _, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("Today again: %v", err)
	}
	if a.Name != b.Name || !a.Created.Equal(b.Created.Time) {
		t.Fatalf("second call created a new page: %v vs %v", a, b)
	}
}

func TestInlineRollover(t *testing.T) {
	ctx := context.Background()
	svc := newService(true)

	prev, _, err := svc.CreateJournal(ctx, day.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("CreateJournal: %v", err)
	}
	if _, err := svc.Add(ctx, prev.Name, "LATER carry me", Where{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, prev.Name, "DONE leave me", Where{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	p, report, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if report == nil || report.Migrated != 1 || report.Source != prev.Name {
		t.Fatalf("unexpected report %+v", report)
	}
	_, roots, _ := svc.Page(ctx, p.Name)
	if got := contents(roots); len(got) != 1 || got[0] != "LATER carry me" {
		t.Fatalf("target = %q", got)
	}
	_, roots, _ = svc.Page(ctx, prev.Name)
	if got := contents(roots); len(got) != 1 || got[0] != "DONE leave me" {
		t.Fatalf("source = %q", got)
	}
}

func TestCarryRequiresJournal(t *testing.T) {
	ctx := context.Background()
	svc := newService(false)
	if _, err := svc.CreatePage(ctx, "Projects"); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if _, err := svc.Carry(ctx, "Projects"); !errors.Is(err, ErrNotJournal) {
		t.Fatalf("expected ErrNotJournal, got %v", err)
	}
}

func TestPressDispatches(t *testing.T) {
	ctx := context.Background()
	svc := newService(false)
	km, err := keymap.New(nil)
	if err != nil {
		t.Fatalf("keymap: %v", err)
	}
	svc.Keymap = km

	p, _, _ := svc.Today(ctx)
	n, err := svc.Add(ctx, p.Name, "buy milk", Where{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	a, nodes, err := svc.Press(ctx, "ctrl+1", n.ID)
	if err != nil {
		t.Fatalf("Press: %v", err)
	}
	if a.Key != keymap.ToggleMarker || nodes[0].Content != "LATER buy milk" {
		t.Fatalf("unexpected press result %v %q", a, contents(nodes))
	}

	_, nodes, err = svc.Press(ctx, "mod+2", n.ID)
	if err != nil {
		t.Fatalf("Press: %v", err)
	}
	if nodes[0].Content != "LATER ==buy milk==" {
		t.Fatalf("highlight = %q", nodes[0].Content)
	}

	if _, _, err := svc.Press(ctx, "mod+9", n.ID); err == nil {
		t.Fatalf("expected unbound key error")
	}
	if _, err := svc.ToggleMarker(ctx); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestOpenAndReport(t *testing.T) {
	ctx := context.Background()
	svc := newService(false)
	p, _, _ := svc.Today(ctx)
	parent, _ := svc.Add(ctx, p.Name, "==Errands==", Where{})
	_, _ = svc.Add(ctx, p.Name, "LATER post office", Where{Parent: parent.ID})
	_, _ = svc.Add(ctx, p.Name, "DONE bank", Where{Parent: parent.ID})
	sep, err := svc.Store.AppendTopLevel(ctx, p.Name, "")
	if err != nil {
		t.Fatalf("AppendTopLevel: %v", err)
	}
	_, _ = svc.Add(ctx, p.Name, "NOW call mom", Where{After: sep.ID})

	open, err := svc.Open(ctx, p.Name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(open) != 2 || open[0].Marker != marker.Later || open[0].Path[0] != "==Errands==" {
		t.Fatalf("unexpected open items %+v", open)
	}

	tallies, err := svc.Report(ctx)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := Tally{Page: p.Name, Pending: 2, Done: 1, Notes: 1, Highlighted: 1, Groups: 2}
	if len(tallies) != 1 || tallies[0] != want {
		t.Fatalf("tally = %+v, want %+v", tallies, want)
	}
}

func TestResolvePage(t *testing.T) {
	svc := newService(false)
	tests := map[string]string{
		"":           "October 11, 2025",
		"today":      "October 11, 2025",
		"Yesterday":  "October 10, 2025",
		"2025-01-02": "January 2, 2025",
		"Projects":   "Projects",
	}
	for in, want := range tests {
		if got := svc.ResolvePage(in); got != want {
			t.Errorf("ResolvePage(%q) = %q, want %q", in, got, want)
		}
	}
}
