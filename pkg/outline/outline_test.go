package outline

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateKeyRoundTrip(t *testing.T) {
	day := time.Date(2025, time.October, 11, 15, 4, 0, 0, time.Local)
	key := DateKey(day)
	if key != 20251011 {
		t.Fatalf("expected 20251011, got %d", key)
	}
	back, err := ParseDateKey(key)
	if err != nil {
		t.Fatalf("parse date key: %v", err)
	}
	if back.Year() != 2025 || back.Month() != time.October || back.Day() != 11 {
		t.Fatalf("unexpected day %v", back)
	}
	if _, err := ParseDateKey(20251341); err == nil {
		t.Fatalf("expected error for invalid key")
	}
}

func TestJournalName(t *testing.T) {
	day := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.Local)
	name := JournalName(day)
	if name != "October 1, 2025" {
		t.Fatalf("unexpected name %q", name)
	}
	if !IsJournalName(name) {
		t.Fatalf("expected %q to be a journal name", name)
	}
	if IsJournalName("Groceries") {
		t.Fatalf("plain page name should not be a journal name")
	}
	p := NewJournal(day)
	if !p.Journal || p.DateKey != 20251001 || p.Name != name {
		t.Fatalf("unexpected journal page %#v", p)
	}
}

func TestTimestampJSON(t *testing.T) {
	var zero Timestamp
	b, err := json.Marshal(zero)
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(b) != `""` {
		t.Fatalf("expected empty string for zero timestamp, got %s", b)
	}

	now := Now()
	b, err = json.Marshal(now)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Timestamp
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(now.Time) {
		t.Fatalf("expected %v, got %v", now, back)
	}
}

func TestNodeWalkAndClone(t *testing.T) {
	root := &Node{ID: "a", Content: "LATER parent", Children: []*Node{
		{ID: "b", Content: "child"},
		{ID: "c", Content: "", Children: []*Node{{ID: "d", Content: "grandchild"}}},
	}}
	var seen []string
	root.Walk(func(n *Node) bool {
		seen = append(seen, n.ID)
		return true
	})
	if len(seen) != 4 || seen[0] != "a" || seen[3] != "d" {
		t.Fatalf("unexpected walk order %v", seen)
	}

	cp := root.Clone()
	cp.Children[1].Children[0].Content = "changed"
	if root.Children[1].Children[0].Content != "grandchild" {
		t.Fatalf("clone shares children with original")
	}
	if !root.Children[1].IsEmpty() || root.IsEmpty() {
		t.Fatalf("unexpected IsEmpty results")
	}
}
