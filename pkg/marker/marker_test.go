package marker

import "testing"

func TestExtract(t *testing.T) {
	tests := map[string]Marker{
		"LATER buy milk":    Later,
		"NOW call mom":      Now,
		"TODO file taxes":   Todo,
		"DOING\twrite docs": Doing,
		"DONE ship it":      Done,
		"DONE":              None,
		"DONEship":          None,
		"later lowercase":   None,
		" LATER indented":   None,
		"note LATER inside": None,
		"":                  None,
	}
	for in, want := range tests {
		if got := Extract(in); got != want {
			t.Errorf("Extract(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripAndApply(t *testing.T) {
	if got := Strip("LATER  buy milk"); got != "buy milk" {
		t.Fatalf("unexpected strip result %q", got)
	}
	if got := Strip("buy milk"); got != "buy milk" {
		t.Fatalf("strip should not touch unmarked text, got %q", got)
	}
	if got := Apply(Done, "buy milk"); got != "DONE buy milk" {
		t.Fatalf("unexpected apply result %q", got)
	}
	if got := Apply(None, "buy milk"); got != "buy milk" {
		t.Fatalf("applying none should be a no-op, got %q", got)
	}
}

func TestWorkflowNext(t *testing.T) {
	tests := []struct {
		w       Workflow
		current Marker
		want    Marker
	}{
		{TodoWorkflow, None, Later},
		{TodoWorkflow, Later, Done},
		{TodoWorkflow, Now, Done},
		{TodoWorkflow, Done, None},
		{NowWorkflow, None, Todo},
		{NowWorkflow, Todo, Done},
		{NowWorkflow, Doing, Done},
		{NowWorkflow, Done, None},
		// Markers written by the other workflow advance through their counterpart.
		{TodoWorkflow, Todo, Done},
		{TodoWorkflow, Doing, Done},
		{NowWorkflow, Later, Done},
		{NowWorkflow, Now, Done},
	}
	for _, tt := range tests {
		if got := tt.w.Next(tt.current); got != tt.want {
			t.Errorf("%s.Next(%q) = %q, want %q", tt.w, tt.current, got, tt.want)
		}
	}
}

func TestParseWorkflow(t *testing.T) {
	if w, err := ParseWorkflow("NOW"); err != nil || w != NowWorkflow {
		t.Fatalf("expected now workflow, got %v %v", w, err)
	}
	if w, err := ParseWorkflow(""); err != nil || w != TodoWorkflow {
		t.Fatalf("expected default todo workflow, got %v %v", w, err)
	}
	if _, err := ParseWorkflow("kanban"); err == nil {
		t.Fatalf("expected error for unknown workflow")
	}
}

func TestHighlighted(t *testing.T) {
	d := DefaultDelimiters
	tests := map[string]bool{
		"==Groceries==":         true,
		"LATER ==Groceries==":   true,
		"==Groceries== for sat": true,
		"Groceries":             false,
		"see ==this==":          false,
		"====":                  false,
		"==open only":           false,
	}
	for in, want := range tests {
		if got := d.Highlighted(in); got != want {
			t.Errorf("Highlighted(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWrapUnwrap(t *testing.T) {
	d := Delimiters{Open: "^^", Close: "^^"}
	wrapped := d.Wrap("LATER buy milk")
	if wrapped != "LATER ^^buy milk^^" {
		t.Fatalf("unexpected wrap %q", wrapped)
	}
	if again := d.Wrap(wrapped); again != wrapped {
		t.Fatalf("wrap should be idempotent, got %q", again)
	}
	if got := d.Unwrap(wrapped); got != "LATER buy milk" {
		t.Fatalf("unexpected unwrap %q", got)
	}
	if got := d.Unwrap("^^Title^^ tail"); got != "Title tail" {
		t.Fatalf("unexpected unwrap with tail %q", got)
	}
	if got := d.Wrap(""); got != "" {
		t.Fatalf("blank text should not be wrapped, got %q", got)
	}
}

func TestPatternIsCompiledOnce(t *testing.T) {
	custom := Delimiters{Open: "<<", Close: ">>"}
	if custom.pattern() != custom.pattern() {
		t.Errorf("pattern recompiled for %v", custom)
	}
	if (Delimiters{}).pattern() != DefaultDelimiters.pattern() {
		t.Errorf("empty delimiters should share the default pattern")
	}
	if custom.pattern() == DefaultDelimiters.pattern() {
		t.Errorf("distinct delimiters share a pattern")
	}
	if !custom.Highlighted("LATER <<title>>") {
		t.Errorf("custom delimiters not recognized")
	}
}
