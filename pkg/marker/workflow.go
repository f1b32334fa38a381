package marker

import (
	"fmt"
	"strings"
)

// Workflow selects the marker vocabulary and transition table used by toggles.
type Workflow int

const (
	// TodoWorkflow cycles empty -> LATER -> DONE -> empty.
	TodoWorkflow Workflow = iota
	// NowWorkflow cycles empty -> TODO -> DONE -> empty.
	NowWorkflow
)

// ParseWorkflow reads the configuration value "todo" or "now".
func ParseWorkflow(raw string) (Workflow, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "todo":
		return TodoWorkflow, nil
	case "now":
		return NowWorkflow, nil
	default:
		return TodoWorkflow, fmt.Errorf("marker: unknown workflow %q", raw)
	}
}

type transitions map[Marker]Marker

var tables = map[Workflow]transitions{
	TodoWorkflow: {
		None:  Later,
		Later: Done,
		Now:   Done,
		Done:  None,
	},
	NowWorkflow: {
		None:  Todo,
		Todo:  Done,
		Doing: Done,
		Done:  None,
	},
}

// counterpart maps a pending marker onto the other workflow's vocabulary.
var counterpart = map[Marker]Marker{
	Todo:  Later,
	Later: Todo,
	Doing: Now,
	Now:   Doing,
}

// Next returns the marker that follows current. A pending marker from the
// other workflow is read as its counterpart in this one.
func (w Workflow) Next(current Marker) Marker {
	table := tables[w]
	if next, ok := table[current]; ok {
		return next
	}
	if alias, ok := counterpart[current]; ok {
		if next, ok := table[alias]; ok {
			return next
		}
	}
	return None
}

// Markers lists the markers this workflow writes, pending first.
func (w Workflow) Markers() []Marker {
	if w == NowWorkflow {
		return []Marker{Todo, Doing, Done}
	}
	return []Marker{Later, Now, Done}
}

func (w Workflow) String() string {
	if w == NowWorkflow {
		return "now"
	}
	return "todo"
}
