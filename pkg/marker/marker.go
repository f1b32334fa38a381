// Package marker recognizes and rewrites the task markers and highlight
// delimiters that prefix outline node text.
package marker

import (
	"regexp"
	"strings"
)

// Marker is a task-state token found at the start of a node's text.
type Marker string

const (
	None  Marker = ""
	Todo  Marker = "TODO"
	Doing Marker = "DOING"
	Now   Marker = "NOW"
	Later Marker = "LATER"
	Done  Marker = "DONE"
)

// All is the unified vocabulary accepted from either workflow.
var All = []Marker{Todo, Doing, Now, Later, Done}

var leading = regexp.MustCompile(`^(TODO|DOING|NOW|LATER|DONE)\s+`)

// Extract returns the marker at position 0 of text, or None.
func Extract(text string) Marker {
	m := leading.FindStringSubmatch(text)
	if len(m) < 2 {
		return None
	}
	return Marker(m[1])
}

// Strip removes a recognized leading marker and the whitespace after it.
func Strip(text string) string {
	loc := leading.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[loc[1]:]
}

// Apply prefixes text with m. Text is returned unchanged for None.
func Apply(m Marker, text string) string {
	if m == None {
		return text
	}
	return string(m) + " " + text
}

// Terminal reports whether m marks finished work.
func (m Marker) Terminal() bool {
	return m == Done
}

// Pending reports whether m marks unfinished work.
func (m Marker) Pending() bool {
	switch m {
	case Todo, Doing, Now, Later:
		return true
	}
	return false
}

// Parse converts a user supplied token to a Marker.
func Parse(raw string) (Marker, bool) {
	up := Marker(strings.ToUpper(strings.TrimSpace(raw)))
	if up == None {
		return None, true
	}
	for _, m := range All {
		if m == up {
			return m, true
		}
	}
	return None, false
}

func (m Marker) String() string {
	return string(m)
}
