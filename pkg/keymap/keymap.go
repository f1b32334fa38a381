// Package keymap binds key combinations to the toggle commands.
package keymap

import (
	"fmt"
	"sort"
	"strings"
)

// Action keys.
const (
	ToggleMarker    = "toggle-marker"
	ToggleHighlight = "toggle-highlight"
)

// Action is an invocable command and the key combination that triggers it.
type Action struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label" yaml:"label"`
	Binding string `json:"binding" yaml:"binding"`
}

// Defaults returns the built-in actions with their default bindings.
func Defaults() []Action {
	return []Action{{
		Key:     ToggleMarker,
		Label:   "Toggle the task marker of the selected nodes",
		Binding: "mod+1",
	}, {
		Key:     ToggleHighlight,
		Label:   "Toggle highlight on the selected nodes",
		Binding: "mod+2",
	}}
}

// aliases accepts the older marker-named keys found in existing settings.
var aliases = map[string]string{
	"todo":      ToggleMarker,
	"marker":    ToggleMarker,
	"highlight": ToggleHighlight,
}

// Map resolves bindings to actions.
type Map struct {
	actions []Action
	byKey   map[string]int
}

// New builds a Map from the defaults with overrides applied. Overrides are
// keyed by action key; an empty binding keeps the default.
func New(overrides map[string]string) (*Map, error) {
	m := &Map{actions: Defaults(), byKey: make(map[string]int)}
	for i, a := range m.actions {
		m.byKey[a.Key] = i
	}
	for key, binding := range overrides {
		k := strings.ToLower(strings.TrimSpace(key))
		if alias, ok := aliases[k]; ok {
			k = alias
		}
		i, ok := m.byKey[k]
		if !ok {
			return nil, fmt.Errorf("keymap: unknown action %q", key)
		}
		if strings.TrimSpace(binding) == "" {
			continue
		}
		m.actions[i].Binding = binding
	}

	seen := make(map[string]string, len(m.actions))
	for _, a := range m.actions {
		b := Normalize(a.Binding)
		if other, dup := seen[b]; dup {
			return nil, fmt.Errorf("keymap: %s and %s are both bound to %s", other, a.Key, a.Binding)
		}
		seen[b] = a.Key
	}
	return m, nil
}

// Actions lists the actions in display order.
func (m *Map) Actions() []Action {
	out := make([]Action, len(m.actions))
	copy(out, m.actions)
	return out
}

// Action returns the action registered under key.
func (m *Map) Action(key string) (Action, bool) {
	i, ok := m.byKey[key]
	if !ok {
		return Action{}, false
	}
	return m.actions[i], true
}

// Lookup finds the action bound to binding.
func (m *Map) Lookup(binding string) (Action, bool) {
	want := Normalize(binding)
	if want == "" {
		return Action{}, false
	}
	for _, a := range m.actions {
		if Normalize(a.Binding) == want {
			return a, true
		}
	}
	return Action{}, false
}

var modifiers = map[string]string{
	"mod":     "mod",
	"cmd":     "mod",
	"command": "mod",
	"ctrl":    "mod",
	"control": "mod",
	"meta":    "mod",
	"alt":     "alt",
	"option":  "alt",
	"shift":   "shift",
}

// Normalize canonicalizes a binding such as "Ctrl + Shift + 1" to
// "mod+shift+1".
func Normalize(binding string) string {
	parts := strings.Split(strings.ToLower(binding), "+")
	var mods []string
	key := ""
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if m, ok := modifiers[p]; ok {
			mods = append(mods, m)
			continue
		}
		key = p
	}
	sort.Strings(mods)
	if key != "" {
		mods = append(mods, key)
	}
	return strings.Join(mods, "+")
}
