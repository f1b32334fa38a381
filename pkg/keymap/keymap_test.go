package keymap

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"mod+1":               "mod+1",
		"Ctrl + 1":            "mod+1",
		"shift+cmd+K":         "mod+shift+k",
		"option+shift+meta+2": "alt+mod+shift+2",
		"":                    "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaults(t *testing.T) {
	m, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, ok := m.Lookup("ctrl+1")
	if !ok || a.Key != ToggleMarker {
		t.Fatalf("ctrl+1 resolved to %+v, %v", a, ok)
	}
	a, ok = m.Lookup("mod+2")
	if !ok || a.Key != ToggleHighlight {
		t.Fatalf("mod+2 resolved to %+v, %v", a, ok)
	}
	if _, ok := m.Lookup("mod+3"); ok {
		t.Fatalf("mod+3 should not resolve")
	}
}

func TestOverrides(t *testing.T) {
	m, err := New(map[string]string{"todo": "mod+shift+t", ToggleHighlight: ""})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a, ok := m.Lookup("shift+mod+t"); !ok || a.Key != ToggleMarker {
		t.Fatalf("override not applied: %+v", m.Actions())
	}
	if a, _ := m.Action(ToggleHighlight); a.Binding != "mod+2" {
		t.Fatalf("empty override replaced default: %q", a.Binding)
	}
}

func TestOverrideErrors(t *testing.T) {
	if _, err := New(map[string]string{"explode": "mod+9"}); err == nil {
		t.Fatalf("unknown action accepted")
	}
	if _, err := New(map[string]string{ToggleMarker: "mod+2"}); err == nil {
		t.Fatalf("duplicate binding accepted")
	}
}
