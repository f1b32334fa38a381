package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

var configDir string

func withConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cfg := strings.Join([]string{
		"settingsVersion: v1",
		"workflow: todo",
		"store:",
		"  driver: diskv",
		"  path: " + filepath.Join(dir, "db"),
		"log:",
		"  level: error",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, ".carry.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	configDir = dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config-dir=" + configDir}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("carry %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

type shown struct {
	Page struct {
		Name string `json:"name"`
	} `json:"page"`
	Nodes []struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	} `json:"nodes"`
}

func TestJournalCarriesOpenTasks(t *testing.T) {
	withConfig(t)

	run(t, "journal", "--on", "2025-10-10")
	run(t, "add", "--page", "2025-10-10", "LATER", "carry", "me")
	run(t, "add", "--page", "2025-10-10", "DONE", "leave", "me")

	var created struct {
		Page     string `json:"page"`
		Rollover struct {
			Source   string `json:"source"`
			Migrated int    `json:"migrated"`
		} `json:"rollover"`
	}
	if err := json.Unmarshal([]byte(run(t, "journal", "--on", "2025-10-11", "-o", "json")), &created); err != nil {
		t.Fatalf("decode journal: %v", err)
	}
	if created.Page != "October 11, 2025" || created.Rollover.Source != "October 10, 2025" || created.Rollover.Migrated != 1 {
		t.Fatalf("unexpected journal output %+v", created)
	}

	var page shown
	if err := json.Unmarshal([]byte(run(t, "show", "2025-10-11", "-o", "json")), &page); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if len(page.Nodes) != 1 || page.Nodes[0].Content != "LATER carry me" {
		t.Fatalf("unexpected target page %+v", page)
	}

	got := run(t, "press", "mod+1", page.Nodes[0].ID)
	if !strings.Contains(got, "✘ carry me") {
		t.Fatalf("press output = %q", got)
	}
	got = run(t, "highlight", page.Nodes[0].ID)
	if !strings.Contains(got, "==carry me==") {
		t.Fatalf("highlight output = %q", got)
	}
}

func TestKeyListsBindings(t *testing.T) {
	withConfig(t)

	got := run(t, "key")
	for _, want := range []string{"todo workflow", "LATER", "mod+1", "toggle-marker", "mod+2"} {
		if !strings.Contains(got, want) {
			t.Errorf("key output missing %q:\n%s", want, got)
		}
	}
}

func TestRolloverRejectsPlainPages(t *testing.T) {
	withConfig(t)

	run(t, "add", "--page", "Reading List", "LATER", "dune")

	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config-dir=" + configDir, "rollover", "Reading List"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for a plain page")
	}
}
