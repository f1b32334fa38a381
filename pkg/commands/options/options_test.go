package options

import (
	"testing"
	"time"
)

func TestGetOn(t *testing.T) {
	now := time.Date(2025, time.October, 11, 9, 0, 0, 0, time.Local)

	got, err := (&OnOptions{}).GetOn(now)
	if err != nil || !got.Equal(now) {
		t.Fatalf("empty --on = %v, %v", got, err)
	}
	got, err = (&OnOptions{OnString: "2024-2-29"}).GetOn(now)
	if err != nil || got.Year() != 2024 || got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("iso --on = %v, %v", got, err)
	}
	got, err = (&OnOptions{OnString: "3/4"}).GetOn(now)
	if err != nil || got.Year() != 2025 || got.Month() != time.March || got.Day() != 4 {
		t.Fatalf("short --on = %v, %v", got, err)
	}
	if _, err := (&OnOptions{OnString: "soon"}).GetOn(now); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFormat(t *testing.T) {
	if f := (&OutputOptions{JSON: true, Output: "yaml"}).Format(); f != "json" {
		t.Fatalf("--json should win, got %q", f)
	}
	if f := (&OutputOptions{Output: " YAML "}).Format(); f != "yaml" {
		t.Fatalf("format = %q", f)
	}
}
