package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if !strings.HasSuffix(cfg.Storage.Path, "tasklist.db") {
		t.Errorf("Unexpected default storage path: %s", cfg.Storage.Path)
	}
	if cfg.UI.ClearDraftOnToggle {
		t.Error("clear_draft_on_toggle should default to false")
	}
}

func TestLoadFromOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[storage]
backend = "file"
path = "~/tasks.json"

[ui]
show_completed = true
clear_draft_on_toggle = true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Expected file backend, got %q", cfg.Storage.Backend)
	}
	home, _ := os.UserHomeDir()
	if cfg.Storage.Path != filepath.Join(home, "tasks.json") {
		t.Errorf("Expected ~ to expand, got %s", cfg.Storage.Path)
	}
	if !cfg.UI.ShowCompleted || !cfg.UI.ClearDraftOnToggle {
		t.Errorf("UI switches not decoded: %+v", cfg.UI)
	}
	// Unset sections keep their defaults
	if !strings.HasSuffix(cfg.Log.Path, "tasklist.log") {
		t.Errorf("Expected default log path, got %s", cfg.Log.Path)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"redis\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Decoding should not validate: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Storage.Backend = "memory"
	cfg.UI.ShowCompleted = true

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.Storage.Backend != "memory" || !loaded.UI.ShowCompleted {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
}

func TestEncodeWritesSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	for _, section := range []string{"[storage]", "[ui]", "[log]"} {
		if !strings.Contains(buf.String(), section) {
			t.Errorf("Encoded config missing %s:\n%s", section, buf.String())
		}
	}
}

func TestSaveAndLoadDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	cfg.UI.ShowCompleted = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".config", "tasklist", "config.toml")); err != nil {
		t.Fatalf("Expected config under home: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if !loaded.UI.ShowCompleted {
		t.Error("Expected show_completed to survive the round trip")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cases := map[string]string{
		"~":            home,
		"~/tasks.json": filepath.Join(home, "tasks.json"),
		"/abs/path":    "/abs/path",
		"~other/x":     "~other/x",
		"":             "",
	}
	for in, want := range cases {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
