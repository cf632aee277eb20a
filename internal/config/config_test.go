package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/onboard/internal/parser"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Data.StartRow != parser.DefaultStartRow {
		t.Errorf("StartRow = %d, want %d", cfg.Data.StartRow, parser.DefaultStartRow)
	}
	if cfg.Data.FallbackCategory != parser.DefaultCategory {
		t.Errorf("FallbackCategory = %q, want %q", cfg.Data.FallbackCategory, parser.DefaultCategory)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if cfg.Dir() != filepath.Dir(path) {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), filepath.Dir(path))
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  target: memory
remote:
  enabled: true
  dsn: postgres://trainee@localhost:5432/onboard
data:
  start_row: 3
  fallback_category: 常规
log:
  level: warn
  max_backups: 7
dimensions:
  AI: ["AI"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.Target != "memory" {
		t.Errorf("Storage.Target = %q, want memory", cfg.Storage.Target)
	}
	if !cfg.Remote.Enabled || cfg.Remote.DSN != "postgres://trainee@localhost:5432/onboard" {
		t.Errorf("Remote = %+v", cfg.Remote)
	}
	if cfg.Data.StartRow != 3 || cfg.Data.FallbackCategory != "常规" {
		t.Errorf("Data = %+v", cfg.Data)
	}
	if cfg.Log.Level != "warn" || cfg.Log.MaxBackups != 7 {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if got := cfg.Dimensions["AI"]; len(got) != 1 || got[0] != "AI" {
		t.Errorf("Dimensions = %v", cfg.Dimensions)
	}
	if len(cfg.ParseOptions()) != 2 {
		t.Errorf("ParseOptions() returned %d options, want 2", len(cfg.ParseOptions()))
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "storage: [unclosed"},
		{"negative start row", "data:\n  start_row: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected an error")
			}
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.Remote.Enabled = true
	cfg.Remote.DSN = "postgres://trainee@db/onboard"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save() error: %v", err)
	}
	if !reloaded.Remote.Enabled || reloaded.Remote.DSN != cfg.Remote.DSN {
		t.Errorf("reloaded Remote = %+v, want %+v", reloaded.Remote, cfg.Remote)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"memory", "memory"},
		{"/abs/path.db", "/abs/path.db"},
		{"~/x/onboard.db", filepath.Join(home, "x", "onboard.db")},
		{"postgres://u@h/db", "postgres://u@h/db"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
