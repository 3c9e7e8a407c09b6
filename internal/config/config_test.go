package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	def := Default()
	if cfg.Storage != def.Storage {
		t.Errorf("Storage = %+v, want %+v", cfg.Storage, def.Storage)
	}
	if cfg.View.Sort != "dueDate" || cfg.View.Filter != "all" {
		t.Errorf("View = %+v", cfg.View)
	}
	if cfg.Notice.Timeout.Duration != 3*time.Second {
		t.Errorf("Notice.Timeout = %s, want 3s", cfg.Notice.Timeout.Duration)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("Storage.Key = %q, want tasks", cfg.Storage.Key)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "memory"
path = "~/tasks/custom.db"

[view]
sort = "priority"
filter = "active"

[notice]
timeout = "1500ms"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	homeDir, _ := os.UserHomeDir()
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if want := filepath.Join(homeDir, "tasks", "custom.db"); cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}
	// Unset keys keep their defaults
	if cfg.Storage.Key != "tasks" {
		t.Errorf("Storage.Key = %q, want tasks", cfg.Storage.Key)
	}
	if cfg.View.Sort != "priority" || cfg.View.Filter != "active" {
		t.Errorf("View = %+v", cfg.View)
	}
	if cfg.Notice.Timeout.Duration != 1500*time.Millisecond {
		t.Errorf("Notice.Timeout = %s", cfg.Notice.Timeout.Duration)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[storage\nbackend ="},
		{"bad duration", "[notice]\ntimeout = \"soon\"\n"},
		{"zero timeout", "[notice]\ntimeout = \"0s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("writing config: %v", err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("LoadFrom() should fail")
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.View.Sort = "completed"
	cfg.Notice.Timeout = Duration{5 * time.Second}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.View.Sort != "completed" {
		t.Errorf("View.Sort = %q", loaded.View.Sort)
	}
	if loaded.Notice.Timeout.Duration != 5*time.Second {
		t.Errorf("Notice.Timeout = %s", loaded.Notice.Timeout.Duration)
	}
}

func TestSaveToCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.toml")

	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if _, err := LoadFrom(path); err != nil {
		t.Errorf("LoadFrom() error = %v", err)
	}
}
