package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if cfg.Storage.DBPath != filepath.Join(dir, "nested", DefaultDBName) {
		t.Errorf("DBPath = %q", cfg.Storage.DBPath)
	}
	if cfg.Storage.Slot != DefaultSlot || cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Keys.Toggle != " " || cfg.Keys.NextMonth != "]" {
		t.Errorf("Keys = %+v", cfg.Keys)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatal(err)
	}
	if again != cfg {
		t.Errorf("reload = %+v, want %+v", again, cfg)
	}
}

func TestLoadOrCreateKeepsDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	data := []byte(`
[storage]
backend = "disk"
data_dir = "/var/lib/dayplan"

[keys]
quit = "x"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "disk" || cfg.Storage.DataDir != "/var/lib/dayplan" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Slot != DefaultSlot {
		t.Errorf("Slot = %q", cfg.Storage.Slot)
	}
	if cfg.Keys.Quit != "x" || cfg.Keys.Add != "a" {
		t.Errorf("Keys = %+v", cfg.Keys)
	}
	if cfg.Log.File != filepath.Join(dir, "dayplan.log") {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	os.WriteFile(path, []byte("[storage\n"), 0o644)
	if _, err := LoadOrCreate(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath("/tmp/x.toml"); got != "/tmp/x.toml" {
		t.Errorf("explicit = %q", got)
	}
	t.Setenv(EnvConfigPath, "/etc/dayplan.toml")
	if got := ResolveConfigPath(""); got != "/etc/dayplan.toml" {
		t.Errorf("env = %q", got)
	}
}
