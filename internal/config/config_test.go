package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CALPIPE_BASE_DIR", "")
	t.Setenv("CALPIPE_PROD", "")
	ConfigPath = ""

	cfg := Load()
	if cfg.BaseDir != DefaultBaseDir {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.ProdVersion != "v"+Version {
		t.Errorf("ProdVersion = %q", cfg.ProdVersion)
	}
	if cfg.MaxEvents != 20000 || cfg.StatEvents != 20000 || cfg.TelID != 1 {
		t.Errorf("numeric defaults = %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CALPIPE_BASE_DIR", "/srv/data")
	t.Setenv("CALPIPE_PROD", "v9.9")
	t.Setenv("CALPIPE_MAX_EVENTS", "5")
	ConfigPath = ""

	cfg := Load()
	if cfg.BaseDir != "/srv/data" || cfg.ProdVersion != "v9.9" || cfg.MaxEvents != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestPersistedOverlay(t *testing.T) {
	t.Setenv("CALPIPE_BASE_DIR", "")
	t.Setenv("CALPIPE_PROD", "")

	dir := t.TempDir()
	ConfigPath = filepath.Join(dir, "calpipe.json")
	defer func() { ConfigPath = "" }()

	if err := os.WriteFile(ConfigPath, []byte(`{"base_dir": "/overlay", "tel_id": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.BaseDir != "/overlay" {
		t.Errorf("BaseDir = %q, want overlay value", cfg.BaseDir)
	}
	if cfg.TelID != 2 {
		t.Errorf("TelID = %d, want 2", cfg.TelID)
	}
	// Fields absent from the file keep their defaults.
	if cfg.MaxEvents != 20000 {
		t.Errorf("MaxEvents = %d", cfg.MaxEvents)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("CALPIPE_BASE_DIR", "")
	t.Setenv("CALPIPE_PROD", "")

	dir := t.TempDir()
	ConfigPath = filepath.Join(dir, "calpipe.json")
	defer func() { ConfigPath = "" }()

	cfg := Load()
	cfg.ProdVersion = "v7.0"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Load()
	if loaded.ProdVersion != "v7.0" {
		t.Errorf("ProdVersion = %q after reload", loaded.ProdVersion)
	}
}
