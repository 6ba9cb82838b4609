package config

import (
	"encoding/json"
	"os"
	"strconv"
)

// Version is the calpipe release version; the default production version is
// derived from it so artifacts land under a software-lineage directory.
const Version = "0.2.0"

// DefaultBaseDir is the root of the onsite data tree.
const DefaultBaseDir = "/fefs/aswg/data/real"

type Config struct {
	BaseDir     string
	ProdVersion string
	MaxEvents   int
	StatEvents  int
	TelID       int
}

// persistedConfig is the JSON shape written to the config file.
type persistedConfig struct {
	BaseDir     string `json:"base_dir,omitempty"`
	ProdVersion string `json:"prod_version,omitempty"`
	MaxEvents   int    `json:"max_events,omitempty"`
	StatEvents  int    `json:"stat_events,omitempty"`
	TelID       int    `json:"tel_id,omitempty"`
}

// ConfigPath is the file path where settings are persisted.
// Empty means no persisted overlay is read or written.
var ConfigPath string

func Load() Config {
	cfg := Config{
		BaseDir:     envOr("CALPIPE_BASE_DIR", DefaultBaseDir),
		ProdVersion: envOr("CALPIPE_PROD", "v"+Version),
		MaxEvents:   envOrInt("CALPIPE_MAX_EVENTS", 20000),
		StatEvents:  envOrInt("CALPIPE_STAT_EVENTS", 20000),
		TelID:       envOrInt("CALPIPE_TEL_ID", 1),
	}

	// Overlay persisted settings (only non-empty values override).
	if ConfigPath != "" {
		if saved, err := loadPersistedConfig(ConfigPath); err == nil {
			mergeConfig(&cfg, saved)
		}
	}

	return cfg
}

// Save writes the current config to the persisted config file.
func Save(cfg Config) error {
	if ConfigPath == "" {
		return nil
	}
	p := persistedConfig{
		BaseDir:     cfg.BaseDir,
		ProdVersion: cfg.ProdVersion,
		MaxEvents:   cfg.MaxEvents,
		StatEvents:  cfg.StatEvents,
		TelID:       cfg.TelID,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigPath, data, 0o600)
}

func loadPersistedConfig(path string) (persistedConfig, error) {
	var p persistedConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(data, &p)
	return p, err
}

func mergeConfig(cfg *Config, p persistedConfig) {
	if p.BaseDir != "" {
		cfg.BaseDir = p.BaseDir
	}
	if p.ProdVersion != "" {
		cfg.ProdVersion = p.ProdVersion
	}
	if p.MaxEvents != 0 {
		cfg.MaxEvents = p.MaxEvents
	}
	if p.StatEvents != 0 {
		cfg.StatEvents = p.StatEvents
	}
	if p.TelID != 0 {
		cfg.TelID = p.TelID
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
