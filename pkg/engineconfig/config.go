// Package engineconfig defines the engine's configuration surface,
// loaded from JSON the way the corpus's service config layer does
// (DefaultConfig / LoadConfig / LoadConfigOrDefault over encoding/json),
// scoped down to what an embedded, in-memory engine actually needs
// rather than a network service's listener/pool/cache sections.
package engineconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/moyashi/reldb/pkg/stmt"
)

// Config is the engine's tunable behavior.
type Config struct {
	Engine EngineConfig `json:"engine"`
	Log    LogConfig    `json:"log"`
}

// EngineConfig controls transaction and identifier-length defaults
// (spec §4.7, §6).
type EngineConfig struct {
	// AutocommitEnabled governs whether a statement issued with no
	// active transaction runs under an implicit BEGIN/COMMIT (true) or
	// is rejected outright (false). Spec §4.7 assumes autocommit.
	AutocommitEnabled bool `json:"autocommit_enabled"`
	// DefaultIsolation is the level assigned to autocommit-wrapped
	// statements. An explicit BEGIN uses its statement's IsolationLevel
	// as given.
	DefaultIsolation stmt.Isolation `json:"default_isolation_level"`
	// MaxIdentifierLen bounds table/column/index/constraint name length
	// (spec §6); exposed here rather than hardcoded so an embedder can
	// tighten it.
	MaxIdentifierLen int `json:"max_identifier_len"`
}

// LogConfig controls the engine's structured logger (spec ambient
// stack).
type LogConfig struct {
	Level  string `json:"level"`  // "debug", "info", "warn", "error"
	Format string `json:"format"` // recorded only; enginelog always writes text lines
}

// DefaultConfig returns the engine's out-of-the-box configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			AutocommitEnabled: true,
			DefaultIsolation:  stmt.ReadCommitted,
			MaxIdentifierLen:  63,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads and parses a JSON config file, overlaying it onto
// DefaultConfig. An empty path returns the default configuration
// unmodified.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault tries the RELDB_CONFIG environment variable, then
// a couple of conventional locations, falling back to DefaultConfig.
func LoadConfigOrDefault() *Config {
	if envPath := os.Getenv("RELDB_CONFIG"); envPath != "" {
		if cfg, err := LoadConfig(envPath); err == nil {
			return cfg
		}
	}
	for _, path := range []string{"reldb.json", "./config/reldb.json"} {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

func validate(cfg *Config) error {
	if cfg.Engine.MaxIdentifierLen < 1 {
		return fmt.Errorf("engine.max_identifier_len must be positive")
	}
	return nil
}
