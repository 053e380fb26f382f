// Package config handles configuration for the vesting engine: where
// the store and ledger databases live, how the host clock is
// interpreted, and the log level for embedding applications.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds the engine configuration.
type Config struct {
	DataDir    string // base directory for databases
	StoreFile  string // treasury database filename, relative to DataDir
	LedgerFile string // custody ledger database filename, relative to DataDir
	TimeUnit   string // "seconds", "millis", or "blocks"
	LogLevel   string // "debug", "info", "warn", "error"
}

// DefaultConfig returns the default configuration. The data directory
// defaults to ~/.libvest.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:    filepath.Join(home, ".libvest"),
		StoreFile:  "treasury.db",
		LedgerFile: "ledger.db",
		TimeUnit:   "seconds",
		LogLevel:   "info",
	}
}

// ConfigPath returns the config file path inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// StorePath returns the absolute path of the treasury database.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, c.StoreFile)
}

// LedgerPath returns the absolute path of the ledger database.
func (c Config) LedgerPath() string {
	return filepath.Join(c.DataDir, c.LedgerFile)
}

// LoadConfig reads a config file in key=value format. Blank lines and
// lines starting with '#' are ignored. Unknown keys are rejected so a
// typo never silently falls back to a default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("config: read file: %w", err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "storefile":
			cfg.StoreFile = value
		case "ledgerfile":
			cfg.LedgerFile = value
		case "timeunit":
			cfg.TimeUnit = value
		case "loglevel":
			cfg.LogLevel = value
		default:
			return cfg, fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidConfigLine, i+1, key)
		}
	}

	return cfg, nil
}

// SaveConfig writes the configuration in key=value format, creating the
// parent directory if needed. Keys are written in sorted order so the
// file diffs cleanly.
func SaveConfig(path string, cfg Config) error {
	entries := map[string]string{
		"datadir":    cfg.DataDir,
		"storefile":  cfg.StoreFile,
		"ledgerfile": cfg.LedgerFile,
		"timeunit":   cfg.TimeUnit,
		"loglevel":   cfg.LogLevel,
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	return os.WriteFile(path, []byte(b.String()), 0600)
}
