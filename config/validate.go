package config

import "strings"

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validTimeUnits lists the accepted time unit strings. "blocks" means
// time values are block heights supplied by an external clock; the
// system wall clock cannot serve that mode.
var validTimeUnits = map[string]bool{
	"seconds": true,
	"millis":  true,
	"blocks":  true,
}

// ValidateConfig checks that all configuration values are within
// acceptable ranges and returns the first error encountered, or nil
// if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.StoreFile == "" {
		return ErrEmptyStoreFile
	}

	if cfg.LedgerFile == "" {
		return ErrEmptyLedgerFile
	}

	if !validTimeUnits[strings.ToLower(cfg.TimeUnit)] {
		return ErrInvalidTimeUnit
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
