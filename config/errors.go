package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidTimeUnit indicates the time unit is not recognized.
	ErrInvalidTimeUnit = errors.New("config: invalid time unit (must be \"seconds\", \"millis\", or \"blocks\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyStoreFile indicates the store database filename is empty.
	ErrEmptyStoreFile = errors.New("config: store file must not be empty")

	// ErrEmptyLedgerFile indicates the ledger database filename is empty.
	ErrEmptyLedgerFile = errors.New("config: ledger file must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
