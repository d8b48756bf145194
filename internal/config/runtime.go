package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/napguard/internal/object"
)

// Environment variables shared by the binaries.
const (
	EnvLogLevel = "NAPGUARD_LOG_LEVEL"
	EnvLogFile  = "NAPGUARD_LOG_FILE"
	EnvTypes    = "NAPGUARD_TYPES"
	EnvSound    = "NAPGUARD_SOUND"
)

// AppName names the per-user data directory.
const AppName = "napguard"

// NewLogger creates the process logger writing to w. The level comes from
// NAPGUARD_LOG_LEVEL and defaults to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           GetEnvLevel(EnvLogLevel, log.InfoLevel),
	})
}

// OpenLogFile opens the file named by NAPGUARD_LOG_FILE for appending. With
// the variable unset, logs are discarded and the returned closer is a no-op.
func OpenLogFile() (io.WriteCloser, error) {
	path := GetEnv(EnvLogFile, "")
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// LoadTable returns the annoyance table named by NAPGUARD_TYPES, or the
// built-in table when the variable is unset.
func LoadTable() (*object.Table, error) {
	path := GetEnv(EnvTypes, "")
	if path == "" {
		return object.DefaultTable(), nil
	}
	return object.LoadTable(path)
}
