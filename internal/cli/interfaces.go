package cli

import (
	"github.com/mrz1836/walletsync/internal/config"
	"github.com/mrz1836/walletsync/internal/output"
	"github.com/mrz1836/walletsync/internal/snapshot"
)

// Compile-time interface checks.
var (
	_ ConfigProvider = (*config.Config)(nil)
	_ LogWriter      = (*config.Logger)(nil)
	_ FormatProvider = (*output.Formatter)(nil)
	_ SnapshotStore  = (*snapshot.Store)(nil)
)

// ConfigProvider provides read access to configuration values.
type ConfigProvider interface {
	GetHome() string
	SnapshotDir() string
	GetLoggingLevel() string
	GetOutputFormat() string
	GetDefaultSlot() string
	IsVerbose() bool
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
	Close() error
}

// FormatProvider provides output format information.
type FormatProvider interface {
	Format() output.Format
}

// SnapshotStore is the slot storage the snapshot commands operate on.
type SnapshotStore interface {
	Load(slot string) ([]byte, error)
	Delete(slot string) error
	Stat(slot string) (*snapshot.Info, error)
	List() ([]string, error)
	Dir() string
}
