// Package config provides configuration management for walletsync.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Home      string          `yaml:"home"`
	Network   NetworkConfig   `yaml:"network"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Sync      SyncConfig      `yaml:"sync"`
	Retry     RetryConfig     `yaml:"retry"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NetworkConfig holds the endpoints handed to the wallet constructor.
type NetworkConfig struct {
	ID          string `yaml:"id"`
	Indexer     string `yaml:"indexer"`
	IndexerWS   string `yaml:"indexer_ws"`
	Node        string `yaml:"node"`
	ProofServer string `yaml:"proof_server"`
}

// SnapshotsConfig defines where session snapshots live and how they are sealed.
type SnapshotsConfig struct {
	Dir string `yaml:"dir"`
	// Password seals snapshots with age when non-empty. Prefer the
	// WALLETSYNC_SNAPSHOT_PASSWORD environment variable over the file.
	Password string `yaml:"password,omitempty"`
}

// SyncConfig tunes the session acquire state machine.
type SyncConfig struct {
	ResyncThrottle   time.Duration `yaml:"resync_throttle"`
	FundingThrottle  time.Duration `yaml:"funding_throttle"`
	ProgressThrottle time.Duration `yaml:"progress_throttle"`
	ResetTolerance   uint64        `yaml:"reset_tolerance"`
	FundingThreshold uint64        `yaml:"funding_threshold"`
	FundingReminder  time.Duration `yaml:"funding_reminder"`
	AcquireTimeout   time.Duration `yaml:"acquire_timeout"`
	DefaultSlot      string        `yaml:"default_slot"`
	WalletLogLevel   string        `yaml:"wallet_log_level"`
}

// RetryConfig bounds retries of transient wallet construction failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Known network identifiers.
const (
	NetworkUndeployed = "undeployed"
	NetworkDevnet     = "devnet"
	NetworkTestnet    = "testnet"
	NetworkMainnet    = "mainnet"
)

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, syncerr.Mark(syncerr.ErrConfigNotFound, err)
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, syncerr.Mark(syncerr.ErrConfigInvalid, err)
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks the values the acquire flow depends on.
func (c *Config) Validate() error {
	invalid := func(field, reason string) error {
		return syncerr.WithDetails(syncerr.ErrConfigInvalid, map[string]string{field: reason})
	}

	switch strings.ToLower(c.Network.ID) {
	case NetworkUndeployed, NetworkDevnet, NetworkTestnet, NetworkMainnet:
	default:
		return invalid("network.id", "unknown network "+c.Network.ID)
	}
	if c.Network.Indexer == "" {
		return invalid("network.indexer", "must be set")
	}
	if c.Network.Node == "" {
		return invalid("network.node", "must be set")
	}
	if c.Sync.ResyncThrottle <= 0 {
		return invalid("sync.resync_throttle", "must be positive")
	}
	if c.Sync.FundingThrottle <= 0 {
		return invalid("sync.funding_throttle", "must be positive")
	}
	if c.Sync.FundingThreshold == 0 {
		return invalid("sync.funding_threshold", "must be at least 1")
	}
	if c.Sync.AcquireTimeout < 0 {
		return invalid("sync.acquire_timeout", "must not be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return invalid("retry.max_attempts", "must be at least 1")
	}
	return nil
}

// GetHome returns the walletsync home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// SnapshotDir returns the snapshot directory with the home prefix expanded.
func (c *Config) SnapshotDir() string {
	dir := c.Snapshots.Dir
	if dir == "" {
		dir = filepath.Join(c.Home, "snapshots")
	}
	return ExpandHome(dir)
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// GetAcquireTimeout returns the deadline applied to a session acquire.
// Zero means no deadline.
func (c *Config) GetAcquireTimeout() time.Duration {
	return c.Sync.AcquireTimeout
}

// GetDefaultSlot returns the snapshot slot used when none is given.
func (c *Config) GetDefaultSlot() string {
	return c.Sync.DefaultSlot
}

// DefaultHome returns the default walletsync home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".walletsync"
	}
	return filepath.Join(home, ".walletsync")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
