package config

import "time"

// Default throttles mirror the cadence the wallet SDK emits state at: resync
// checks every 5s, funding checks every 10s.
const (
	DefaultResyncThrottle   = 5 * time.Second
	DefaultFundingThrottle  = 10 * time.Second
	DefaultProgressThrottle = time.Second
	DefaultFundingReminder  = time.Minute

	// DefaultResetTolerance absorbs off-by-one offset bookkeeping between the
	// snapshot and the indexer. Genuine resets differ by thousands.
	DefaultResetTolerance uint64 = 1
)

// Defaults returns the default configuration. The endpoints point at a local
// undeployed network, which is what a fresh developer checkout talks to.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.walletsync",
		Network: NetworkConfig{
			ID:          NetworkUndeployed,
			Indexer:     "http://127.0.0.1:8088/api/v1/graphql",
			IndexerWS:   "ws://127.0.0.1:8088/api/v1/graphql/ws",
			Node:        "http://127.0.0.1:9944",
			ProofServer: "http://127.0.0.1:6300",
		},
		Snapshots: SnapshotsConfig{
			Dir: "~/.walletsync/snapshots",
		},
		Sync: SyncConfig{
			ResyncThrottle:   DefaultResyncThrottle,
			FundingThrottle:  DefaultFundingThrottle,
			ProgressThrottle: DefaultProgressThrottle,
			ResetTolerance:   DefaultResetTolerance,
			FundingThreshold: 1,
			FundingReminder:  DefaultFundingReminder,
			AcquireTimeout:   0, // interactive default: wait for the operator to fund
			DefaultSlot:      "wallet.snapshot",
			WalletLogLevel:   "warn",
		},
		Retry: RetryConfig{
			MaxAttempts: 4,
			BaseDelay:   time.Second,
			MaxDelay:    4 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
