package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvHome             = "WALLETSYNC_HOME"
	EnvNetworkID        = "WALLETSYNC_NETWORK_ID"
	EnvIndexer          = "WALLETSYNC_INDEXER"
	EnvIndexerWS        = "WALLETSYNC_INDEXER_WS"
	EnvNode             = "WALLETSYNC_NODE"
	EnvProofServer      = "WALLETSYNC_PROOF_SERVER"
	EnvSnapshotDir      = "WALLETSYNC_SNAPSHOT_DIR"
	EnvSnapshotPassword = "WALLETSYNC_SNAPSHOT_PASSWORD" // #nosec G101 -- false positive, this is a const name not a credential
	EnvAcquireTimeout   = "WALLETSYNC_ACQUIRE_TIMEOUT"
	EnvOutputFormat     = "WALLETSYNC_OUTPUT_FORMAT"
	EnvVerbose          = "WALLETSYNC_VERBOSE"
	EnvLogLevel         = "WALLETSYNC_LOG_LEVEL"
	EnvNoColor          = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvNetworkID); v != "" {
		cfg.Network.ID = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvIndexer); v != "" {
		cfg.Network.Indexer = CleanURL(v)
	}

	if v := os.Getenv(EnvIndexerWS); v != "" {
		cfg.Network.IndexerWS = CleanURL(v)
	}

	if v := os.Getenv(EnvNode); v != "" {
		cfg.Network.Node = CleanURL(v)
	}

	if v := os.Getenv(EnvProofServer); v != "" {
		cfg.Network.ProofServer = CleanURL(v)
	}

	if v := os.Getenv(EnvSnapshotDir); v != "" {
		cfg.Snapshots.Dir = v
	}

	if v := os.Getenv(EnvSnapshotPassword); v != "" {
		cfg.Snapshots.Password = v
	}

	// Accepts a Go duration ("90s") or a bare number of seconds.
	if v := os.Getenv(EnvAcquireTimeout); v != "" {
		if d, ok := parseDuration(v); ok {
			cfg.Sync.AcquireTimeout = d
		}
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// CleanURL trims whitespace, stray quotes and a trailing slash from an
// endpoint pasted into an environment variable.
func CleanURL(url string) string {
	url = strings.TrimSpace(url)
	url = strings.Trim(url, `"'`)
	return strings.TrimSuffix(url, "/")
}
