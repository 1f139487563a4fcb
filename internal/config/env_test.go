package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{"on", true},
		{"  true  ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"random", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, parseBool(tc.input))
		})
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{"90", 90 * time.Second, true},
		{"90s", 90 * time.Second, true},
		{"2m", 2 * time.Minute, true},
		{"0", 0, true},
		{"-5", 0, false},
		{"-5s", 0, false},
		{"soon", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, ok := parseDuration(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCleanURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://127.0.0.1:9944", CleanURL("  http://127.0.0.1:9944/  "))
	assert.Equal(t, "http://node", CleanURL(`"http://node"`))
	assert.Empty(t, CleanURL("   "))
}

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel
func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/ws-home")
	t.Setenv(EnvNetworkID, " TestNet ")
	t.Setenv(EnvIndexer, "https://indexer.example/api/")
	t.Setenv(EnvNode, "https://rpc.example")
	t.Setenv(EnvSnapshotDir, "/tmp/ws-snapshots")
	t.Setenv(EnvSnapshotPassword, "hunter2")
	t.Setenv(EnvAcquireTimeout, "45")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvNoColor, "")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, "/tmp/ws-home", cfg.Home)
	assert.Equal(t, NetworkTestnet, cfg.Network.ID)
	assert.Equal(t, "https://indexer.example/api", cfg.Network.Indexer)
	assert.Equal(t, "https://rpc.example", cfg.Network.Node)
	assert.Equal(t, "/tmp/ws-snapshots", cfg.Snapshots.Dir)
	assert.Equal(t, "hunter2", cfg.Snapshots.Password)
	assert.Equal(t, 45*time.Second, cfg.Sync.AcquireTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "never", cfg.Output.Color)
}
