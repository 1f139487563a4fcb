package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/walletsync/internal/config"
	"github.com/mrz1836/walletsync/internal/seal"
	"github.com/mrz1836/walletsync/internal/snapshot"
)

func TestMain(m *testing.M) {
	seal.SetWorkFactor(10)
	os.Exit(m.Run())
}

// zeroPhrase is the recovery phrase of the all-zero seed.
const zeroPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon art"

// setupTestHome resets CLI globals and environment overrides and returns an
// empty home directory.
func setupTestHome(t *testing.T) string {
	t.Helper()

	for _, name := range []string{
		config.EnvHome, config.EnvSnapshotDir, config.EnvSnapshotPassword,
		config.EnvOutputFormat, config.EnvVerbose, config.EnvLogLevel,
	} {
		t.Setenv(name, "")
	}

	resetFlags := func() {
		homeDir = ""
		outputFormat = "auto"
		verbose = false
		configForce = false
		snapshotForce = false
		snapshotLiveOffset = 0
		snapshotTolerance = 1
		seedHex = false
		cfg, logger, formatter = nil, nil, nil
	}
	resetFlags()
	t.Cleanup(resetFlags)

	return t.TempDir()
}

// runCLI executes the root command with args and stdin, returning stdout.
func runCLI(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

// seedSnapshot writes a snapshot blob into home's snapshot directory.
func seedSnapshot(t *testing.T, home, slot, blob string) {
	t.Helper()
	store := snapshot.NewStore(filepath.Join(home, "snapshots"))
	require.NoError(t, store.Save(slot, []byte(blob)))
}
