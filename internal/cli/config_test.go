package cli

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/walletsync/internal/config"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

func TestConfigInit(t *testing.T) {
	home := setupTestHome(t)

	out, err := runCLI(t, nil, "--home", home, "-o", "text", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at "+config.Path(home))

	written, err := config.Load(config.Path(home))
	require.NoError(t, err)
	assert.Equal(t, home, written.Home)
	assert.Equal(t, "wallet.snapshot", written.GetDefaultSlot())

	_, err = runCLI(t, nil, "--home", home, "-o", "text", "config", "init")
	require.ErrorIs(t, err, syncerr.ErrGeneral)

	_, err = runCLI(t, nil, "--home", home, "-o", "text", "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow_RedactsPassword(t *testing.T) {
	home := setupTestHome(t)
	t.Setenv(config.EnvSnapshotPassword, "hunter2")

	out, err := runCLI(t, nil, "--home", home, "-o", "text", "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, redactedValue)
	assert.Contains(t, out, "default_slot: wallet.snapshot")
}

func TestConfigShow_JSON(t *testing.T) {
	home := setupTestHome(t)

	out, err := runCLI(t, nil, "--home", home, "-o", "json", "config", "show")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, home, shown.Home)
	assert.Empty(t, shown.Snapshots.Password)
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		home := setupTestHome(t)

		out, err := runCLI(t, nil, "--home", home, "-o", "text", "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
	})

	t.Run("invalid file values", func(t *testing.T) {
		home := setupTestHome(t)
		bad := config.Defaults()
		bad.Home = home
		bad.Retry.MaxAttempts = 0
		require.NoError(t, config.Save(bad, config.Path(home)))

		_, err := runCLI(t, nil, "--home", home, "-o", "text", "config", "validate")
		require.ErrorIs(t, err, syncerr.ErrConfigInvalid)
	})

	t.Run("malformed config file", func(t *testing.T) {
		home := setupTestHome(t)
		require.NoError(t, os.WriteFile(config.Path(home), []byte("{"), 0o600))

		_, err := runCLI(t, nil, "--home", home, "-o", "text", "config", "validate")
		require.ErrorIs(t, err, syncerr.ErrConfigInvalid)
	})
}
