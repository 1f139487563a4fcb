package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/walletsync/internal/snapshot"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

func TestSnapshotList(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		home := setupTestHome(t)

		out, err := runCLI(t, nil, "--home", home, "-o", "text", "snapshot", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "No snapshots in "+filepath.Join(home, "snapshots"))
	})

	t.Run("text table", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "alice.snapshot", `{"offset":1200}`)
		seedSnapshot(t, home, "bob.snapshot", `{"offset":7}`)

		out, err := runCLI(t, nil, "--home", home, "-o", "text", "snapshot", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "SLOT")
		assert.Contains(t, out, "alice.snapshot")
		assert.Contains(t, out, "bob.snapshot")
		assert.Less(t, strings.Index(out, "alice.snapshot"), strings.Index(out, "bob.snapshot"))
	})

	t.Run("json", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "alice.snapshot", `{"offset":1200}`)

		out, err := runCLI(t, nil, "--home", home, "-o", "json", "snapshot", "list")
		require.NoError(t, err)

		var infos []snapshot.Info
		require.NoError(t, json.Unmarshal([]byte(out), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "alice.snapshot", infos[0].Slot)
		assert.Equal(t, int64(len(`{"offset":1200}`)), infos[0].Size)
		assert.False(t, infos[0].Sealed)
		assert.Len(t, infos[0].Fingerprint, 16)
	})
}

func TestSnapshotShow(t *testing.T) {
	t.Run("default slot with offset", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "wallet.snapshot", `{"offset":"1200","state":"opaque"}`)

		out, err := runCLI(t, nil, "--home", home, "-o", "json", "snapshot", "show")
		require.NoError(t, err)

		var detail map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &detail))
		assert.Equal(t, "wallet.snapshot", detail["slot"])
		assert.InDelta(t, 1200, detail["offset"], 0)
		assert.NotContains(t, detail, "offset_error")
	})

	t.Run("invalid offset is reported", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "broken.snapshot", `{"state":"opaque"}`)

		out, err := runCLI(t, nil, "--home", home, "-o", "text", "snapshot", "show", "broken.snapshot")
		require.NoError(t, err)
		assert.Contains(t, out, "Slot:        broken.snapshot")
		assert.Contains(t, out, "unavailable (SNAPSHOT_INVALID)")
	})

	t.Run("absent slot", func(t *testing.T) {
		home := setupTestHome(t)

		_, err := runCLI(t, nil, "--home", home, "-o", "text", "snapshot", "show", "missing.snapshot")
		require.ErrorIs(t, err, syncerr.ErrNotFound)
	})
}

func TestSnapshotCheck(t *testing.T) {
	tests := []struct {
		name      string
		live      string
		tolerance string
		wantReset bool
	}{
		{"live ahead", "1500", "1", false},
		{"within tolerance", "1199", "1", false},
		{"reset", "40", "1", true},
		{"wide tolerance", "40", "2000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setupTestHome(t)
			seedSnapshot(t, home, "wallet.snapshot", `{"offset":1200}`)

			out, err := runCLI(t, nil, "--home", home, "-o", "json",
				"snapshot", "check", "--live-offset", tt.live, "--tolerance", tt.tolerance)
			require.NoError(t, err)

			var result checkResult
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, tt.wantReset, result.Reset)
			assert.Equal(t, uint64(1200), result.Restored)
			assert.Equal(t, "wallet.snapshot", result.Slot)
		})
	}

	t.Run("text reports reset", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "wallet.snapshot", `{"offset":1200}`)

		out, err := runCLI(t, nil, "--home", home, "-o", "text",
			"snapshot", "check", "--live-offset", "3", "--tolerance", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "chain reset detected for wallet.snapshot")
	})

	t.Run("snapshot without offset", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "wallet.snapshot", `not json`)

		_, err := runCLI(t, nil, "--home", home, "-o", "text",
			"snapshot", "check", "--live-offset", "3", "--tolerance", "1")
		require.ErrorIs(t, err, syncerr.ErrSnapshotInvalid)
	})
}

func TestSnapshotDelete(t *testing.T) {
	t.Run("requires force", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "alice.snapshot", `{"offset":1}`)

		_, err := runCLI(t, nil, "--home", home, "-o", "text", "snapshot", "delete", "alice.snapshot")
		require.ErrorIs(t, err, syncerr.ErrInvalidInput)

		_, statErr := os.Stat(filepath.Join(home, "snapshots", "alice.snapshot"))
		require.NoError(t, statErr)
	})

	t.Run("deletes with force", func(t *testing.T) {
		home := setupTestHome(t)
		seedSnapshot(t, home, "alice.snapshot", `{"offset":1}`)

		out, err := runCLI(t, nil, "--home", home, "-o", "text", "snapshot", "delete", "alice.snapshot", "--force")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted snapshot alice.snapshot")

		_, statErr := os.Stat(filepath.Join(home, "snapshots", "alice.snapshot"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("invalid slot", func(t *testing.T) {
		home := setupTestHome(t)

		_, err := runCLI(t, nil, "--home", home, "-o", "text", "snapshot", "delete", "../escape", "--force")
		require.ErrorIs(t, err, syncerr.ErrInvalidSlot)
	})
}

func TestSnapshotCommands_SealedStore(t *testing.T) {
	home := setupTestHome(t)
	t.Setenv("WALLETSYNC_SNAPSHOT_PASSWORD", "hunter2")

	store := snapshot.NewStore(filepath.Join(home, "snapshots"), snapshot.WithPassword("hunter2"))
	require.NoError(t, store.Save("wallet.snapshot", []byte(`{"offset":55}`)))

	out, err := runCLI(t, nil, "--home", home, "-o", "json", "snapshot", "show")
	require.NoError(t, err)

	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, true, detail["sealed"])
	assert.InDelta(t, 55, detail["offset"], 0)
}
