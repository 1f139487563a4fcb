package wallet_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/walletsync/internal/wallet"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// zeroMnemonic encodes 32 zero bytes of entropy.
const zeroMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon art"

func TestNewSeed(t *testing.T) {
	t.Parallel()

	seed, err := wallet.NewSeed(make([]byte, wallet.SeedLength))
	require.NoError(t, err)
	assert.Len(t, seed.Bytes(), wallet.SeedLength)

	_, err = wallet.NewSeed(make([]byte, 16))
	require.ErrorIs(t, err, syncerr.ErrInvalidSeed)
}

func TestSeed_CopiesInput(t *testing.T) {
	t.Parallel()

	in := make([]byte, wallet.SeedLength)
	in[0] = 7
	seed, err := wallet.NewSeed(in)
	require.NoError(t, err)

	in[0] = 9
	assert.Equal(t, byte(7), seed.Bytes()[0])
}

func TestSeed_NeverFormatsSecret(t *testing.T) {
	t.Parallel()

	raw := make([]byte, wallet.SeedLength)
	for i := range raw {
		raw[i] = 0xab
	}
	seed, err := wallet.NewSeed(raw)
	require.NoError(t, err)

	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%x", "%X", "%q"} {
		out := fmt.Sprintf(verb, seed)
		assert.Equal(t, "Seed(redacted)", out, verb)
		assert.NotContains(t, strings.ToLower(out), "abab")
	}
}

func TestSeed_Destroy(t *testing.T) {
	t.Parallel()

	seed, err := wallet.NewSeed(make([]byte, wallet.SeedLength))
	require.NoError(t, err)

	alias := seed.Bytes()
	alias[0] = 1
	seed.Destroy()
	seed.Destroy()

	assert.Nil(t, seed.Bytes())
	assert.Equal(t, byte(0), alias[0])
	assert.False(t, seed.IsLocked())
}

func TestSeedFromHex(t *testing.T) {
	t.Parallel()

	hexSeed := "0x" + strings.Repeat("01", wallet.SeedLength)
	seed, err := wallet.SeedFromHex(hexSeed)
	require.NoError(t, err)
	assert.Equal(t, byte(1), seed.Bytes()[31])

	_, err = wallet.SeedFromHex("zz")
	require.ErrorIs(t, err, syncerr.ErrInvalidSeed)

	_, err = wallet.SeedFromHex("0102")
	require.ErrorIs(t, err, syncerr.ErrInvalidSeed)
}

func TestSeed_EqualAndFingerprint(t *testing.T) {
	t.Parallel()

	a, err := wallet.NewSeed(make([]byte, wallet.SeedLength))
	require.NoError(t, err)
	b, err := wallet.NewSeed(make([]byte, wallet.SeedLength))
	require.NoError(t, err)
	other := make([]byte, wallet.SeedLength)
	other[5] = 1
	c, err := wallet.NewSeed(other)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 8)
}

func TestSeedFromMnemonic(t *testing.T) {
	t.Parallel()

	seed, err := wallet.SeedFromMnemonic(zeroMnemonic)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, wallet.SeedLength), seed.Bytes())

	// List formatting from a backup sheet is tolerated.
	words := strings.Fields(zeroMnemonic)
	var listed strings.Builder
	for i, w := range words {
		fmt.Fprintf(&listed, "%d. %s\n", i+1, strings.ToUpper(w))
	}
	seed2, err := wallet.SeedFromMnemonic(listed.String())
	require.NoError(t, err)
	assert.True(t, seed.Equal(seed2))
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	t.Parallel()

	_, err := wallet.SeedFromMnemonic("abandon abandon abandon")
	require.ErrorIs(t, err, syncerr.ErrInvalidMnemonic)

	typo := strings.Replace(zeroMnemonic, "art", "artt", 1)
	_, err = wallet.SeedFromMnemonic(typo)
	require.ErrorIs(t, err, syncerr.ErrInvalidMnemonic)

	var se *syncerr.SyncError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Suggestion, "word 24: 'artt'")
	assert.Contains(t, se.Suggestion, "did you mean")

	// Valid words, bad checksum.
	badChecksum := strings.Replace(zeroMnemonic, "art", "abandon", 1)
	_, err = wallet.SeedFromMnemonic(badChecksum)
	require.ErrorIs(t, err, syncerr.ErrInvalidMnemonic)
}

func TestDetectTypos(t *testing.T) {
	t.Parallel()

	typos := wallet.DetectTypos("abandon abandn zzzzzzzz")
	require.Len(t, typos, 2)
	assert.Equal(t, 1, typos[0].Index)
	assert.Equal(t, "abandon", typos[0].Suggestion)
	assert.Empty(t, typos[1].Suggestion)
	assert.Contains(t, wallet.FormatTypoSuggestions(typos), "is not a valid BIP39 word")
	assert.Empty(t, wallet.FormatTypoSuggestions(nil))
}

func TestExtractOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		blob    string
		want    wallet.SyncOffset
		wantErr bool
	}{
		{"number", `{"offset": 10000, "state": "opaque"}`, 10000, false},
		{"zero", `{"offset":0}`, 0, false},
		{"string", `{"offset":"42"}`, 42, false},
		{"missing", `{"state":"x"}`, 0, true},
		{"null", `{"offset":null}`, 0, true},
		{"negative", `{"offset":-1}`, 0, true},
		{"fraction", `{"offset":1.5}`, 0, true},
		{"not json", `garbage`, 0, true},
		{"array", `[1,2]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := wallet.ExtractOffset([]byte(tt.blob))
			if tt.wantErr {
				require.ErrorIs(t, err, syncerr.ErrSnapshotInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSyncStatus(t *testing.T) {
	t.Parallel()

	assert.False(t, wallet.SyncStatus{}.ProgressKnown())
	assert.Equal(t, "unknown", wallet.SyncStatus{}.String())

	syncing := wallet.SyncStatus{Kind: wallet.StatusSyncing, ApplyGap: 3, SourceGap: 10}
	assert.True(t, syncing.ProgressKnown())
	assert.False(t, syncing.Synced())
	assert.Equal(t, "syncing(apply=3, source=10)", syncing.String())

	synced := wallet.SyncStatus{Kind: wallet.StatusSynced}
	assert.True(t, synced.Synced())
	assert.Equal(t, "synced", synced.String())
}

func TestBalanceMap(t *testing.T) {
	t.Parallel()

	b := wallet.BalanceMap{wallet.NativeAsset: 42, "token-a": 7}
	assert.Equal(t, uint64(42), b.Native())
	assert.Equal(t, "{native=42 token-a=7}", b.String())

	clone := b.Clone()
	clone[wallet.NativeAsset] = 0
	assert.Equal(t, uint64(42), b.Native())

	assert.Zero(t, wallet.BalanceMap(nil).Native())
}

func TestNormalizeAsset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, wallet.NativeAsset, wallet.NormalizeAsset(""))
	assert.Equal(t, wallet.NativeAsset, wallet.NormalizeAsset(strings.Repeat("0", 64)))
	assert.Equal(t, wallet.NativeAsset, wallet.NormalizeAsset("NATIVE"))
	assert.Equal(t, wallet.AssetID("02ab"), wallet.NormalizeAsset("02ab"))
}
