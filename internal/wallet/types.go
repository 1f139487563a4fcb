// Package wallet defines the wallet session model consumed by the bootstrap
// engine: seeds, sync status, balances, state stream emissions, and the
// construction and observation contracts of the live wallet.
package wallet

import (
	"fmt"
	"sort"
	"strings"
)

// SyncOffset counts how far a wallet's view of the chain has advanced.
// It never decreases while a session is alive; only a chain wipe moves the
// network's offset below a previously recorded one.
type SyncOffset uint64

// StatusKind is the tag of a SyncStatus.
type StatusKind int

const (
	// StatusUnknown means the wallet has not reported progress yet.
	StatusUnknown StatusKind = iota
	// StatusSyncing means progress is known and the wallet trails the chain.
	StatusSyncing
	// StatusSynced means the wallet's applied state matches the chain head.
	StatusSynced
)

// String returns the lowercase name of the kind.
func (k StatusKind) String() string {
	switch k {
	case StatusSyncing:
		return "syncing"
	case StatusSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// SyncStatus is the sync progress carried by every state emission.
// ApplyGap is how far applied state trails the locally fetched source;
// SourceGap is how far the local source trails the canonical chain head.
type SyncStatus struct {
	Kind      StatusKind
	ApplyGap  uint64
	SourceGap uint64
}

// Synced reports whether the status is the synced tag.
func (s SyncStatus) Synced() bool {
	return s.Kind == StatusSynced
}

// ProgressKnown reports whether the wallet has produced any sync progress.
func (s SyncStatus) ProgressKnown() bool {
	return s.Kind != StatusUnknown
}

func (s SyncStatus) String() string {
	if s.Kind == StatusSyncing {
		return fmt.Sprintf("syncing(apply=%d, source=%d)", s.ApplyGap, s.SourceGap)
	}
	return s.Kind.String()
}

// AssetID identifies a token type.
type AssetID string

// NativeAsset is the network's native token. Wallet SDKs report it under an
// empty or all-zero token type; both are normalized to this value.
const NativeAsset AssetID = "native"

// NormalizeAsset maps the SDK spellings of the native token onto NativeAsset.
func NormalizeAsset(id string) AssetID {
	if strings.Trim(id, "0") == "" || strings.EqualFold(id, string(NativeAsset)) {
		return NativeAsset
	}
	return AssetID(id)
}

// BalanceMap maps asset identifiers to spendable amounts.
type BalanceMap map[AssetID]uint64

// Native returns the spendable native-asset balance.
func (b BalanceMap) Native() uint64 {
	return b[NativeAsset]
}

// Clone returns an independent copy.
func (b BalanceMap) Clone() BalanceMap {
	out := make(BalanceMap, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func (b BalanceMap) String() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, b[AssetID(k)]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// State is one emission of a live wallet's state stream.
type State struct {
	Status       SyncStatus
	Balances     BalanceMap
	Offset       SyncOffset
	Address      string
	TxHistoryLen int
}

// LogLevel is the verbosity handed to the wallet constructor.
type LogLevel string

// EndpointConfig bundles the network addresses a wallet talks to. The
// bootstrap engine passes it through untouched; NetworkID travels with the
// endpoints instead of living in process-wide state.
type EndpointConfig struct {
	NetworkID   string
	Indexer     string
	IndexerWS   string
	Node        string
	ProofServer string
}
