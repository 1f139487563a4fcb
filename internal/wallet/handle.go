package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
)

// Handle is a live wallet session.
//
// SubscribeState opens a fresh subscription to the state stream; every call
// starts a new, independent subscription. States are delivered on ch until
// the subscription is unsubscribed. The subscription's Err channel yields the
// error that ended the stream, or is closed without a value when the stream
// completes.
type Handle interface {
	// Start begins the wallet's background synchronization.
	Start(ctx context.Context) error
	SubscribeState(ch chan<- State) event.Subscription
	// SerializeState returns an opaque snapshot suitable for Restore.
	SerializeState() ([]byte, error)
	// Close releases network connections and background work.
	Close() error
}

// Constructor builds live wallets. Restore resumes from a snapshot produced
// by Handle.SerializeState; BuildFromSeed starts with no prior state.
type Constructor interface {
	Restore(ctx context.Context, endpoints EndpointConfig, seed *Seed, snapshot []byte, level LogLevel) (Handle, error)
	BuildFromSeed(ctx context.Context, endpoints EndpointConfig, seed *Seed, level LogLevel) (Handle, error)
}
