// Package wallettest provides scripted wallet handles and constructors for
// exercising the session bootstrap engine without a network.
package wallettest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/mrz1836/walletsync/internal/wallet"
)

// ErrClosed is returned by operations on a closed stub wallet.
var ErrClosed = errors.New("wallet closed")

// Script describes what every subscription to a stub wallet observes.
// States are emitted in order, each Interval after the previous one. After
// the last state the stream ends with Err if set, completes if Complete is
// true, and otherwise stays open without further emissions.
type Script struct {
	States   []wallet.State
	Interval time.Duration
	Err      error
	Complete bool
}

// Wallet is a scripted wallet.Handle. Each SubscribeState call replays the
// script from the beginning on its own goroutine.
type Wallet struct {
	script Script

	// StartErr and SerializeErr make the respective calls fail.
	StartErr     error
	SerializeErr error
	// Snapshot overrides the serialized form; by default it is
	// {"offset": <last scripted offset>}.
	Snapshot []byte

	starts   atomic.Int32
	closes   atomic.Int32
	subs     atomic.Int32
	emitted  atomic.Int32
	active   atomic.Int32
	closedMu sync.Mutex
	closed   bool
}

// NewWallet returns a stub wallet playing script.
func NewWallet(script Script) *Wallet {
	return &Wallet{script: script}
}

// Start records the call and returns StartErr.
func (w *Wallet) Start(ctx context.Context) error {
	w.starts.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.isClosed() {
		return ErrClosed
	}
	return w.StartErr
}

// SubscribeState replays the script to ch.
func (w *Wallet) SubscribeState(ch chan<- wallet.State) event.Subscription {
	w.subs.Add(1)
	return event.NewSubscription(func(quit <-chan struct{}) error {
		w.active.Add(1)
		defer w.active.Add(-1)

		for _, st := range w.script.States {
			if w.script.Interval > 0 {
				timer := time.NewTimer(w.script.Interval)
				select {
				case <-quit:
					timer.Stop()
					return nil
				case <-timer.C:
				}
			}
			select {
			case <-quit:
				return nil
			case ch <- cloneState(st):
				w.emitted.Add(1)
			}
		}

		if w.script.Err != nil {
			return w.script.Err
		}
		if w.script.Complete {
			return nil
		}
		<-quit
		return nil
	})
}

// SerializeState returns Snapshot or a minimal JSON session.
func (w *Wallet) SerializeState() ([]byte, error) {
	if w.SerializeErr != nil {
		return nil, w.SerializeErr
	}
	if w.Snapshot != nil {
		return w.Snapshot, nil
	}
	var offset wallet.SyncOffset
	if n := len(w.script.States); n > 0 {
		offset = w.script.States[n-1].Offset
	}
	return json.Marshal(map[string]any{"offset": offset})
}

// Close marks the wallet closed.
func (w *Wallet) Close() error {
	w.closes.Add(1)
	w.closedMu.Lock()
	defer w.closedMu.Unlock()
	w.closed = true
	return nil
}

func (w *Wallet) isClosed() bool {
	w.closedMu.Lock()
	defer w.closedMu.Unlock()
	return w.closed
}

// Starts returns how many times Start was called.
func (w *Wallet) Starts() int { return int(w.starts.Load()) }

// Closes returns how many times Close was called.
func (w *Wallet) Closes() int { return int(w.closes.Load()) }

// Subscriptions returns how many subscriptions were opened.
func (w *Wallet) Subscriptions() int { return int(w.subs.Load()) }

// Emitted returns the number of states delivered across all subscriptions.
func (w *Wallet) Emitted() int { return int(w.emitted.Load()) }

// ActiveSubscriptions returns how many subscription goroutines are running.
func (w *Wallet) ActiveSubscriptions() int { return int(w.active.Load()) }

func cloneState(st wallet.State) wallet.State {
	if st.Balances != nil {
		st.Balances = st.Balances.Clone()
	}
	return st
}

// Synced returns a synced state at offset with the given native balance.
func Synced(offset wallet.SyncOffset, native uint64) wallet.State {
	return wallet.State{
		Status:   wallet.SyncStatus{Kind: wallet.StatusSynced},
		Balances: wallet.BalanceMap{wallet.NativeAsset: native},
		Offset:   offset,
		Address:  "mn_addr_undeployed1stub",
	}
}

// Syncing returns a syncing state at offset with the given lag.
func Syncing(offset wallet.SyncOffset, applyGap, sourceGap uint64) wallet.State {
	return wallet.State{
		Status:   wallet.SyncStatus{Kind: wallet.StatusSyncing, ApplyGap: applyGap, SourceGap: sourceGap},
		Balances: wallet.BalanceMap{},
		Offset:   offset,
		Address:  "mn_addr_undeployed1stub",
	}
}

// Unknown returns a state without sync progress.
func Unknown() wallet.State {
	return wallet.State{Balances: wallet.BalanceMap{}}
}
