// Package reset detects a chain that was wiped after a snapshot was taken.
//
// A restored wallet reports the offset it has reached on the live chain. If
// that offset is further behind the snapshot's recorded offset than the
// tolerance allows, the chain the snapshot came from no longer exists.
package reset

import (
	"context"
	"time"

	"github.com/mrz1836/walletsync/internal/observer"
	"github.com/mrz1836/walletsync/internal/wallet"
)

// DefaultTolerance absorbs the one-block lag a freshly restored wallet may
// report against its own snapshot.
const DefaultTolerance uint64 = 1

// Verdict is the outcome of a reset check.
type Verdict struct {
	Reset     bool
	Live      wallet.SyncOffset
	Restored  wallet.SyncOffset
	Tolerance uint64
}

// Diverged reports whether live is more than tolerance behind restored.
func Diverged(live, restored wallet.SyncOffset, tolerance uint64) bool {
	if uint64(restored) <= tolerance {
		return false
	}
	return uint64(live) < uint64(restored)-tolerance
}

// Evaluate applies the reset rule to a pair of offsets.
func Evaluate(live, restored wallet.SyncOffset, tolerance uint64) Verdict {
	return Verdict{
		Reset:     Diverged(live, restored, tolerance),
		Live:      live,
		Restored:  restored,
		Tolerance: tolerance,
	}
}

// Detector compares a restored wallet's live offset with its snapshot.
type Detector struct {
	observer  *observer.Observer
	tolerance uint64
	throttle  time.Duration
}

// NewDetector creates a detector reading state through o. The first progress
// report is sampled through a throttle window so that a burst of stale states
// replayed right after a restore collapses to the newest one.
func NewDetector(o *observer.Observer, tolerance uint64, throttle time.Duration) *Detector {
	return &Detector{observer: o, tolerance: tolerance, throttle: throttle}
}

// Tolerance returns the configured tolerance.
func (d *Detector) Tolerance() uint64 {
	return d.tolerance
}

// IsReset waits until h reports sync progress and evaluates its offset
// against restored. Observation errors are returned unchanged.
func (d *Detector) IsReset(ctx context.Context, h wallet.Handle, restored wallet.SyncOffset) (Verdict, error) {
	st, err := d.observer.Wait(ctx, h, observer.ProgressKnown, d.throttle)
	if err != nil {
		return Verdict{}, err
	}
	return Evaluate(st.Offset, restored, d.tolerance), nil
}
