// Package observer waits on a wallet's state stream until a condition holds.
//
// Emissions are sampled through a trailing throttle window: the first state
// after an evaluation opens a window, later states replace it, and when the
// window closes the most recent state is evaluated. Every sampled state also
// reports sync progress to the logger and metrics.
package observer

import (
	"context"
	"errors"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/mrz1836/walletsync/internal/config"
	"github.com/mrz1836/walletsync/internal/metrics"
	"github.com/mrz1836/walletsync/internal/wallet"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// errStreamCompleted is the cause of an observation failure when the stream
// ended without an error.
var errStreamCompleted = errors.New("state stream completed")

// Logger is the logging surface used by the observer.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
}

// Predicate reports whether a state satisfies a wait.
type Predicate func(wallet.State) bool

// Synced holds when the wallet has caught up with the chain.
func Synced(st wallet.State) bool {
	return st.Status.Synced()
}

// ProgressKnown holds once the wallet reports any sync progress.
func ProgressKnown(st wallet.State) bool {
	return st.Status.ProgressKnown()
}

// FundedAtLeast holds when the native balance is at least n.
func FundedAtLeast(n uint64) Predicate {
	return func(st wallet.State) bool {
		return st.Balances.Native() >= n
	}
}

// All holds when every predicate holds.
func All(preds ...Predicate) Predicate {
	return func(st wallet.State) bool {
		for _, p := range preds {
			if !p(st) {
				return false
			}
		}
		return true
	}
}

func always(wallet.State) bool { return true }

// Observer runs waits against wallet handles.
type Observer struct {
	clock   clock.Clock
	logger  Logger
	metrics *metrics.Metrics
}

// Option configures an Observer.
type Option func(*Observer)

// WithClock sets the clock driving throttle windows.
func WithClock(c clock.Clock) Option {
	return func(o *Observer) {
		o.clock = c
	}
}

// WithLogger sets the progress logger.
func WithLogger(l Logger) Option {
	return func(o *Observer) {
		o.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Observer) {
		o.metrics = m
	}
}

// New creates an observer using the system clock and no logging.
func New(opts ...Option) *Observer {
	o := &Observer{
		clock:  clock.NewDefaultClock(),
		logger: config.NullLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Wait subscribes to h and returns the first sampled state satisfying pred.
// A throttle of zero or less evaluates every emission. The subscription is
// released before Wait returns.
//
// If the stream errors or completes first the error is ErrObservationFailure;
// if ctx ends first it is ErrCanceled wrapping the context error.
func (o *Observer) Wait(ctx context.Context, h wallet.Handle, pred Predicate, throttle time.Duration) (wallet.State, error) {
	if err := ctx.Err(); err != nil {
		return wallet.State{}, syncerr.Mark(syncerr.ErrCanceled, err)
	}

	updates := make(chan wallet.State)
	sub := h.SubscribeState(updates)
	defer sub.Unsubscribe()

	var (
		latest  wallet.State
		pending bool
		window  <-chan time.Time
	)

	sample := func() bool {
		pending = false
		o.report(latest)
		return pred(latest)
	}

	for {
		select {
		case <-ctx.Done():
			return wallet.State{}, syncerr.Mark(syncerr.ErrCanceled, ctx.Err())

		case err := <-sub.Err():
			// A window still open when the stream ends is flushed.
			if pending && sample() {
				return latest, nil
			}
			if err == nil {
				err = errStreamCompleted
			}
			o.metrics.RecordObservationFailure()
			return wallet.State{}, syncerr.Mark(syncerr.ErrObservationFailure, err)

		case st := <-updates:
			latest, pending = st, true
			if throttle <= 0 {
				if sample() {
					return latest, nil
				}
				continue
			}
			if window == nil {
				window = o.clock.TickAfter(throttle)
			}

		case <-window:
			window = nil
			if pending && sample() {
				return latest, nil
			}
		}
	}
}

// Current returns the first state the wallet emits.
func (o *Observer) Current(ctx context.Context, h wallet.Handle) (wallet.State, error) {
	return o.Wait(ctx, h, always, 0)
}

func (o *Observer) report(st wallet.State) {
	o.logger.Debug("sync progress: status=%s applyGap=%d sourceGap=%d txHistory=%d offset=%d",
		st.Status.Kind, st.Status.ApplyGap, st.Status.SourceGap, st.TxHistoryLen, st.Offset)
	o.metrics.ObserveState(st)
}
