package observer

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrz1836/walletsync/internal/wallet"
)

// Funding wait defaults.
const (
	DefaultFundingThrottle = 10 * time.Second
	DefaultReminder        = time.Minute
)

// FundingWaiter blocks until a wallet is synced and holds a minimum native
// balance, reminding the operator where to send funds while it waits.
type FundingWaiter struct {
	observer *Observer
	logger   Logger
	throttle time.Duration
	reminder time.Duration
}

// NewFundingWaiter creates a waiter. Non-positive durations take the defaults;
// logger may be nil to reuse the observer's logger.
func NewFundingWaiter(o *Observer, logger Logger, throttle, reminder time.Duration) *FundingWaiter {
	if throttle <= 0 {
		throttle = DefaultFundingThrottle
	}
	if reminder <= 0 {
		reminder = DefaultReminder
	}
	if logger == nil {
		logger = o.logger
	}
	return &FundingWaiter{
		observer: o,
		logger:   logger,
		throttle: throttle,
		reminder: reminder,
	}
}

// Await returns the first sampled state that is synced with a native balance
// of at least threshold. A zero threshold is treated as one.
func (w *FundingWaiter) Await(ctx context.Context, h wallet.Handle, threshold uint64) (wallet.State, error) {
	if threshold == 0 {
		threshold = 1
	}

	funded := All(Synced, FundedAtLeast(threshold))
	remind := &rate.Sometimes{First: 1, Interval: w.reminder}

	pred := func(st wallet.State) bool {
		if funded(st) {
			return true
		}
		remind.Do(func() {
			w.logger.Info("waiting for funds at %s: native balance %d, need %d",
				st.Address, st.Balances.Native(), threshold)
		})
		return false
	}

	return w.observer.Wait(ctx, h, pred, w.throttle)
}

// WaitForFunds is Await returning only the balances.
func (w *FundingWaiter) WaitForFunds(ctx context.Context, h wallet.Handle, threshold uint64) (wallet.BalanceMap, error) {
	st, err := w.Await(ctx, h, threshold)
	if err != nil {
		return nil, err
	}
	return st.Balances.Clone(), nil
}
