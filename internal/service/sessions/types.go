package sessions

import (
	"github.com/mrz1836/walletsync/internal/session"
	"github.com/mrz1836/walletsync/internal/wallet"
)

// AcquireRequest contains parameters for acquiring a session.
type AcquireRequest struct {
	Seed *wallet.Seed
	// Slot defaults to the configured slot when empty.
	Slot             string
	FundingThreshold uint64
	// Save writes a fresh snapshot once the session is ready.
	Save bool
}

// AcquireResult is a ready session plus the outcome of the optional save.
type AcquireResult struct {
	*session.Result

	Slot  string
	Saved bool
	// SaveErr is the save failure, if any. The session is usable regardless.
	SaveErr error
}
