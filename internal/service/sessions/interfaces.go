// Package sessions runs session acquires for long-lived callers: it applies
// the configured deadline, serializes acquires per slot and optionally saves
// the resulting snapshot.
package sessions

import (
	"context"
	"time"

	"github.com/mrz1836/walletsync/internal/session"
	"github.com/mrz1836/walletsync/internal/wallet"
)

// Acquirer runs the acquire state machine.
type Acquirer interface {
	Acquire(ctx context.Context, req session.Request) (*session.Result, error)
	Save(ctx context.Context, h wallet.Handle, slot string) error
}

// ConfigProvider provides the acquire settings.
type ConfigProvider interface {
	GetAcquireTimeout() time.Duration
	GetDefaultSlot() string
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}
