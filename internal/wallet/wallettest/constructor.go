package wallettest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mrz1836/walletsync/internal/wallet"
)

var errNotConfigured = errors.New("stub constructor has no wallet configured")

// Constructor is a wallet.Constructor returning preconfigured stub wallets
// and recording every call.
type Constructor struct {
	Restored   *Wallet
	RestoreErr error
	Built      *Wallet
	// BuildErrs are returned by successive BuildFromSeed calls before Built
	// is handed out.
	BuildErrs []error

	restoreCalls atomic.Int32
	buildCalls   atomic.Int32

	mu            sync.Mutex
	lastSnapshot  []byte
	lastEndpoints wallet.EndpointConfig
	lastLevel     wallet.LogLevel
}

// Restore records the call and returns Restored or RestoreErr.
func (c *Constructor) Restore(ctx context.Context, endpoints wallet.EndpointConfig, _ *wallet.Seed, snapshot []byte, level wallet.LogLevel) (wallet.Handle, error) {
	c.restoreCalls.Add(1)
	c.record(endpoints, level)

	c.mu.Lock()
	c.lastSnapshot = append([]byte(nil), snapshot...)
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.RestoreErr != nil {
		return nil, c.RestoreErr
	}
	if c.Restored == nil {
		return nil, errNotConfigured
	}
	return c.Restored, nil
}

// BuildFromSeed records the call and returns the next queued error or Built.
func (c *Constructor) BuildFromSeed(ctx context.Context, endpoints wallet.EndpointConfig, _ *wallet.Seed, level wallet.LogLevel) (wallet.Handle, error) {
	n := int(c.buildCalls.Add(1))
	c.record(endpoints, level)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= len(c.BuildErrs) {
		return nil, c.BuildErrs[n-1]
	}
	if c.Built == nil {
		return nil, errNotConfigured
	}
	return c.Built, nil
}

func (c *Constructor) record(endpoints wallet.EndpointConfig, level wallet.LogLevel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastEndpoints = endpoints
	c.lastLevel = level
}

// RestoreCalls returns the number of Restore calls.
func (c *Constructor) RestoreCalls() int { return int(c.restoreCalls.Load()) }

// BuildCalls returns the number of BuildFromSeed calls.
func (c *Constructor) BuildCalls() int { return int(c.buildCalls.Load()) }

// LastSnapshot returns the blob passed to the most recent Restore.
func (c *Constructor) LastSnapshot() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSnapshot
}

// LastEndpoints returns the endpoints passed to the most recent call.
func (c *Constructor) LastEndpoints() wallet.EndpointConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastEndpoints
}

// LastLevel returns the log level passed to the most recent call.
func (c *Constructor) LastLevel() wallet.LogLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastLevel
}
