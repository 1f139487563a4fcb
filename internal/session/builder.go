// Package session acquires a synchronized, funded wallet session.
//
// Acquire prefers resuming from a saved snapshot. The restored wallet is
// checked against the live chain and must finish syncing; any failure on
// that path falls back to building the wallet from its seed. Only a failed
// fresh build is fatal. Saving a snapshot is a separate, explicit step.
//
// Acquires on different slots are independent. Two concurrent acquires on
// the same slot are not serialized; callers that need that must hold their
// own lock.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/mrz1836/walletsync/internal/config"
	"github.com/mrz1836/walletsync/internal/metrics"
	"github.com/mrz1836/walletsync/internal/observer"
	"github.com/mrz1836/walletsync/internal/reset"
	"github.com/mrz1836/walletsync/internal/retry"
	"github.com/mrz1836/walletsync/internal/snapshot"
	"github.com/mrz1836/walletsync/internal/wallet"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// Store loads and saves snapshot blobs by slot.
type Store interface {
	Load(slot string) ([]byte, error)
	Save(slot string, blob []byte) error
}

// Logger is the logging surface used by the builder.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config tunes the acquire flow.
type Config struct {
	Endpoints wallet.EndpointConfig
	LogLevel  wallet.LogLevel

	ResyncThrottle   time.Duration
	FundingThrottle  time.Duration
	ProgressThrottle time.Duration
	FundingReminder  time.Duration
	ResetTolerance   uint64
	FundingThreshold uint64

	Retry retry.Config
}

// DefaultConfig returns the standard throttles and thresholds.
func DefaultConfig() Config {
	return Config{
		LogLevel:         "warn",
		ResyncThrottle:   config.DefaultResyncThrottle,
		FundingThrottle:  config.DefaultFundingThrottle,
		ProgressThrottle: config.DefaultProgressThrottle,
		FundingReminder:  config.DefaultFundingReminder,
		ResetTolerance:   reset.DefaultTolerance,
		FundingThreshold: 1,
		Retry:            retry.DefaultConfig(),
	}
}

// FromConfig maps application settings onto a builder configuration.
func FromConfig(c *config.Config) Config {
	return Config{
		Endpoints: wallet.EndpointConfig{
			NetworkID:   c.Network.ID,
			Indexer:     c.Network.Indexer,
			IndexerWS:   c.Network.IndexerWS,
			Node:        c.Network.Node,
			ProofServer: c.Network.ProofServer,
		},
		LogLevel:         wallet.LogLevel(c.Sync.WalletLogLevel),
		ResyncThrottle:   c.Sync.ResyncThrottle,
		FundingThrottle:  c.Sync.FundingThrottle,
		ProgressThrottle: c.Sync.ProgressThrottle,
		FundingReminder:  c.Sync.FundingReminder,
		ResetTolerance:   c.Sync.ResetTolerance,
		FundingThreshold: c.Sync.FundingThreshold,
		Retry: retry.Config{
			MaxAttempts: c.Retry.MaxAttempts,
			BaseDelay:   c.Retry.BaseDelay,
			MaxDelay:    c.Retry.MaxDelay,
		},
	}
}

// Request identifies the wallet to acquire.
type Request struct {
	Seed *wallet.Seed
	Slot string
	// FundingThreshold overrides the configured minimum native balance
	// when non-zero.
	FundingThreshold uint64
}

// Result is a ready wallet session. The caller owns Handle and must close it.
type Result struct {
	Handle   wallet.Handle
	Path     Path
	State    wallet.State
	Stages   Trail
	Duration time.Duration
}

// Builder runs the acquire state machine.
type Builder struct {
	cfg         Config
	constructor wallet.Constructor
	store       Store
	observer    *observer.Observer
	detector    *reset.Detector
	funding     *observer.FundingWaiter
	logger      Logger
	metrics     *metrics.Metrics
	clock       clock.Clock
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder and observer logger.
func WithLogger(l Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// WithClock sets the clock for throttles, retries and timing.
func WithClock(c clock.Clock) Option {
	return func(b *Builder) {
		b.clock = c
	}
}

// NewBuilder creates a builder.
func NewBuilder(cfg Config, constructor wallet.Constructor, store Store, opts ...Option) *Builder {
	b := &Builder{
		cfg:         cfg,
		constructor: constructor,
		store:       store,
		logger:      config.NullLogger(),
		clock:       clock.NewDefaultClock(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.observer = observer.New(
		observer.WithClock(b.clock),
		observer.WithLogger(b.logger),
		observer.WithMetrics(b.metrics),
	)
	b.detector = reset.NewDetector(b.observer, cfg.ResetTolerance, cfg.ProgressThrottle)
	b.funding = observer.NewFundingWaiter(b.observer, b.logger, cfg.FundingThrottle, cfg.FundingReminder)
	return b
}

// Acquire returns a wallet that is synced and holds at least the funding
// threshold of the native asset.
//
// Errors are ErrWalletConstruction when the fresh build fails,
// ErrObservationFailure when the fresh wallet's stream fails, and
// ErrCanceled when ctx ends. Any handle opened along the way is closed
// before an error is returned.
func (b *Builder) Acquire(ctx context.Context, req Request) (*Result, error) {
	if req.Seed == nil {
		return nil, syncerr.WithDetails(syncerr.ErrInvalidSeed, map[string]string{"seed": "missing"})
	}
	if err := snapshot.ValidateSlot(req.Slot); err != nil {
		return nil, err
	}

	threshold := req.FundingThreshold
	if threshold == 0 {
		threshold = b.cfg.FundingThreshold
	}
	if threshold == 0 {
		threshold = 1
	}

	started := b.clock.Now()
	trail := Trail{StageStart}
	path := PathNone

	res, err := b.acquire(ctx, req, threshold, &trail, &path)
	duration := b.clock.Now().Sub(started)
	b.metrics.RecordAcquire(string(path), duration, err)
	if err != nil {
		b.logger.Error("acquire %q failed after %s: %v", req.Slot, trail, err)
		return nil, err
	}

	res.Duration = duration
	b.logger.Info("wallet session ready via %s in %s", res.Path, duration.Round(time.Millisecond))
	return res, nil
}

func (b *Builder) acquire(ctx context.Context, req Request, threshold uint64, trail *Trail, path *Path) (*Result, error) {
	h, err := b.restore(ctx, req, trail)
	if err != nil {
		return nil, err
	}

	*path = PathRestored
	if h == nil {
		*path = PathRebuilt
		*trail = append(*trail, StageRebuildFromSeed)
		if h, err = b.build(ctx, req); err != nil {
			return nil, err
		}
	}

	st, err := b.observer.Current(ctx, h)
	if err != nil {
		return nil, b.fail(ctx, h, err)
	}
	b.logger.Info("wallet address: %s", st.Address)
	b.logger.Info("native balance: %d (%s)", st.Balances.Native(), st.Status)

	if !st.Status.Synced() || st.Balances.Native() < threshold {
		if st, err = b.funding.Await(ctx, h, threshold); err != nil {
			return nil, b.fail(ctx, h, err)
		}
		b.logger.Info("wallet funded: native balance %d", st.Balances.Native())
	}
	*trail = append(*trail, StageFunded, StageDone)

	return &Result{
		Handle: h,
		Path:   *path,
		State:  st,
		Stages: *trail,
	}, nil
}

// restore attempts the snapshot path. It returns a synced handle, or a nil
// handle and nil error when the caller should build from seed. The only
// error it returns is cancellation.
func (b *Builder) restore(ctx context.Context, req Request, trail *Trail) (wallet.Handle, error) {
	blob, err := b.store.Load(req.Slot)
	if err != nil {
		if errors.Is(err, snapshot.ErrAbsent) {
			b.logger.Info("no snapshot in slot %q", req.Slot)
		} else {
			b.logger.Warn("could not load snapshot from slot %q, building from seed: %v", req.Slot, err)
			b.metrics.RecordFallback(reasonLoadFailed)
		}
		*trail = append(*trail, StageNoSnapshot)
		return nil, nil
	}
	*trail = append(*trail, StageRestoreAttempt)

	offset, err := wallet.ExtractOffset(blob)
	if err != nil {
		return b.abandon(ctx, nil, reasonSnapshotInvalid, err)
	}
	b.logger.Info("restoring wallet from slot %q at offset %d", req.Slot, offset)

	// The handle is not used when Restore fails; it may be a typed nil.
	h, err := b.constructor.Restore(ctx, b.cfg.Endpoints, req.Seed, blob, b.cfg.LogLevel)
	if err != nil {
		return b.abandon(ctx, nil, reasonRestoreFailed, err)
	}
	if err = h.Start(ctx); err != nil {
		return b.abandon(ctx, h, reasonStartFailed, err)
	}

	verdict, err := b.detector.IsReset(ctx, h, offset)
	if err != nil {
		return b.abandon(ctx, h, reasonResetCheck, err)
	}
	if verdict.Reset {
		*trail = append(*trail, StageResetDetected)
		b.logger.Warn("chain reset detected: live offset %d is behind snapshot offset %d (tolerance %d), building from seed",
			verdict.Live, verdict.Restored, verdict.Tolerance)
		return b.abandon(ctx, h, reasonChainReset, nil)
	}
	*trail = append(*trail, StageResetNotDetected, StageResyncCheck)

	if _, err = b.observer.Wait(ctx, h, observer.Synced, b.cfg.ResyncThrottle); err != nil {
		return b.abandon(ctx, h, reasonResyncFailed, err)
	}
	*trail = append(*trail, StageSynced)
	return h, nil
}

// abandon closes h and either reports cancellation or signals a rebuild.
func (b *Builder) abandon(ctx context.Context, h wallet.Handle, reason string, cause error) (wallet.Handle, error) {
	b.closeHandle(h)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, syncerr.Mark(syncerr.ErrCanceled, ctxErr)
	}
	if cause != nil {
		b.logger.Warn("restore abandoned (%s), building from seed: %v", reason, cause)
	}
	b.metrics.RecordFallback(reason)
	return nil, nil
}

// build constructs and starts a wallet from the seed, retrying transient
// failures.
func (b *Builder) build(ctx context.Context, req Request) (wallet.Handle, error) {
	b.logger.Info("building wallet from seed %s", req.Seed.Fingerprint())

	cfg := b.cfg.Retry
	cfg.Clock = b.clock
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		b.logger.Warn("wallet construction attempt %d failed, retrying in %s: %v", attempt, delay.Round(time.Millisecond), err)
	}

	h, err := retry.Do(ctx, cfg, func(ctx context.Context) (wallet.Handle, error) {
		h, err := b.constructor.BuildFromSeed(ctx, b.cfg.Endpoints, req.Seed, b.cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		if err = h.Start(ctx); err != nil {
			b.closeHandle(h)
			return nil, err
		}
		return h, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, syncerr.Mark(syncerr.ErrCanceled, ctxErr)
		}
		return nil, syncerr.Mark(syncerr.ErrWalletConstruction, err)
	}
	return h, nil
}

// fail closes h and returns the error for a fatal failure after the wallet
// was built.
func (b *Builder) fail(ctx context.Context, h wallet.Handle, err error) error {
	b.closeHandle(h)
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, syncerr.ErrCanceled) {
		return syncerr.Mark(syncerr.ErrCanceled, ctxErr)
	}
	return err
}

func (b *Builder) closeHandle(h wallet.Handle) {
	if h == nil {
		return
	}
	if err := h.Close(); err != nil {
		b.logger.Debug("closing wallet: %v", err)
	}
}

// Save serializes h and writes it to slot. Failures are logged and returned;
// the session stays usable either way.
func (b *Builder) Save(ctx context.Context, h wallet.Handle, slot string) error {
	if err := ctx.Err(); err != nil {
		return syncerr.Mark(syncerr.ErrCanceled, err)
	}

	blob, err := h.SerializeState()
	if err != nil {
		err = syncerr.Wrap(err, "serializing wallet state")
		b.logger.Error("could not save snapshot to slot %q: %v", slot, err)
		return err
	}

	if err = b.store.Save(slot, blob); err != nil {
		b.logger.Error("could not save snapshot to slot %q: %v", slot, err)
		return err
	}

	b.logger.Info("saved snapshot to slot %q (%d bytes)", slot, len(blob))
	return nil
}
