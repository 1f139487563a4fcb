package sessions

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/mrz1836/walletsync/internal/session"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// Service acquires wallet sessions without CLI dependencies.
type Service struct {
	builder Acquirer
	config  ConfigProvider
	logger  LogWriter

	// slots holds a one-token semaphore per snapshot slot.
	slots *xsync.Map[string, chan struct{}]
}

// Config contains dependencies for creating a session service.
type Config struct {
	Builder Acquirer
	Config  ConfigProvider
	Logger  LogWriter
}

// NewService creates a new session service instance.
func NewService(cfg *Config) *Service {
	return &Service{
		builder: cfg.Builder,
		config:  cfg.Config,
		logger:  cfg.Logger,
		slots:   xsync.NewMap[string, chan struct{}](),
	}
}

// Acquire runs one acquire under the configured deadline. Concurrent
// acquires on the same slot wait for each other; other slots proceed
// independently.
func (s *Service) Acquire(ctx context.Context, req AcquireRequest) (*AcquireResult, error) {
	slot := req.Slot
	if slot == "" {
		slot = s.config.GetDefaultSlot()
	}

	if timeout := s.config.GetAcquireTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	unlock, err := s.lock(ctx, slot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	res, err := s.builder.Acquire(ctx, session.Request{
		Seed:             req.Seed,
		Slot:             slot,
		FundingThreshold: req.FundingThreshold,
	})
	if err != nil {
		return nil, err
	}

	out := &AcquireResult{Result: res, Slot: slot}
	if !req.Save {
		return out, nil
	}

	if err = s.builder.Save(ctx, res.Handle, slot); err != nil {
		s.logger.Error("session on slot %q is ready but was not saved: %v", slot, err)
		out.SaveErr = err
		return out, nil
	}
	out.Saved = true
	return out, nil
}

// lock takes the slot's semaphore, giving up when ctx ends.
func (s *Service) lock(ctx context.Context, slot string) (func(), error) {
	sem, _ := s.slots.LoadOrCompute(slot, func() (chan struct{}, bool) {
		return make(chan struct{}, 1), false
	})

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, syncerr.Mark(syncerr.ErrCanceled, ctx.Err())
	}
	s.logger.Debug("acquired slot lock %q", slot)

	return func() { <-sem }, nil
}
