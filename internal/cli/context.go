package cli

import (
	"github.com/mrz1836/walletsync/internal/config"
	"github.com/mrz1836/walletsync/internal/output"
	"github.com/mrz1836/walletsync/internal/snapshot"
)

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Config    *config.Config
	Logger    *config.Logger
	Formatter *output.Formatter
	Store     SnapshotStore
}

// NewCommandContext creates a context with the given dependencies. The
// snapshot store is opened from the configuration.
func NewCommandContext(c *config.Config, l *config.Logger, f *output.Formatter) *CommandContext {
	opts := []snapshot.Option{}
	if c.Snapshots.Password != "" {
		opts = append(opts, snapshot.WithPassword(c.Snapshots.Password))
	}

	return &CommandContext{
		Config:    c,
		Logger:    l,
		Formatter: f,
		Store:     snapshot.NewStore(c.SnapshotDir(), opts...),
	}
}

// commandContext builds a context from the global state.
func commandContext() *CommandContext {
	return NewCommandContext(cfg, logger, formatter)
}

// slotArg returns the slot named in args or the configured default.
func (c *CommandContext) slotArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return c.Config.GetDefaultSlot()
}
