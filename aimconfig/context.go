package aimconfig

import (
	"go.viam.com/aimcore/aimclock"
	"go.viam.com/aimcore/aimlog"
)

// Context bundles everything the source's global SHARED state used to hold
// (SHARED.t, SHARED.SETTINGS, SHARED.SETTINGS.pathfinder) into one value
// threaded explicitly through every call (spec.md §9 "Global configuration").
// There is no package-level mutable state anywhere in aimcore; every
// constructor that needs the simulation clock, config, or a logger takes a
// *Context.
type Context struct {
	Config *Config
	Clock  aimclock.Clock
	Log    aimlog.Logger
}

// NewContext validates cfg and returns a ready-to-use Context.
func NewContext(cfg *Config, clk aimclock.Clock, log aimlog.Logger) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Context{Config: cfg, Clock: clk, Log: log}, nil
}

// Now is a convenience accessor for the current tick.
func (c *Context) Now() int64 { return c.Clock.Now() }
