// Package aimclock gives the simulation an injectable notion of time,
// replacing the source's global SHARED.t counter (spec.md §9) with an
// explicit, testable dependency.
package aimclock

import "github.com/benbjohnson/clock"

// Clock is the virtual-time source driving tick advancement. The tick
// counter itself — "now" in spec.md's terms — lives on Clock so that tests
// can fast-forward deterministically with the NewMock counter instead of
// sleeping on a wall clock.
type Clock interface {
	// Now returns the current tick number. Starts at 0.
	Now() int64
	// Advance moves the clock forward by one tick.
	Advance()
}

// real wraps github.com/benbjohnson/clock for wall-clock deployments; each
// Advance corresponds to one simulated timestep, not one call to the
// system clock, but embedding clock.Clock keeps the door open for a future
// real-time pacing mode without changing this interface.
type real struct {
	wall clock.Clock
	tick int64
}

// NewReal returns a Clock starting at tick 0 that holds a real wall clock.
// The wall clock is never consulted; tick advancement is purely a counter.
func NewReal() Clock {
	return &real{wall: clock.New()}
}

func (r *real) Now() int64 { return r.tick }
func (r *real) Advance()   { r.tick++ }

// mock is a bare counter usable in tests without any wall-clock dependency.
type mock struct {
	tick int64
}

// NewMock returns a Clock for tests: Advance is the only way its tick
// counter moves.
func NewMock() Clock {
	return &mock{}
}

func (m *mock) Now() int64 { return m.tick }
func (m *mock) Advance()   { m.tick++ }
