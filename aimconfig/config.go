// Package aimconfig collects the construction-time configuration spec.md
// §6 lists without a type, validated the way the teacher's config package
// validates component configs: a Validate method naming the first
// offending field, wrapped with github.com/pkg/errors.
package aimconfig

import "github.com/pkg/errors"

// Config holds every tunable the Tiling, RequestSimulator, and
// IntersectionManager consume at construction (spec.md §6).
type Config struct {
	// TileWidth is the world-unit length of a tile's side.
	TileWidth float64
	// RejectionThreshold is the per-tile cap on cumulative reservation
	// probability in [0,1]. 0 means strict (single-occupant) tiles.
	RejectionThreshold float64
	// LengthBufferFactor is the fractional halo added to a vehicle's
	// length for rasterization.
	LengthBufferFactor float64
	// MinAcceleration is the worst-case deceleration used for look-ahead
	// and braking calculations.
	MinAcceleration float64
	// TimestepLength is the wall-time duration, in seconds, of one tick.
	TimestepLength float64
	// SpeedLimit is the default speed limit in the absence of a
	// lane-specific override.
	SpeedLimit float64
	// SafetyBuffer is added to the minimum look-ahead window computed by
	// exitResTimestepsForward (spec.md §4.2).
	SafetyBuffer int
}

// Validate reports the first structurally invalid field, per spec.md §7
// class 4 (linkage/configuration errors fail at wiring time, before the
// simulation clock starts, never mid-tick).
func (c *Config) Validate() error {
	switch {
	case c.TileWidth <= 0:
		return errors.New("aimconfig: TileWidth must be positive")
	case c.RejectionThreshold < 0 || c.RejectionThreshold > 1:
		return errors.New("aimconfig: RejectionThreshold must be in [0,1]")
	case c.LengthBufferFactor < 0:
		return errors.New("aimconfig: LengthBufferFactor must be non-negative")
	case c.MinAcceleration <= 0:
		return errors.New("aimconfig: MinAcceleration must be positive")
	case c.TimestepLength <= 0:
		return errors.New("aimconfig: TimestepLength must be positive")
	case c.SpeedLimit <= 0:
		return errors.New("aimconfig: SpeedLimit must be positive")
	case c.SafetyBuffer < 0:
		return errors.New("aimconfig: SafetyBuffer must be non-negative")
	default:
		return nil
	}
}
