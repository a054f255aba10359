// Package vehicle implements the core's Vehicle data model (spec.md §3)
// and the kinematic update helpers original_source/aimsim/lanes.py left as
// "raise NotImplementedError("TODO")" stubs, completed here since
// RequestSimulator's speed-update phase depends on them (spec.md §4.2 step
// 1, SPEC_FULL.md §11).
package vehicle

import (
	"math"

	"github.com/google/uuid"

	"go.viam.com/aimcore/aimgeom"
)

// Vehicle is a single vehicle's identity, kinematics, physical dimensions,
// and reservation flags (spec.md §3). Vehicle is never mutated by a
// speculative rollout — CloneForRequest produces the copy that rollout
// mutates instead.
type Vehicle struct {
	VIN uuid.UUID

	Pos     aimgeom.Coord
	Heading float64
	V       float64
	A       float64

	Length      float64
	Width       float64
	MaxAccel    float64
	MaxBraking  float64

	HasReservation                bool
	PermissionToEnterIntersection bool
}

// New constructs a Vehicle with a fresh VIN.
func New(pos aimgeom.Coord, heading, length, width, maxAccel, maxBraking float64) *Vehicle {
	return &Vehicle{
		VIN:        uuid.New(),
		Pos:        pos,
		Heading:    heading,
		Length:     length,
		Width:      width,
		MaxAccel:   maxAccel,
		MaxBraking: maxBraking,
	}
}

// CloneForRequest returns a deep copy of v for use inside a single
// RequestSimulator rollout. Since Vehicle has no pointer/slice fields, a
// value copy already is a deep copy; the explicit method exists so callers
// never need to know that and so the clone boundary is visible at call
// sites (spec.md §9's MockWorld design note).
func (v *Vehicle) CloneForRequest() *Vehicle {
	clone := *v
	return &clone
}

// Footprint returns the vehicle's current occupancy rectangle, inflated by
// lengthBufferFactor (spec.md §3/§4.1).
func (v *Vehicle) Footprint(lengthBufferFactor float64) aimgeom.Footprint {
	return aimgeom.NewFootprint(v.Pos, v.Heading, v.Length, v.Width, lengthBufferFactor)
}

// SectionPoint returns the world coordinate of one of the vehicle's three
// collinear reference points (spec.md §3).
func (v *Vehicle) SectionPoint(section aimgeom.VehicleSection) aimgeom.Coord {
	dir := aimgeom.Coord{X: math.Cos(v.Heading), Y: math.Sin(v.Heading)}
	half := v.Length / 2
	switch section {
	case aimgeom.Front:
		return v.Pos.Add(dir.Scale(half))
	case aimgeom.Rear:
		return v.Pos.Sub(dir.Scale(half))
	default:
		return v.Pos
	}
}

// AccelUncontested returns the acceleration a vehicle applies when nothing
// ahead of it constrains its motion: full acceleration toward the
// effective speed limit, full braking above it, none at it. Ported from
// original_source/aimsim/lanes.py's accel_update_uncontested.
func (v *Vehicle) AccelUncontested(effectiveSpeedLimit float64) float64 {
	switch {
	case v.V > effectiveSpeedLimit:
		return -v.MaxBraking
	case v.V == effectiveSpeedLimit:
		return 0
	default:
		return v.MaxAccel
	}
}

// AccelFollowing returns the acceleration that keeps v from closing the gap
// on a preceding object (a vehicle, or the intersection entry line) faster
// than it can safely stop. gap is the distance in meters ahead along the
// lane; preV/preA describe the object being followed. Completes
// original_source/aimsim/lanes.py's accel_update_following, whose general
// branch is left unimplemented in the source; here the safe-following gap
// is the usual squared-stopping-distance comparison: accelerate only while
// v's stopping distance stays under the gap plus the preceding object's
// stopping distance.
func (v *Vehicle) AccelFollowing(effectiveSpeedLimit, gap, preV, preA float64) float64 {
	aMaybe := v.AccelUncontested(effectiveSpeedLimit)
	if aMaybe < 0 {
		// Already need to brake regardless of closeness.
		return aMaybe
	}

	stopDistSelf := stoppingDistance(v.V, v.MaxBraking)
	stopDistPre := stoppingDistance(preV, maxf(preA, v.MaxBraking))
	if stopDistSelf >= gap+stopDistPre {
		return -v.MaxBraking
	}
	return aMaybe
}

// SpeedUpdate advances v's speed by accel over one timestep, clamped to
// [0, effectiveSpeedLimit] (ported from accel-time
// original_source/aimsim/lanes.py's speed_update; note acceleration and
// resulting velocity aren't perfectly consistent because time is
// discrete).
func (v *Vehicle) SpeedUpdate(accel, timestepLength, effectiveSpeedLimit float64) (newV, newA float64) {
	vNew := v.V + accel*timestepLength
	if vNew < 0 {
		return 0, accel
	}
	if vNew > effectiveSpeedLimit {
		return effectiveSpeedLimit, accel
	}
	return vNew, accel
}

func stoppingDistance(v, braking float64) float64 {
	if braking <= 0 {
		return 0
	}
	return (v * v) / (2 * braking)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
