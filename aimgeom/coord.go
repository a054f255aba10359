// Package aimgeom holds the flat-plane geometry the intersection core needs:
// points, vehicle footprints, and the tile rasterization algorithm. It knows
// nothing about vehicles, reservations, or tiles as domain objects — only
// the shapes their geometry reduces to.
package aimgeom

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats"
)

// Coord is a point on the intersection plane. Equality is exact, matching
// spec.md's data model: a Coord doubles as a geometric point and as a lane
// endpoint identity, so two Coords with the same bits must compare equal.
type Coord struct {
	X, Y float64
}

// vec returns the r2.Point backing this Coord's vector arithmetic.
func (c Coord) vec() r2.Point { return r2.Point{X: c.X, Y: c.Y} }

func fromVec(v r2.Point) Coord { return Coord{X: v.X, Y: v.Y} }

// Add returns c + other.
func (c Coord) Add(other Coord) Coord { return fromVec(c.vec().Add(other.vec())) }

// Sub returns c - other.
func (c Coord) Sub(other Coord) Coord { return fromVec(c.vec().Sub(other.vec())) }

// Scale returns c scaled by f.
func (c Coord) Scale(f float64) Coord { return fromVec(c.vec().Mul(f)) }

// Dist returns the Euclidean distance between c and other.
func (c Coord) Dist(other Coord) float64 { return c.vec().Sub(other.vec()).Norm() }

// VehicleSection is one of the three collinear reference points along a
// vehicle's heading used for tile occupancy (spec.md §3).
type VehicleSection int

const (
	Front VehicleSection = iota
	Center
	Rear
)

func (s VehicleSection) String() string {
	switch s {
	case Front:
		return "FRONT"
	case Center:
		return "CENTER"
	case Rear:
		return "REAR"
	default:
		return "UNKNOWN"
	}
}

// defaultEpsilon is the tolerance used by IsClose for the tile-boundary
// tie-breaks the rasterizer needs (spec.md §4.1).
const defaultEpsilon = 1e-9

// IsClose reports whether a and b are within epsilon of each other. Pass
// epsilon <= 0 to use the default tolerance used by the rasterizer's
// grid-boundary tie-break.
func IsClose(a, b, epsilon float64) bool {
	if epsilon <= 0 {
		epsilon = defaultEpsilon
	}
	return floats.EqualWithinAbs(a, b, epsilon)
}
