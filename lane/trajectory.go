// Package lane implements the 1-dimensional progress tracking a vehicle
// follows along a road or through an intersection (spec.md §6/§8): a
// Trajectory supplies the geometry, a Lane tracks which vehicles are on it
// and how far along they've gotten.
package lane

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/aimcore/aimgeom"
)

// Trajectory is the geometric backbone a Lane's vehicles progress along.
// Position/Heading take a proportional progress p in [0,1].
type Trajectory interface {
	Position(p float64) aimgeom.Coord
	Heading(p float64) float64
	Length() float64
	Start() aimgeom.Coord
	End() aimgeom.Coord
}

// BezierTrajectory is a quadratic Bezier curve defined by a start, end, and
// single control coordinate (direct port of
// original_source/aimsim/trajectories/bezier.py).
type BezierTrajectory struct {
	start, end, control aimgeom.Coord
	length               float64
}

// NewBezierTrajectory builds a trajectory from an explicit control point.
func NewBezierTrajectory(start, end, control aimgeom.Coord) *BezierTrajectory {
	t := &BezierTrajectory{start: start, end: end, control: control}
	t.length = t.findLength(0.001)
	return t
}

// AsIntersectionConnector builds the Bezier trajectory an IntersectionLane
// uses to connect an entry heading to an exit heading, solving for the
// control point as the intersection of the two tangent lines (ported from
// BezierTrajectory.as_intersection_connector). Headings are in radians.
func AsIntersectionConnector(start aimgeom.Coord, startHeading float64, end aimgeom.Coord, endHeading float64) (*BezierTrajectory, error) {
	if normalizeAngle(startHeading) == normalizeAngle(endHeading+math.Pi) {
		return nil, errors.New("lane: IO lanes are parallel")
	}

	startVert := math.Mod(startHeading, math.Pi) == math.Pi/2
	endVert := math.Mod(endHeading, math.Pi) == math.Pi/2

	var control aimgeom.Coord
	switch {
	case startVert && endVert:
		control = aimgeom.Coord{X: end.X, Y: (end.Y - start.Y) / 2}
	case startVert:
		control = aimgeom.Coord{
			X: start.X,
			Y: math.Tan(endHeading)*(start.X-end.X) + end.Y,
		}
	case endVert:
		control = aimgeom.Coord{
			X: end.X,
			Y: math.Tan(startHeading)*(end.X-start.X) + start.Y,
		}
	default:
		m0 := math.Tan(startHeading)
		m1 := math.Tan(endHeading)
		if m0 == 0 && m1 == 0 {
			control = aimgeom.Coord{X: (end.X - start.X) / 2, Y: end.Y}
		} else {
			x := ((m0*start.X-m1*end.X)-(start.Y-end.Y))/(m0 - m1)
			y := m0*(x-start.X) + start.Y
			control = aimgeom.Coord{X: x, Y: y}
		}
	}

	return NewBezierTrajectory(start, end, control), nil
}

func normalizeAngle(a float64) float64 {
	twoPi := 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

func quadraticBezier(p, start, control, end float64) float64 {
	return (1-p)*((1-p)*start+p*control) + p*((1-p)*control+p*end)
}

// Position returns the world coordinate at proportional progress p.
func (b *BezierTrajectory) Position(p float64) aimgeom.Coord {
	return aimgeom.Coord{
		X: quadraticBezier(p, b.start.X, b.control.X, b.end.X),
		Y: quadraticBezier(p, b.start.Y, b.control.Y, b.end.Y),
	}
}

// Heading returns the direction of travel, in radians, at proportional
// progress p, taken as the tangent of the curve there.
func (b *BezierTrajectory) Heading(p float64) float64 {
	const dp = 1e-4
	p0, p1 := p-dp, p+dp
	if p0 < 0 {
		p0 = 0
	}
	if p1 > 1 {
		p1 = 1
	}
	a, c := b.Position(p0), b.Position(p1)
	return math.Atan2(c.Y-a.Y, c.X-a.X)
}

// Length returns the arc length of the curve, memoized at construction.
func (b *BezierTrajectory) Length() float64 { return b.length }

// Start returns the trajectory's start coordinate.
func (b *BezierTrajectory) Start() aimgeom.Coord { return b.start }

// End returns the trajectory's end coordinate.
func (b *BezierTrajectory) End() aimgeom.Coord { return b.end }

// findLength approximates arc length by summing chord lengths over a
// piecewise-linear walk of the curve at the given step size (ported from
// BezierTrajectory.__find_length).
func (b *BezierTrajectory) findLength(delta float64) float64 {
	total := 0.0
	last := b.Position(0)
	steps := int(math.Ceil(1 / delta))
	for i := 1; i <= steps; i++ {
		p := float64(i) * delta
		if p > 1 {
			p = 1
		}
		next := b.Position(p)
		total += next.Dist(last)
		last = next
	}
	return total
}
