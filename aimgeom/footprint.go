package aimgeom

import "math"

// Footprint is the four-corner convex polygon a vehicle occupies on the
// intersection plane, in winding order front-left, front-right, rear-right,
// rear-left (spec.md §4.1).
type Footprint struct {
	FrontLeft, FrontRight, RearRight, RearLeft Coord
}

// Corners returns the footprint's vertices in winding order, ready to be
// rasterized edge by edge.
func (f Footprint) Corners() [4]Coord {
	return [4]Coord{f.FrontLeft, f.FrontRight, f.RearRight, f.RearLeft}
}

// NewFootprint builds the rectangle spanned by a vehicle's front/center/rear
// reference points (spec.md §3): centered at pos, oriented along heading,
// with length inflated by lengthBufferFactor and the given lateral width.
func NewFootprint(pos Coord, heading, length, width, lengthBufferFactor float64) Footprint {
	halfLen := (length / 2) * (1 + lengthBufferFactor)
	halfWidth := width / 2

	dir := Coord{X: math.Cos(heading), Y: math.Sin(heading)}
	perp := Coord{X: -math.Sin(heading), Y: math.Cos(heading)}

	front := pos.Add(dir.Scale(halfLen))
	rear := pos.Sub(dir.Scale(halfLen))

	return Footprint{
		FrontLeft:  front.Add(perp.Scale(halfWidth)),
		FrontRight: front.Sub(perp.Scale(halfWidth)),
		RearRight:  rear.Sub(perp.Scale(halfWidth)),
		RearLeft:   rear.Add(perp.Scale(halfWidth)),
	}
}
