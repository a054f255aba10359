// Package pathfinder defines the external route-planning collaborator an
// IntersectionManager consults but never implements itself (spec.md §6):
// given a vehicle's current position and its destination, a Pathfinder
// names the ordered sequence of lanes (by their entry coordinates) the
// vehicle should take to get there. aimcore ships a trivial
// DirectPathfinder for single-intersection scenarios and tests; a real
// road-network implementation is out of this repository's scope (spec.md
// §12 Non-goals: multi-intersection coordination).
package pathfinder

import "go.viam.com/aimcore/aimgeom"

// Pathfinder resolves the next lane entry coordinate a vehicle bound for
// destination should target, given its current position.
type Pathfinder interface {
	NextLane(current, destination aimgeom.Coord) []aimgeom.Coord
}

// DirectPathfinder always routes straight to the destination — correct for
// the single-intersection topology this repository models, where there is
// only ever one lane to choose.
type DirectPathfinder struct{}

// NextLane returns destination as the lone waypoint.
func (DirectPathfinder) NextLane(current, destination aimgeom.Coord) []aimgeom.Coord {
	return []aimgeom.Coord{destination}
}
