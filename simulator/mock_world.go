// Package simulator implements the speculative forward rollout spec.md
// §4.2 describes: before an IntersectionManager commits a reservation, it
// clones the vehicle, its lanes, and every other vehicle nearby into a
// MockWorld and runs the candidate forward step by step, checking at every
// timestep whether the tiles it would occupy are still available.
package simulator

import (
	"go.viam.com/aimcore/lane"
	"go.viam.com/aimcore/vehicle"
)

// MockWorld is the deep-copied slice of the live simulation a
// RequestSimulator rolls forward: one incoming road lane, the intersection
// lane the requesting vehicle wants to cross, one outgoing road lane, and
// the requesting vehicle itself plus whichever other vehicles were already
// on those lanes (spec.md §9 "dedicated MockWorld builder").
type MockWorld struct {
	Incoming     *lane.MockRoadLane
	Intersection *lane.MockIntersectionLane
	Outgoing     *lane.MockRoadLane

	// Requester is the clone of the vehicle whose reservation is being
	// tested: the copy on Incoming when the live vehicle was on the incoming
	// lane, otherwise a standalone clone.
	Requester *vehicle.Vehicle
}

// NewMockWorld builds a rollout world from the live incoming/intersection/
// outgoing lanes and the live requesting vehicle (normally already placed on
// incoming by the caller, mirroring how original_source's MockWorld pulls
// an existing vehicle reference rather than constructing a new one). The
// requester's clone is the one NewMockRoadLane made on the mock incoming
// lane, matched by VIN; if the requester is not on incoming it is cloned
// here instead.
func NewMockWorld(incoming, outgoing *lane.RoadLane, intersection *lane.IntersectionLane, requester *vehicle.Vehicle) *MockWorld {
	mockIncoming := lane.NewMockRoadLane(incoming)
	mockOutgoing := lane.NewMockRoadLane(outgoing)
	mockIntersection := lane.NewMockIntersectionLane(intersection, mockIncoming, mockOutgoing)

	var requesterClone *vehicle.Vehicle
	for _, v := range mockIncoming.Vehicles() {
		if v.VIN == requester.VIN {
			requesterClone = v
			break
		}
	}
	if requesterClone == nil {
		requesterClone = requester.CloneForRequest()
	}

	return &MockWorld{
		Incoming:     mockIncoming,
		Intersection: mockIntersection,
		Outgoing:     mockOutgoing,
		Requester:    requesterClone,
	}
}
