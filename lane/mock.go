package lane

import (
	"go.viam.com/aimcore/vehicle"
)

// MockRoadLane is a deep copy of a RoadLane plus its vehicles, built for a
// single RequestSimulator rollout (spec.md §9: a dedicated MockWorld builder
// rather than an interface boundary between "real" and "mock" lanes — a
// value-copied struct already is the deep copy). Mutating a MockRoadLane
// never touches the live RoadLane it was cloned from.
type MockRoadLane struct {
	*RoadLane
}

// NewMockRoadLane deep-copies src: a fresh RoadLane value holding clones of
// every vehicle currently tracked on it.
func NewMockRoadLane(src *RoadLane) *MockRoadLane {
	clone := *src
	clone.entries = make([]*entry, len(src.entries))
	for i, e := range src.entries {
		clone.entries[i] = &entry{v: e.v.CloneForRequest(), progress: e.progress}
	}
	clone.LatestScheduledExit = src.LatestScheduledExit
	return &MockRoadLane{RoadLane: &clone}
}

// MockIntersectionLane is the intersection-lane counterpart of
// MockRoadLane, deep-copying its tracked vehicles but sharing the (immutable)
// Trajectory with the lane it was cloned from.
type MockIntersectionLane struct {
	*IntersectionLane
}

// NewMockIntersectionLane deep-copies src for use inside a rollout. The
// clone's EntryLane/ExitLane point at the *mock* road lanes the caller
// supplies, not the live ones, so a rollout never reaches back into shared
// state.
func NewMockIntersectionLane(src *IntersectionLane, entryLane, exitLane *MockRoadLane) *MockIntersectionLane {
	clone := *src
	clone.entries = make([]*entry, 0, len(src.entries))
	for _, e := range src.entries {
		clone.entries = append(clone.entries, &entry{v: e.v.CloneForRequest(), progress: e.progress})
	}
	if entryLane != nil {
		clone.EntryLane = entryLane.RoadLane
	}
	if exitLane != nil {
		clone.ExitLane = exitLane.RoadLane
	}
	return &MockIntersectionLane{IntersectionLane: &clone}
}

// CloneVehicles returns CloneForRequest copies of every vehicle vs holds,
// used by MockWorld to populate a rollout with independent vehicle state
// (spec.md §9 "up to a dozen cloned vehicles").
func CloneVehicles(vs []*vehicle.Vehicle) []*vehicle.Vehicle {
	out := make([]*vehicle.Vehicle, len(vs))
	for i, v := range vs {
		out[i] = v.CloneForRequest()
	}
	return out
}
