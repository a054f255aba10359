package lane

import (
	"sort"

	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/reservation"
	"go.viam.com/aimcore/vehicle"
)

// Progress is a vehicle's proportional position along a lane, tracked at
// its front, center, and rear reference points (original_source/
// aimsim/lanes.py's Lane.VehicleProgress).
type Progress struct {
	Front, Center, Rear float64
}

// entry is one vehicle tracked by a lane, kept in descending-progress order.
type entry struct {
	v        *vehicle.Vehicle
	progress Progress
}

// RoadLane connects intersections, carrying vehicles in the approach,
// lane-changing, and entrance regions toward (or away from) an
// IntersectionLane (original_source/aimsim/lanes.py's RoadLane).
type RoadLane struct {
	Trajectory Trajectory
	SpeedLimit float64

	// LcregionEnd and EntranceEnd are proportional-progress cutoffs for the
	// lane-change and entrance regions (progress grows from 0 at the lane
	// start to 1 at the intersection line). Nothing in this package reads them.
	LcregionEnd float64
	EntranceEnd float64

	entries []*entry

	// LatestScheduledExit records the most recent exit this lane handed to
	// the intersection manager, so SoonestExit can compute a monotonic next
	// slot instead of colliding with an already-granted one.
	LatestScheduledExit *reservation.ScheduledExit
}

// NewRoadLane builds a road lane with the source's default region cutoffs.
func NewRoadLane(traj Trajectory, speedLimit float64) *RoadLane {
	return &RoadLane{
		Trajectory:  traj,
		SpeedLimit:  speedLimit,
		LcregionEnd: 0.6,
		EntranceEnd: 0.3,
	}
}

// EffectiveSpeedLimit returns the speed limit in force at proportional
// progress p (spec.md §8; RoadLane has no trajectory-level override, so this
// is just SpeedLimit).
func (l *RoadLane) EffectiveSpeedLimit(p float64) float64 { return l.SpeedLimit }

// AddVehicle places v onto the lane at the given progress, keeping entries
// ordered from highest (closest to the intersection) to lowest progress.
func (l *RoadLane) AddVehicle(v *vehicle.Vehicle, p Progress) {
	l.entries = append(l.entries, &entry{v: v, progress: p})
	sort.Slice(l.entries, func(i, j int) bool {
		return l.entries[i].progress.Front > l.entries[j].progress.Front
	})
}

// RemoveVehicle drops v from the lane's tracked entries.
func (l *RoadLane) RemoveVehicle(v *vehicle.Vehicle) {
	for i, e := range l.entries {
		if e.v == v {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// Vehicles returns the lane's tracked vehicles, ordered from nearest the
// intersection to farthest.
func (l *RoadLane) Vehicles() []*vehicle.Vehicle {
	out := make([]*vehicle.Vehicle, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.v
	}
	return out
}

// ProgressOf returns v's tracked progress on this lane.
func (l *RoadLane) ProgressOf(v *vehicle.Vehicle) (Progress, bool) {
	for _, e := range l.entries {
		if e.v == v {
			return e.progress, true
		}
	}
	return Progress{}, false
}

// accelFor returns the acceleration v should apply given the vehicle ahead
// of it (nil if v leads the lane), per original_source/aimsim/lanes.py's
// RoadLane.accel_update: a vehicle without clearance to enter the
// intersection must also respect the stop line as a following target.
func (l *RoadLane) accelFor(v *vehicle.Vehicle, preceding *entry) float64 {
	p, _ := l.ProgressOf(v)
	speedLimit := l.EffectiveSpeedLimit(p.Front)

	if preceding == nil {
		if v.PermissionToEnterIntersection {
			return v.AccelUncontested(speedLimit)
		}
		return v.AccelFollowing(speedLimit, (1-p.Front)*l.Trajectory.Length(), 0, 0)
	}

	gap := (preceding.progress.Rear - p.Front) * l.Trajectory.Length()
	aFollow := v.AccelFollowing(speedLimit, gap, preceding.v.V, preceding.v.A)
	if preceding.v.PermissionToEnterIntersection && v.PermissionToEnterIntersection {
		return aFollow
	}
	aStop := v.AccelFollowing(speedLimit, (1-p.Front)*l.Trajectory.Length(), 0, 0)
	if aFollow < aStop {
		return aFollow
	}
	return aStop
}

// UpdateSpeeds recomputes (v, a) for every tracked vehicle given its leader,
// then writes the result back onto the vehicle (original_source/
// aimsim/lanes.py's update_speeds_by_section, collapsed to the whole lane —
// aimcore does not model the three-region speed-update split since the
// reservation logic treats a RoadLane as a single queue).
func (l *RoadLane) UpdateSpeeds(timestepLength float64) {
	var preceding *entry
	for _, e := range l.entries {
		a := l.accelFor(e.v, preceding)
		p, _ := l.ProgressOf(e.v)
		speedLimit := l.EffectiveSpeedLimit(p.Front)
		newV, newA := e.v.SpeedUpdate(a, timestepLength, speedLimit)
		e.v.V, e.v.A = newV, newA
		preceding = e
	}
}

// StepApproach advances every tracked vehicle's progress by its current
// speed (normalized against the lane's length) for one timestep, returning
// the vehicle whose front crossed progress 1 (i.e. reached the intersection
// line), if any (original_source/aimsim/lanes.py's step_approach).
func (l *RoadLane) StepApproach(timestepLength float64) *vehicle.Vehicle {
	length := l.Trajectory.Length()
	if length <= 0 {
		return nil
	}
	var exiting *vehicle.Vehicle
	for _, e := range l.entries {
		dp := (e.v.V * timestepLength) / length
		e.progress.Front += dp
		e.progress.Center += dp
		e.progress.Rear += dp
		e.v.Pos = l.Trajectory.Position(e.progress.Center)
		e.v.Heading = l.Trajectory.Heading(e.progress.Center)
		if e.progress.Front >= 1 && exiting == nil {
			exiting = e.v
		}
	}
	return exiting
}

// SoonestExit returns the earliest ScheduledExit a new reservation request
// on this lane could target: one timestep after the last vehicle this lane
// already scheduled to exit, or counter if no exit has been scheduled yet.
func (l *RoadLane) SoonestExit(counter int64, v float64) reservation.ScheduledExit {
	t := counter
	if l.LatestScheduledExit != nil && l.LatestScheduledExit.T+1 > t {
		t = l.LatestScheduledExit.T + 1
	}
	return reservation.ScheduledExit{Section: aimgeom.Front, T: t, V: v}
}
