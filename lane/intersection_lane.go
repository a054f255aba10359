package lane

import (
	"go.viam.com/aimcore/vehicle"
)

// IntersectionLane connects one RoadLane's exit to another's entry, via a
// Trajectory solved by AsIntersectionConnector (original_source/
// aimsim/lanes.py's IntersectionLane). Speed on an IntersectionLane is
// governed by reservations rather than a following gap, except when a
// vehicle lacks a reservation and must follow the vehicle ahead of it —
// retained for the signalized-corridor case spec.md §6 mentions in passing.
type IntersectionLane struct {
	ID string

	Trajectory Trajectory
	SpeedLimit float64

	EntryLane *RoadLane
	ExitLane  *RoadLane

	// TempSpeedLimit is a temporary speed cap; EffectiveSpeedLimit uses the
	// lower of it and SpeedLimit. It starts equal to SpeedLimit, and nothing
	// in this package lowers it, so by itself it never restricts speed.
	TempSpeedLimit float64
	lastExit       int64

	entries []*entry
}

// NewIntersectionLane builds an intersection lane connecting entry to exit
// along traj.
func NewIntersectionLane(id string, traj Trajectory, speedLimit float64, entryLane, exitLane *RoadLane) *IntersectionLane {
	return &IntersectionLane{
		ID:             id,
		Trajectory:     traj,
		SpeedLimit:     speedLimit,
		EntryLane:      entryLane,
		ExitLane:       exitLane,
		TempSpeedLimit: speedLimit,
	}
}

// EffectiveSpeedLimit returns the lesser of the lane's nominal and temporary
// speed limits.
func (l *IntersectionLane) EffectiveSpeedLimit(p float64) float64 {
	if l.TempSpeedLimit < l.SpeedLimit {
		return l.TempSpeedLimit
	}
	return l.SpeedLimit
}

// ResetTempSpeedLimit restores TempSpeedLimit to SpeedLimit and records now
// as the time of the last unreserved exit (original_source/aimsim/lanes.py's
// reset_temp_speed_limit). Step calls it as soon as a vehicle without a
// reservation exits.
func (l *IntersectionLane) ResetTempSpeedLimit(now int64) {
	l.TempSpeedLimit = l.SpeedLimit
	l.lastExit = now
}

// AddVehicle places v onto the lane at proportional progress p.
func (l *IntersectionLane) AddVehicle(v *vehicle.Vehicle, p Progress) {
	l.entries = append(l.entries, &entry{v: v, progress: p})
}

// Vehicles returns every vehicle tracked on this intersection lane.
func (l *IntersectionLane) Vehicles() []*vehicle.Vehicle {
	out := make([]*vehicle.Vehicle, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.v
	}
	return out
}

// UpdateSpeeds advances every tracked vehicle's (v, a) (original_source/
// aimsim/lanes.py's IntersectionLane.update_speeds): a vehicle with a
// confirmed reservation accelerates as if uncontested, since the
// reservation already guaranteed clearance; one without a reservation (the
// signalized fallback) follows the vehicle ahead of it.
func (l *IntersectionLane) UpdateSpeeds(timestepLength float64) {
	var preceding *entry
	for _, e := range l.entries {
		speedLimit := l.EffectiveSpeedLimit(e.progress.Front)
		var a float64
		if e.v.HasReservation || preceding == nil {
			a = e.v.AccelUncontested(speedLimit)
		} else {
			gap := (preceding.progress.Rear - e.progress.Front) * l.Trajectory.Length()
			a = e.v.AccelFollowing(speedLimit, gap, preceding.v.V, preceding.v.A)
		}
		newV, newA := e.v.SpeedUpdate(a, timestepLength, speedLimit)
		e.v.V, e.v.A = newV, newA
		preceding = e
	}
}

// Step advances every tracked vehicle's progress along the trajectory and
// its pose to match, returning the vehicle (if any) whose rear crossed
// progress 1 and so has fully exited onto ExitLane.
func (l *IntersectionLane) Step(timestepLength int64, dt float64) *vehicle.Vehicle {
	length := l.Trajectory.Length()
	if length <= 0 {
		return nil
	}

	var exiting *vehicle.Vehicle
	remaining := l.entries[:0]
	for _, e := range l.entries {
		dp := (e.v.V * dt) / length
		e.progress.Front += dp
		e.progress.Center += dp
		e.progress.Rear += dp
		e.v.Pos = l.Trajectory.Position(e.progress.Center)
		e.v.Heading = l.Trajectory.Heading(e.progress.Center)

		if e.progress.Rear >= 1 {
			exiting = e.v
			if !e.v.HasReservation {
				l.ResetTempSpeedLimit(timestepLength)
			}
			continue
		}
		remaining = append(remaining, e)
	}
	l.entries = remaining
	return exiting
}

// TransferToExit hands v off to ExitLane at exitProgress, called by the
// RequestSimulator's mock step after Step reports an exit (spec.md §4.2
// step 3 "intersection step/transfer").
func (l *IntersectionLane) TransferToExit(v *vehicle.Vehicle, exitProgress Progress) {
	if l.ExitLane != nil {
		l.ExitLane.AddVehicle(v, exitProgress)
	}
	v.HasReservation = false
}
