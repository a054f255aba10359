// Package reservation implements the Reservation and ScheduledExit records
// spec.md §3/§4.3 describe: a vehicle's claim on a set of tiles across
// contiguous timesteps, and the ordering token that chains reservations on
// a single road lane.
package reservation

import (
	"github.com/google/uuid"

	"go.viam.com/aimcore/aimgeom"
)

// ScheduledExit is the (vehicle, section, t, v) ordering token described in
// spec.md §3. Each RoadLane holds at most one latest ScheduledExit, which
// totally orders the reservation stream leaving it: a new exit's T must be
// >= the stored one.
type ScheduledExit struct {
	VIN     uuid.UUID
	Section aimgeom.VehicleSection
	T       int64
	V       float64
}
