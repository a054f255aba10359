package reservation

import (
	"github.com/google/uuid"

	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/tile"
)

// State is the reservation's position in the pending -> confirmed ->
// active -> cleared lifecycle (spec.md §4.3).
type State int

const (
	Pending State = iota
	Confirmed
	Active
	Cleared
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Active:
		return "active"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Reservation is an (initially uncommitted) record of a vehicle's claim on
// a set of tiles across contiguous timesteps (spec.md §3). Reservation
// never holds a live *tile.Tile — only (t, tile.ID) coordinates — because
// Tiles are owned and destroyed by the Tiling as TileLayers age out
// (spec.md §9's cyclic-reference resolution).
type Reservation struct {
	ID uuid.UUID

	VIN uuid.UUID

	EntryCoord aimgeom.Coord
	// IntersectionLaneID identifies the IntersectionLane this reservation
	// crosses. Stored as an opaque ID rather than a *lane.IntersectionLane
	// to avoid a reservation<->lane import cycle (lane.RoadLane holds a
	// *ScheduledExit; reservation must not import lane in turn).
	IntersectionLaneID string

	// Tiles maps timestep -> tile ID -> probability of occupation, filled
	// in while the RequestSimulator rolls a candidate forward and merged
	// into the live Tiling wholesale on confirm.
	Tiles map[int64]map[tile.ID]float64

	ItsExit ScheduledExit

	state State
}

// New creates an uncommitted (pending) reservation. Its Tiles map starts
// empty and is filled in by the RequestSimulator.
func New(vin uuid.UUID, entry aimgeom.Coord, ilID string, exit ScheduledExit) *Reservation {
	return &Reservation{
		ID:                 uuid.New(),
		VIN:                vin,
		EntryCoord:         entry,
		IntersectionLaneID: ilID,
		Tiles:              map[int64]map[tile.ID]float64{},
		ItsExit:            exit,
		state:              Pending,
	}
}

// State returns the reservation's current lifecycle state.
func (r *Reservation) State() State { return r.state }

// MarkTile records that this reservation's footprint uses tile id at
// timestep t with probability p. Used while the RequestSimulator builds up
// a candidate's tile set before it is committed.
func (r *Reservation) MarkTile(t int64, id tile.ID, p float64) {
	layer, ok := r.Tiles[t]
	if !ok {
		layer = map[tile.ID]float64{}
		r.Tiles[t] = layer
	}
	layer[id] = p
}

// Confirm transitions pending -> confirmed. Illegal from any other state
// (spec.md §4.3, §7 class 1).
func (r *Reservation) Confirm() error {
	if r.state != Pending {
		return errIllegalTransition(r.state, Confirmed)
	}
	r.state = Confirmed
	return nil
}

// Start transitions confirmed -> active, called when the vehicle's FRONT
// crosses the entry coord at the reservation's entry timestep (spec.md
// §4.3).
func (r *Reservation) Start() error {
	if r.state != Confirmed {
		return errIllegalTransition(r.state, Active)
	}
	r.state = Active
	return nil
}

// Clear transitions active -> cleared, called when the vehicle's REAR
// crosses the exit coord (spec.md §4.3).
func (r *Reservation) Clear() error {
	if r.state != Active {
		return errIllegalTransition(r.state, Cleared)
	}
	r.state = Cleared
	return nil
}
