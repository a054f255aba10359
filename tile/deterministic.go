package tile

import "github.com/google/uuid"

// DeterministicTile collapses the stochastic probability arithmetic Tile
// performs to a boolean check: a tile is either free or held by exactly
// one vehicle at p=1 (spec.md §3 invariant, §9 open question — the source
// declares a `DeterministicTile` with no body; this is the "boolean
// collapse" the design note assumes).
type DeterministicTile struct {
	hash int64

	reservedBy *uuid.UUID // at most one vehicle
}

// NewDeterministic creates a deterministic tile for grid position id at
// time t.
func NewDeterministic(id ID, t int64) *DeterministicTile {
	var h int64
	{
		tmp, _ := New(id, t, 0)
		h = tmp.hash
	}
	return &DeterministicTile{hash: h}
}

// Hash returns the tile's identity hash.
func (d *DeterministicTile) Hash() int64 { return d.hash }

// WillReservationWork reports whether vin may take this tile: it's free,
// or vin already holds it.
func (d *DeterministicTile) WillReservationWork(vin uuid.UUID) bool {
	return d.reservedBy == nil || *d.reservedBy == vin
}

// ConfirmReservation reserves this tile for vin, or returns false if it is
// already held by a different vehicle and force is false.
func (d *DeterministicTile) ConfirmReservation(vin uuid.UUID, force bool) bool {
	if force || d.WillReservationWork(vin) {
		v := vin
		d.reservedBy = &v
		return true
	}
	return false
}

// ClearVehicle releases the tile if vin holds it.
func (d *DeterministicTile) ClearVehicle(vin uuid.UUID) {
	if d.reservedBy != nil && *d.reservedBy == vin {
		d.reservedBy = nil
	}
}

// ReservedBy returns the vehicle holding this tile, if any.
func (d *DeterministicTile) ReservedBy() (uuid.UUID, bool) {
	if d.reservedBy == nil {
		return uuid.UUID{}, false
	}
	return *d.reservedBy, true
}
