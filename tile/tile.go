// Package tile implements the single (x, y, t) reservation cell (spec.md
// §3/§4.1). A Tile holds no pointers to Reservations or Vehicles — only
// uuid-keyed probability maps — so that Tiles and Reservations never form a
// reference cycle (spec.md §9): a TileLayer can be dropped wholesale when
// it ages out of the rolling window without Reservations anywhere holding a
// dangling pointer into it.
package tile

import (
	"hash/maphash"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ID is a tile's dense index within its layer: tileX + tileY*xTileCount
// (spec.md §3).
type ID int

var seed = maphash.MakeSeed()

// Tile tracks, for one (x, y, t) cell, which vehicles have confirmed a
// reservation on it and which reservations have only marked it as a
// potential use.
type Tile struct {
	hash int64

	reservedBy map[uuid.UUID]float64 // vehicle VIN -> probability
	potentials map[uuid.UUID]float64 // reservation ID -> probability

	rejectionThreshold float64
}

// New creates a tile for grid position id at time t. rejectionThreshold
// must be non-negative (spec.md §3 invariant).
func New(id ID, t int64, rejectionThreshold float64) (*Tile, error) {
	if rejectionThreshold < 0 {
		return nil, errors.New("tile: rejection threshold must be non-negative")
	}
	var h maphash.Hash
	h.SetSeed(seed)
	writeHashKey(&h, int64(id), t)
	return &Tile{
		hash:               int64(h.Sum64()),
		reservedBy:         map[uuid.UUID]float64{},
		potentials:         map[uuid.UUID]float64{},
		rejectionThreshold: rejectionThreshold,
	}, nil
}

func writeHashKey(h *maphash.Hash, id, t int64) {
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(id >> (8 * i))
		buf[8+i] = byte(t >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}

// Hash returns the tile's identity hash, derived from (tile index, t).
func (t *Tile) Hash() int64 { return t.hash }

// WillReservationWork reports whether a reservation for vehicle by vin,
// using this tile with probability p, is admissible: the tile is free, the
// vehicle already holds this tile, or admitting p keeps the cumulative
// reserved probability at or under the rejection threshold. spec.md §9
// resolves the source's inverted `>` predicate to the semantically correct
// `<=`; TestWillReservationWorkDirection pins this.
func (t *Tile) WillReservationWork(vin uuid.UUID, p float64) bool {
	if len(t.reservedBy) == 0 {
		return true
	}
	if _, already := t.reservedBy[vin]; already {
		return true
	}
	sum := 0.0
	for _, v := range t.reservedBy {
		sum += v
	}
	return sum+p <= t.rejectionThreshold
}

// Mark logs a potential (pre-confirmation) reservation on this tile.
func (t *Tile) Mark(reservationID uuid.UUID, p float64) {
	t.potentials[reservationID] = p
}

// RemoveMark clears a potential marking if present.
func (t *Tile) RemoveMark(reservationID uuid.UUID) {
	delete(t.potentials, reservationID)
}

// ClearAllMarks clears every potential marking on this tile.
func (t *Tile) ClearAllMarks() {
	t.potentials = map[uuid.UUID]float64{}
}

// ConfirmReservation atomically promotes vin's use of this tile from
// potential to reserved at probability p. force bypasses
// WillReservationWork and must only be used to update a reservation that
// was already confirmed here at a different probability (spec.md §4.1).
func (t *Tile) ConfirmReservation(vin uuid.UUID, p float64, force bool) error {
	if force || t.WillReservationWork(vin, p) {
		t.reservedBy[vin] = p
		return nil
	}
	return errors.New("tile: reservation is incompatible with this tile")
}

// ReservedProbability returns vin's reserved probability on this tile, and
// whether it holds one at all.
func (t *Tile) ReservedProbability(vin uuid.UUID) (float64, bool) {
	p, ok := t.reservedBy[vin]
	return p, ok
}

// ClearVehicle removes every reservation vin holds on this tile (spec.md
// §4.3 clear_reservation).
func (t *Tile) ClearVehicle(vin uuid.UUID) {
	delete(t.reservedBy, vin)
}

// ReservedByCount returns how many distinct vehicles hold a reservation
// on this tile.
func (t *Tile) ReservedByCount() int { return len(t.reservedBy) }

// TotalReservedProbability returns the sum of all reserved probabilities
// on this tile (spec.md §8 invariant: this sum must never exceed the
// rejection threshold once |reservedBy| > 1).
func (t *Tile) TotalReservedProbability() float64 {
	sum := 0.0
	for _, v := range t.reservedBy {
		sum += v
	}
	return sum
}

// RejectionThreshold returns the tile's configured admission threshold.
func (t *Tile) RejectionThreshold() float64 { return t.rejectionThreshold }
