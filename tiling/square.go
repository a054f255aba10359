package tiling

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/aimcore/aimconfig"
	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/reservation"
	"go.viam.com/aimcore/tile"
)

// endpoints is the pair of world coords an intersection lane's buffer-tile
// bookkeeping needs: where it accepts vehicles from an incoming road lane,
// and where it hands them to an outgoing one.
type endpoints struct {
	Entry, Exit aimgeom.Coord
}

// SquareTiling is the square-tile implementation of spec.md's Tiling
// (`_examples/original_source/test/.../test_square.py`'s `SquareTiling`
// fixture names this concrete type). It owns every Tile; reservations only
// ever reference tiles by (t, tile.ID).
type SquareTiling struct {
	ctx *aimconfig.Context

	tileWidth float64
	origin    aimgeom.Coord

	minX, maxX, minY, maxY float64
	xTileCount, yTileCount int

	// now is this Tiling's local clock, advanced only by
	// HandleNewTimestep — there is no package-level SHARED.t (spec.md §9).
	now int64

	layers []*TileLayer // layers[0] corresponds to timestep now+1

	bufferTileLoc map[aimgeom.Coord][2]int
	ilEndpoints   map[string]endpoints

	queuedReservations map[uuid.UUID]*reservation.Reservation
	activeReservations  map[uuid.UUID]*reservation.Reservation
}

// NewSquareTiling builds a tiling whose extent is the bounding box of every
// entry/exit coordinate in ils, sized in tile_width-sized cells (spec.md
// §4.1, mirroring test_square.py's test_simple_init / test_slanted_init).
// ils must be non-empty.
func NewSquareTiling(ctx *aimconfig.Context, ils map[string]struct{ Entry, Exit aimgeom.Coord }) (*SquareTiling, error) {
	if len(ils) == 0 {
		return nil, errors.New("tiling: at least one intersection lane is required")
	}
	cfg := ctx.Config

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ep := range ils {
		for _, c := range []aimgeom.Coord{ep.Entry, ep.Exit} {
			minX = math.Min(minX, c.X)
			maxX = math.Max(maxX, c.X)
			minY = math.Min(minY, c.Y)
			maxY = math.Max(maxY, c.Y)
		}
	}

	xTileCount := int(math.Ceil((maxX - minX) / cfg.TileWidth))
	yTileCount := int(math.Ceil((maxY - minY) / cfg.TileWidth))
	if xTileCount <= 0 {
		xTileCount = 1
	}
	if yTileCount <= 0 {
		yTileCount = 1
	}

	s := &SquareTiling{
		ctx:                 ctx,
		tileWidth:           cfg.TileWidth,
		origin:              aimgeom.Coord{X: minX, Y: minY},
		minX:                minX,
		maxX:                maxX,
		minY:                minY,
		maxY:                maxY,
		xTileCount:          xTileCount,
		yTileCount:          yTileCount,
		bufferTileLoc:       map[aimgeom.Coord][2]int{},
		ilEndpoints:         map[string]endpoints{},
		queuedReservations:  map[uuid.UUID]*reservation.Reservation{},
		activeReservations:  map[uuid.UUID]*reservation.Reservation{},
	}

	for id, ep := range ils {
		e := endpoints{Entry: ep.Entry, Exit: ep.Exit}
		s.ilEndpoints[id] = e
		s.bufferTileLoc[ep.Entry] = s.ioCoordToTileXY(ep.Entry)
		s.bufferTileLoc[ep.Exit] = s.ioCoordToTileXY(ep.Exit)
	}

	return s, nil
}

// TileWidth, Origin, extent, and tile-count accessors (test_square.py
// test_simple_init asserts on each of these).
func (s *SquareTiling) TileWidth() float64        { return s.tileWidth }
func (s *SquareTiling) Origin() aimgeom.Coord      { return s.origin }
func (s *SquareTiling) MinX() float64              { return s.minX }
func (s *SquareTiling) MaxX() float64              { return s.maxX }
func (s *SquareTiling) MinY() float64              { return s.minY }
func (s *SquareTiling) MaxY() float64              { return s.maxY }
func (s *SquareTiling) XTileCount() int            { return s.xTileCount }
func (s *SquareTiling) YTileCount() int            { return s.yTileCount }
func (s *SquareTiling) BufferTileLocCount() int    { return len(s.bufferTileLoc) }
func (s *SquareTiling) Now() int64                 { return s.now }
func (s *SquareTiling) LayerCount() int            { return len(s.layers) }
func (s *SquareTiling) QueuedReservations() map[uuid.UUID]*reservation.Reservation {
	return s.queuedReservations
}
func (s *SquareTiling) ActiveReservations() map[uuid.UUID]*reservation.Reservation {
	return s.activeReservations
}

// tileLocToID converts a (tx, ty) tile index pair into the layer's dense
// id (spec.md §3: tile_x + tile_y*x_tile_count).
func (s *SquareTiling) tileLocToID(tx, ty int) tile.ID {
	return tile.ID(tx + ty*s.xTileCount)
}

// ioCoordToTileXY converts a world coord to the (tx, ty) tile index it
// falls in, clamped to the tiling's extent (test_square.py
// test_coord_to_tile).
func (s *SquareTiling) ioCoordToTileXY(c aimgeom.Coord) [2]int {
	tc := aimgeom.WorldToTile(c, s.origin, s.tileWidth)
	tx := int(math.Floor(tc.X))
	ty := int(math.Floor(tc.Y))
	if tx >= s.xTileCount {
		tx = s.xTileCount - 1
	}
	if tx < 0 {
		tx = 0
	}
	if ty >= s.yTileCount {
		ty = s.yTileCount - 1
	}
	if ty < 0 {
		ty = 0
	}
	return [2]int{tx, ty}
}

// addNewLayer lazily extends the back of the deque by one timestep (spec.md
// §4.1 `add_new_layer`).
func (s *SquareTiling) addNewLayer() error {
	t := s.now + int64(len(s.layers)) + 1
	layer, err := newTileLayer(t, s.xTileCount, s.yTileCount, s.ctx.Config.RejectionThreshold)
	if err != nil {
		return err
	}
	s.layers = append(s.layers, layer)
	return nil
}

// ensureLayer grows the deque until a layer for timestep t exists, and
// returns it.
func (s *SquareTiling) ensureLayer(t int64) (*TileLayer, error) {
	if t <= s.now {
		return nil, ErrNotInFuture
	}
	idx := t - s.now - 1
	for int64(len(s.layers)) <= idx {
		if err := s.addNewLayer(); err != nil {
			return nil, err
		}
	}
	return s.layers[idx], nil
}

// HandleNewTimestep pops the head layer and advances now by one (spec.md
// §4.1 `handle_new_timestep`). Maintains the invariant that, whenever a
// layer exists at index 0, its T equals now+1.
func (s *SquareTiling) HandleNewTimestep() {
	if len(s.layers) > 0 {
		s.layers = s.layers[1:]
	}
	s.now++
}

// tileAt returns the tile at timestep t, location (tx, ty), growing the
// deque if necessary.
func (s *SquareTiling) tileAt(t int64, tx, ty int) (*tile.Tile, error) {
	layer, err := s.ensureLayer(t)
	if err != nil {
		return nil, err
	}
	return layer.At(s.tileLocToID(tx, ty)), nil
}

// PosToTiles computes the set of tiles vehicle's footprint covers at
// timestep t and the per-tile occupation probability, or nil if any
// covered tile refuses the reservation (spec.md §4.1 `pos_to_tiles`).
// footprint is the vehicle's world-space occupancy polygon at the pose it
// will have at t; p is the probability this reservation occupies each
// covered tile (1 for a deterministic request).
func (s *SquareTiling) PosToTiles(
	t int64,
	vin uuid.UUID,
	footprint aimgeom.Footprint,
	res *reservation.Reservation,
	p float64,
) (map[tile.ID]float64, error) {
	if t <= s.now {
		return nil, ErrNotInFuture
	}
	if _, err := s.ensureLayer(t); err != nil {
		return nil, err
	}

	corners := footprint.Corners()
	tileSpace := make([]aimgeom.Coord, len(corners))
	for i, c := range corners {
		tileSpace[i] = aimgeom.WorldToTile(c, s.origin, s.tileWidth)
	}
	ranges := aimgeom.ClipTileRange(aimgeom.OutlineToTileRange(tileSpace), s.xTileCount, s.yTileCount)

	result := map[tile.ID]float64{}
	for _, r := range ranges {
		for tx := r.XMin; tx <= r.XMax; tx++ {
			tl, err := s.tileAt(t, tx, r.Row)
			if err != nil {
				return nil, err
			}
			if !tl.WillReservationWork(vin, p) {
				return nil, nil
			}
			id := s.tileLocToID(tx, r.Row)
			result[id] = p
			if res != nil {
				tl.Mark(res.ID, p)
				res.MarkTile(t, id, p)
			}
		}
	}
	return result, nil
}

// IOTileBuffer reserves a short buffer window of tiles at an intersection
// lane's entry or exit coordinate, to keep a vehicle physically continuous
// across the road<->intersection handoff (spec.md §4.1
// `io_tile_buffer`). For isEntry, the window spans every timestep from the
// reservation's recorded entry time up to (not including) t. For an exit
// buffer, k must be provided and is the number of future timesteps,
// starting at t+1, to hold the exit tile for.
func (s *SquareTiling) IOTileBuffer(
	ilID string,
	t int64,
	vin uuid.UUID,
	res *reservation.Reservation,
	isEntry bool,
	k int,
) (map[int64]map[tile.ID]float64, error) {
	if t <= s.now {
		return nil, ErrNotInFuture
	}
	ep, ok := s.ilEndpoints[ilID]
	if !ok {
		return nil, errors.Errorf("tiling: unknown intersection lane %q", ilID)
	}

	var coord aimgeom.Coord
	var timesteps []int64
	if isEntry {
		coord = ep.Entry
		for tt := res.ItsExit.T; tt < t; tt++ {
			timesteps = append(timesteps, tt)
		}
	} else {
		if k <= 0 {
			return nil, errors.New("tiling: k (timesteps forward) is required for an exit buffer")
		}
		coord = ep.Exit
		for i := 1; i <= k; i++ {
			timesteps = append(timesteps, t+i)
		}
	}

	xy := s.ioCoordToTileXY(coord)
	id := s.tileLocToID(xy[0], xy[1])

	result := map[int64]map[tile.ID]float64{}
	for _, tt := range timesteps {
		if tt <= s.now {
			continue
		}
		tl, err := s.tileAt(tt, xy[0], xy[1])
		if err != nil {
			return nil, err
		}
		if !tl.WillReservationWork(vin, 1.0) {
			return nil, nil
		}
		result[tt] = map[tile.ID]float64{id: 1.0}
	}
	return result, nil
}

// ConfirmReservationOnTile atomically promotes vin's use of the tile at
// (t, id) from potential to reserved, at probability p.
func (s *SquareTiling) ConfirmReservationOnTile(t int64, id tile.ID, vin uuid.UUID, p float64, force bool) error {
	layer, err := s.ensureLayer(t)
	if err != nil {
		return err
	}
	return layer.At(id).ConfirmReservation(vin, p, force)
}

// CommitReservation confirms every tile res.Tiles names, in no particular
// order, and registers res as queued for its vehicle (spec.md §4.3
// `confirm_reservation`, the IntersectionManager operation — Tiling's part
// of it). If any tile cell cannot be confirmed this stops without retrying
// and returns the error (spec.md §7 class 1: a force-confirm failure is an
// internal invariant violation); cells confirmed before the failing one stay
// confirmed, and res is not queued.
func (s *SquareTiling) CommitReservation(res *reservation.Reservation) error {
	for t, ids := range res.Tiles {
		for id, p := range ids {
			if err := s.ConfirmReservationOnTile(t, id, res.VIN, p, false); err != nil {
				return errors.Wrapf(err, "tiling: committing reservation %s at t=%d tile=%d", res.ID, t, id)
			}
		}
	}
	s.queuedReservations[res.VIN] = res
	return nil
}

// ClearReservation removes vin's hold on every future tile (spec.md §4.3
// `clear_reservation`) and drops it from the active-reservation set.
func (s *SquareTiling) ClearReservation(vin uuid.UUID) {
	for _, layer := range s.layers {
		for i := 0; i < layer.Len(); i++ {
			layer.At(tile.ID(i)).ClearVehicle(vin)
		}
	}
	delete(s.activeReservations, vin)
	delete(s.queuedReservations, vin)
}

// StartReservation moves vin's reservation from queued to active (spec.md
// §4.3 `start_reservation`).
func (s *SquareTiling) StartReservation(vin uuid.UUID) error {
	res, ok := s.queuedReservations[vin]
	if !ok {
		return errors.Errorf("tiling: no queued reservation for vehicle %s", vin)
	}
	delete(s.queuedReservations, vin)
	s.activeReservations[vin] = res
	return nil
}

// IssuePermission confirms an uncontested pre-arranged reservation, used
// during warmup or when a vehicle was already inside the intersection at
// simulation start (spec.md §6 `issue_permission`).
func (s *SquareTiling) IssuePermission(res *reservation.Reservation) error {
	if err := s.CommitReservation(res); err != nil {
		return err
	}
	return nil
}
