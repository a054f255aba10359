package tiling

import (
	"testing"

	"github.com/google/uuid"
	"go.viam.com/test"

	"go.viam.com/aimcore/aimclock"
	"go.viam.com/aimcore/aimconfig"
	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/aimlog"
	"go.viam.com/aimcore/reservation"
)

func testContext(t *testing.T) *aimconfig.Context {
	t.Helper()
	ctx, err := aimconfig.NewContext(&aimconfig.Config{
		TileWidth:          5,
		RejectionThreshold: 0,
		LengthBufferFactor: 0,
		MinAcceleration:    5,
		TimestepLength:     1,
		SpeedLimit:         10,
		SafetyBuffer:       5,
	}, aimclock.NewMock(), aimlog.New("tiling-test"))
	test.That(t, err, test.ShouldBeNil)
	return ctx
}

// A square 10x10-world-unit intersection with one incoming/outgoing pair,
// tiled at width 5 — x_tile_count == 2, y_tile_count == 2, and 2 distinct
// buffer tile locations (the one lane's entry and exit).
func simpleIL() map[string]struct{ Entry, Exit aimgeom.Coord } {
	return map[string]struct{ Entry, Exit aimgeom.Coord }{
		"il-0": {
			Entry: aimgeom.Coord{X: 0, Y: 0},
			Exit:  aimgeom.Coord{X: 10, Y: 10},
		},
	}
}

func TestSimpleInit(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	test.That(t, sq.TileWidth(), test.ShouldEqual, 5.0)
	test.That(t, sq.Origin(), test.ShouldResemble, aimgeom.Coord{X: 0, Y: 0})
	test.That(t, sq.XTileCount(), test.ShouldEqual, 2)
	test.That(t, sq.YTileCount(), test.ShouldEqual, 2)
	test.That(t, sq.BufferTileLocCount(), test.ShouldEqual, 2)
}

func TestTileLocToID(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)
	sq.xTileCount = 100

	test.That(t, sq.tileLocToID(27, 138), test.ShouldEqual, 13827)
	test.That(t, sq.tileLocToID(0, 199), test.ShouldEqual, 19900)
	test.That(t, sq.tileLocToID(99, 199), test.ShouldEqual, 19999)
}

func TestCoordToTile(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	sq.tileWidth = 1
	sq.origin = aimgeom.Coord{X: 0, Y: 0}
	sq.xTileCount = 100
	sq.yTileCount = 200

	cases := []struct {
		c      aimgeom.Coord
		tx, ty int
	}{
		{aimgeom.Coord{X: 1, Y: 1}, 1, 1},
		{aimgeom.Coord{X: 100, Y: 200}, 99, 199},
		{aimgeom.Coord{X: 0, Y: 11.5}, 0, 11},
		{aimgeom.Coord{X: 100, Y: 11.5}, 99, 11},
		{aimgeom.Coord{X: 67.7, Y: 0}, 67, 0},
		{aimgeom.Coord{X: 67.7, Y: 200}, 67, 199},
	}
	for _, c := range cases {
		got := sq.ioCoordToTileXY(c.c)
		test.That(t, got, test.ShouldResemble, [2]int{c.tx, c.ty})
	}
}

func TestNewLayer(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)
	sq.xTileCount = 100
	sq.yTileCount = 200

	test.That(t, sq.LayerCount(), test.ShouldEqual, 0)

	test.That(t, sq.addNewLayer(), test.ShouldBeNil)
	test.That(t, sq.LayerCount(), test.ShouldEqual, 1)
	test.That(t, sq.layers[0].T, test.ShouldEqual, int64(1))
	test.That(t, sq.layers[0].Len(), test.ShouldEqual, 20000)

	test.That(t, sq.addNewLayer(), test.ShouldBeNil)
	test.That(t, sq.LayerCount(), test.ShouldEqual, 2)
	test.That(t, sq.layers[1].T, test.ShouldEqual, int64(2))

	sq.HandleNewTimestep()
	test.That(t, sq.Now(), test.ShouldEqual, int64(1))
	test.That(t, sq.LayerCount(), test.ShouldEqual, 1)
	test.That(t, sq.layers[0].T, test.ShouldEqual, int64(2))

	test.That(t, sq.addNewLayer(), test.ShouldBeNil)
	test.That(t, sq.layers[1].T, test.ShouldEqual, int64(3))
}

func TestPosToTilesRejectsPastTimestep(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	fp := aimgeom.NewFootprint(aimgeom.Coord{X: 2.5, Y: 2.5}, 0, 1, 1, 0)
	_, err = sq.PosToTiles(0, uuid.New(), fp, nil, 1.0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPosToTilesMarksCoveredTiles(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	vin := uuid.New()
	res := reservation.New(vin, aimgeom.Coord{X: 0, Y: 0}, "il-0",
		reservation.ScheduledExit{VIN: vin, T: 5, V: 3})

	fp := aimgeom.NewFootprint(aimgeom.Coord{X: 2.5, Y: 2.5}, 0, 1, 1, 0)
	ids, err := sq.PosToTiles(1, vin, fp, res, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ids, test.ShouldNotBeNil)
	test.That(t, len(ids) > 0, test.ShouldBeTrue)
	test.That(t, res.Tiles[1], test.ShouldResemble, ids)
}

func TestPosToTilesReturnsNilOnContention(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	fp := aimgeom.NewFootprint(aimgeom.Coord{X: 2.5, Y: 2.5}, 0, 1, 1, 0)

	firstVin := uuid.New()
	firstRes := reservation.New(firstVin, aimgeom.Coord{X: 0, Y: 0}, "il-0",
		reservation.ScheduledExit{VIN: firstVin, T: 5, V: 3})
	ids, err := sq.PosToTiles(1, firstVin, fp, firstRes, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ids, test.ShouldNotBeNil)
	test.That(t, sq.CommitReservation(firstRes), test.ShouldBeNil)

	// rejectionThreshold is 0, so a second vehicle covering the same
	// footprint must be refused outright (reservedBy is already full).
	secondVin := uuid.New()
	got, err := sq.PosToTiles(1, secondVin, fp, nil, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldBeNil)
}

func TestIOTileBufferEntryWindow(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	vin := uuid.New()
	res := reservation.New(vin, aimgeom.Coord{X: 0, Y: 0}, "il-0",
		reservation.ScheduledExit{VIN: vin, T: 1, V: 3})

	// entry_t == t: empty window.
	got, err := sq.IOTileBuffer("il-0", 1, vin, res, true, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 0)

	// entry_t=1, t=2: single-timestep window.
	got, err = sq.IOTileBuffer("il-0", 2, vin, res, true, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 1)
	test.That(t, got[1], test.ShouldNotBeNil)
}

func TestIOTileBufferPostpendWindow(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	vin := uuid.New()
	res := reservation.New(vin, aimgeom.Coord{X: 0, Y: 0}, "il-0",
		reservation.ScheduledExit{VIN: vin, T: 1, V: 3})

	got, err := sq.IOTileBuffer("il-0", 1, vin, res, false, 5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 5)
	for tt := int64(2); tt <= 6; tt++ {
		test.That(t, got[tt], test.ShouldNotBeNil)
	}
}

func TestIOTileBufferPostpendRequiresK(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	vin := uuid.New()
	res := reservation.New(vin, aimgeom.Coord{X: 0, Y: 0}, "il-0",
		reservation.ScheduledExit{VIN: vin, T: 1, V: 3})

	_, err = sq.IOTileBuffer("il-0", 1, vin, res, false, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCommitAndClearReservation(t *testing.T) {
	ctx := testContext(t)
	sq, err := NewSquareTiling(ctx, simpleIL())
	test.That(t, err, test.ShouldBeNil)

	vin := uuid.New()
	res := reservation.New(vin, aimgeom.Coord{X: 0, Y: 0}, "il-0",
		reservation.ScheduledExit{VIN: vin, T: 5, V: 3})

	fp := aimgeom.NewFootprint(aimgeom.Coord{X: 2.5, Y: 2.5}, 0, 1, 1, 0)
	ids, err := sq.PosToTiles(1, vin, fp, res, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ids, test.ShouldNotBeNil)

	test.That(t, sq.CommitReservation(res), test.ShouldBeNil)
	test.That(t, sq.QueuedReservations(), test.ShouldHaveLength, 1)

	for id := range ids {
		tx, ty := int(id)%sq.xTileCount, int(id)/sq.xTileCount
		tl, err := sq.tileAt(1, tx, ty)
		test.That(t, err, test.ShouldBeNil)
		p, ok := tl.ReservedProbability(vin)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, p, test.ShouldEqual, 1.0)
	}

	test.That(t, sq.StartReservation(vin), test.ShouldBeNil)
	test.That(t, sq.ActiveReservations(), test.ShouldHaveLength, 1)

	sq.ClearReservation(vin)
	test.That(t, sq.ActiveReservations(), test.ShouldHaveLength, 0)
	for id := range ids {
		tx, ty := int(id)%sq.xTileCount, int(id)/sq.xTileCount
		tl, err := sq.tileAt(1, tx, ty)
		test.That(t, err, test.ShouldBeNil)
		_, ok := tl.ReservedProbability(vin)
		test.That(t, ok, test.ShouldBeFalse)
	}
}
