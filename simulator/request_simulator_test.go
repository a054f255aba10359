package simulator

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/aimcore/aimclock"
	"go.viam.com/aimcore/aimconfig"
	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/aimlog"
	"go.viam.com/aimcore/lane"
	"go.viam.com/aimcore/tiling"
	"go.viam.com/aimcore/vehicle"
)

func testSetup(t *testing.T) (*aimconfig.Context, *tiling.SquareTiling, *lane.RoadLane, *lane.IntersectionLane, *lane.RoadLane) {
	t.Helper()
	ctx, err := aimconfig.NewContext(&aimconfig.Config{
		TileWidth:          1,
		RejectionThreshold: 0,
		LengthBufferFactor: 0,
		MinAcceleration:    5,
		TimestepLength:     1,
		SpeedLimit:         10,
		SafetyBuffer:       2,
	}, aimclock.NewMock(), aimlog.New("simulator-test"))
	test.That(t, err, test.ShouldBeNil)

	incoming := lane.NewRoadLane(
		lane.NewBezierTrajectory(aimgeom.Coord{X: -20, Y: 0}, aimgeom.Coord{X: 0, Y: 0}, aimgeom.Coord{X: -10, Y: 0}),
		10,
	)
	outgoing := lane.NewRoadLane(
		lane.NewBezierTrajectory(aimgeom.Coord{X: 20, Y: 0}, aimgeom.Coord{X: 40, Y: 0}, aimgeom.Coord{X: 30, Y: 0}),
		10,
	)
	ilTraj := lane.NewBezierTrajectory(aimgeom.Coord{X: 0, Y: 0}, aimgeom.Coord{X: 20, Y: 0}, aimgeom.Coord{X: 10, Y: 0})
	il := lane.NewIntersectionLane("il-0", ilTraj, 10, incoming, outgoing)

	ils := map[string]struct{ Entry, Exit aimgeom.Coord }{
		"il-0": {Entry: aimgeom.Coord{X: 0, Y: 0}, Exit: aimgeom.Coord{X: 20, Y: 0}},
	}
	sq, err := tiling.NewSquareTiling(ctx, ils)
	test.That(t, err, test.ShouldBeNil)

	return ctx, sq, incoming, il, outgoing
}

func TestExitResTimestepsForwardFloor(t *testing.T) {
	ctx, _, _, _, _ := testSetup(t)
	v := vehicle.New(aimgeom.Coord{X: -1, Y: 0}, 0, 4, 2, 3, 5)
	v.V = 1
	test.That(t, ExitResTimestepsForward(v, ctx), test.ShouldEqual, int64(18))
}

func TestExitResTimestepsForwardScalesWithSpeed(t *testing.T) {
	ctx, _, _, _, _ := testSetup(t)
	v := vehicle.New(aimgeom.Coord{X: -1, Y: 0}, 0, 4, 2, 3, 5)
	v.V = 100
	test.That(t, ExitResTimestepsForward(v, ctx) > 18, test.ShouldBeTrue)
}

func TestCheckRequestAdmitsUncontestedVehicle(t *testing.T) {
	ctx, sq, incoming, il, outgoing := testSetup(t)

	requester := vehicle.New(aimgeom.Coord{X: -1, Y: 0}, 0, 4, 2, 3, 5)
	requester.V = 3
	requester.PermissionToEnterIntersection = true
	incoming.AddVehicle(requester, lane.Progress{Front: 0.95, Center: 0.94, Rear: 0.93})

	world := NewMockWorld(incoming, outgoing, il, requester)
	test.That(t, world.Requester.VIN, test.ShouldEqual, requester.VIN)

	rs := New(ctx, sq)
	chain, err := rs.CheckRequest(world, "il-0", aimgeom.Coord{X: 0, Y: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(chain), test.ShouldEqual, 1)
	res := chain[0]
	test.That(t, len(res.Tiles) > 0, test.ShouldBeTrue)
	test.That(t, res.ItsExit.Section.String(), test.ShouldEqual, "REAR")
}
