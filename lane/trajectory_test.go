package lane

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/aimcore/aimgeom"
)

func TestBezierPositionEndpoints(t *testing.T) {
	traj := NewBezierTrajectory(
		aimgeom.Coord{X: 0, Y: 0},
		aimgeom.Coord{X: 10, Y: 0},
		aimgeom.Coord{X: 5, Y: 5},
	)
	test.That(t, traj.Position(0), test.ShouldResemble, aimgeom.Coord{X: 0, Y: 0})
	test.That(t, traj.Position(1), test.ShouldResemble, aimgeom.Coord{X: 10, Y: 0})
}

func TestBezierLengthExceedsChord(t *testing.T) {
	traj := NewBezierTrajectory(
		aimgeom.Coord{X: 0, Y: 0},
		aimgeom.Coord{X: 10, Y: 0},
		aimgeom.Coord{X: 5, Y: 5},
	)
	chord := 10.0
	test.That(t, traj.Length() > chord, test.ShouldBeTrue)
}

func TestBezierStraightLineLengthMatchesChord(t *testing.T) {
	traj := NewBezierTrajectory(
		aimgeom.Coord{X: 0, Y: 0},
		aimgeom.Coord{X: 10, Y: 0},
		aimgeom.Coord{X: 5, Y: 0},
	)
	test.That(t, aimgeom.IsClose(traj.Length(), 10, 1e-6), test.ShouldBeTrue)
}

func TestAsIntersectionConnectorRejectsParallelLanes(t *testing.T) {
	_, err := AsIntersectionConnector(
		aimgeom.Coord{X: 0, Y: 0}, 0,
		aimgeom.Coord{X: 10, Y: 0}, math.Pi,
	)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAsIntersectionConnectorHorizontalCase(t *testing.T) {
	traj, err := AsIntersectionConnector(
		aimgeom.Coord{X: 0, Y: 0}, 0,
		aimgeom.Coord{X: 10, Y: 10}, 0,
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.control, test.ShouldResemble, aimgeom.Coord{X: 5, Y: 10})
}

func TestAsIntersectionConnectorVerticalStart(t *testing.T) {
	traj, err := AsIntersectionConnector(
		aimgeom.Coord{X: 0, Y: 0}, math.Pi/2,
		aimgeom.Coord{X: 10, Y: 10}, 0,
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.control.X, test.ShouldEqual, 0.0)
}
