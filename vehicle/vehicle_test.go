package vehicle

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/aimcore/aimgeom"
)

func TestCloneForRequestIsIndependent(t *testing.T) {
	v := New(aimgeom.Coord{X: 0, Y: 0}, 0, 4, 2, 3, 5)
	v.V = 10

	clone := v.CloneForRequest()
	clone.V = 99
	clone.Pos = aimgeom.Coord{X: 100, Y: 100}

	test.That(t, v.V, test.ShouldEqual, 10.0)
	test.That(t, v.Pos, test.ShouldResemble, aimgeom.Coord{X: 0, Y: 0})
	test.That(t, clone.VIN, test.ShouldEqual, v.VIN)
}

func TestAccelUncontested(t *testing.T) {
	v := New(aimgeom.Coord{}, 0, 4, 2, 3, 5)

	v.V = 5
	test.That(t, v.AccelUncontested(10), test.ShouldEqual, v.MaxAccel)

	v.V = 10
	test.That(t, v.AccelUncontested(10), test.ShouldEqual, 0.0)

	v.V = 15
	test.That(t, v.AccelUncontested(10), test.ShouldEqual, -v.MaxBraking)
}

func TestAccelFollowingBrakesWhenTooClose(t *testing.T) {
	v := New(aimgeom.Coord{}, 0, 4, 2, 3, 5)
	v.V = 20 // large stopping distance relative to a tiny gap

	a := v.AccelFollowing(20, 1, 0, 0)
	test.That(t, a, test.ShouldEqual, -v.MaxBraking)
}

func TestAccelFollowingAcceleratesWhenClear(t *testing.T) {
	v := New(aimgeom.Coord{}, 0, 4, 2, 3, 5)
	v.V = 5

	a := v.AccelFollowing(10, 1000, 5, 0)
	test.That(t, a, test.ShouldEqual, v.MaxAccel)
}

func TestSpeedUpdateClampsToZeroAndLimit(t *testing.T) {
	v := New(aimgeom.Coord{}, 0, 4, 2, 3, 5)

	v.V = 1
	newV, _ := v.SpeedUpdate(-10, 1, 20)
	test.That(t, newV, test.ShouldEqual, 0.0)

	v.V = 19
	newV, _ = v.SpeedUpdate(10, 1, 20)
	test.That(t, newV, test.ShouldEqual, 20.0)
}

func TestSectionPointsAreCollinear(t *testing.T) {
	v := New(aimgeom.Coord{X: 10, Y: 10}, 0, 4, 2, 3, 5)
	front := v.SectionPoint(aimgeom.Front)
	rear := v.SectionPoint(aimgeom.Rear)
	test.That(t, front.X, test.ShouldEqual, 12.0)
	test.That(t, rear.X, test.ShouldEqual, 8.0)
	test.That(t, front.Y, test.ShouldEqual, rear.Y)
}
