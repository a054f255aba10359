package tile

import (
	"testing"

	"github.com/google/uuid"
	"go.viam.com/test"
)

func TestNewRejectsNegativeThreshold(t *testing.T) {
	_, err := New(0, 1, -0.1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestHashDependsOnIDAndTime(t *testing.T) {
	a, err := New(5, 10, 0)
	test.That(t, err, test.ShouldBeNil)
	b, err := New(5, 10, 0)
	test.That(t, err, test.ShouldBeNil)
	c, err := New(5, 11, 0)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, a.Hash(), test.ShouldEqual, b.Hash())
	test.That(t, a.Hash(), test.ShouldNotEqual, c.Hash())
}

// TestWillReservationWorkDirection pins spec.md §9's resolution of the
// source's inverted predicate: admission succeeds while the tile is at or
// under its rejection threshold, not over it.
func TestWillReservationWorkDirection(t *testing.T) {
	tl, err := New(0, 1, 0.6)
	test.That(t, err, test.ShouldBeNil)

	v1, v2 := uuid.New(), uuid.New()

	// Empty tile: anything works.
	test.That(t, tl.WillReservationWork(v1, 0.5), test.ShouldBeTrue)

	test.That(t, tl.ConfirmReservation(v1, 0.5, false), test.ShouldBeNil)

	// Same vehicle can always update its own hold.
	test.That(t, tl.WillReservationWork(v1, 0.9), test.ShouldBeTrue)

	// A different vehicle pushing the sum over threshold must be rejected.
	test.That(t, tl.WillReservationWork(v2, 0.2), test.ShouldBeFalse)

	// A different vehicle staying at or under threshold is admitted.
	test.That(t, tl.WillReservationWork(v2, 0.1), test.ShouldBeTrue)
}

func TestConfirmReservationForceBypassesCheck(t *testing.T) {
	tl, err := New(0, 1, 0)
	test.That(t, err, test.ShouldBeNil)
	v1, v2 := uuid.New(), uuid.New()

	test.That(t, tl.ConfirmReservation(v1, 1, false), test.ShouldBeNil)
	test.That(t, tl.ConfirmReservation(v2, 1, false), test.ShouldNotBeNil)
	test.That(t, tl.ConfirmReservation(v2, 0.3, true), test.ShouldBeNil)

	p, ok := tl.ReservedProbability(v2)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, p, test.ShouldEqual, 0.3)
}

func TestClearVehicleRemovesHold(t *testing.T) {
	tl, err := New(0, 1, 0)
	test.That(t, err, test.ShouldBeNil)
	v1 := uuid.New()
	test.That(t, tl.ConfirmReservation(v1, 1, false), test.ShouldBeNil)
	tl.ClearVehicle(v1)
	_, ok := tl.ReservedProbability(v1)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestMarkAndRemoveMark(t *testing.T) {
	tl, err := New(0, 1, 0)
	test.That(t, err, test.ShouldBeNil)
	rid := uuid.New()
	tl.Mark(rid, 0.4)
	tl.RemoveMark(rid)
	tl.ClearAllMarks() // no-op, but must not panic on an already-empty map
}

func TestDeterministicTileSingleOccupant(t *testing.T) {
	dt := NewDeterministic(0, 1)
	v1, v2 := uuid.New(), uuid.New()

	test.That(t, dt.WillReservationWork(v1), test.ShouldBeTrue)
	test.That(t, dt.ConfirmReservation(v1, false), test.ShouldBeTrue)
	test.That(t, dt.WillReservationWork(v1), test.ShouldBeTrue)
	test.That(t, dt.WillReservationWork(v2), test.ShouldBeFalse)
	test.That(t, dt.ConfirmReservation(v2, false), test.ShouldBeFalse)

	dt.ClearVehicle(v1)
	test.That(t, dt.ConfirmReservation(v2, false), test.ShouldBeTrue)
}
