package reservation

import "github.com/pkg/errors"

// errIllegalTransition reports a programming error: an attempt to move a
// reservation into `to` from a state that doesn't permit it. These are
// spec.md §7 class-1 invariant violations and must abort the tick, never
// be retried.
func errIllegalTransition(from, to State) error {
	return errors.Errorf("reservation: illegal transition from %s to %s", from, to)
}
