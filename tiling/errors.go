package tiling

import "github.com/pkg/errors"

// ErrNotInFuture is a spec.md §7 class-1 invariant violation: every public
// Tiling operation that writes or reads a future tile requires t > now and
// must raise (never silently clamp) when that's violated.
var ErrNotInFuture = errors.New("tiling: t must be strictly greater than now")

// ErrForceRequiredForNilReservation mirrors the source's guard: an empty
// (nil vehicle) reservation write must be forced.
var ErrForceRequiredForNilReservation = errors.New("tiling: empty reservations must be forced")
