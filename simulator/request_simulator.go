package simulator

import (
	"math"

	"go.viam.com/aimcore/aimconfig"
	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/lane"
	"go.viam.com/aimcore/reservation"
	"go.viam.com/aimcore/tiling"
	"go.viam.com/aimcore/vehicle"
)

// RequestSimulator rolls a candidate reservation forward through a MockWorld,
// timestep by timestep, checking tile admissibility at every step before
// reporting the candidate as viable (spec.md §4.2).
type RequestSimulator struct {
	ctx    *aimconfig.Context
	tiling *tiling.SquareTiling
}

// New builds a RequestSimulator sharing the live Tiling's tile state — a
// rollout only ever calls the admissibility checks (PosToTiles/IOTileBuffer),
// never CommitReservation, until the caller (IntersectionManager) decides to
// confirm. Those checks may append layers and record potential marks on
// tiles, but they never reserve a tile.
func New(ctx *aimconfig.Context, t *tiling.SquareTiling) *RequestSimulator {
	return &RequestSimulator{ctx: ctx, tiling: t}
}

// ExitResTimestepsForward returns how many timesteps forward a rollout must
// run before it's sure the candidate either clears the intersection or
// fails: at least 18 (the conservative worst case for a stopped vehicle
// accelerating from rest), or longer if v is fast enough that stopping
// safely afterward would otherwise take more steps than that (spec.md
// §4.2: max(18, ceil(2v/min_accel) + safety_buffer)).
func ExitResTimestepsForward(v *vehicle.Vehicle, ctx *aimconfig.Context) int64 {
	const minWindow = 18
	fromSpeed := int64(math.Ceil(2*v.V/ctx.Config.MinAcceleration)) + int64(ctx.Config.SafetyBuffer)
	if fromSpeed > minWindow {
		return fromSpeed
	}
	return minWindow
}

// CheckRequest rolls world forward one candidate reservation for
// world.Requester entering ilID, returning the longest valid prefix of the
// candidate chain (with every tile it touches already marked) or nil if any
// timestep along the way finds its footprint blocked, or if the requester
// never moves onto the intersection lane within the window — a normal outcome,
// not an error (spec.md §7 class 2). A rollout in this build only ever
// carries a single candidate (the requester itself, never a trailing
// platoon), so the returned slice holds at most one element; see DESIGN.md
// for why the fuller multi-candidate chain described in spec.md §4.2 is out
// of scope here.
func (s *RequestSimulator) CheckRequest(world *MockWorld, ilID string, entryCoord aimgeom.Coord) ([]*reservation.Reservation, error) {
	now := s.ctx.Now()
	steps := ExitResTimestepsForward(world.Requester, s.ctx)

	exit := world.Incoming.SoonestExit(now+1, world.Requester.V)
	exit.VIN = world.Requester.VIN
	res := reservation.New(world.Requester.VIN, entryCoord, ilID, exit)

	for i := int64(1); i <= steps; i++ {
		t := now + i
		promoted, err := s.mockStep(world, t)
		if err != nil {
			return nil, err
		}
		if promoted != nil {
			// spec.md §4.2 phase 4: once the requester's rear clears the
			// incoming road lane, its tentative FRONT-sectioned exit token
			// is promoted to the actual REAR exit the rollout observed
			// (spec.md §3 confirmed-state invariant).
			res.ItsExit = *promoted
		}

		footprint := world.Requester.Footprint(s.ctx.Config.LengthBufferFactor)
		ids, err := s.tiling.PosToTiles(t, world.Requester.VIN, footprint, res, 1.0)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			return nil, nil
		}
	}
	if res.ItsExit.Section != aimgeom.Rear {
		// The requester never reached the intersection lane within the window.
		return nil, nil
	}

	entryBuffer, err := s.tiling.IOTileBuffer(ilID, now+steps, world.Requester.VIN, res, true, 0)
	if err != nil {
		return nil, err
	}
	if entryBuffer == nil {
		return nil, nil
	}

	exitBuffer, err := s.tiling.IOTileBuffer(ilID, now+steps, world.Requester.VIN, res, false, s.ctx.Config.SafetyBuffer)
	if err != nil {
		return nil, err
	}
	if exitBuffer == nil {
		return nil, nil
	}

	return []*reservation.Reservation{res}, nil
}

// mockStep advances world by one timestep, in the same order the live
// simulation's per-tick update runs (spec.md §4.2's six phases): update
// speeds, step the outgoing lane, step/transfer the intersection lane, step
// the incoming lane (moving the requester onto the intersection lane once
// it reaches the line), spawn background traffic, then rasterize every
// vehicle on the intersection lane onto tiles. A rollout never actually
// spawns new vehicles — it has no source of new arrivals to draw from — so
// phase five is a deliberate no-op here, kept as a phase boundary so the
// ordering stays identical to the live tick.
//
// If the requester's rear clears the incoming lane this step, mockStep
// returns the REAR-sectioned ScheduledExit that event produced, for
// CheckRequest to promote res.ItsExit to (spec.md §4.2 phase 4, §3).
func (s *RequestSimulator) mockStep(world *MockWorld, t int64) (*reservation.ScheduledExit, error) {
	dt := s.ctx.Config.TimestepLength

	// 1. speed update
	world.Incoming.UpdateSpeeds(dt)
	world.Intersection.UpdateSpeeds(dt)
	world.Outgoing.UpdateSpeeds(dt)

	// 2. outgoing step
	world.Outgoing.StepApproach(dt)

	// 3. intersection step/transfer
	if exiting := world.Intersection.Step(t, dt); exiting != nil {
		world.Intersection.TransferToExit(exiting, lane.Progress{Front: 0, Center: 0, Rear: 0})
	}

	// 4. incoming step
	var promoted *reservation.ScheduledExit
	if entering := world.Incoming.StepApproach(dt); entering != nil && entering.VIN == world.Requester.VIN {
		world.Incoming.RemoveVehicle(entering)
		entering.HasReservation = true
		world.Intersection.AddVehicle(entering, lane.Progress{Front: 0, Center: 0, Rear: 0})
		promoted = &reservation.ScheduledExit{VIN: entering.VIN, Section: aimgeom.Rear, T: t, V: entering.V}
	}

	// 5. spawn: intentionally a no-op inside a rollout (see doc comment).

	// 6. all-pos-to-tile: the caller rasterizes the requester; every other
	// vehicle on the intersection lane is rasterized here without marking any
	// reservation, and its admission result is not used.
	for _, v := range world.Intersection.Vehicles() {
		if v.VIN == world.Requester.VIN {
			continue
		}
		_, err := s.tiling.PosToTiles(t, v.VIN, v.Footprint(s.ctx.Config.LengthBufferFactor), nil, 1.0)
		if err != nil {
			return nil, err
		}
	}

	return promoted, nil
}
