// Package manager implements IntersectionManager, the façade spec.md §4.3
// exposes to road lanes and vehicles: tick the simulation clock, check
// whether a reservation request is viable, confirm/start/clear a
// reservation, and issue standing permission for a pre-arranged crossing.
package manager

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/aimcore/aimconfig"
	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/lane"
	"go.viam.com/aimcore/reservation"
	"go.viam.com/aimcore/simulator"
	"go.viam.com/aimcore/tiling"
	"go.viam.com/aimcore/vehicle"
)

// trackedVehicle records the lane context a confirmed reservation needs
// Tick to watch: which road lane the vehicle is approaching on (to detect
// FRONT crossing the entry line) and which intersection lane it will cross
// once active.
type trackedVehicle struct {
	v        *vehicle.Vehicle
	roadLane *lane.RoadLane
	ilID     string
}

// IntersectionManager owns one intersection's Tiling and every
// IntersectionLane crossing it, and is the single point of contact road
// lanes use to request, confirm, start, and clear reservations (spec.md
// §4.3, §6).
type IntersectionManager struct {
	ctx        *aimconfig.Context
	tiling     *tiling.SquareTiling
	simulator  *simulator.RequestSimulator
	lanes      map[string]*lane.IntersectionLane
	reservedBy map[uuid.UUID]*reservation.Reservation
	tracked    map[uuid.UUID]*trackedVehicle
	latency    rolloutLatency
}

// New builds an IntersectionManager over the given intersection lanes, each
// keyed by the ID its entry/exit endpoints were registered under in the
// Tiling.
func New(ctx *aimconfig.Context, t *tiling.SquareTiling, lanes map[string]*lane.IntersectionLane) *IntersectionManager {
	return &IntersectionManager{
		ctx:        ctx,
		tiling:     t,
		simulator:  simulator.New(ctx, t),
		lanes:      lanes,
		reservedBy: map[uuid.UUID]*reservation.Reservation{},
		tracked:    map[uuid.UUID]*trackedVehicle{},
	}
}

// Tick advances the simulation clock by one timestep, rolls the Tiling's
// rolling window forward with it, steps every intersection lane's active
// vehicles one timestep (clearing any that fully exit), and migrates any
// queued reservation whose vehicle's FRONT has reached its intersection
// lane's entry into the active state (spec.md §4.3 tick).
func (m *IntersectionManager) Tick() {
	m.ctx.Clock.Advance()
	m.tiling.HandleNewTimestep()

	dt := m.ctx.Config.TimestepLength
	now := m.ctx.Now()

	for _, il := range m.lanes {
		il.UpdateSpeeds(dt)
		if exiting := il.Step(now, dt); exiting != nil {
			il.TransferToExit(exiting, lane.Progress{})
			if _, ok := m.reservedBy[exiting.VIN]; ok {
				_ = m.ClearReservation(exiting)
			}
		}
	}

	queued := m.tiling.QueuedReservations()
	for vin, tv := range m.tracked {
		if _, ok := queued[vin]; !ok {
			continue
		}
		if p, ok := tv.roadLane.ProgressOf(tv.v); ok && p.Front >= 1 {
			_ = m.StartReservation(tv.v)
		}
	}
}

// CheckRequest rolls a candidate reservation chain for v, entering via
// roadLane toward the named intersection lane, forward through a MockWorld
// and returns it, or nil if no admissible candidate exists (spec.md §4.3
// check_request; a nil result is a normal outcome, not an error — spec.md
// §7 class 2).
func (m *IntersectionManager) CheckRequest(v *vehicle.Vehicle, roadLane *lane.RoadLane, ilID string, entryCoord aimgeom.Coord) ([]*reservation.Reservation, error) {
	il, ok := m.lanes[ilID]
	if !ok {
		return nil, errors.Errorf("manager: unknown intersection lane %q", ilID)
	}
	if il.ExitLane == nil {
		return nil, errors.Errorf("manager: intersection lane %q has no exit lane wired", ilID)
	}

	world := simulator.NewMockWorld(roadLane, il.ExitLane, il, v)
	m.latency.record(simulator.ExitResTimestepsForward(v, m.ctx))
	return m.simulator.CheckRequest(world, ilID, entryCoord)
}

// RolloutLatency returns the mean and standard deviation, in timesteps, of
// the look-ahead windows of every CheckRequest rollout this manager has run
// so far.
func (m *IntersectionManager) RolloutLatency() (mean, stddev float64) {
	return m.latency.Summary()
}

// ConfirmReservation commits res's tiles to the live Tiling and transitions
// it pending -> confirmed (spec.md §4.3 confirm_reservation). res.ItsExit
// has already been promoted from FRONT to REAR by the rollout that produced
// it (spec.md §3, simulator.RequestSimulator.CheckRequest); roadLane records
// it as the lane's newest scheduled exit so later requests on the same lane
// order themselves after it. v and roadLane are also recorded so Tick can
// later detect v's FRONT crossing the entry line and migrate it to active.
func (m *IntersectionManager) ConfirmReservation(res *reservation.Reservation, v *vehicle.Vehicle, roadLane *lane.RoadLane) error {
	if err := m.tiling.CommitReservation(res); err != nil {
		return err
	}
	if err := res.Confirm(); err != nil {
		return err
	}
	exit := res.ItsExit
	roadLane.LatestScheduledExit = &exit
	m.reservedBy[res.VIN] = res
	m.tracked[res.VIN] = &trackedVehicle{v: v, roadLane: roadLane, ilID: res.IntersectionLaneID}
	return nil
}

// StartReservation transitions v's reservation confirmed -> active, marks it
// queued-to-active in the Tiling, and physically hands v off from its
// tracked road lane onto the intersection lane it reserved — called when
// v's FRONT crosses the intersection entry line (spec.md §4.3
// start_reservation), either directly or via Tick's own crossing check.
func (m *IntersectionManager) StartReservation(v *vehicle.Vehicle) error {
	res, ok := m.reservedBy[v.VIN]
	if !ok {
		return errors.Errorf("manager: no reservation on file for vehicle %s", v.VIN)
	}
	if err := m.tiling.StartReservation(v.VIN); err != nil {
		return err
	}
	if err := res.Start(); err != nil {
		return err
	}
	v.PermissionToEnterIntersection = true
	v.HasReservation = true

	if tv, ok := m.tracked[v.VIN]; ok {
		if il, ok := m.lanes[tv.ilID]; ok {
			tv.roadLane.RemoveVehicle(v)
			il.AddVehicle(v, lane.Progress{})
		}
	}
	return nil
}

// ClearReservation transitions v's reservation active -> cleared and wipes
// its hold on every future tile, called when v's REAR crosses the
// intersection exit line (spec.md §4.3 clear_reservation).
func (m *IntersectionManager) ClearReservation(v *vehicle.Vehicle) error {
	res, ok := m.reservedBy[v.VIN]
	if !ok {
		return errors.Errorf("manager: no reservation on file for vehicle %s", v.VIN)
	}
	if err := res.Clear(); err != nil {
		return err
	}
	m.tiling.ClearReservation(v.VIN)
	delete(m.reservedBy, v.VIN)
	delete(m.tracked, v.VIN)
	v.PermissionToEnterIntersection = false
	v.HasReservation = false
	return nil
}

// IssuePermission commits a pre-arranged reservation (with the ordinary,
// unforced tile check) without rolling a MockWorld forward — used for a
// vehicle that is already inside
// the intersection when the simulation starts, or for warmup scenarios
// (spec.md §6 issue_permission).
func (m *IntersectionManager) IssuePermission(v *vehicle.Vehicle, roadLane *lane.RoadLane, exit reservation.ScheduledExit) error {
	res := reservation.New(v.VIN, v.Pos, "", exit)
	if err := m.tiling.IssuePermission(res); err != nil {
		return err
	}
	roadLane.LatestScheduledExit = &exit
	m.reservedBy[v.VIN] = res
	v.HasReservation = true
	return nil
}
