// Package spawner implements the upstream traffic source spec.md's
// original source calls a VehicleSpawner (original_source/aimsim/
// endpoints/vehicle_spawner.py): something that injects new vehicles onto
// a road lane at a target average rate. Distilled out of spec.md's
// Non-goals list only by omission — it isn't excluded, and it's the one
// piece of the system that actually drives the simulation forward, so
// aimcore carries it as a supplemented feature (SPEC_FULL.md §11).
package spawner

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/aimcore/aimgeom"
	"go.viam.com/aimcore/lane"
	"go.viam.com/aimcore/vehicle"
)

// VehicleTemplate is the fixed shape of every vehicle a Spawner produces.
// A real generator would draw dimensions from a distribution
// (original_source's NormalGenerator); aimcore keeps one fixed template per
// Spawner, which is enough to exercise the rest of the system end to end.
type VehicleTemplate struct {
	Length, Width         float64
	MaxAccel, MaxBraking float64
}

// Spawner injects new vehicles onto Downstream at a Poisson rate of
// VehiclesPerMinute, using an exponential inter-arrival distribution — the
// textbook way to sample Poisson arrival times, and the reason aimcore
// pulls in gonum's distuv package rather than hand-rolling a Bernoulli
// trial per tick the way original_source's abandoned draft started to.
type Spawner struct {
	Downstream        *lane.RoadLane
	Template          VehicleTemplate
	VehiclesPerMinute float64
	EntryCoord        aimgeom.Coord
	EntryHeading      float64

	dist          distuv.Exponential
	nextArrivalIn float64 // timesteps remaining until the next spawn
}

// New builds a Spawner targeting vehiclesPerMinute on average, ticking
// timestepLength seconds at a time, using src as the randomness source
// (callers pass a seeded *rand.Rand for reproducible tests; production code
// can pass rand.New(rand.NewSource(seed)) seeded from wall-clock time).
func New(downstream *lane.RoadLane, tpl VehicleTemplate, vehiclesPerMinute, timestepLength float64, entry aimgeom.Coord, entryHeading float64, src rand.Source) *Spawner {
	ratePerSecond := vehiclesPerMinute / 60
	s := &Spawner{
		Downstream:        downstream,
		Template:          tpl,
		VehiclesPerMinute: vehiclesPerMinute,
		EntryCoord:        entry,
		EntryHeading:      entryHeading,
		dist: distuv.Exponential{
			Rate: ratePerSecond,
			Src:  src,
		},
	}
	s.nextArrivalIn = s.dist.Rand() / timestepLength
	return s
}

// Step decrements the countdown to the next arrival by one timestep and
// spawns a vehicle onto Downstream if it has elapsed, returning the new
// vehicle (nil if none spawned this tick).
func (s *Spawner) Step(timestepLength float64) *vehicle.Vehicle {
	s.nextArrivalIn--
	if s.nextArrivalIn > 0 {
		return nil
	}

	v := vehicle.New(s.EntryCoord, s.EntryHeading, s.Template.Length, s.Template.Width, s.Template.MaxAccel, s.Template.MaxBraking)
	s.Downstream.AddVehicle(v, lane.Progress{Front: 0, Center: 0, Rear: 0})

	s.nextArrivalIn += s.dist.Rand() / timestepLength
	return v
}
