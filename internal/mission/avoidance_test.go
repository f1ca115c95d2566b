package mission

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestAvoidanceClimbsAerialNearGround(t *testing.T) {
	log := NewMissionLog(false)
	ca := NewCollisionAvoidance(log)

	a := NewVehicle(0, VehicleAerial, NewSimPlatform(r3.Vec{X: 50, Y: 50, Z: cruiseHeight}))
	g := NewVehicle(1, VehicleGround, NewSimPlatform(r3.Vec{X: 55, Y: 50}))

	ca.Apply([]*Vehicle{a, g}, 1)

	if a.pose.Position.Z <= cruiseHeight {
		t.Fatalf("aerial vehicle did not climb: z=%v", a.pose.Position.Z)
	}
	if g.pose.Position != (r3.Vec{X: 55, Y: 50}) {
		t.Fatalf("ground vehicle moved during avoidance: %v", g.pose.Position)
	}
	if !log.HasEntry("avoid", "climb", "") {
		t.Fatal("climb event not logged")
	}
}

func TestAvoidanceIgnoresSeparatedPair(t *testing.T) {
	ca := NewCollisionAvoidance(NewMissionLog(false))

	a := NewVehicle(0, VehicleAerial, NewSimPlatform(r3.Vec{X: 50, Y: 50, Z: cruiseHeight}))
	g := NewVehicle(1, VehicleGround, NewSimPlatform(r3.Vec{X: 70, Y: 50}))

	ca.Apply([]*Vehicle{a, g}, 1)

	if a.pose.Position.Z != cruiseHeight {
		t.Fatalf("aerial vehicle climbed at %.0fm separation: z=%v",
			HorizDist(a.pose.Position, g.pose.Position), a.pose.Position.Z)
	}
}

func TestAvoidanceIgnoresSameKindPairs(t *testing.T) {
	ca := NewCollisionAvoidance(NewMissionLog(false))

	a0 := NewVehicle(0, VehicleAerial, NewSimPlatform(r3.Vec{X: 50, Y: 50, Z: cruiseHeight}))
	a1 := NewVehicle(1, VehicleAerial, NewSimPlatform(r3.Vec{X: 52, Y: 50, Z: cruiseHeight}))
	g0 := NewVehicle(2, VehicleGround, NewSimPlatform(r3.Vec{X: 200, Y: 200}))
	g1 := NewVehicle(3, VehicleGround, NewSimPlatform(r3.Vec{X: 202, Y: 200}))

	ca.Apply([]*Vehicle{a0, a1, g0, g1}, 1)

	if a0.pose.Position.Z != cruiseHeight || a1.pose.Position.Z != cruiseHeight {
		t.Fatal("aerial/aerial pair triggered a climb")
	}
}

func TestAvoidanceHeightCapped(t *testing.T) {
	ca := NewCollisionAvoidance(NewMissionLog(false))

	a := NewVehicle(0, VehicleAerial, NewSimPlatform(r3.Vec{X: 50, Y: 50, Z: cruiseHeight}))
	g := NewVehicle(1, VehicleGround, NewSimPlatform(r3.Vec{X: 50, Y: 50}))

	// Far more ticks than needed to reach the cap.
	vehicles := []*Vehicle{a, g}
	for tick := 1; tick <= 500; tick++ {
		ca.Apply(vehicles, tick)
	}

	limit := maxAvoidanceHeight + climbSpeed*tickSeconds
	if a.pose.Position.Z > limit {
		t.Fatalf("climb exceeded cap: z=%v, cap=%v", a.pose.Position.Z, maxAvoidanceHeight)
	}
}

func TestAvoidanceLeavesAssignmentTableIdentical(t *testing.T) {
	env := NewEnvironment(300, 300, 100)
	engine, registry, log := newTestEngine(env, 1)

	registry.Add(NewSurvivor(0, r3.Vec{X: 250, Y: 250}, PriorityHigh))
	registry.Add(NewSurvivor(1, r3.Vec{X: 30, Y: 250}, PriorityMedium))

	a := NewVehicle(0, VehicleAerial, NewSimPlatform(r3.Vec{X: 50, Y: 50, Z: cruiseHeight}))
	g := NewVehicle(1, VehicleGround, NewSimPlatform(r3.Vec{X: 55, Y: 50}))
	vehicles := []*Vehicle{a, g}
	engine.Assign(vehicles, 1)

	before := engine.Table()
	if len(before) == 0 {
		t.Fatal("setup failed: no assignments committed")
	}

	// Aerial and ground 5m apart, well under the safe distance.
	ca := NewCollisionAvoidance(log)
	ca.Apply(vehicles, 2)

	if diff := cmp.Diff(before, engine.Table()); diff != "" {
		t.Fatalf("avoidance modified the assignment table (-before +after):\n%s", diff)
	}
	if a.pose.Position.Z <= cruiseHeight {
		t.Fatal("setup failed: avoidance did not trigger")
	}
}
