package mission

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// TestMission is a headless mission harness used by tests and the batch
// runner. It mirrors the viewer's update loop but has no ebiten dependency
// and supports deterministic seeding.
type TestMission struct {
	Env        *Environment
	Controller *MissionController
	Log        *MissionLog

	rng    *rand.Rand
	params PlannerParams
}

// missionOptionKind controls the pass in which an option is applied.
type missionOptionKind int

const (
	missionOptInfra  missionOptionKind = iota // bounds, scene, seed, verbose, params
	missionOptEntity                          // vehicles and survivors
)

// MissionOption is a builder function applied during construction.
type MissionOption struct {
	kind missionOptionKind
	fn   func(*TestMission)
}

// WithBounds sets the environment dimensions.
func WithBounds(length, width, height float64) MissionOption {
	return MissionOption{missionOptInfra, func(tm *TestMission) {
		tm.Env = NewEnvironment(length, width, height)
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) MissionOption {
	return MissionOption{missionOptInfra, func(tm *TestMission) {
		tm.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) MissionOption {
	return MissionOption{missionOptInfra, func(tm *TestMission) {
		tm.Log = NewMissionLog(v)
	}}
}

// WithPlannerParams overrides the default planner parameters.
func WithPlannerParams(p PlannerParams) MissionOption {
	return MissionOption{missionOptInfra, func(tm *TestMission) {
		tm.params = p
	}}
}

// WithBuilding adds a box obstacle to the scene.
func WithBuilding(x, y, z, dx, dy, dz float64) MissionOption {
	return MissionOption{missionOptInfra, func(tm *TestMission) {
		tm.Env.AddBuilding(Building{
			Position:   r3.Vec{X: x, Y: y, Z: z},
			Dimensions: r3.Vec{X: dx, Y: dy, Z: dz},
		})
	}}
}

// WithObstacle adds a cylindrical obstacle to the scene.
func WithObstacle(x, y, radius, height float64) MissionOption {
	return MissionOption{missionOptInfra, func(tm *TestMission) {
		tm.Env.AddObstacle(Obstacle{Center: r3.Vec{X: x, Y: y}, Radius: radius, Height: height})
	}}
}

// WithAerialVehicle adds an aerial vehicle at (x,y,z).
func WithAerialVehicle(id int, x, y, z float64) MissionOption {
	return MissionOption{missionOptEntity, func(tm *TestMission) {
		platform := NewSimPlatform(r3.Vec{X: x, Y: y, Z: z})
		tm.Controller.AddVehicle(NewVehicle(id, VehicleAerial, platform))
	}}
}

// WithGroundVehicle adds a ground vehicle at (x,y); Z is always zero.
func WithGroundVehicle(id int, x, y float64) MissionOption {
	return MissionOption{missionOptEntity, func(tm *TestMission) {
		platform := NewSimPlatform(r3.Vec{X: x, Y: y})
		tm.Controller.AddVehicle(NewVehicle(id, VehicleGround, platform))
	}}
}

// WithSurvivor adds a survivor with an explicit priority.
func WithSurvivor(id int, x, y, z float64, p Priority) MissionOption {
	return MissionOption{missionOptEntity, func(tm *TestMission) {
		tm.Controller.AddSurvivor(NewSurvivor(id, r3.Vec{X: x, Y: y, Z: z}, p))
	}}
}

// WithRandomSurvivors scatters n survivors on the ground plane with
// priorities drawn from the 20/50/30 distribution.
func WithRandomSurvivors(n int) MissionOption {
	return MissionOption{missionOptEntity, func(tm *TestMission) {
		length, width, _ := tm.Env.Bounds()
		for i := 0; i < n; i++ {
			pos := r3.Vec{
				X: 10 + tm.rng.Float64()*(length-20),
				Y: 10 + tm.rng.Float64()*(width-20),
			}
			tm.Controller.AddSurvivor(NewSurvivor(i, pos, RandomPriority(tm.rng)))
		}
	}}
}

// NewTestMission constructs a mission from the given options in two ordered
// passes:
//
//  1. Infrastructure (bounds, scene, seed, verbose, planner params)
//  2. Controller construction, then vehicles and survivors
func NewTestMission(opts ...MissionOption) *TestMission {
	tm := &TestMission{
		Log:    NewMissionLog(false),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- harness default
		params: DefaultPlannerParams(),
	}
	for _, o := range opts {
		if o.kind == missionOptInfra {
			o.fn(tm)
		}
	}
	if tm.Env == nil {
		tm.Env = NewEnvironment(300, 300, 100)
	}
	tm.Controller = NewMissionController(tm.Env, tm.params, tm.rng, tm.Log)
	for _, o := range opts {
		if o.kind == missionOptEntity {
			o.fn(tm)
		}
	}
	return tm
}

// RunTicks advances the mission n ticks, stopping early on a fatal tick
// error. Returns the error from the failing tick, or nil.
func (tm *TestMission) RunTicks(n int) error {
	for i := 0; i < n; i++ {
		if err := tm.Controller.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil advances up to maxTicks, stopping early when predicate returns
// true. Returns the tick at which the predicate held, or -1.
func (tm *TestMission) RunUntil(predicate func(*TestMission) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		if err := tm.Controller.Tick(); err != nil {
			return -1
		}
		if predicate(tm) {
			return tm.Controller.CurrentTick()
		}
	}
	return -1
}

// VehicleByID returns the vehicle with the given id, or nil.
func (tm *TestMission) VehicleByID(id int) *Vehicle {
	for _, v := range tm.Controller.Vehicles() {
		if v.id == id {
			return v
		}
	}
	return nil
}

// SurvivorByID returns the survivor with the given id, or nil.
func (tm *TestMission) SurvivorByID(id int) *Survivor {
	return tm.Controller.Registry().ByID(id)
}

// ForceVehiclePosition teleports a vehicle; used by tests to set up
// detection and avoidance geometry directly.
func (tm *TestMission) ForceVehiclePosition(id int, pos r3.Vec) {
	v := tm.VehicleByID(id)
	if v == nil {
		return
	}
	if v.kind == VehicleGround {
		pos = GroundProject(pos)
	}
	v.pose.Position = pos
	v.platform.Move(KinematicState{Position: pos, Orientation: v.pose.Orientation})
}
