package mission

import (
	"fmt"
	"math/rand"
)

// reassignIntervalTicks is how often the periodic assignment pass runs:
// 5 seconds of simulation time.
const reassignIntervalTicks = 50

// MissionController drives the fixed-order per-tick loop over the whole
// fleet. It owns all mutable shared state (the assignment table, via the
// engine, and every vehicle's path) and is the only writer; one logical
// tick is the unit of progress and nothing inside a tick blocks.
type MissionController struct {
	env       *Environment
	validator *StateValidator
	registry  *SurvivorRegistry
	engine    *AssignmentEngine
	avoidance *CollisionAvoidance
	detector  *detector
	vehicles  []*Vehicle
	log       *MissionLog
	reporter  *MissionReporter

	tick           int
	lastAssignTick int
}

// NewMissionController wires the engine together over an environment. rng
// seeds the planner; pass a fixed-seed source for reproducible missions.
func NewMissionController(env *Environment, params PlannerParams, rng *rand.Rand, log *MissionLog) *MissionController {
	validator := env.Validator()
	registry := &SurvivorRegistry{}
	planner := NewRRTPlanner(validator, params, rng)
	engine := NewAssignmentEngine(planner, registry, log)
	mc := &MissionController{
		env:            env,
		validator:      validator,
		registry:       registry,
		engine:         engine,
		avoidance:      NewCollisionAvoidance(log),
		detector:       newDetector(engine, registry, log),
		log:            log,
		lastAssignTick: -reassignIntervalTicks, // first tick runs assignment
	}
	mc.reporter = NewMissionReporter(mc, reportWindowTicks)
	return mc
}

// AddVehicle registers a fleet member. Vehicles are created at mission start
// and live for the whole mission.
func (mc *MissionController) AddVehicle(v *Vehicle) {
	mc.vehicles = append(mc.vehicles, v)
}

// AddSurvivor registers a survivor with the registry.
func (mc *MissionController) AddSurvivor(s *Survivor) {
	mc.registry.Add(s)
}

// Vehicles returns the fleet in creation order.
func (mc *MissionController) Vehicles() []*Vehicle { return mc.vehicles }

// Survivors returns the registry's survivors in creation order.
func (mc *MissionController) Survivors() []*Survivor { return mc.registry.All() }

// Registry returns the survivor registry.
func (mc *MissionController) Registry() *SurvivorRegistry { return mc.registry }

// Engine returns the assignment engine (planning API and table access).
func (mc *MissionController) Engine() *AssignmentEngine { return mc.engine }

// Log returns the mission event log.
func (mc *MissionController) Log() *MissionLog { return mc.log }

// Reporter returns the windowed analytics reporter.
func (mc *MissionController) Reporter() *MissionReporter { return mc.reporter }

// CurrentTick returns the tick counter.
func (mc *MissionController) CurrentTick() int { return mc.tick }

// Tick advances the mission by one simulation step. The phase order is part
// of the contract — detection reads paths written by assignment, and the
// follower consumes whatever the earlier phases left in place:
//
//  1. COLLISION AVOIDANCE over all aerial/ground pairs.
//  2. ASSIGNMENT when the reassignment interval has elapsed.
//  3. DETECTION over all active assignments.
//  4. PATH FOLLOWING for every vehicle.
//
// A planning failure is an ordinary result handled inside the phases; any
// other panic out of a phase is an invariant violation that aborts the tick
// with vehicle/survivor state as of the last successful one.
func (mc *MissionController) Tick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick %d: invariant violation: %v", mc.tick, r)
		}
	}()

	mc.tick++

	// 1. AVOID
	mc.avoidance.Apply(mc.vehicles, mc.tick)

	// 2. ASSIGN (interval-gated)
	if mc.tick-mc.lastAssignTick >= reassignIntervalTicks {
		mc.engine.Assign(mc.vehicles, mc.tick)
		mc.lastAssignTick = mc.tick
	}

	// 3. DETECT
	mc.detector.update(mc.vehicles, mc.tick)

	// 4. MOVE
	for _, v := range mc.vehicles {
		if !v.followPath(mc.validator) {
			continue
		}
		mc.replan(v)
	}

	mc.engine.checkTableInvariant()

	// 5. REPORT (observes only)
	if mc.tick%reportCollectInterval == 0 {
		mc.reporter.Collect(mc.tick)
	}
	return nil
}

// replan refreshes a stale path in place: same final waypoint, new route
// from the vehicle's current position. On failure the stale path is kept
// and retried next tick. Vehicles with no path at all have nothing to
// replan toward — an empty path means the vehicle is idle or under direct
// detector control.
func (mc *MissionController) replan(v *Vehicle) {
	if len(v.path) == 0 {
		return
	}
	goal := v.path[len(v.path)-1].Position
	res := mc.engine.Plan(v.pose.Position, goal, v.kind == VehicleAerial)
	if !res.OK {
		mc.log.Add(mc.tick, v.label, "plan", "replan_failure", fmt.Sprintf("%v", res.Err), 0)
		return
	}
	v.setPath(res.Path)
	mc.log.Add(mc.tick, v.label, "plan", "replan",
		fmt.Sprintf("%d waypoints to (%.0f,%.0f,%.0f)", len(res.Path), goal.X, goal.Y, goal.Z), float64(len(res.Path)))
}

// Start runs the tick loop until shouldStop reports true. It returns true
// on clean termination and false when a tick failed with an invariant
// violation; either way vehicle and survivor state reflect the last
// successful tick.
func (mc *MissionController) Start(shouldStop func() bool) bool {
	for !shouldStop() {
		if err := mc.Tick(); err != nil {
			mc.log.Add(mc.tick, "--", "status", "fatal", err.Error(), 0)
			return false
		}
	}
	return true
}
