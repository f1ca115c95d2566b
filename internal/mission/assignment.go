package mission

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// nearGroundThreshold decides when an aerial goal counts as "at ground
// level" and triggers the three-segment descent plan.
const nearGroundThreshold = 0.5

// PlanResult is what the mission-facing planning API hands back: planning
// failures are results here, never errors that cross the API.
type PlanResult struct {
	OK   bool
	Path []Pose
	Err  error // cause when !OK, for logging only
}

// AssignmentEngine matches unassigned vehicles to undetected survivors and
// owns the assignment table. The table is a plain map with conventional
// value semantics; it is mutated only from the single active tick, and a
// failed plan never leaves a stale entry behind.
type AssignmentEngine struct {
	planner  *RRTPlanner
	registry *SurvivorRegistry
	log      *MissionLog

	table map[int]int // vehicle id -> survivor id

	// Planner call counters for the reporter.
	planCalls    int
	planFailures int
}

// NewAssignmentEngine creates an engine over the given planner and registry.
func NewAssignmentEngine(planner *RRTPlanner, registry *SurvivorRegistry, log *MissionLog) *AssignmentEngine {
	return &AssignmentEngine{
		planner:  planner,
		registry: registry,
		log:      log,
		table:    make(map[int]int),
	}
}

// Table returns a copy of the assignment table (vehicle id -> survivor id).
func (ae *AssignmentEngine) Table() map[int]int {
	out := make(map[int]int, len(ae.table))
	for k, v := range ae.table {
		out[k] = v
	}
	return out
}

// PlanStats returns total planning calls and failures so far.
func (ae *AssignmentEngine) PlanStats() (calls, failures int) {
	return ae.planCalls, ae.planFailures
}

// Plan is the planning request API. Aerial goals are lifted to cruise height
// unless the goal sits at ground level, in which case the three-segment
// descent chain is planned instead. Ground starts and goals are projected
// onto the ground plane.
func (ae *AssignmentEngine) Plan(start, goal r3.Vec, isAerial bool) PlanResult {
	ae.planCalls++
	var (
		path []Pose
		err  error
	)
	if isAerial {
		startPose := Pose{Position: start, Orientation: IdentityOrientation}
		if math.Abs(goal.Z) < nearGroundThreshold {
			path, err = ae.planner.PlanDescent(startPose, goal)
		} else {
			path, err = ae.planner.Plan(startPose, PoseAt(goal.X, goal.Y, cruiseHeight))
		}
	} else {
		path, err = ae.planner.Plan(
			Pose{Position: GroundProject(start), Orientation: IdentityOrientation},
			PoseAt(goal.X, goal.Y, 0),
		)
	}
	if err != nil {
		ae.planFailures++
		return PlanResult{Err: err}
	}
	return PlanResult{OK: true, Path: path}
}

// Assign runs one assignment pass: every vehicle without a table entry scans
// for a survivor, aerial vehicles first, then ground. High-priority
// undetected survivors are tried in creation order before falling back to
// the nearest remaining one. A survivor is committed to at most one vehicle
// per invocation — its status flips to IN_PROGRESS on commit, which removes
// it from every later scan.
func (ae *AssignmentEngine) Assign(vehicles []*Vehicle, tick int) {
	for _, kind := range []VehicleKind{VehicleAerial, VehicleGround} {
		for _, v := range vehicles {
			if v.kind != kind {
				continue
			}
			if _, ok := ae.table[v.id]; ok {
				continue
			}
			ae.assignOne(v, tick)
		}
	}
}

// assignOne finds and commits a target for a single vehicle, or leaves it
// unassigned for this cycle.
func (ae *AssignmentEngine) assignOne(v *Vehicle, tick int) {
	// High priority first, creation order, first plannable wins.
	for _, s := range ae.registry.Undetected() {
		if s.priority != PriorityHigh {
			continue
		}
		if ae.tryCommit(v, s, tick) {
			return
		}
	}

	// Otherwise: nearest remaining undetected survivor, full 3D distance for
	// aerial vehicles, horizontal for ground.
	remaining := ae.registry.Undetected()
	for len(remaining) > 0 {
		best := -1
		bestDist := math.MaxFloat64
		for i, s := range remaining {
			var d float64
			if v.kind == VehicleAerial {
				d = Dist(v.pose.Position, s.pos)
			} else {
				d = HorizDist(v.pose.Position, s.pos)
			}
			if d < bestDist {
				best = i
				bestDist = d
			}
		}
		s := remaining[best]
		if ae.tryCommit(v, s, tick) {
			return
		}
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	ae.log.Add(tick, v.label, "assign", "no_target", "no plannable survivor this cycle", 0)
}

// tryCommit plans a path from the vehicle to the survivor and, on success,
// records the assignment on both entities and in the table. On failure
// nothing changes.
func (ae *AssignmentEngine) tryCommit(v *Vehicle, s *Survivor, tick int) bool {
	if s.status != StatusUndetected || s.assignedVehicle != -1 {
		return false
	}
	res := ae.Plan(v.pose.Position, s.pos, v.kind == VehicleAerial)
	if !res.OK {
		ae.log.Add(tick, v.label, "plan", "failure",
			fmt.Sprintf("%s: %v", s.label, res.Err), 0)
		return false
	}

	s.advanceStatus(StatusInProgress)
	s.assignedVehicle = v.id
	v.assignedSurvivor = s.id
	v.setPath(res.Path)
	ae.table[v.id] = s.id

	ae.log.Add(tick, v.label, "assign", "commit",
		fmt.Sprintf("%s (%s, %d waypoints)", s.label, s.priority, len(res.Path)), float64(len(res.Path)))
	return true
}

// Unassign drops the vehicle's table entry and clears both sides of the
// assignment. The survivor's status is left to the caller: detection
// advances it before unassigning.
func (ae *AssignmentEngine) Unassign(v *Vehicle) {
	if sid, ok := ae.table[v.id]; ok {
		if s := ae.registry.ByID(sid); s != nil {
			s.assignedVehicle = -1
		}
		delete(ae.table, v.id)
	}
	v.assignedSurvivor = -1
}

// checkTableInvariant panics when the table stops being injective in either
// direction. Called by the controller at the end of every tick; a violation
// is a controller bug, not a recoverable planning failure.
func (ae *AssignmentEngine) checkTableInvariant() {
	seen := make(map[int]int, len(ae.table))
	for vid, sid := range ae.table {
		if other, dup := seen[sid]; dup {
			panic(fmt.Sprintf("assignment table: survivor %d assigned to vehicles %d and %d", sid, other, vid))
		}
		seen[sid] = vid
	}
}
