package mission

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// detectionRadius is the horizontal range at which a vehicle detects its
	// assigned survivor.
	detectionRadius = 2.0

	// detectionHeightOffset is how far above the survivor an aerial vehicle
	// must descend to for its sensors to confirm a detection.
	detectionHeightOffset = 5.0

	// heightTolerance is the allowed vertical slack around the detection
	// height.
	heightTolerance = 1.0

	// descentStartDist is the horizontal distance at which a cruising aerial
	// vehicle abandons its planned path and descends straight onto the
	// survivor.
	descentStartDist = 5.0

	// verticalSpeed is the direct descend/ascend rate in metres per second.
	verticalSpeed = 3.0
)

// detector runs the per-tick detection pass over active assignments and the
// direct descend/ascend commands that bypass the planner close to a target.
type detector struct {
	engine   *AssignmentEngine
	registry *SurvivorRegistry
	log      *MissionLog
}

func newDetector(engine *AssignmentEngine, registry *SurvivorRegistry, log *MissionLog) *detector {
	return &detector{engine: engine, registry: registry, log: log}
}

// update examines every active (vehicle, survivor) assignment. Returns the
// number of detections this tick. Each detection removes the assignment and
// immediately runs one assignment pass so the freed vehicle picks a
// replacement target without waiting for the periodic interval.
func (d *detector) update(vehicles []*Vehicle, tick int) int {
	detections := 0
	for _, v := range vehicles {
		if v.assignedSurvivor < 0 {
			continue
		}
		s := d.registry.ByID(v.assignedSurvivor)
		if s == nil || s.status != StatusInProgress {
			continue
		}

		if v.kind == VehicleAerial {
			if d.updateAerial(v, s, tick) {
				detections++
				d.engine.Assign(vehicles, tick)
			}
		} else {
			if d.updateGround(v, s, tick) {
				detections++
				d.engine.Assign(vehicles, tick)
			}
		}
	}
	return detections
}

// updateAerial handles the aerial approach: once the vehicle is close
// horizontally and still near cruise height, it descends straight down to
// the detection height instead of replanning. Detection fires when both the
// horizontal range and the height gap close.
func (d *detector) updateAerial(v *Vehicle, s *Survivor, tick int) bool {
	horiz := HorizDist(v.pose.Position, s.pos)
	targetZ := s.pos.Z + detectionHeightOffset
	dz := v.pose.Position.Z - targetZ

	if horiz < detectionRadius && dz < heightTolerance && dz > -heightTolerance {
		d.confirm(v, s, tick, horiz)
		// Climb back out to cruise height before chasing the next target.
		v.setPath([]Pose{PoseAt(v.pose.Position.X, v.pose.Position.Y, cruiseHeight)})
		return true
	}

	if horiz < descentStartDist && v.pose.Position.Z > targetZ && v.pose.Position.Z > cruiseHeight-heightTolerance {
		// Close enough: drop the planned path and descend directly.
		v.setPath(nil)
	}
	if horiz < descentStartDist && v.pose.Position.Z > targetZ && len(v.path) == 0 {
		drop := r3.Vec{
			X: s.pos.X - v.pose.Position.X,
			Y: s.pos.Y - v.pose.Position.Y,
		}
		if h := r3.Norm(drop); h > 1e-9 {
			drop = drop.Scale(verticalSpeed / (2 * h))
		}
		drop.Z = -verticalSpeed
		v.moveBy(drop)
	}
	return false
}

// updateGround handles ground vehicles: horizontal range only, no descent
// concept.
func (d *detector) updateGround(v *Vehicle, s *Survivor, tick int) bool {
	horiz := HorizDist(v.pose.Position, s.pos)
	if horiz >= detectionRadius {
		return false
	}
	d.confirm(v, s, tick, horiz)
	return true
}

// confirm marks the survivor detected and removes the assignment.
func (d *detector) confirm(v *Vehicle, s *Survivor, tick int, horiz float64) {
	s.advanceStatus(StatusDetected)
	d.engine.Unassign(v)
	d.log.Add(tick, v.label, "detect", "confirmed",
		fmt.Sprintf("%s at %.2fm", s.label, horiz), horiz)
}
