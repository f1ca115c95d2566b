package mission

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// tickSeconds is the fixed simulation step one tick advances.
	tickSeconds = 0.1

	// Cruise speeds in metres per second.
	aerialCruiseSpeed = 5.0
	groundCruiseSpeed = 2.0

	// cruiseHeight is the altitude aerial vehicles transit at.
	cruiseHeight = 30.0

	// replanDistance is the waypoint-consumption radius: a waypoint closer
	// than this is popped instead of flown toward.
	replanDistance = 1.0
)

// VehicleKind distinguishes aerial from ground vehicles.
type VehicleKind int

const (
	VehicleAerial VehicleKind = iota
	VehicleGround
)

func (k VehicleKind) String() string {
	if k == VehicleAerial {
		return "aerial"
	}
	return "ground"
}

// Vehicle is one fleet member. Its pose and velocity are mutated every tick
// by the path follower and the collision-avoidance pass; its path is replaced
// by the assignment engine and consumed front-first as waypoints are reached.
// Ground vehicles keep position.Z == 0 and velocity.Z == 0 at all times.
type Vehicle struct {
	id       int
	label    string
	kind     VehicleKind
	platform Platform

	pose     Pose
	velocity r3.Vec

	assignedSurvivor int // survivor id, -1 when unassigned
	path             []Pose
}

// NewVehicle creates a vehicle backed by the given platform. Ground vehicles
// are snapped to the ground plane regardless of the platform's initial Z.
func NewVehicle(id int, kind VehicleKind, platform Platform) *Vehicle {
	prefix := "A"
	if kind == VehicleGround {
		prefix = "G"
	}
	v := &Vehicle{
		id:               id,
		label:            fmt.Sprintf("%s%d", prefix, id),
		kind:             kind,
		platform:         platform,
		assignedSurvivor: -1,
	}
	state := platform.Read()
	v.pose = Pose{Position: state.Position, Orientation: state.Orientation}
	if kind == VehicleGround {
		v.pose.Position = GroundProject(v.pose.Position)
	}
	return v
}

// ID returns the vehicle's identity.
func (v *Vehicle) ID() int { return v.id }

// Label returns the short display label, e.g. "A0" or "G1".
func (v *Vehicle) Label() string { return v.label }

// Kind returns aerial or ground.
func (v *Vehicle) Kind() VehicleKind { return v.kind }

// Position returns the current position.
func (v *Vehicle) Position() r3.Vec { return v.pose.Position }

// Velocity returns the current velocity.
func (v *Vehicle) Velocity() r3.Vec { return v.velocity }

// AssignedSurvivor returns the assigned survivor id, or -1.
func (v *Vehicle) AssignedSurvivor() int { return v.assignedSurvivor }

// Path returns the remaining waypoints (front = next).
func (v *Vehicle) Path() []Pose { return v.path }

// cruiseSpeed returns the fixed speed for the vehicle's kind.
func (v *Vehicle) cruiseSpeed() float64 {
	if v.kind == VehicleAerial {
		return aerialCruiseSpeed
	}
	return groundCruiseSpeed
}

// setPath installs a freshly planned path. Ground vehicles get every
// waypoint projected onto the ground plane.
func (v *Vehicle) setPath(path []Pose) {
	if v.kind == VehicleGround {
		for i := range path {
			path[i].Position = GroundProject(path[i].Position)
		}
	}
	v.path = path
}

// targetDelta returns the offset from the vehicle to a point, in the space
// the vehicle navigates: full 3D for aerial, ground plane for ground.
func (v *Vehicle) targetDelta(target r3.Vec) r3.Vec {
	d := target.Sub(v.pose.Position)
	if v.kind == VehicleGround {
		d.Z = 0
	}
	return d
}

// moveBy applies a velocity for one tick and pushes the new state to the
// platform. Orientation is held constant.
func (v *Vehicle) moveBy(vel r3.Vec) {
	if v.kind == VehicleGround {
		vel.Z = 0
	}
	v.velocity = vel
	v.pose.Position = v.pose.Position.Add(vel.Scale(tickSeconds))
	if v.kind == VehicleGround {
		v.pose.Position = GroundProject(v.pose.Position)
	}
	v.platform.Move(KinematicState{
		Position:    v.pose.Position,
		Velocity:    v.velocity,
		Orientation: v.pose.Orientation,
	})
}

// hold zeroes the velocity without moving.
func (v *Vehicle) hold() {
	v.moveBy(r3.Vec{})
}

// followPath advances the vehicle along its current path for one tick and
// reports whether the path needs replanning. Waypoints inside replanDistance
// are popped rather than flown toward; the tick that pops a waypoint does
// not also move.
func (v *Vehicle) followPath(validator *StateValidator) (needsReplan bool) {
	if len(v.path) == 0 {
		return true
	}

	front := v.path[0].Position
	delta := v.targetDelta(front)
	dist := r3.Norm(delta)

	if dist < replanDistance {
		v.path = v.path[1:]
		v.hold()
		return v.pathStale()
	}

	// The environment is static, so a failing segment here is a numerical
	// edge case rather than a new obstacle — but it still forces a replan.
	if !validator.IsMotionValid(v.pose, v.path[0]) {
		return true
	}

	v.moveBy(r3.Unit(delta).Scale(v.cruiseSpeed()))
	return false
}

// pathStale reports whether the remaining path is empty or down to a single
// waypoint that is already within replan distance.
func (v *Vehicle) pathStale() bool {
	if len(v.path) == 0 {
		return true
	}
	if len(v.path) == 1 && r3.Norm(v.targetDelta(v.path[0].Position)) < replanDistance {
		return true
	}
	return false
}
