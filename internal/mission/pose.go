package mission

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a position plus orientation in the mission volume. Orientation is
// carried through the planner unchanged — nothing in the engine searches over
// it, but platforms report and accept it, so it stays part of the state.
type Pose struct {
	Position    r3.Vec
	Orientation quat.Number
}

// IdentityOrientation is the fixed orientation used at every planner call site.
var IdentityOrientation = quat.Number{Real: 1}

// PoseAt returns a Pose at the given position with identity orientation.
func PoseAt(x, y, z float64) Pose {
	return Pose{Position: r3.Vec{X: x, Y: y, Z: z}, Orientation: IdentityOrientation}
}

// Dist returns the full 3D distance between two points.
func Dist(a, b r3.Vec) float64 {
	return r3.Norm(a.Sub(b))
}

// HorizDist returns the distance between two points ignoring Z.
func HorizDist(a, b r3.Vec) float64 {
	d := a.Sub(b)
	d.Z = 0
	return r3.Norm(d)
}

// GroundProject returns p with its Z component forced to zero.
func GroundProject(p r3.Vec) r3.Vec {
	p.Z = 0
	return p
}
