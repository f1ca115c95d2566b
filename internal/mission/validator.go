package mission

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Bound-box buffer beyond the environment dimensions. The lateral margin
	// lets paths swing wide near edges; the vertical margins leave room for
	// takeoff and landing maneuvers.
	boundsBufferXY    = 20.0
	boundsBufferBelow = 10.0
	boundsBufferAbove = 20.0

	// validationDistance is the sampling step used when checking a motion
	// segment against the volume.
	validationDistance = 1.0
)

// StateValidator answers point and segment validity queries against an
// occupancy volume plus a rectangular bound box.
type StateValidator struct {
	volume *OccupancyVolume
	min    r3.Vec
	max    r3.Vec
}

// NewStateValidator wraps the volume with a bound box derived from the
// environment dimensions expanded by the fixed buffer.
func NewStateValidator(volume *OccupancyVolume, length, width, height float64) *StateValidator {
	return &StateValidator{
		volume: volume,
		min:    r3.Vec{X: -boundsBufferXY, Y: -boundsBufferXY, Z: -boundsBufferBelow},
		max:    r3.Vec{X: length + boundsBufferXY, Y: width + boundsBufferXY, Z: height + boundsBufferAbove},
	}
}

// InBounds reports whether p lies inside the buffered bound box.
func (sv *StateValidator) InBounds(p r3.Vec) bool {
	return p.X >= sv.min.X && p.X <= sv.max.X &&
		p.Y >= sv.min.Y && p.Y <= sv.max.Y &&
		p.Z >= sv.min.Z && p.Z <= sv.max.Z
}

// Bounds returns the buffered min and max corners.
func (sv *StateValidator) Bounds() (r3.Vec, r3.Vec) {
	return sv.min, sv.max
}

// IsValid reports whether a pose is inside bounds and not inside an occupied
// cell.
func (sv *StateValidator) IsValid(p Pose) bool {
	if !sv.InBounds(p.Position) {
		return false
	}
	return !sv.volume.IsOccupied(p.Position)
}

// IsMotionValid discretizes the straight segment between two poses at
// validationDistance and requires every sample (endpoints included) to be
// valid. A zero-length segment is trivially valid.
func (sv *StateValidator) IsMotionValid(a, b Pose) bool {
	d := Dist(a.Position, b.Position)
	if d < 1e-9 {
		return sv.IsValid(a)
	}
	steps := int(math.Ceil(d / validationDistance))
	dir := b.Position.Sub(a.Position).Scale(1.0 / float64(steps))
	p := a.Position
	for i := 0; i <= steps; i++ {
		if !sv.IsValid(Pose{Position: p, Orientation: a.Orientation}) {
			return false
		}
		p = p.Add(dir)
	}
	return true
}
