package mission

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Building is an axis-aligned box obstacle sitting on the ground plane.
type Building struct {
	Position   r3.Vec // min corner
	Dimensions r3.Vec
}

// Obstacle is a vertical cylinder (pylon, tree, mast).
type Obstacle struct {
	Center r3.Vec // base centre at ground level
	Radius float64
	Height float64
}

// Environment is the static scene the mission runs in: bounds, the populated
// occupancy volume, and the building/obstacle lists it was populated from.
type Environment struct {
	length, width, height float64
	volume                *OccupancyVolume
	buildings             []Building
	obstacles             []Obstacle
}

// NewEnvironment creates an empty scene with an all-free volume.
func NewEnvironment(length, width, height float64) *Environment {
	return &Environment{
		length: length,
		width:  width,
		height: height,
		volume: NewOccupancyVolume(length, width, height),
	}
}

// Bounds returns the environment dimensions (length, width, height).
func (e *Environment) Bounds() (float64, float64, float64) {
	return e.length, e.width, e.height
}

// OccupancyVolume returns the populated occupancy grid.
func (e *Environment) OccupancyVolume() *OccupancyVolume {
	return e.volume
}

// Buildings returns the building list.
func (e *Environment) Buildings() []Building {
	return e.buildings
}

// Obstacles returns the obstacle list.
func (e *Environment) Obstacles() []Obstacle {
	return e.obstacles
}

// AddBuilding registers a building and marks every voxel it covers occupied.
func (e *Environment) AddBuilding(b Building) {
	e.buildings = append(e.buildings, b)

	var points []r3.Vec
	for x := b.Position.X; x < b.Position.X+b.Dimensions.X; x += voxelResolution {
		for y := b.Position.Y; y < b.Position.Y+b.Dimensions.Y; y += voxelResolution {
			for z := b.Position.Z; z < b.Position.Z+b.Dimensions.Z; z += voxelResolution {
				points = append(points, r3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	e.volume.SetOccupancy(points, []float64{1})
}

// AddObstacle registers a cylindrical obstacle and marks the voxels inside
// its radius occupied from the ground up to its height.
func (e *Environment) AddObstacle(o Obstacle) {
	e.obstacles = append(e.obstacles, o)

	var points []r3.Vec
	minX := math.Floor(o.Center.X - o.Radius)
	maxX := math.Ceil(o.Center.X + o.Radius)
	minY := math.Floor(o.Center.Y - o.Radius)
	maxY := math.Ceil(o.Center.Y + o.Radius)
	for x := minX; x <= maxX; x += voxelResolution {
		for y := minY; y <= maxY; y += voxelResolution {
			dx := x - o.Center.X
			dy := y - o.Center.Y
			if math.Sqrt(dx*dx+dy*dy) > o.Radius {
				continue
			}
			for z := 0.0; z < o.Height; z += voxelResolution {
				points = append(points, r3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	e.volume.SetOccupancy(points, []float64{1})
}

// Validator builds a state validator over this environment's volume and
// buffered bounds.
func (e *Environment) Validator() *StateValidator {
	return NewStateValidator(e.volume, e.length, e.width, e.height)
}
