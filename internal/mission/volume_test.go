package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestVolumeDefaultsFree(t *testing.T) {
	ov := NewOccupancyVolume(100, 100, 50)

	assert.Equal(t, 0.0, ov.Occupancy(r3.Vec{X: 50, Y: 50, Z: 25}))
	assert.False(t, ov.IsOccupied(r3.Vec{X: 50, Y: 50, Z: 25}))
}

func TestVolumeOutOfGridReadsFree(t *testing.T) {
	ov := NewOccupancyVolume(100, 100, 50)

	assert.Equal(t, 0.0, ov.Occupancy(r3.Vec{X: -10, Y: 50, Z: 25}))
	assert.Equal(t, 0.0, ov.Occupancy(r3.Vec{X: 50, Y: 50, Z: 200}))
	assert.False(t, ov.IsOccupied(r3.Vec{X: 500, Y: 500, Z: 500}))
}

func TestVolumeSetAndQuery(t *testing.T) {
	ov := NewOccupancyVolume(100, 100, 50)

	ov.SetOccupancy([]r3.Vec{{X: 10, Y: 10, Z: 5}}, []float64{0.9})
	assert.Equal(t, 0.9, ov.Occupancy(r3.Vec{X: 10, Y: 10, Z: 5}))
	assert.True(t, ov.IsOccupied(r3.Vec{X: 10, Y: 10, Z: 5}))

	// Same cell, different point within the voxel.
	assert.True(t, ov.IsOccupied(r3.Vec{X: 10.4, Y: 10.4, Z: 5.4}))
	// Neighbouring cell untouched.
	assert.False(t, ov.IsOccupied(r3.Vec{X: 12, Y: 10, Z: 5}))
}

func TestVolumeLastValueReuse(t *testing.T) {
	ov := NewOccupancyVolume(100, 100, 50)

	points := []r3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 2, Y: 1, Z: 1},
		{X: 3, Y: 1, Z: 1},
	}
	ov.SetOccupancy(points, []float64{1})

	for _, p := range points {
		assert.Equal(t, 1.0, ov.Occupancy(p), "point %v", p)
	}
}

func TestVolumeClampsValues(t *testing.T) {
	ov := NewOccupancyVolume(100, 100, 50)

	ov.SetOccupancy([]r3.Vec{{X: 5, Y: 5, Z: 5}}, []float64{3.5})
	assert.Equal(t, 1.0, ov.Occupancy(r3.Vec{X: 5, Y: 5, Z: 5}))

	ov.SetOccupancy([]r3.Vec{{X: 6, Y: 5, Z: 5}}, []float64{-0.5})
	assert.Equal(t, 0.0, ov.Occupancy(r3.Vec{X: 6, Y: 5, Z: 5}))
}

func TestVolumeIndeterminateBlocks(t *testing.T) {
	ov := NewOccupancyVolume(100, 100, 50)

	// Between the free and occupied thresholds: not safely traversable.
	ov.SetOccupancy([]r3.Vec{{X: 5, Y: 5, Z: 5}}, []float64{0.4})
	assert.True(t, ov.IsOccupied(r3.Vec{X: 5, Y: 5, Z: 5}))

	ov.SetOccupancy([]r3.Vec{{X: 6, Y: 5, Z: 5}}, []float64{0.1})
	assert.False(t, ov.IsOccupied(r3.Vec{X: 6, Y: 5, Z: 5}))
}

func TestEnvironmentBuildingOccupancy(t *testing.T) {
	env := NewEnvironment(300, 300, 100)
	env.AddBuilding(Building{
		Position:   r3.Vec{X: 50, Y: 50},
		Dimensions: r3.Vec{X: 20, Y: 30, Z: 40},
	})

	ov := env.OccupancyVolume()
	require.NotNil(t, ov)

	assert.InDelta(t, 0.0, ov.Occupancy(r3.Vec{X: 150, Y: 150, Z: 0}), 1e-9)
	assert.InDelta(t, 1.0, ov.Occupancy(r3.Vec{X: 50, Y: 50, Z: 20}), 1e-9)
	assert.True(t, ov.IsOccupied(r3.Vec{X: 60, Y: 65, Z: 35}))
	assert.False(t, ov.IsOccupied(r3.Vec{X: 60, Y: 65, Z: 45}))
}

func TestEnvironmentObstacleOccupancy(t *testing.T) {
	env := NewEnvironment(100, 100, 50)
	env.AddObstacle(Obstacle{Center: r3.Vec{X: 50, Y: 50}, Radius: 3, Height: 20})

	ov := env.OccupancyVolume()
	assert.True(t, ov.IsOccupied(r3.Vec{X: 50, Y: 50, Z: 10}))
	assert.False(t, ov.IsOccupied(r3.Vec{X: 50, Y: 50, Z: 25}))
	assert.False(t, ov.IsOccupied(r3.Vec{X: 60, Y: 50, Z: 10}))
}
