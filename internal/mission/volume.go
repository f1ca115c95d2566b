package mission

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// voxelResolution is the edge length of one occupancy cell in metres.
	voxelResolution = 1.0

	// occupiedThreshold and freeThreshold split occupancy probabilities into
	// blocked / traversable / indeterminate. Indeterminate counts as blocked.
	occupiedThreshold = 0.65
	freeThreshold     = 0.20
)

// OccupancyVolume is a dense 3D grid of occupancy probabilities in [0,1].
// Cells never written default to free. Queries outside the populated grid are
// free as well — the volume only knows about space the environment marked,
// and the validator's bound box is what keeps vehicles inside the map.
type OccupancyVolume struct {
	nx, ny, nz int
	cells      []float64
}

// NewOccupancyVolume creates an all-free volume covering length × width ×
// height metres at voxelResolution.
func NewOccupancyVolume(length, width, height float64) *OccupancyVolume {
	nx := int(math.Ceil(length / voxelResolution))
	ny := int(math.Ceil(width / voxelResolution))
	nz := int(math.Ceil(height / voxelResolution))
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	if nz < 1 {
		nz = 1
	}
	return &OccupancyVolume{
		nx:    nx,
		ny:    ny,
		nz:    nz,
		cells: make([]float64, nx*ny*nz),
	}
}

// cellIndex maps a world point to its nearest cell index, or -1 when the
// point lies outside the populated grid.
func (ov *OccupancyVolume) cellIndex(p r3.Vec) int {
	cx := int(math.Floor(p.X / voxelResolution))
	cy := int(math.Floor(p.Y / voxelResolution))
	cz := int(math.Floor(p.Z / voxelResolution))
	if cx < 0 || cy < 0 || cz < 0 || cx >= ov.nx || cy >= ov.ny || cz >= ov.nz {
		return -1
	}
	return (cz*ov.ny+cy)*ov.nx + cx
}

// SetOccupancy marks a batch of cells with the given probabilities. points and
// values are matched by index; a short values slice reuses its last element,
// so a single-element slice marks every point with one value. Out-of-grid
// points are ignored.
func (ov *OccupancyVolume) SetOccupancy(points []r3.Vec, values []float64) {
	if len(points) == 0 || len(values) == 0 {
		return
	}
	for i, p := range points {
		idx := ov.cellIndex(p)
		if idx < 0 {
			continue
		}
		v := values[len(values)-1]
		if i < len(values) {
			v = values[i]
		}
		ov.cells[idx] = clamp01(v)
	}
}

// Occupancy returns the stored probability of the cell nearest to p. No
// interpolation; unpopulated space reads as 0.
func (ov *OccupancyVolume) Occupancy(p r3.Vec) float64 {
	idx := ov.cellIndex(p)
	if idx < 0 {
		return 0
	}
	return ov.cells[idx]
}

// IsOccupied reports whether p falls in a cell that is not safely traversable.
// Anything above the free threshold is treated as blocked: indeterminate cells
// block for safety.
func (ov *OccupancyVolume) IsOccupied(p r3.Vec) bool {
	return ov.Occupancy(p) > freeThreshold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
