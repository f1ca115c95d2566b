package mission

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Planning failure taxonomy. All of these are recoverable: callers retry on a
// later cycle or move to the next candidate.
var (
	ErrInvalidEndpoint = errors.New("planner: start or goal fails validation")
	ErrBudgetExhausted = errors.New("planner: iteration budget exhausted")
	ErrInvalidSegment  = errors.New("planner: path segment failed post-check")
)

// PlannerParams tunes a single RRT query.
type PlannerParams struct {
	MaxIterations         int
	MaxConnectionDistance float64
	GoalBias              float64 // probability of sampling the goal directly
	GoalTolerance         float64 // acceptance radius around the goal position
}

// DefaultPlannerParams are the values used by the mission controller.
func DefaultPlannerParams() PlannerParams {
	return PlannerParams{
		MaxIterations:         3000,
		MaxConnectionDistance: 10.0,
		GoalBias:              0.1,
		GoalTolerance:         2.5,
	}
}

// rrtNode is one tree vertex with a back-pointer to its parent.
type rrtNode struct {
	pose   Pose
	parent int // index into the node slice, -1 for the root
}

// RRTPlanner grows a rapidly-exploring random tree through the validator's
// free space. The pose space is 7-dimensional (position + quaternion) but
// only position is searched; orientation rides along from the start pose.
// Sampling comes from an injected rand source so runs are reproducible.
type RRTPlanner struct {
	validator *StateValidator
	params    PlannerParams
	rng       *rand.Rand
}

// NewRRTPlanner creates a planner over the given validator. rng must not be
// shared with concurrent users.
func NewRRTPlanner(validator *StateValidator, params PlannerParams, rng *rand.Rand) *RRTPlanner {
	return &RRTPlanner{validator: validator, params: params, rng: rng}
}

// Plan runs a single-shot RRT query from start to goal and returns the
// waypoint sequence including both endpoints. It never returns a partial
// path: on any failure the path is nil and the error identifies the cause.
func (pl *RRTPlanner) Plan(start, goal Pose) ([]Pose, error) {
	if !pl.validator.IsValid(start) || !pl.validator.IsValid(goal) {
		return nil, ErrInvalidEndpoint
	}

	nodes := []rrtNode{{pose: start, parent: -1}}

	for iter := 0; iter < pl.params.MaxIterations; iter++ {
		sample := goal.Position
		if pl.rng.Float64() >= pl.params.GoalBias {
			sample = pl.samplePosition()
		}

		nearest := pl.nearestNode(nodes, sample)
		newPose := pl.steer(nodes[nearest].pose, sample)

		if !pl.validator.IsMotionValid(nodes[nearest].pose, newPose) {
			continue
		}
		nodes = append(nodes, rrtNode{pose: newPose, parent: nearest})

		if Dist(newPose.Position, goal.Position) <= pl.params.GoalTolerance {
			path := reconstruct(nodes, len(nodes)-1)
			if Dist(path[len(path)-1].Position, goal.Position) > 1e-9 {
				path = append(path, goal)
			}
			if err := pl.recheck(path); err != nil {
				return nil, err
			}
			return path, nil
		}
	}
	return nil, ErrBudgetExhausted
}

// samplePosition draws a uniform random position inside the buffered bounds.
func (pl *RRTPlanner) samplePosition() r3.Vec {
	lo, hi := pl.validator.Bounds()
	return r3.Vec{
		X: lo.X + pl.rng.Float64()*(hi.X-lo.X),
		Y: lo.Y + pl.rng.Float64()*(hi.Y-lo.Y),
		Z: lo.Z + pl.rng.Float64()*(hi.Z-lo.Z),
	}
}

// nearestNode finds the tree node closest to sample by Euclidean distance
// over position only.
func (pl *RRTPlanner) nearestNode(nodes []rrtNode, sample r3.Vec) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, n := range nodes {
		if d := Dist(n.pose.Position, sample); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// steer moves from a tree pose toward sample by at most
// MaxConnectionDistance, keeping the tree pose's orientation.
func (pl *RRTPlanner) steer(from Pose, sample r3.Vec) Pose {
	delta := sample.Sub(from.Position)
	d := r3.Norm(delta)
	if d > pl.params.MaxConnectionDistance {
		delta = delta.Scale(pl.params.MaxConnectionDistance / d)
	}
	return Pose{Position: from.Position.Add(delta), Orientation: from.Orientation}
}

// recheck re-validates every consecutive waypoint pair. The tree only adds
// motion-valid edges, but steering and goal splicing work in floating point;
// this is the defence against an edge that only looked valid.
func (pl *RRTPlanner) recheck(path []Pose) error {
	for i := 1; i < len(path); i++ {
		if !pl.validator.IsMotionValid(path[i-1], path[i]) {
			return fmt.Errorf("%w: waypoints %d-%d", ErrInvalidSegment, i-1, i)
		}
	}
	return nil
}

// reconstruct walks parent pointers from the given node to the root and
// returns the reversed (start-first) pose sequence.
func reconstruct(nodes []rrtNode, end int) []Pose {
	var rev []Pose
	for i := end; i >= 0; i = nodes[i].parent {
		rev = append(rev, nodes[i].pose)
	}
	path := make([]Pose, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// PlanDescent plans the three-segment approach an aerial vehicle flies when
// its goal sits at ground level: over the goal at cruise height, down to
// detection height, and back up to cruise. All three segments must succeed;
// no partial path is ever returned.
func (pl *RRTPlanner) PlanDescent(start Pose, goal r3.Vec) ([]Pose, error) {
	above := PoseAt(goal.X, goal.Y, cruiseHeight)
	low := PoseAt(goal.X, goal.Y, goal.Z+detectionHeightOffset)

	seg1, err := pl.Plan(start, above)
	if err != nil {
		return nil, fmt.Errorf("descent approach: %w", err)
	}
	seg2, err := pl.Plan(above, low)
	if err != nil {
		return nil, fmt.Errorf("descent drop: %w", err)
	}
	seg3, err := pl.Plan(low, above)
	if err != nil {
		return nil, fmt.Errorf("descent climb-out: %w", err)
	}

	path := make([]Pose, 0, len(seg1)+len(seg2)+len(seg3))
	path = append(path, seg1...)
	path = append(path, seg2[1:]...)
	path = append(path, seg3[1:]...)
	return path, nil
}
