package mission

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// KinematicState is the full motion state a platform reports and accepts.
type KinematicState struct {
	Position        r3.Vec
	Velocity        r3.Vec
	AngularVelocity r3.Vec
	Orientation     quat.Number
	Acceleration    r3.Vec
}

// Platform is the per-vehicle motion backend. The engine only ever calls
// Read at the start of a tick and Move at the end; Move is assumed to always
// succeed.
type Platform interface {
	Read() KinematicState
	Move(KinematicState)
}

// simPlatform is the in-memory platform used by the simulation and tests:
// Move stores the state verbatim, Read returns it.
type simPlatform struct {
	state KinematicState
}

// NewSimPlatform creates a platform holding the given initial position.
func NewSimPlatform(pos r3.Vec) Platform {
	return &simPlatform{state: KinematicState{
		Position:    pos,
		Orientation: IdentityOrientation,
	}}
}

func (p *simPlatform) Read() KinematicState  { return p.state }
func (p *simPlatform) Move(s KinematicState) { p.state = s }
