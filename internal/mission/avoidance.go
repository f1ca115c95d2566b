package mission

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// safeDistance is the minimum horizontal separation between an aerial
	// and a ground vehicle before the aerial one climbs.
	safeDistance = 15.0

	// climbSpeed is the vertical separation climb rate in metres per second.
	climbSpeed = 2.0

	// maxAvoidanceHeight caps how high the separation maneuver can push an
	// aerial vehicle.
	maxAvoidanceHeight = cruiseHeight + 15.0
)

// CollisionAvoidance applies the pairwise separation maneuver. Only
// aerial/ground pairs are checked — the source system never compared
// same-kind pairs, and that gap is kept as documented behaviour rather than
// silently widened.
type CollisionAvoidance struct {
	log *MissionLog
}

// NewCollisionAvoidance creates the avoidance pass.
func NewCollisionAvoidance(log *MissionLog) *CollisionAvoidance {
	return &CollisionAvoidance{log: log}
}

// Apply checks every aerial/ground pair and climbs the aerial vehicle of any
// pair closer than safeDistance horizontally. The ground vehicle is left
// untouched, and nothing here reads or writes the assignment table.
func (ca *CollisionAvoidance) Apply(vehicles []*Vehicle, tick int) {
	for _, a := range vehicles {
		if a.kind != VehicleAerial {
			continue
		}
		for _, g := range vehicles {
			if g.kind != VehicleGround {
				continue
			}
			d := HorizDist(a.pose.Position, g.pose.Position)
			if d >= safeDistance {
				continue
			}
			if a.pose.Position.Z >= maxAvoidanceHeight {
				continue
			}
			a.moveBy(r3.Vec{Z: climbSpeed})
			ca.log.Add(tick, a.label, "avoid", "climb",
				fmt.Sprintf("%s at %.1fm horizontal, now z=%.1f", g.label, d, a.pose.Position.Z), d)
			break // one climb per aerial vehicle per tick
		}
	}
}
