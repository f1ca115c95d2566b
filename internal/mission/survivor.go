package mission

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Priority ranks how urgently a survivor needs to be reached.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// RandomPriority draws a priority from the fixed 20/50/30 mission
// distribution using the supplied rng.
func RandomPriority(rng *rand.Rand) Priority {
	switch v := rng.Float64(); {
	case v < 0.2:
		return PriorityHigh
	case v < 0.7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// SurvivorStatus is the one-directional survivor state machine. RESCUED is
// declared for a future pickup step; nothing in the controller enters it.
type SurvivorStatus int

const (
	StatusUndetected SurvivorStatus = iota
	StatusInProgress
	StatusDetected
	StatusRescued
)

func (s SurvivorStatus) String() string {
	switch s {
	case StatusUndetected:
		return "undetected"
	case StatusInProgress:
		return "in_progress"
	case StatusDetected:
		return "detected"
	case StatusRescued:
		return "rescued"
	default:
		return "unknown"
	}
}

// Survivor is a fixed-position casualty awaiting detection. Status and the
// assigned vehicle are the only fields that change after creation.
type Survivor struct {
	id       int
	label    string
	pos      r3.Vec
	priority Priority

	status          SurvivorStatus
	assignedVehicle int // vehicle id, -1 when unassigned
}

// NewSurvivor creates an undetected survivor at pos.
func NewSurvivor(id int, pos r3.Vec, priority Priority) *Survivor {
	return &Survivor{
		id:              id,
		label:           fmt.Sprintf("S%d", id),
		pos:             pos,
		priority:        priority,
		status:          StatusUndetected,
		assignedVehicle: -1,
	}
}

// ID returns the survivor's identity.
func (s *Survivor) ID() int { return s.id }

// Label returns the short display label, e.g. "S3".
func (s *Survivor) Label() string { return s.label }

// Position returns the survivor's fixed position.
func (s *Survivor) Position() r3.Vec { return s.pos }

// Priority returns the immutable priority.
func (s *Survivor) Priority() Priority { return s.priority }

// Status returns the current status.
func (s *Survivor) Status() SurvivorStatus { return s.status }

// AssignedVehicle returns the assigned vehicle id, or -1.
func (s *Survivor) AssignedVehicle() int { return s.assignedVehicle }

// advanceStatus moves the survivor forward one step in the machine. Backward
// or skipping transitions panic: they can only come from a controller bug,
// and the tick loop treats that as an invariant violation.
func (s *Survivor) advanceStatus(to SurvivorStatus) {
	if to != s.status+1 {
		panic(fmt.Sprintf("survivor %s: illegal status transition %s -> %s", s.label, s.status, to))
	}
	s.status = to
}

// SurvivorRegistry holds every survivor for the mission in creation order.
// Survivors are never removed during a mission.
type SurvivorRegistry struct {
	survivors []*Survivor
}

// Add appends a survivor. Creation order is the scan order used by the
// assignment engine.
func (r *SurvivorRegistry) Add(s *Survivor) {
	r.survivors = append(r.survivors, s)
}

// All returns the survivors in creation order.
func (r *SurvivorRegistry) All() []*Survivor {
	return r.survivors
}

// ByID returns the survivor with the given id, or nil.
func (r *SurvivorRegistry) ByID(id int) *Survivor {
	for _, s := range r.survivors {
		if s.id == id {
			return s
		}
	}
	return nil
}

// Undetected returns survivors still awaiting assignment, in creation order.
func (r *SurvivorRegistry) Undetected() []*Survivor {
	var out []*Survivor
	for _, s := range r.survivors {
		if s.status == StatusUndetected {
			out = append(out, s)
		}
	}
	return out
}

// CountByStatus tallies survivors per status.
func (r *SurvivorRegistry) CountByStatus() map[SurvivorStatus]int {
	counts := make(map[SurvivorStatus]int)
	for _, s := range r.survivors {
		counts[s.status]++
	}
	return counts
}
