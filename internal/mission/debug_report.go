package mission

import (
	"fmt"
	"math"
	"strings"

	"github.com/atotto/clipboard"
)

// MissionDebugReport builds a plain-text diagnostic for one vehicle over the
// last lastTicks ticks: a movement summary from the reporter history, the
// vehicle's event timeline from the mission log, and the survivor tally. The
// report is meant to be pasted into a bug ticket as-is.
func MissionDebugReport(mc *MissionController, v *Vehicle, lastTicks int) string {
	if v == nil {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 600
	}

	toTick := mc.CurrentTick()
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Mission debug report ---\n")
	fmt.Fprintf(&b, "tick_range=[%d..%d] ticks=%d\n", fromTick, toTick, toTick-fromTick+1)
	target := "none"
	if v.assignedSurvivor >= 0 {
		if s := mc.registry.ByID(v.assignedSurvivor); s != nil {
			target = fmt.Sprintf("%s (%s, %s)", s.label, s.priority, s.status)
		}
	}
	fmt.Fprintf(&b, "vehicle=%s kind=%s pos=(%.1f,%.1f,%.1f) target=%s path=%d\n\n",
		v.label, v.kind, v.pose.Position.X, v.pose.Position.Y, v.pose.Position.Z, target, len(v.path))

	writeMovementSummary(&b, mc, v, fromTick)

	b.WriteString("events:\n")
	events := 0
	for _, e := range mc.log.FilterActor(v.label) {
		if e.Tick < fromTick {
			continue
		}
		b.WriteString("  ")
		b.WriteString(e.String())
		b.WriteByte('\n')
		events++
	}
	if events == 0 {
		b.WriteString("  (none in range)\n")
	}
	b.WriteByte('\n')

	counts := mc.registry.CountByStatus()
	fmt.Fprintf(&b, "survivors: undetected=%d in_progress=%d detected=%d rescued=%d\n",
		counts[StatusUndetected], counts[StatusInProgress], counts[StatusDetected], counts[StatusRescued])
	calls, failures := mc.engine.PlanStats()
	fmt.Fprintf(&b, "planner: calls=%d failures=%d\n", calls, failures)
	return b.String()
}

// writeMovementSummary condenses the reporter's per-snapshot vehicle rows for
// one vehicle into altitude and path-length ranges.
func writeMovementSummary(b *strings.Builder, mc *MissionController, v *Vehicle, fromTick int) {
	minZ, maxZ := math.MaxFloat64, -math.MaxFloat64
	minPath, maxPath := math.MaxInt, 0
	samples := 0
	idleSamples := 0
	for _, rep := range mc.reporter.history {
		if rep.Tick < fromTick {
			continue
		}
		for _, vr := range rep.Vehicles {
			if vr.ID != v.id {
				continue
			}
			samples++
			if vr.Z < minZ {
				minZ = vr.Z
			}
			if vr.Z > maxZ {
				maxZ = vr.Z
			}
			if vr.PathRemaining < minPath {
				minPath = vr.PathRemaining
			}
			if vr.PathRemaining > maxPath {
				maxPath = vr.PathRemaining
			}
			if vr.PathRemaining == 0 && vr.AssignedSurvivor < 0 {
				idleSamples++
			}
		}
	}
	if samples == 0 {
		b.WriteString("summary: (no snapshots in range)\n\n")
		return
	}
	fmt.Fprintf(b, "summary: samples=%d idle=%d z[min/max]=%.1f/%.1f path[min/max]=%d/%d\n\n",
		samples, idleSamples, minZ, maxZ, minPath, maxPath)
}

// CopyDebugReport places the report on the system clipboard.
func CopyDebugReport(mc *MissionController, v *Vehicle, lastTicks int) error {
	return clipboard.WriteAll(MissionDebugReport(mc, v, lastTicks))
}
