package mission

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

const (
	// reportWindowTicks is the default sliding window for recent-behaviour
	// summaries (~60s of sim time).
	reportWindowTicks = 600

	// reportCollectInterval is how often the controller collects a report.
	reportCollectInterval = 10
)

// VehicleReport captures a single vehicle's state at one point in time.
type VehicleReport struct {
	ID               int
	Label            string
	Kind             VehicleKind
	X, Y, Z          float64
	AssignedSurvivor int
	PathRemaining    int
}

// MissionReport is a snapshot of the mission at one tick.
type MissionReport struct {
	Tick int

	// Survivor status tallies.
	Undetected int
	InProgress int
	Detected   int
	Rescued    int

	// Fleet detail.
	Vehicles []VehicleReport

	// Cumulative planner stats.
	PlanCalls    int
	PlanFailures int

	// Cumulative event counts from the log.
	Detections      int
	AvoidanceClimbs int
	Replans         int
}

// MissionReporter collects periodic reports and summarises them over a
// sliding window.
type MissionReporter struct {
	mc          *MissionController
	history     []MissionReport
	windowTicks int
}

// NewMissionReporter creates a reporter observing the given controller.
func NewMissionReporter(mc *MissionController, windowTicks int) *MissionReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &MissionReporter{mc: mc, windowTicks: windowTicks}
}

// Collect snapshots the mission state at the given tick.
func (r *MissionReporter) Collect(tick int) {
	counts := r.mc.registry.CountByStatus()
	calls, failures := r.mc.engine.PlanStats()

	rep := MissionReport{
		Tick:            tick,
		Undetected:      counts[StatusUndetected],
		InProgress:      counts[StatusInProgress],
		Detected:        counts[StatusDetected],
		Rescued:         counts[StatusRescued],
		PlanCalls:       calls,
		PlanFailures:    failures,
		Detections:      r.mc.log.CountCategory("detect", "confirmed"),
		AvoidanceClimbs: r.mc.log.CountCategory("avoid", "climb"),
		Replans:         r.mc.log.CountCategory("plan", "replan"),
	}
	for _, v := range r.mc.vehicles {
		rep.Vehicles = append(rep.Vehicles, VehicleReport{
			ID:               v.id,
			Label:            v.label,
			Kind:             v.kind,
			X:                v.pose.Position.X,
			Y:                v.pose.Position.Y,
			Z:                v.pose.Position.Z,
			AssignedSurvivor: v.assignedSurvivor,
			PathRemaining:    len(v.path),
		})
	}
	r.history = append(r.history, rep)
}

// Latest returns the most recent report, or nil.
func (r *MissionReporter) Latest() *MissionReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// window returns the reports inside the sliding window ending at the latest
// collected tick.
func (r *MissionReporter) window() []MissionReport {
	if len(r.history) == 0 {
		return nil
	}
	cutoff := r.history[len(r.history)-1].Tick - r.windowTicks
	start := 0
	for start < len(r.history) && r.history[start].Tick <= cutoff {
		start++
	}
	return r.history[start:]
}

// WindowSummary aggregates the sliding window: detection progress plus mean
// and stddev of outstanding path lengths across samples.
type WindowSummary struct {
	FromTick, ToTick    int
	DetectionsInWindow  int
	ReplansInWindow     int
	ClimbsInWindow      int
	MeanPathRemaining   float64
	StddevPathRemaining float64
	PlanFailureRate     float64
}

// Summarise computes the window summary, or nil when nothing was collected.
func (r *MissionReporter) Summarise() *WindowSummary {
	win := r.window()
	if len(win) == 0 {
		return nil
	}
	first, last := win[0], win[len(win)-1]

	var pathLens []float64
	for _, rep := range win {
		for _, v := range rep.Vehicles {
			pathLens = append(pathLens, float64(v.PathRemaining))
		}
	}
	var mean, std float64
	if len(pathLens) > 1 {
		mean, std = stat.MeanStdDev(pathLens, nil)
	} else if len(pathLens) == 1 {
		mean = pathLens[0]
	}

	failureRate := 0.0
	if last.PlanCalls > 0 {
		failureRate = float64(last.PlanFailures) / float64(last.PlanCalls)
	}

	return &WindowSummary{
		FromTick:            first.Tick,
		ToTick:              last.Tick,
		DetectionsInWindow:  last.Detections - first.Detections,
		ReplansInWindow:     last.Replans - first.Replans,
		ClimbsInWindow:      last.AvoidanceClimbs - first.AvoidanceClimbs,
		MeanPathRemaining:   mean,
		StddevPathRemaining: std,
		PlanFailureRate:     failureRate,
	}
}

// Format renders the window summary as a printable block.
func (ws *WindowSummary) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Window T=%d..%d ---\n", ws.FromTick, ws.ToTick)
	fmt.Fprintf(&sb, "detections=%d replans=%d climbs=%d\n",
		ws.DetectionsInWindow, ws.ReplansInWindow, ws.ClimbsInWindow)
	fmt.Fprintf(&sb, "path_remaining mean=%.1f stddev=%.1f  plan_failure_rate=%.2f\n",
		ws.MeanPathRemaining, ws.StddevPathRemaining, ws.PlanFailureRate)
	return sb.String()
}

// FormatLatest renders the most recent snapshot.
func (r *MissionReporter) FormatLatest() string {
	rep := r.Latest()
	if rep == nil {
		return "(no reports collected)"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Report T=%04d ---\n", rep.Tick)
	fmt.Fprintf(&sb, "survivors: undetected=%d in_progress=%d detected=%d rescued=%d\n",
		rep.Undetected, rep.InProgress, rep.Detected, rep.Rescued)
	fmt.Fprintf(&sb, "planner: calls=%d failures=%d\n", rep.PlanCalls, rep.PlanFailures)
	for _, v := range rep.Vehicles {
		target := "--"
		if v.AssignedSurvivor >= 0 {
			target = fmt.Sprintf("S%d", v.AssignedSurvivor)
		}
		fmt.Fprintf(&sb, "%-4s %-6s (%.0f,%.0f,%.0f) target=%s path=%d\n",
			v.Label, v.Kind, v.X, v.Y, v.Z, target, v.PathRemaining)
	}
	return sb.String()
}
