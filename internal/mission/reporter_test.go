package mission

import (
	"strings"
	"testing"
)

func TestReporterCollectsDuringRun(t *testing.T) {
	tm := NewTestMission(
		WithBounds(200, 200, 80),
		WithSeed(3),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithSurvivor(0, 150, 150, 0, PriorityMedium),
	)
	if err := tm.RunTicks(100); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	rep := tm.Controller.Reporter().Latest()
	if rep == nil {
		t.Fatal("no report collected after 100 ticks")
	}
	if rep.Tick%reportCollectInterval != 0 {
		t.Fatalf("report tick %d not on the collect interval", rep.Tick)
	}
	if len(rep.Vehicles) != 1 {
		t.Fatalf("report has %d vehicles, want 1", len(rep.Vehicles))
	}
	if rep.Undetected+rep.InProgress+rep.Detected+rep.Rescued != 1 {
		t.Fatalf("status tallies don't sum to survivor count: %+v", rep)
	}
}

func TestReporterWindowSummary(t *testing.T) {
	tm := NewTestMission(
		WithBounds(200, 200, 80),
		WithSeed(3),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithSurvivor(0, 150, 150, 0, PriorityMedium),
	)
	if err := tm.RunTicks(300); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	ws := tm.Controller.Reporter().Summarise()
	if ws == nil {
		t.Fatal("no window summary after 300 ticks")
	}
	if ws.ToTick <= ws.FromTick {
		t.Fatalf("empty window: %d..%d", ws.FromTick, ws.ToTick)
	}
	if ws.MeanPathRemaining < 0 {
		t.Fatalf("negative mean path length %v", ws.MeanPathRemaining)
	}

	out := ws.Format()
	if !strings.Contains(out, "path_remaining") {
		t.Fatalf("summary format missing fields: %q", out)
	}
}

func TestReporterEmptyBeforeFirstCollect(t *testing.T) {
	tm := NewTestMission(WithBounds(100, 100, 50), WithSeed(1))

	if rep := tm.Controller.Reporter().Latest(); rep != nil {
		t.Fatalf("unexpected report before any tick: %+v", rep)
	}
	if ws := tm.Controller.Reporter().Summarise(); ws != nil {
		t.Fatalf("unexpected summary before any tick: %+v", ws)
	}
	if got := tm.Controller.Reporter().FormatLatest(); got != "(no reports collected)" {
		t.Fatalf("FormatLatest on empty reporter: %q", got)
	}
}

func TestDebugReportContents(t *testing.T) {
	tm := NewTestMission(
		WithBounds(200, 200, 80),
		WithSeed(3),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithSurvivor(0, 150, 150, 0, PriorityHigh),
	)
	if err := tm.RunTicks(200); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	report := MissionDebugReport(tm.Controller, tm.VehicleByID(0), 600)
	for _, want := range []string{"Mission debug report", "vehicle=A0", "events:", "survivors:", "planner:"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	// The assignment commit from the first tick appears in the timeline.
	if !strings.Contains(report, "commit") {
		t.Fatalf("report missing the assignment event:\n%s", report)
	}
}
