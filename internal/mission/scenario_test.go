package mission

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// dumpLog prints the full MissionLog to t.Log so it appears in `go test -v`
// output.
func dumpLog(t *testing.T, tm *TestMission) {
	t.Helper()
	entries := tm.Log.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the latest report and window summary.
func dumpSummary(t *testing.T, tm *TestMission) {
	t.Helper()
	t.Log(tm.Controller.Reporter().FormatLatest())
	if ws := tm.Controller.Reporter().Summarise(); ws != nil {
		t.Log(ws.Format())
	}
}

// --- Scenario: Single Aerial Rescue ---

func TestScenario_SingleAerialFindsSurvivor(t *testing.T) {
	t.Log("=== TestScenario_SingleAerialFindsSurvivor ===")
	t.Log("--- Setup: empty 200x200 area, one aerial vehicle, one survivor ---")

	tm := NewTestMission(
		WithBounds(200, 200, 80),
		WithSeed(42),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithSurvivor(0, 150, 150, 0, PriorityHigh),
	)

	found := tm.RunUntil(func(tm *TestMission) bool {
		return tm.SurvivorByID(0).Status() == StatusDetected
	}, 20000)
	dumpLog(t, tm)
	dumpSummary(t, tm)

	if found < 0 {
		t.Fatal("survivor never detected")
	}
	if !tm.Log.HasEntry("assign", "commit", "S0") {
		t.Error("no assignment commit logged")
	}
	if !tm.Log.HasEntry("detect", "confirmed", "S0") {
		t.Error("no detection confirmation logged")
	}
}

// --- Scenario: First Pass Assigns High Priority ---

func TestScenario_FirstPassAssignsHighPriority(t *testing.T) {
	t.Log("=== TestScenario_FirstPassAssignsHighPriority ===")

	tm := NewTestMission(
		WithBounds(300, 300, 100),
		WithSeed(42),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithSurvivor(0, 200, 200, 0, PriorityHigh),
	)

	// The first tick runs the assignment pass.
	if err := tm.RunTicks(1); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	dumpLog(t, tm)

	v := tm.VehicleByID(0)
	if v.AssignedSurvivor() != 0 {
		t.Fatalf("vehicle assigned %d after first pass, want 0", v.AssignedSurvivor())
	}
	if got := tm.SurvivorByID(0).Status(); got != StatusInProgress {
		t.Fatalf("survivor status %v after first pass, want in_progress", got)
	}
}

// --- Scenario: Harness-Placed Vehicle Detects Next Pass ---

func TestScenario_PlacedVehicleDetectsNextPass(t *testing.T) {
	t.Log("=== TestScenario_PlacedVehicleDetectsNextPass ===")

	tm := NewTestMission(
		WithBounds(300, 300, 100),
		WithSeed(42),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithSurvivor(0, 200, 200, 0, PriorityHigh),
	)
	if err := tm.RunTicks(1); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if tm.VehicleByID(0).AssignedSurvivor() != 0 {
		t.Fatal("setup failed: no assignment after first tick")
	}

	// Place the vehicle within the detection radius at detection height.
	tm.ForceVehiclePosition(0, r3.Vec{X: 200.5, Y: 200, Z: detectionHeightOffset})
	if err := tm.RunTicks(1); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	dumpLog(t, tm)

	if got := tm.SurvivorByID(0).Status(); got != StatusDetected {
		t.Fatalf("survivor status %v after detection pass, want detected", got)
	}
	if len(tm.Controller.Engine().Table()) != 0 {
		t.Fatal("assignment entry not removed after detection")
	}
}

// --- Scenario: Close Pair Triggers Climb, Table Untouched ---

func TestScenario_ClosePairClimbLeavesTableIdentical(t *testing.T) {
	t.Log("=== TestScenario_ClosePairClimbLeavesTableIdentical ===")

	tm := NewTestMission(
		WithBounds(300, 300, 100),
		WithSeed(42),
		WithAerialVehicle(0, 50, 50, cruiseHeight),
		WithGroundVehicle(1, 55, 50),
		WithSurvivor(0, 250, 250, 0, PriorityHigh),
		WithSurvivor(1, 30, 250, 0, PriorityMedium),
	)
	if err := tm.RunTicks(1); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	before := tm.Controller.Engine().Table()
	if len(before) == 0 {
		t.Fatal("setup failed: no assignments after first tick")
	}

	// 5m apart horizontally, well under the safe distance: the next tick's
	// avoidance pass climbs the aerial vehicle.
	tm.ForceVehiclePosition(0, r3.Vec{X: 50, Y: 50, Z: cruiseHeight})
	tm.ForceVehiclePosition(1, r3.Vec{X: 55, Y: 50})
	if err := tm.RunTicks(1); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	dumpLog(t, tm)

	if !tm.Log.HasEntry("avoid", "climb", "") {
		t.Fatal("no climb event logged")
	}
	if tm.VehicleByID(0).Position().Z <= cruiseHeight {
		t.Fatalf("aerial vehicle did not climb: z=%v", tm.VehicleByID(0).Position().Z)
	}

	after := tm.Controller.Engine().Table()
	if len(before) != len(after) {
		t.Fatalf("table size changed %d -> %d", len(before), len(after))
	}
	for vid, sid := range before {
		if after[vid] != sid {
			t.Fatalf("table entry %d changed: %d -> %d", vid, sid, after[vid])
		}
	}
}

// --- Scenario: Mixed Fleet Clears the Area ---

func TestScenario_MixedFleetClearsArea(t *testing.T) {
	if testing.Short() {
		t.Skip("long mission run")
	}
	t.Log("=== TestScenario_MixedFleetClearsArea ===")
	t.Log("--- Setup: 2 buildings, 2 aerial + 1 ground, 5 survivors ---")

	tm := NewTestMission(
		WithBounds(300, 300, 100),
		WithSeed(7),
		WithBuilding(80, 80, 0, 30, 30, 20),
		WithBuilding(180, 180, 0, 25, 40, 15),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithAerialVehicle(1, 290, 10, cruiseHeight),
		WithGroundVehicle(2, 150, 290),
		WithSurvivor(0, 60, 150, 0, PriorityHigh),
		WithSurvivor(1, 150, 60, 0, PriorityMedium),
		WithSurvivor(2, 240, 150, 0, PriorityMedium),
		WithSurvivor(3, 150, 240, 0, PriorityLow),
		WithSurvivor(4, 40, 40, 0, PriorityLow),
	)

	cleared := tm.RunUntil(func(tm *TestMission) bool {
		counts := tm.Controller.Registry().CountByStatus()
		return counts[StatusDetected] == 5
	}, 60000)
	dumpSummary(t, tm)

	if cleared < 0 {
		counts := tm.Controller.Registry().CountByStatus()
		dumpLog(t, tm)
		t.Fatalf("area not cleared: undetected=%d in_progress=%d detected=%d",
			counts[StatusUndetected], counts[StatusInProgress], counts[StatusDetected])
	}
	t.Logf("area cleared at tick %d", cleared)

	// Ground vehicle never left the ground plane.
	if z := tm.VehicleByID(2).Position().Z; z != 0 {
		t.Errorf("ground vehicle finished at z=%v", z)
	}
}

// --- Scenario: Blocked Survivor Does Not Wedge the Fleet ---

func TestScenario_BlockedSurvivorSkipped(t *testing.T) {
	t.Log("=== TestScenario_BlockedSurvivorSkipped ===")
	t.Log("--- Setup: survivor under a full-height tower, one reachable survivor ---")

	tm := NewTestMission(
		WithBounds(200, 200, 80),
		WithSeed(42),
		// Tower occupies the airspace over survivor 0 up to the ceiling, so
		// no descent chain can be planned for it.
		WithObstacle(60, 60, 6, 80),
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithSurvivor(0, 60, 60, 0, PriorityHigh),
		WithSurvivor(1, 150, 150, 0, PriorityLow),
	)

	found := tm.RunUntil(func(tm *TestMission) bool {
		return tm.SurvivorByID(1).Status() == StatusDetected
	}, 30000)
	dumpSummary(t, tm)

	if found < 0 {
		dumpLog(t, tm)
		t.Fatal("reachable survivor never detected")
	}
	if got := tm.SurvivorByID(0).Status(); got != StatusUndetected {
		t.Errorf("blocked survivor status %v, want undetected", got)
	}
	if !tm.Log.HasEntry("plan", "failure", "S0") {
		t.Error("no plan failure logged for the blocked survivor")
	}
}
