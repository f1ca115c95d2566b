package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Swarm-Rescue/internal/mission"
)

type runStats struct {
	runIndex int
	seed     int64

	firstAssignTick int
	firstDetectTick int
	lastDetectTick  int
	firstReplanTick int
	firstClimbTick  int
	allDetectedTick int
	fatalTick       int

	detections     int
	assignCommits  int
	noTargetEvents int
	replans        int
	replanFailures int
	climbs         int

	planCalls    int
	planFailures int

	undetected int
	inProgress int
	detected   int

	detectedLabels map[string]struct{}

	windowSummary *mission.WindowSummary
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var survivors int

	flag.IntVar(&runs, "runs", 5, "number of headless mission runs")
	flag.IntVar(&ticks, "ticks", 12000, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "urban-grid", "scenario name")
	flag.IntVar(&survivors, "survivors", 12, "survivors scattered per run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "urban-grid" {
		fmt.Printf("error: unsupported scenario %q (supported: urban-grid)\n", scenario)
		return
	}

	fmt.Printf("=== Headless Mission Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d survivors=%d seed_base=%d seed_step=%d\n\n",
		scenario, runs, ticks, survivors, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenarioUrbanGrid(i+1, seed, ticks, survivors)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all, ticks)
}

// runScenarioUrbanGrid runs one seeded mission over a fixed city-block scene:
// four buildings around a central crossing, two aerial and two ground
// vehicles starting in the corners, survivors scattered by the seed.
func runScenarioUrbanGrid(runIndex int, seed int64, ticks, survivors int) runStats {
	tm := mission.NewTestMission(
		mission.WithBounds(300, 300, 100),
		mission.WithSeed(seed),
		mission.WithBuilding(60, 60, 0, 40, 30, 15),
		mission.WithBuilding(200, 60, 0, 30, 40, 20),
		mission.WithBuilding(60, 200, 0, 35, 35, 12),
		mission.WithBuilding(200, 200, 0, 40, 30, 18),
		mission.WithObstacle(150, 150, 4, 25),
		mission.WithObstacle(110, 170, 3, 18),
		mission.WithAerialVehicle(0, 10, 10, 30),
		mission.WithAerialVehicle(1, 290, 10, 30),
		mission.WithGroundVehicle(2, 10, 290),
		mission.WithGroundVehicle(3, 290, 290),
		mission.WithRandomSurvivors(survivors),
	)
	err := tm.RunTicks(ticks)

	entries := tm.Log.Entries()
	detectedLabels := map[string]struct{}{}
	for _, e := range entries {
		if e.Category == "detect" && e.Key == "confirmed" {
			label := e.Value
			if i := strings.IndexByte(label, ' '); i > 0 {
				label = label[:i]
			}
			detectedLabels[label] = struct{}{}
		}
	}

	counts := tm.Controller.Registry().CountByStatus()
	calls, failures := tm.Controller.Engine().PlanStats()

	rs := runStats{
		runIndex:        runIndex,
		seed:            seed,
		firstAssignTick: firstTick(entries, "assign", "commit"),
		firstDetectTick: firstTick(entries, "detect", "confirmed"),
		lastDetectTick:  lastTick(entries, "detect", "confirmed"),
		firstReplanTick: firstTick(entries, "plan", "replan"),
		firstClimbTick:  firstTick(entries, "avoid", "climb"),
		allDetectedTick: -1,
		fatalTick:       -1,
		detections:      tm.Log.CountCategory("detect", "confirmed"),
		assignCommits:   tm.Log.CountCategory("assign", "commit"),
		noTargetEvents:  tm.Log.CountCategory("assign", "no_target"),
		replans:         tm.Log.CountCategory("plan", "replan"),
		replanFailures:  tm.Log.CountCategory("plan", "replan_failure"),
		climbs:          tm.Log.CountCategory("avoid", "climb"),
		planCalls:       calls,
		planFailures:    failures,
		undetected:      counts[mission.StatusUndetected],
		inProgress:      counts[mission.StatusInProgress],
		detected:        counts[mission.StatusDetected],
		detectedLabels:  detectedLabels,
		windowSummary:   tm.Controller.Reporter().Summarise(),
	}
	if rs.undetected == 0 && rs.inProgress == 0 {
		rs.allDetectedTick = rs.lastDetectTick
	}
	if err != nil {
		rs.fatalTick = tm.Controller.CurrentTick()
	}
	return rs
}

func firstTick(entries []mission.MissionLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func lastTick(entries []mission.MissionLogEntry, category, key string) int {
	last := -1
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			last = e.Tick
		}
	}
	return last
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_assign=%d first_detect=%d last_detect=%d first_replan=%d first_climb=%d all_detected=%d\n",
		rs.firstAssignTick, rs.firstDetectTick, rs.lastDetectTick, rs.firstReplanTick, rs.firstClimbTick, rs.allDetectedTick)
	fmt.Printf("event_totals: detections=%d assigns=%d no_target=%d replans=%d replan_failures=%d climbs=%d\n",
		rs.detections, rs.assignCommits, rs.noTargetEvents, rs.replans, rs.replanFailures, rs.climbs)
	fmt.Printf("planner: calls=%d failures=%d\n", rs.planCalls, rs.planFailures)
	fmt.Printf("final_status: undetected=%d in_progress=%d detected=%d\n",
		rs.undetected, rs.inProgress, rs.detected)
	fmt.Printf("detected_labels: %s\n", joinSet(rs.detectedLabels))
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	if rs.fatalTick >= 0 {
		fmt.Printf("FATAL: mission halted at tick %d\n", rs.fatalTick)
	}
	fmt.Println()
}

func printAggregate(all []runStats, ticks int) {
	totalDetections := 0
	totalReplans := 0
	totalReplanFailures := 0
	totalClimbs := 0
	totalNoTarget := 0
	totalPlanCalls := 0
	totalPlanFailures := 0
	cleared := 0
	fatal := 0

	firstDetectTicks := make([]int, 0, len(all))
	allDetectedTicks := make([]int, 0, len(all))
	detectedGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalDetections += rs.detections
		totalReplans += rs.replans
		totalReplanFailures += rs.replanFailures
		totalClimbs += rs.climbs
		totalNoTarget += rs.noTargetEvents
		totalPlanCalls += rs.planCalls
		totalPlanFailures += rs.planFailures
		if rs.allDetectedTick >= 0 {
			cleared++
			allDetectedTicks = append(allDetectedTicks, rs.allDetectedTick)
		}
		if rs.fatalTick >= 0 {
			fatal++
		}
		if rs.firstDetectTick >= 0 {
			firstDetectTicks = append(firstDetectTicks, rs.firstDetectTick)
		}
		for label := range rs.detectedLabels {
			detectedGlobal[label] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d ticks_per_run=%d cleared_runs=%d fatal_runs=%d\n", len(all), ticks, cleared, fatal)
	fmt.Printf("avg_events_per_run: detections=%.1f replans=%.1f replan_failures=%.1f climbs=%.1f no_target=%.1f\n",
		avg(totalDetections, len(all)), avg(totalReplans, len(all)),
		avg(totalReplanFailures, len(all)), avg(totalClimbs, len(all)), avg(totalNoTarget, len(all)))
	failRate := 0.0
	if totalPlanCalls > 0 {
		failRate = float64(totalPlanFailures) / float64(totalPlanCalls)
	}
	fmt.Printf("planner: calls=%d failures=%d failure_rate=%.3f\n", totalPlanCalls, totalPlanFailures, failRate)
	fmt.Printf("phase_marker_avg_ticks: first_detect=%s all_detected=%s\n",
		avgTickString(firstDetectTicks), avgTickString(allDetectedTicks))
	fmt.Printf("unique_detected_labels=%d [%s]\n", len(detectedGlobal), joinSet(detectedGlobal))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
