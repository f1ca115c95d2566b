package main

import (
	"testing"

	"github.com/Garsondee/Swarm-Rescue/internal/mission"
)

func TestFirstAndLastTick(t *testing.T) {
	entries := []mission.MissionLogEntry{
		{Tick: 3, Category: "assign", Key: "commit"},
		{Tick: 10, Category: "detect", Key: "confirmed"},
		{Tick: 25, Category: "detect", Key: "confirmed"},
		{Tick: 40, Category: "plan", Key: "replan"},
	}

	if got := firstTick(entries, "detect", "confirmed"); got != 10 {
		t.Fatalf("expected first detect at tick 10, got %d", got)
	}
	if got := lastTick(entries, "detect", "confirmed"); got != 25 {
		t.Fatalf("expected last detect at tick 25, got %d", got)
	}
	if got := firstTick(entries, "avoid", "climb"); got != -1 {
		t.Fatalf("expected -1 for absent event, got %d", got)
	}
}

func TestJoinSetSortsLabels(t *testing.T) {
	s := map[string]struct{}{"S3": {}, "S0": {}, "S12": {}}
	if got := joinSet(s); got != "S0,S12,S3" {
		t.Fatalf("expected sorted labels, got %q", got)
	}
	if got := joinSet(nil); got != "none" {
		t.Fatalf("expected none for empty set, got %q", got)
	}
}

func TestAvgTickString(t *testing.T) {
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("expected n/a, got %q", got)
	}
	if got := avgTickString([]int{10, 20}); got != "15.0" {
		t.Fatalf("expected 15.0, got %q", got)
	}
}
