package mission

import (
	"fmt"
	"strings"
)

// MissionLogEntry is one recorded event during a mission.
type MissionLogEntry struct {
	Tick     int
	Actor    string  // vehicle or survivor label, or "--" for global events
	Category string  // assign, detect, plan, avoid, move, status
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] A0   assign  commit   S3 (high, 12 waypoints)
func (e MissionLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-8s %-16s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// MissionLog collects structured events during a mission run. It is unbounded
// and machine-readable; tests and the batch runner filter it instead of
// parsing console output.
type MissionLog struct {
	entries []MissionLogEntry
	verbose bool
}

// NewMissionLog creates a MissionLog. If verbose is true, per-tick
// position/velocity entries are also recorded.
func NewMissionLog(verbose bool) *MissionLog {
	return &MissionLog{verbose: verbose}
}

// Add records a new entry.
func (ml *MissionLog) Add(tick int, actor, category, key, value string, numVal float64) {
	ml.entries = append(ml.entries, MissionLogEntry{
		Tick:     tick,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (ml *MissionLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if !ml.verbose {
		return
	}
	ml.Add(tick, actor, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (ml *MissionLog) Entries() []MissionLogEntry {
	return ml.entries
}

// Filter returns entries matching the given category and/or key. Pass empty
// string to match any value for that field.
func (ml *MissionLog) Filter(category, key string) []MissionLogEntry {
	var out []MissionLogEntry
	for _, e := range ml.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for a specific vehicle or survivor label.
func (ml *MissionLog) FilterActor(label string) []MissionLogEntry {
	var out []MissionLogEntry
	for _, e := range ml.entries {
		if e.Actor == label {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (ml *MissionLog) CountCategory(category, key string) int {
	return len(ml.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false.
func (ml *MissionLog) LastOf(category, key string) (MissionLogEntry, bool) {
	entries := ml.Filter(category, key)
	if len(entries) == 0 {
		return MissionLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and
// value substring.
func (ml *MissionLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range ml.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (ml *MissionLog) Format() string {
	var sb strings.Builder
	for _, e := range ml.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
