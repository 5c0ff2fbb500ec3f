package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
)

// SimLogEntry is one recorded event.
type SimLogEntry struct {
	Tick     int
	Time     float64 // seconds since the run started
	Enemy    string  // label e.g. "E1", or "--" for room events
	Category string  // visibility, mimic, mover, audio, config, spawn, player
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042  0.70s] E1   mimic     applied          Crate
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d %5.2fs] %-4s %-10s %-16s %s",
		e.Tick, e.Time, e.Enemy, e.Category, e.Key, e.Value)
}

// SimLog collects structured events from the room and its enemies. Unlike
// EventFeed (UI ring buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
	clock   func() (int, float64)
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// timer entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose, clock: func() (int, float64) { return 0, 0 }}
}

// SetClock sets where Record stamps entries from.
func (sl *SimLog) SetClock(clock func() (tick int, now float64)) { sl.clock = clock }

// Add records a new entry stamped with the current clock.
func (sl *SimLog) Add(enemy, category, key, value string, numVal float64) {
	tick, now := sl.clock()
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Time:     now,
		Enemy:    enemy,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(enemy, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(enemy, category, key, value, numVal)
}

// Sink returns an EventSink that records under the given label.
func (sl *SimLog) Sink(label string) camo.EventSink {
	return labelledSink{log: sl, label: label}
}

type labelledSink struct {
	log   *SimLog
	label string
}

func (s labelledSink) Record(category, key, value string, num float64) {
	s.log.Add(s.label, category, key, value, num)
}

// Len returns the number of entries.
func (sl *SimLog) Len() int { return len(sl.entries) }

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Since returns entries recorded after the first n.
func (sl *SimLog) Since(n int) []SimLogEntry {
	if n >= len(sl.entries) {
		return nil
	}
	return sl.entries[n:]
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
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

// FilterEnemy returns entries for a specific enemy label.
func (sl *SimLog) FilterEnemy(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Enemy == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// FirstOf returns the earliest entry matching category+key.
func (sl *SimLog) FirstOf(category, key string) (SimLogEntry, bool) {
	for _, e := range sl.entries {
		if e.Category == category && e.Key == key {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
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
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
