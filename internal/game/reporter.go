package game

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
)

// reportInterval is how often the reporter samples the world (1s at 60TPS).
const reportInterval = TicksPerSecond

// Snapshot is the active enemy's state at one tick.
type Snapshot struct {
	Tick     int
	Enemy    string // "" when no enemy is active
	State    camo.State
	Visible  bool
	Distance float64
	Seen     float64
	Unseen   float64
}

// RunReport summarises one run from its SimLog and snapshots.
type RunReport struct {
	Seed  int64
	Ticks int

	FirstMimic   float64 // seconds; -1 if never
	FirstRestore float64 // seconds; -1 if never
	Mimics       int
	Restores     int
	Deferred     int // transitions skipped for want of a nearby prop
	Footsteps    int
	Heartbeats   int
	Spawned      int
	Killed       int
	DoorOpen     bool
	Closest      float64
	Templates    map[string]int // disguise counts per prop

	// MimicShare is the fraction of samples spent disguised.
	MimicShare float64
}

// SimReporter samples a world periodically and builds a RunReport.
type SimReporter struct {
	history  []Snapshot
	interval int
}

// NewSimReporter samples every interval ticks; <=0 means once a second.
func NewSimReporter(interval int) *SimReporter {
	if interval <= 0 {
		interval = reportInterval
	}
	return &SimReporter{interval: interval}
}

// Observe records a snapshot when the world's tick falls on the interval.
func (r *SimReporter) Observe(w *World) {
	if w.Tick()%r.interval != 0 {
		return
	}
	r.history = append(r.history, TakeSnapshot(w))
}

// TakeSnapshot captures the active enemy's state.
func TakeSnapshot(w *World) Snapshot {
	s := Snapshot{Tick: w.Tick(), Distance: math.Inf(1)}
	e := w.Enemy()
	if e == nil {
		return s
	}
	s.Enemy = e.Label
	s.State = e.Camo.State()
	s.Visible = e.Camo.Visible()
	s.Distance = e.Position().Dist(w.Player.Position())
	s.Seen, s.Unseen = e.Camo.Timers()
	return s
}

// History returns every snapshot taken.
func (r *SimReporter) History() []Snapshot { return r.history }

// Report builds the run summary.
func (r *SimReporter) Report(seed int64, w *World) RunReport {
	rep := RunReport{
		Seed:         seed,
		Ticks:        w.Tick(),
		FirstMimic:   -1,
		FirstRestore: -1,
		Mimics:       w.Log.CountCategory("mimic", "applied"),
		Restores:     w.Log.CountCategory("mimic", "restored"),
		Deferred:     w.Log.CountCategory("mimic", "no_candidate"),
		Footsteps:    w.Sound.Plays(ClipFootstep),
		Heartbeats:   w.Heartbeat.Pulses(),
		Spawned:      w.Log.CountCategory("spawn", "enemy"),
		Killed:       w.Spawner.Killed(),
		DoorOpen:     w.Spawner.DoorOpen(),
		Closest:      w.ClosestApproach(),
		Templates:    map[string]int{},
	}
	if e, ok := w.Log.FirstOf("mimic", "applied"); ok {
		rep.FirstMimic = e.Time
	}
	if e, ok := w.Log.FirstOf("mimic", "restored"); ok {
		rep.FirstRestore = e.Time
	}
	for _, e := range w.Log.Filter("mimic", "applied") {
		rep.Templates[e.Value]++
	}
	active, mimic := 0, 0
	for _, s := range r.history {
		if s.Enemy == "" {
			continue
		}
		active++
		if s.State == camo.Mimicking {
			mimic++
		}
	}
	if active > 0 {
		rep.MimicShare = float64(mimic) / float64(active)
	}
	return rep
}

// Format renders the run report.
func (rr RunReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Camouflage Report (seed=%d, %d ticks, %.1fs) ===\n",
		rr.Seed, rr.Ticks, float64(rr.Ticks)/TicksPerSecond)
	fmt.Fprintf(&sb, "  first mimic:    %s\n", fmtSeconds(rr.FirstMimic))
	fmt.Fprintf(&sb, "  first restore:  %s\n", fmtSeconds(rr.FirstRestore))
	fmt.Fprintf(&sb, "  mimic/restore:  %d / %d  (deferred %d)\n", rr.Mimics, rr.Restores, rr.Deferred)
	fmt.Fprintf(&sb, "  time disguised: %5.1f%%\n", rr.MimicShare*100)
	fmt.Fprintf(&sb, "  closest:        %s\n", fmtMetres(rr.Closest))
	fmt.Fprintf(&sb, "  audio:          footsteps=%d heartbeats=%d\n", rr.Footsteps, rr.Heartbeats)
	fmt.Fprintf(&sb, "  enemies:        spawned=%d killed=%d door=%s\n", rr.Spawned, rr.Killed, doorLabel(rr.DoorOpen))
	if len(rr.Templates) > 0 {
		sb.WriteString("  disguises:     ")
		for _, name := range sortedKeys(rr.Templates) {
			fmt.Fprintf(&sb, "%s=%d ", name, rr.Templates[name])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func fmtSeconds(s float64) string {
	if s < 0 {
		return "never"
	}
	return fmt.Sprintf("%.2fs", s)
}

func fmtMetres(m float64) string {
	if math.IsInf(m, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2fm", m)
}

func doorLabel(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
