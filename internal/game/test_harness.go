package game

import (
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/config"
	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/log"
)

// TestSim is a headless harness around World. It has no Ebiten dependency
// and supports deterministic seeding; tests and the headless report use it.
type TestSim struct {
	*World
	opts WorldOptions
}

// SimOption is a builder function applied to the world options before the
// room is built.
type SimOption func(*TestSim)

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return func(ts *TestSim) { ts.opts.Seed = seed }
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return func(ts *TestSim) { ts.opts.Verbose = v }
}

// WithTuning edits the tuning before the world is built.
func WithTuning(edit func(*config.Tuning)) SimOption {
	return func(ts *TestSim) { edit(&ts.opts.Tuning) }
}

// WithPlayerAt places the player on the floor at (x, z) facing yaw.
func WithPlayerAt(x, z, yaw float64) SimOption {
	return func(ts *TestSim) {
		ts.opts.Room.PlayerStart = geom.V(x, 0, z)
		ts.opts.PlayerYaw = yaw
	}
}

// WithEmptyRoom removes the default props and occluders; walls stay.
func WithEmptyRoom() SimOption {
	return func(ts *TestSim) {
		ts.opts.Room.Props = nil
		ts.opts.Room.Occluders = nil
	}
}

// WithRoomObject adds a prop enemies may disguise themselves as.
func WithRoomObject(name string, x, z, w, h, d float64) SimOption {
	return func(ts *TestSim) {
		ts.opts.Room.Props = append(ts.opts.Room.Props, PropSpec{Name: name, X: x, Z: z, W: w, H: h, D: d})
	}
}

// WithOccluder adds a blocker that is never mimicked.
func WithOccluder(name string, x, z, w, h, d float64) SimOption {
	return func(ts *TestSim) {
		ts.opts.Room.Occluders = append(ts.opts.Room.Occluders, OccluderSpec{Name: name, X: x, Z: z, W: w, H: h, D: d})
	}
}

// WithSpawns replaces the spawn points.
func WithSpawns(points ...Spawn) SimOption {
	return func(ts *TestSim) { ts.opts.Room.SpawnPoints = points }
}

// NewTestSim builds a world from the default options edited by opts.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{opts: DefaultWorldOptions()}
	ts.opts.Logger = log.Discard()
	for _, o := range opts {
		o(ts)
	}
	ts.World = NewWorld(ts.opts)
	return ts
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step(TickDT)
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if
// predicate returns true. Returns the tick at which the predicate was
// satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step(TickDT)
		if predicate(ts) {
			return ts.Tick()
		}
	}
	return -1
}

// LookAt turns the player to face p.
func (ts *TestSim) LookAt(p geom.Vec3) {
	from := ts.Player.Position()
	yaw := math.Atan2(p.X-from.X, p.Z-from.Z)
	ts.Player.Turn(yaw-ts.Player.Yaw(), 0)
}

// LookAway turns the player to face directly away from p.
func (ts *TestSim) LookAway(p geom.Vec3) {
	ts.LookAt(p)
	ts.Player.Turn(math.Pi, 0)
}
