package camo

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// State is the engine's structural state.
type State int

const (
	// Exposed: no clone; the enemy itself is drawn and may be moving.
	Exposed State = iota
	// Mimicking: a clone stands in for the enemy and the mover is halted.
	Mimicking
)

func (s State) String() string {
	switch s {
	case Exposed:
		return "exposed"
	case Mimicking:
		return "mimicking"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Config holds the engine's tuning.
type Config struct {
	MaxVertexSamples int
	SampleInterval   float64 // seconds between visibility checks; 0 = every update
	SeenDelay        float64 // continuous visibility before mimicking
	UnseenDelay      float64 // continuous invisibility before restoring
	MimicRadius      float64
	MinDistance      float64 // clearance kept from the player
	RaycastMask      scene.LayerMask
	IgnoreLayers     scene.LayerMask
	InstantStop      bool // also drop the mover's path when halting
	ShowDebugRays    bool

	FootstepClip     string
	FootstepInterval float64
}

// MinFootstepInterval is the shortest gap between footsteps the engine allows.
const MinFootstepInterval = 0.05

// DefaultConfig mirrors the tuning shipped with the enemy prefab.
func DefaultConfig() Config {
	return Config{
		MaxVertexSamples: 128,
		SampleInterval:   0.08,
		SeenDelay:        0.08,
		UnseenDelay:      0.12,
		MimicRadius:      10,
		MinDistance:      2,
		RaycastMask:      scene.AllLayers,
		IgnoreLayers:     0,
		InstantStop:      true,
		FootstepClip:     "footstep",
		FootstepInterval: 0.5,
	}
}

// Deps are the engine's collaborators. Enemy, Observer, Player, Mover,
// Query and Cloner are required; the engine idles without them.
type Deps struct {
	Enemy     *scene.Object
	Observer  Observer
	Player    Positioner
	Query     SceneQuery
	Cloner    Cloner
	Mover     Mover
	Audio     AudioPlayer
	Templates []*scene.Object
	Events    EventSink
	Rays      RaySink
	Rand      *rand.Rand
	Logger    *slog.Logger
}

// Engine is the camouflage state machine for one enemy. It is driven by
// Update from a single goroutine.
type Engine struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	sampler  *Sampler
	resolver *Resolver
	factory  *Factory
	sched    Scheduler
	self     *scene.Behaviour

	original Target
	clone    *scene.Object
	disabled []*scene.Renderer

	sinceSample float64
	seenTimer   float64
	unseenTimer float64
	visible     bool

	pursuing     bool
	audioRunning bool
	warned       map[error]bool
}

// NewEngine captures the enemy's render parts and prepares the engine.
func NewEngine(cfg Config, d Deps) *Engine {
	if cfg.SampleInterval < 0 {
		cfg.SampleInterval = 0
	}
	if cfg.MaxVertexSamples < 1 {
		cfg.MaxVertexSamples = 1
	}
	if cfg.FootstepInterval < MinFootstepInterval {
		cfg.FootstepInterval = MinFootstepInterval
	}
	if d.Events == nil {
		d.Events = nopSink{}
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(1)) // #nosec G404 -- gameplay randomness
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	e := &Engine{
		cfg:     cfg,
		deps:    d,
		log:     d.Logger.With("component", "camo"),
		sampler: NewSampler(cfg.MaxVertexSamples),
		resolver: &Resolver{
			Query:        d.Query,
			RaycastMask:  cfg.RaycastMask,
			IgnoreLayers: cfg.IgnoreLayers,
		},
		warned: make(map[error]bool),
		// First Update samples immediately.
		sinceSample: cfg.SampleInterval,
	}
	if cfg.ShowDebugRays {
		e.resolver.Rays = d.Rays
	}
	e.factory = &Factory{Cloner: d.Cloner}
	if d.Enemy != nil {
		e.original = CaptureTarget(d.Enemy, d.Enemy)
		e.self = d.Enemy.AddBehaviour("camouflage", nil)
		e.factory.Keep = e.self
		e.log = e.log.With("enemy", d.Enemy.Name)
	}
	return e
}

// State reports Mimicking while a clone is live.
func (e *Engine) State() State {
	if e.clone != nil {
		return Mimicking
	}
	return Exposed
}

// Clone is the live disguise, or nil.
func (e *Engine) Clone() *scene.Object { return e.clone }

// DisabledRenderers are the enemy renderers hidden by the current disguise.
func (e *Engine) DisabledRenderers() []*scene.Renderer {
	return append([]*scene.Renderer(nil), e.disabled...)
}

// Timers returns the continuous seen and unseen durations.
func (e *Engine) Timers() (seen, unseen float64) { return e.seenTimer, e.unseenTimer }

// Visible is the result of the most recent visibility check.
func (e *Engine) Visible() bool { return e.visible }

// Enemy is the object this engine drives.
func (e *Engine) Enemy() *scene.Object { return e.deps.Enemy }

// AudioLoopRunning reports whether the footstep loop is active.
func (e *Engine) AudioLoopRunning() bool { return e.audioRunning }

// Config returns the effective tuning.
func (e *Engine) Config() Config { return e.cfg }

// Update advances the engine by dt seconds of host time. Visibility is only
// sampled once SampleInterval has accumulated; the timers then advance by
// the full time since the previous sample.
func (e *Engine) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	e.sched.Advance(dt)
	if err := e.ready(); err != nil {
		e.warnOnce(err)
		return
	}
	e.sinceSample += dt
	if e.sinceSample < e.cfg.SampleInterval {
		return
	}
	elapsed := e.sinceSample
	e.sinceSample = 0
	e.step(elapsed)
}

func (e *Engine) ready() error {
	d := e.deps
	switch {
	case d.Observer == nil:
		return ErrMissingObserver
	case d.Mover == nil:
		return ErrMissingMover
	case d.Player == nil:
		return ErrMissingPlayer
	case d.Enemy == nil, d.Query == nil, d.Cloner == nil:
		return ErrMissingScene
	}
	return nil
}

func (e *Engine) warnOnce(err error) {
	if e.warned[err] {
		return
	}
	e.warned[err] = true
	e.log.Warn("camouflage disabled", "err", err)
	e.deps.Events.Record("config", "missing_collaborator", err.Error(), 0)
}

// step is one sampling tick. Visibility is resolved before any timer or
// transition so the whole tick sees a single active target.
func (e *Engine) step(elapsed float64) {
	visible := e.checkVisibility()
	if visible != e.visible {
		e.deps.Events.Record("visibility", flipKey(visible), e.State().String(), elapsed)
	}
	e.visible = visible

	if visible {
		e.seenTimer += elapsed
		e.unseenTimer = 0
	} else {
		e.unseenTimer += elapsed
		e.seenTimer = 0
	}

	if e.seenTimer >= e.cfg.SeenDelay && e.clone == nil {
		_ = e.enterMimic("seen")
	}

	if e.clone != nil && e.unseenTimer >= e.cfg.UnseenDelay && e.playerDistance() > e.cfg.MinDistance {
		if e.Restore() {
			e.deps.Mover.SetTarget(e.deps.Player.Position())
		}
	}

	// Exposed and unseen: keep closing in. Retarget and start footsteps once
	// per exposure episode.
	if e.clone == nil && !visible {
		e.deps.Mover.Resume()
		if !e.pursuing {
			e.pursuing = true
			e.deps.Mover.SetTarget(e.deps.Player.Position())
			e.startFootsteps()
		}
	} else {
		e.pursuing = false
	}

	// Close-range override: bypasses the seen debounce.
	if e.clone == nil && visible && e.playerDistance() <= e.cfg.MinDistance {
		_ = e.enterMimic("close_range")
	}
}

func flipKey(visible bool) string {
	if visible {
		return "seen"
	}
	return "unseen"
}

// ActiveTarget is the clone while mimicking, otherwise the enemy.
func (e *Engine) ActiveTarget() Target {
	if e.clone != nil {
		return CaptureTarget(e.clone, e.deps.Enemy)
	}
	return e.original
}

func (e *Engine) checkVisibility() bool {
	t := e.ActiveTarget()
	points := e.sampler.Sample(t, e.deps.Observer)
	if len(points) == 0 {
		return false
	}
	return e.resolver.IsVisible(e.deps.Observer, t, points)
}

func (e *Engine) playerDistance() float64 {
	return e.deps.Enemy.Position().Dist(e.deps.Player.Position())
}

// pickTemplate chooses uniformly among room objects within MimicRadius.
func (e *Engine) pickTemplate() *scene.Object {
	origin := e.deps.Enemy.Position()
	var nearby []*scene.Object
	for _, o := range e.deps.Templates {
		if o == nil || o.Destroyed() {
			continue
		}
		if origin.Dist(o.Position()) <= e.cfg.MimicRadius {
			nearby = append(nearby, o)
		}
	}
	if len(nearby) == 0 {
		return nil
	}
	return nearby[e.deps.Rand.Intn(len(nearby))]
}

// enterMimic performs Exposed -> Mimicking. Without a candidate nothing
// changes and ErrNoCandidate is returned; the caller retries next tick.
func (e *Engine) enterMimic(reason string) error {
	if e.clone != nil {
		return nil
	}
	template := e.pickTemplate()
	if template == nil {
		e.log.Debug("no nearby object to mimic", "radius", e.cfg.MimicRadius, "reason", reason)
		e.deps.Events.Record("mimic", "no_candidate", reason, e.cfg.MimicRadius)
		return ErrNoCandidate
	}

	e.deps.Mover.Halt()
	if e.cfg.InstantStop {
		e.deps.Mover.ResetPath()
	}
	e.deps.Events.Record("mover", "halt", reason, 0)

	reference := scene.RendererBounds(e.original.Renderers, e.deps.Enemy.Position())
	clone := e.factory.CreateClone(template, e.deps.Enemy, reference)
	if clone == nil {
		return fmt.Errorf("camo: clone of %q failed", template.Name)
	}

	e.disabled = e.disabled[:0]
	for _, r := range e.original.Renderers {
		if r != nil && r.Enabled {
			r.Enabled = false
			e.disabled = append(e.disabled, r)
		}
	}
	e.clone = clone

	e.log.Info("applied mimic", "template", template.Name, "reason", reason)
	e.deps.Events.Record("mimic", "applied", template.Name, float64(len(e.disabled)))
	return nil
}

// Restore performs Mimicking -> Exposed: the clone is destroyed, exactly the
// renderers it hid are re-enabled, and the mover resumes. It is a no-op
// when no clone is live and reports whether anything changed. Callers
// retarget the mover themselves.
func (e *Engine) Restore() bool {
	if e.clone == nil {
		return false
	}
	e.deps.Cloner.Destroy(e.clone)
	e.clone = nil
	for _, r := range e.disabled {
		if r != nil {
			r.Enabled = true
		}
	}
	restored := len(e.disabled)
	e.disabled = e.disabled[:0]
	if e.deps.Mover != nil {
		e.deps.Mover.Resume()
	}

	e.log.Info("restored original appearance")
	e.deps.Events.Record("mimic", "restored", "", float64(restored))
	e.deps.Events.Record("mover", "resume", "restore", 0)
	return true
}

// startFootsteps launches the footstep loop unless it is already running.
// The loop ends by itself once the mover stops.
func (e *Engine) startFootsteps() {
	if e.audioRunning || e.deps.Audio == nil {
		return
	}
	e.audioRunning = true
	e.deps.Events.Record("audio", "loop_start", e.cfg.FootstepClip, 0)
	e.footstep()
}

func (e *Engine) footstep() {
	if !e.deps.Mover.IsMoving() {
		e.audioRunning = false
		e.deps.Events.Record("audio", "loop_stop", e.cfg.FootstepClip, 0)
		return
	}
	e.sched.After(e.cfg.FootstepInterval, func() {
		e.deps.Audio.PlayOneShot(e.cfg.FootstepClip)
		e.deps.Events.Record("audio", "step", e.cfg.FootstepClip, 0)
		e.footstep()
	})
}
