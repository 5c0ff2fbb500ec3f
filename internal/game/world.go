package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
	"github.com/Garsondee/Mimic-Sense/internal/config"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// TicksPerSecond is the fixed simulation rate shared by the viewer and the
// headless harness.
const TicksPerSecond = 60

// TickDT is one tick in seconds.
const TickDT = 1.0 / TicksPerSecond

// WorldOptions configures NewWorld.
type WorldOptions struct {
	Tuning    config.Tuning
	Room      RoomOptions
	PlayerYaw float64
	Seed      int64
	Verbose   bool
	Logger    *slog.Logger
}

// DefaultWorldOptions is the stock room with default tuning.
func DefaultWorldOptions() WorldOptions {
	return WorldOptions{
		Tuning: config.Default(),
		Room:   DefaultRoomOptions(),
		Seed:   1,
	}
}

// World is one room: the player, the current enemy, and the systems around
// them. Step advances everything by one tick; it is driven from a single
// goroutine.
type World struct {
	Tuning    config.Tuning
	Room      *Room
	Grid      *NavGrid
	Player    *Player
	Sound     *SoundBank
	Heartbeat *Heartbeat
	Spawner   *Spawner
	Log       *SimLog
	Rays      *RayBuffer

	camoCfg camo.Config
	rng     *rand.Rand
	logger  *slog.Logger

	tick    int
	now     float64
	closest float64
}

// NewWorld builds the room, places the player and spawns the first enemy.
func NewWorld(o WorldOptions) *World {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	w := &World{
		Tuning:  o.Tuning,
		Room:    BuildRoom(o.Room),
		Sound:   NewSoundBank(),
		Log:     NewSimLog(o.Verbose),
		Rays:    NewRayBuffer(math.Max(o.Tuning.Visibility.SampleInterval, TickDT)),
		rng:     rand.New(rand.NewSource(o.Seed)), // #nosec G404 -- gameplay randomness
		logger:  o.Logger.With("component", "world"),
		closest: math.Inf(1),
	}
	w.Log.SetClock(func() (int, float64) { return w.tick, w.now })

	w.Grid = NavGridFromScene(w.Room.Scene, w.Room.Area(), agentRadius, func(obj *scene.Object) bool {
		return obj.Layer == LayerPlayer || obj.Layer == LayerEnemy
	})
	w.Player = NewPlayer(w.Room.Scene, w.Room.PlayerStart, o.PlayerYaw, w.Grid)

	w.camoCfg = o.Tuning.Camo()
	// Rays start inside the player's own body.
	w.camoCfg.IgnoreLayers |= scene.LayerBit(LayerPlayer)

	hb := o.Tuning.Heartbeat
	w.Heartbeat = NewHeartbeat(HeartbeatConfig{
		MaxDetectDistance: hb.MaxDetectDistance,
		MinDetectDistance: hb.MinDetectDistance,
		MaxPulseInterval:  hb.MaxPulseInterval,
		MinPulseInterval:  hb.MinPulseInterval,
	}, nil, w.Player, w.Sound)

	w.Spawner = NewSpawner(w.Room.SpawnPoints, w.Room.Door, w.buildEnemy, w.Log.Sink("--"), w.Sound)
	w.follow(w.Spawner.Start())
	w.logger.Info("room ready",
		"props", len(w.Room.Props), "spawns", len(w.Room.SpawnPoints), "seed", o.Seed)
	return w
}

func (w *World) buildEnemy(label string, at Spawn) *Enemy {
	return NewEnemy(label, at, w.camoCfg, w.Tuning.Movement.AgentSpeed, EnemyDeps{
		Scene:     w.Room.Scene,
		Grid:      w.Grid,
		Player:    w.Player,
		Templates: w.Room.Props,
		Audio:     w.Sound,
		Events:    w.Log.Sink(label),
		Rays:      w.Rays,
		Rand:      w.rng,
		Logger:    w.logger,
	})
}

// follow points the heartbeat at e.
func (w *World) follow(e *Enemy) {
	if e == nil {
		w.Heartbeat.Retarget(nil)
		return
	}
	w.Heartbeat.Retarget(e)
}

// Step advances the world by dt seconds: scene components first, then the
// enemy's camouflage and movement, then the heartbeat.
func (w *World) Step(dt float64) {
	w.tick++
	w.now += dt
	w.Rays.Age(dt)
	w.Sound.Advance(dt)
	w.Room.Scene.Step(dt)

	if e := w.Spawner.Active(); e != nil {
		e.Update(dt)
		p := e.Position()
		d := p.Dist(w.Player.Position())
		w.closest = math.Min(w.closest, d)
		w.Log.AddVerbose(e.Label, "move", "position", fmt.Sprintf("(%.2f,%.2f) %s", p.X, p.Z, e.Camo.State()), d)
	}
	if w.Heartbeat.Update(dt) {
		w.Log.AddVerbose("--", "audio", "heartbeat", "", w.Sound.Volume(ClipHeartbeat))
	}
}

// Enemy is the active enemy, or nil once all are dead.
func (w *World) Enemy() *Enemy { return w.Spawner.Active() }

// Tick is the number of steps taken.
func (w *World) Tick() int { return w.tick }

// Now is the simulated time in seconds.
func (w *World) Now() float64 { return w.now }

// ClosestApproach is the smallest enemy-player distance seen so far.
func (w *World) ClosestApproach() float64 { return w.closest }

// Strike swings at whatever the player is looking at. An enemy within
// reach dies, disguised or not; it reports whether one did.
func (w *World) Strike() bool {
	e := w.Spawner.Active()
	if e == nil {
		return false
	}
	cam := w.Player.Camera
	hits := w.Room.Scene.RaycastAll(cam.Position(), cam.Forward(), strikeReach, scene.AllLayers&^scene.LayerBit(LayerPlayer))
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	for _, h := range hits {
		if h.IsTrigger {
			continue
		}
		if !e.Owns(h.Object) {
			w.Log.Add("--", "player", "strike_miss", h.Object.Name, h.Distance)
			return false
		}
		w.KillActive()
		return true
	}
	return false
}

// KillActive kills the active enemy and lets the spawner bring in the next.
func (w *World) KillActive() {
	e := w.Spawner.Active()
	if e == nil {
		return
	}
	state := e.Camo.State()
	e.Kill(w.Room.Scene)
	w.Log.Add(e.Label, "player", "kill", state.String(), e.Position().Dist(w.Player.Position()))
	w.logger.Info("enemy killed", "enemy", e.Label, "state", state)
	w.follow(w.Spawner.RegisterEnemyDeath())
}
