package game

import (
	"log/slog"
	"math/rand"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// Enemy is one stalker: its body, the agent walking it, and the camouflage
// engine deciding when it hides.
type Enemy struct {
	Label string
	Obj   *scene.Object
	Agent *NavAgent
	Camo  *camo.Engine
	dead  bool
}

// EnemyDeps are the shared collaborators each spawned enemy is wired to.
type EnemyDeps struct {
	Scene     *scene.Scene
	Grid      *NavGrid
	Player    *Player
	Templates []*scene.Object
	Audio     camo.AudioPlayer
	Events    camo.EventSink
	Rays      camo.RaySink
	Rand      *rand.Rand
	Logger    *slog.Logger
}

// NewEnemy builds the prefab at a spawn point and wires its engine.
func NewEnemy(label string, spawn Spawn, cfg camo.Config, speed float64, d EnemyDeps) *Enemy {
	obj := BuildEnemy(d.Scene, "Mimic"+label, spawn.Pos)
	obj.LocalYaw = spawn.Yaw
	agent := NewNavAgent(obj, d.Grid, speed)
	eng := camo.NewEngine(cfg, camo.Deps{
		Enemy:     obj,
		Observer:  d.Player.Camera,
		Player:    d.Player,
		Query:     d.Scene,
		Cloner:    d.Scene,
		Mover:     agent,
		Audio:     d.Audio,
		Templates: d.Templates,
		Events:    d.Events,
		Rays:      d.Rays,
		Rand:      d.Rand,
		Logger:    d.Logger,
	})
	return &Enemy{Label: label, Obj: obj, Agent: agent, Camo: eng}
}

// Position is the enemy's floor position.
func (e *Enemy) Position() geom.Vec3 { return e.Obj.Position() }

// Update runs the camouflage engine, then moves the agent.
func (e *Enemy) Update(dt float64) {
	if e.dead {
		return
	}
	e.Camo.Update(dt)
	e.Agent.Step(dt)
}

// Dead reports whether Kill has run.
func (e *Enemy) Dead() bool { return e.dead }

// Kill removes the enemy and any live disguise from the scene.
func (e *Enemy) Kill(s *scene.Scene) {
	if e.dead {
		return
	}
	e.dead = true
	e.Agent.Halt()
	s.Destroy(e.Obj)
}

// Owns reports whether o belongs to the enemy's hierarchy, disguise
// included.
func (e *Enemy) Owns(o *scene.Object) bool {
	return o != nil && o.IsChildOf(e.Obj)
}
