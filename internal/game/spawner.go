package game

import (
	"fmt"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// Spawn is a spawn point.
type Spawn struct {
	Pos geom.Vec3
	Yaw float64
}

// Spawner releases enemies one at a time. Each death brings the next one
// in at the next spawn point; once they are all dead the door opens.
type Spawner struct {
	points []Spawn
	door   *scene.Object
	build  func(label string, at Spawn) *Enemy
	events camo.EventSink
	audio  camo.AudioPlayer

	next     int
	active   *Enemy
	killed   int
	doorOpen bool
}

// NewSpawner creates a spawner. build wires one enemy; events and audio may
// be nil.
func NewSpawner(points []Spawn, door *scene.Object, build func(label string, at Spawn) *Enemy, events camo.EventSink, audio camo.AudioPlayer) *Spawner {
	if events == nil {
		events = nopEvents{}
	}
	return &Spawner{points: points, door: door, build: build, events: events, audio: audio}
}

type nopEvents struct{}

func (nopEvents) Record(string, string, string, float64) {}

// Start spawns the first enemy.
func (sp *Spawner) Start() *Enemy {
	if sp.active != nil || sp.next > 0 {
		return sp.active
	}
	return sp.spawnNext()
}

func (sp *Spawner) spawnNext() *Enemy {
	if sp.next >= len(sp.points) {
		sp.active = nil
		sp.openDoor()
		return nil
	}
	at := sp.points[sp.next]
	label := fmt.Sprintf("E%d", sp.next+1)
	sp.next++
	sp.active = sp.build(label, at)
	sp.events.Record("spawn", "enemy", label, float64(sp.next))
	return sp.active
}

func (sp *Spawner) openDoor() {
	if sp.doorOpen {
		return
	}
	sp.doorOpen = true
	if sp.door != nil {
		sp.door.Active = false
	}
	if sp.audio != nil {
		sp.audio.PlayOneShot(ClipDoor)
	}
	sp.events.Record("spawn", "door_open", "", float64(sp.killed))
}

// RegisterEnemyDeath counts the active enemy as dead and spawns the next,
// or opens the door after the last. It returns the new active enemy.
func (sp *Spawner) RegisterEnemyDeath() *Enemy {
	if sp.active == nil {
		return nil
	}
	sp.killed++
	return sp.spawnNext()
}

// Active is the live enemy, or nil.
func (sp *Spawner) Active() *Enemy { return sp.active }

// Killed is the number of registered deaths.
func (sp *Spawner) Killed() int { return sp.killed }

// DoorOpen reports whether the exit has opened.
func (sp *Spawner) DoorOpen() bool { return sp.doorOpen }

// Remaining is how many enemies are yet to spawn.
func (sp *Spawner) Remaining() int { return len(sp.points) - sp.next }
