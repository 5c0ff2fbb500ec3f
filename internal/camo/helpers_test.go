package camo

import (
	"math/rand"
	"strings"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

type fakeMover struct {
	moving  bool
	halts   int
	resumes int
	resets  int
	targets []geom.Vec3
}

func (m *fakeMover) Halt()                 { m.moving = false; m.halts++ }
func (m *fakeMover) Resume()               { m.moving = true; m.resumes++ }
func (m *fakeMover) ResetPath()            { m.resets++ }
func (m *fakeMover) SetTarget(p geom.Vec3) { m.targets = append(m.targets, p) }
func (m *fakeMover) IsMoving() bool        { return m.moving }

type fakeAudio struct{ played []string }

func (a *fakeAudio) PlayOneShot(clip string) { a.played = append(a.played, clip) }

type point geom.Vec3

func (p *point) Position() geom.Vec3 { return geom.Vec3(*p) }

type event struct{ category, key, value string }

type recorder struct{ events []event }

func (r *recorder) Record(category, key, value string, _ float64) {
	r.events = append(r.events, event{category, key, value})
}

func (r *recorder) count(category, key string) int {
	n := 0
	for _, e := range r.events {
		if e.category == category && e.key == key {
			n++
		}
	}
	return n
}

type countingQuery struct {
	inner SceneQuery
	calls int
}

func (q *countingQuery) RaycastAll(origin, dir geom.Vec3, maxDist float64, mask scene.LayerMask) []scene.Hit {
	q.calls++
	return q.inner.RaycastAll(origin, dir, maxDist, mask)
}

// boxMesh returns the eight corners of a box resting on y=0.
func boxMesh(w, h, d float64) []geom.Vec3 {
	var out []geom.Vec3
	for _, x := range []float64{-w / 2, w / 2} {
		for _, y := range []float64{0, h} {
			for _, z := range []float64{-d / 2, d / 2} {
				out = append(out, geom.V(x, y, z))
			}
		}
	}
	return out
}

func solid(name string, pos geom.Vec3, w, h, d float64) *scene.Object {
	o := scene.NewObject(name)
	o.LocalPosition = pos
	o.Mesh = &scene.Mesh{Vertices: boxMesh(w, h, d)}
	o.Renderer = &scene.Renderer{Enabled: true}
	o.Collider = &scene.BoxCollider{Center: geom.V(0, h/2, 0), Size: geom.V(w, h, d)}
	return o
}

type room struct {
	scene  *scene.Scene
	camera *scene.Camera
	player *point
	enemy  *scene.Object
	head   *scene.Object
	crate  *scene.Object
	mover  *fakeMover
	audio  *fakeAudio
	events *recorder
	query  *countingQuery
}

const enemyLayer = 6

// newRoom: camera at eye height looking down +Z at an enemy 5m away, with a
// crate 2m to the enemy's side.
func newRoom() *room {
	s := scene.New()
	r := &room{
		scene:  s,
		camera: scene.NewCamera(geom.V(0, 1, 0), 0),
		player: &point{0, 0, 0},
		mover:  &fakeMover{moving: true},
		audio:  &fakeAudio{},
		events: &recorder{},
	}
	r.query = &countingQuery{inner: s}

	r.enemy = s.Add(solid("Stalker", geom.V(0, 0, 5), 1, 2, 1), nil)
	r.enemy.Layer = enemyLayer
	head := scene.NewObject("Head")
	head.LocalPosition = geom.V(0, 2, 0)
	head.Mesh = &scene.Mesh{Vertices: boxMesh(0.4, 0.4, 0.4)}
	head.Renderer = &scene.Renderer{Enabled: false}
	r.head = s.Add(head, r.enemy)

	crate := solid("Crate", geom.V(2, 0, 5), 1, 1, 1)
	crate.Body = &scene.Rigidbody{}
	crate.Animator = &scene.Animator{Enabled: true}
	crate.AddBehaviour("rattle", nil)
	r.crate = s.Add(crate, nil)
	return r
}

func (r *room) deps() Deps {
	return Deps{
		Enemy:     r.enemy,
		Observer:  r.camera,
		Player:    r.player,
		Query:     r.query,
		Cloner:    r.scene,
		Mover:     r.mover,
		Audio:     r.audio,
		Templates: []*scene.Object{r.crate},
		Events:    r.events,
		Rand:      rand.New(rand.NewSource(7)),
	}
}

func (r *room) engine(mutate func(*Config)) *Engine {
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewEngine(cfg, r.deps())
}

func (r *room) liveClones() int {
	return r.scene.Count(func(o *scene.Object) bool {
		return strings.HasPrefix(o.Name, "MimicClone_")
	})
}

// lookAway turns the camera so nothing of the enemy is in frustum.
func (r *room) lookAway() { r.camera.Yaw = 3.14159 }

func (r *room) lookAt() { r.camera.Yaw = 0 }
