// Package camo decides when a stalking enemy disguises itself as a nearby
// room object. Each sampling tick it checks whether the player's camera can
// see the enemy (or its disguise), debounces the result with seen/unseen
// timers, and swaps a bounds-matched clone of a room object in and out.
//
// Rendering, physics queries, path following and audio are collaborators
// passed in through the interfaces below.
package camo

import (
	"errors"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

var (
	// ErrNoCandidate means no room object lies within the mimic radius.
	ErrNoCandidate = errors.New("camo: no room object within mimic radius")
	// ErrMissingObserver means the engine has no camera to test against.
	ErrMissingObserver = errors.New("camo: observer not configured")
	// ErrMissingMover means the engine has no mover to halt or resume.
	ErrMissingMover = errors.New("camo: mover not configured")
	// ErrMissingPlayer means the engine cannot measure distance to the player.
	ErrMissingPlayer = errors.New("camo: player not configured")
	// ErrMissingScene means the engine cannot raycast or clone.
	ErrMissingScene = errors.New("camo: scene query or cloner not configured")
)

// Frustum is the coarse containment test used before sampling.
type Frustum interface {
	InFrustum(b geom.Bounds) bool
}

// Observer is the player's camera.
type Observer interface {
	Frustum
	Position() geom.Vec3
	Forward() geom.Vec3
	// WorldToViewport returns x,y in [0,1] for on-screen points and the
	// depth along Forward in z.
	WorldToViewport(p geom.Vec3) geom.Vec3
}

// SceneQuery casts rays against the room's colliders.
type SceneQuery interface {
	RaycastAll(origin, dir geom.Vec3, maxDist float64, mask scene.LayerMask) []scene.Hit
}

// Cloner creates and removes scene objects.
type Cloner interface {
	Instantiate(template *scene.Object) *scene.Object
	Destroy(o *scene.Object)
	SetParent(child, parent *scene.Object, worldStays bool)
}

// Mover is the movement capability the engine holds on the enemy's path
// follower. The engine only starts, stops and redirects it.
type Mover interface {
	Halt()
	Resume()
	ResetPath()
	SetTarget(p geom.Vec3)
	IsMoving() bool
}

// AudioPlayer plays a named clip once.
type AudioPlayer interface {
	PlayOneShot(clip string)
}

// Positioner reports a world position.
type Positioner interface {
	Position() geom.Vec3
}

// EventSink receives diagnostics. Implementations must not call back into
// the engine.
type EventSink interface {
	Record(category, key, value string, num float64)
}

// RaySink receives the decisive ray of each sample point when debug rays
// are enabled.
type RaySink interface {
	Ray(from, to geom.Vec3, visible bool)
}

type nopSink struct{}

func (nopSink) Record(string, string, string, float64) {}
