package game

import (
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

const (
	eyeHeight   = 1.7
	playerSpeed = 5.0
	sprintSpeed = 8.0
	// strikeReach is how far the player can hit an enemy.
	strikeReach = 2.5
)

// Player is the first-person viewer: a body on the player layer and the
// camera riding at eye height.
type Player struct {
	Obj    *scene.Object
	Camera *scene.Camera
	grid   *NavGrid
}

// NewPlayer adds the player body to s at pos, facing yaw.
func NewPlayer(s *scene.Scene, pos geom.Vec3, yaw float64, grid *NavGrid) *Player {
	o := scene.NewObject("Player")
	o.Layer = LayerPlayer
	o.LocalPosition = pos
	o.LocalYaw = yaw
	o.Collider = &scene.BoxCollider{Center: geom.V(0, 0.9, 0), Size: geom.V(0.6, 1.8, 0.6)}
	s.Add(o, nil)
	p := &Player{Obj: o, Camera: scene.NewCamera(geom.Zero, yaw), grid: grid}
	p.syncCamera()
	return p
}

// Position is the player's floor position.
func (p *Player) Position() geom.Vec3 { return p.Obj.Position() }

// Yaw is the facing angle.
func (p *Player) Yaw() float64 { return p.Obj.LocalYaw }

// Teleport places the player at pos facing yaw.
func (p *Player) Teleport(pos geom.Vec3, yaw float64) {
	p.Obj.LocalPosition = pos
	p.Obj.LocalYaw = yaw
	p.syncCamera()
}

// Turn rotates the view by dyaw and tilts it by dpitch; pitch is clamped
// short of straight up or down.
func (p *Player) Turn(dyaw, dpitch float64) {
	p.Obj.LocalYaw = math.Remainder(p.Obj.LocalYaw+dyaw, 2*math.Pi)
	p.Camera.Pitch = math.Max(-1.4, math.Min(1.4, p.Camera.Pitch+dpitch))
	p.syncCamera()
}

// Move walks relative to the view: forward along the flattened view
// direction, strafe along its right. Input longer than 1 is normalized.
// Blocked cells stop movement per axis so the player slides along walls.
func (p *Player) Move(forward, strafe float64, sprint bool, dt float64) {
	in := math.Hypot(forward, strafe)
	if in == 0 {
		return
	}
	if in > 1 {
		forward, strafe = forward/in, strafe/in
	}
	speed := playerSpeed
	if sprint {
		speed = sprintSpeed
	}
	sy, cy := math.Sincos(p.Obj.LocalYaw)
	fwd := geom.V(sy, 0, cy)
	right := geom.V(cy, 0, -sy)
	delta := fwd.Scale(forward).Add(right.Scale(strafe)).Scale(speed * dt)

	pos := p.Obj.LocalPosition
	if next := pos.Add(geom.V(delta.X, 0, 0)); p.walkable(next) {
		pos = next
	}
	if next := pos.Add(geom.V(0, 0, delta.Z)); p.walkable(next) {
		pos = next
	}
	p.Obj.LocalPosition = pos
	p.syncCamera()
}

func (p *Player) walkable(pos geom.Vec3) bool {
	if p.grid == nil {
		return true
	}
	c, r := p.grid.WorldToCell(pos)
	return !p.grid.IsBlocked(c, r)
}

func (p *Player) syncCamera() {
	p.Camera.Pos = p.Obj.Position().Add(geom.V(0, eyeHeight, 0))
	p.Camera.Yaw = p.Obj.LocalYaw
}
