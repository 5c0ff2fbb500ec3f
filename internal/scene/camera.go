package scene

import (
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
)

// Camera is a perspective viewer. Yaw 0 looks down +Z; positive pitch looks up.
type Camera struct {
	Pos    geom.Vec3
	Yaw    float64 // radians
	Pitch  float64 // radians
	FOV    float64 // vertical field of view, degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64
}

// NewCamera returns a camera with a 60 degree vertical FOV at 16:9.
func NewCamera(pos geom.Vec3, yaw float64) *Camera {
	return &Camera{Pos: pos, Yaw: yaw, FOV: 60, Aspect: 16.0 / 9.0, Near: 0.01, Far: 1000}
}

func (c *Camera) Position() geom.Vec3 { return c.Pos }

// Forward is the unit view direction.
func (c *Camera) Forward() geom.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return geom.V(sy*cp, sp, cy*cp)
}

// Right is the unit screen-right direction.
func (c *Camera) Right() geom.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	return geom.V(cy, 0, -sy)
}

// Up is the unit screen-up direction.
func (c *Camera) Up() geom.Vec3 {
	return c.Forward().Cross(c.Right())
}

// WorldToViewport projects p. X and Y are in [0,1] when p is on screen and
// Z is the depth along Forward; Z <= 0 means p is behind the camera.
func (c *Camera) WorldToViewport(p geom.Vec3) geom.Vec3 {
	d := p.Sub(c.Pos)
	x := d.Dot(c.Right())
	y := d.Dot(c.Up())
	z := d.Dot(c.Forward())
	if math.Abs(z) < 1e-12 {
		return geom.V(0.5, 0.5, 0)
	}
	tanHalf := math.Tan(c.FOV * math.Pi / 360)
	vx := 0.5 + 0.5*x/(z*tanHalf*c.Aspect)
	vy := 0.5 + 0.5*y/(z*tanHalf)
	return geom.V(vx, vy, z)
}

// OnScreen reports whether p projects inside the viewport between the clip planes.
func (c *Camera) OnScreen(p geom.Vec3) bool {
	vp := c.WorldToViewport(p)
	return vp.Z > c.Near && vp.Z < c.Far &&
		vp.X >= 0 && vp.X <= 1 && vp.Y >= 0 && vp.Y <= 1
}

// InFrustum is a conservative box test: true when the box contains the
// camera, straddles the near plane, or its projected corners overlap the
// viewport.
func (c *Camera) InFrustum(b geom.Bounds) bool {
	if b.Contains(c.Pos) {
		return true
	}
	front, behind := 0, 0
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range b.Corners() {
		vp := c.WorldToViewport(p)
		if vp.Z <= c.Near {
			behind++
			continue
		}
		if vp.Z >= c.Far {
			continue
		}
		front++
		minX, maxX = math.Min(minX, vp.X), math.Max(maxX, vp.X)
		minY, maxY = math.Min(minY, vp.Y), math.Max(maxY, vp.Y)
	}
	if front == 0 {
		return false
	}
	if behind > 0 {
		return true
	}
	return maxX >= 0 && minX <= 1 && maxY >= 0 && minY <= 1
}
