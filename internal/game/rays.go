package game

import "github.com/Garsondee/Mimic-Sense/internal/geom"

// DebugRay is one visibility ray kept for drawing.
type DebugRay struct {
	From, To geom.Vec3
	Visible  bool
	age      float64
}

// RayBuffer keeps the debug rays of recent visibility samples. It
// implements camo.RaySink.
type RayBuffer struct {
	// TTL is how long a ray stays drawn, normally one sample interval.
	TTL  float64
	rays []DebugRay
}

// NewRayBuffer creates a buffer holding rays for ttl seconds.
func NewRayBuffer(ttl float64) *RayBuffer {
	return &RayBuffer{TTL: ttl}
}

func (b *RayBuffer) Ray(from, to geom.Vec3, visible bool) {
	b.rays = append(b.rays, DebugRay{From: from, To: to, Visible: visible})
}

// Age drops rays older than TTL.
func (b *RayBuffer) Age(dt float64) {
	kept := b.rays[:0]
	for _, r := range b.rays {
		r.age += dt
		if r.age <= b.TTL {
			kept = append(kept, r)
		}
	}
	b.rays = kept
}

// Rays returns the live rays.
func (b *RayBuffer) Rays() []DebugRay { return b.rays }
