package scene

import (
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
)

// Mesh is static geometry in the owner's local space.
type Mesh struct {
	Vertices []geom.Vec3
	owner    *Object
}

// SkinnedMesh is deformable geometry: the current pose is the bind pose plus
// a per-vertex offset written by the animator.
type SkinnedMesh struct {
	BindPose []geom.Vec3
	Offsets  []geom.Vec3
	owner    *Object
}

// Bake writes the current pose into dst (reusing its storage) and returns it.
func (s *SkinnedMesh) Bake(dst []geom.Vec3) []geom.Vec3 {
	dst = dst[:0]
	for i, v := range s.BindPose {
		if i < len(s.Offsets) {
			v = v.Add(s.Offsets[i])
		}
		dst = append(dst, v)
	}
	return dst
}

// Renderer draws the owner's mesh. LocalBounds is used when the owner has no
// mesh at all.
type Renderer struct {
	Enabled     bool
	LocalBounds *geom.Bounds
	owner       *Object
}

func (r *Renderer) Owner() *Object { return r.owner }

// Bounds is the world-space AABB of whatever this renderer draws.
func (r *Renderer) Bounds() geom.Bounds {
	o := r.owner
	if o == nil {
		return geom.NewBounds(geom.Zero, geom.Zero)
	}
	w := o.World()
	var local []geom.Vec3
	switch {
	case o.Mesh != nil && len(o.Mesh.Vertices) > 0:
		local = o.Mesh.Vertices
	case o.Skinned != nil && len(o.Skinned.BindPose) > 0:
		local = o.Skinned.Bake(nil)
	case r.LocalBounds != nil:
		return w.TransformBounds(*r.LocalBounds)
	default:
		return geom.NewBounds(w.T, geom.Zero)
	}
	world := make([]geom.Vec3, len(local))
	for i, v := range local {
		world[i] = w.Point(v)
	}
	b, _ := geom.PointsBounds(world)
	return b
}

// Drawn reports whether the renderer is enabled on an active object.
func (r *Renderer) Drawn() bool {
	return r.Enabled && r.owner != nil && r.owner.ActiveInHierarchy()
}

// BoxCollider is a solid or trigger volume in the owner's local space.
type BoxCollider struct {
	Center    geom.Vec3
	Size      geom.Vec3
	IsTrigger bool
	owner     *Object
}

func (c *BoxCollider) Owner() *Object { return c.owner }

// WorldBounds is the collider's world AABB.
func (c *BoxCollider) WorldBounds() geom.Bounds {
	return c.owner.World().TransformBounds(geom.NewBounds(c.Center, c.Size))
}

// Rigidbody integrates a constant velocity with optional gravity.
type Rigidbody struct {
	Velocity   geom.Vec3
	UseGravity bool
	owner      *Object
}

const gravity = -9.81

func (b *Rigidbody) step(dt float64) {
	if b.UseGravity {
		b.Velocity.Y += gravity * dt
	}
	o := b.owner
	o.SetWorldPosition(o.Position().Add(b.Velocity.Scale(dt)))
	// Rest on the floor plane.
	if p := o.Position(); p.Y < 0 {
		o.SetWorldPosition(geom.V(p.X, 0, p.Z))
		b.Velocity.Y = 0
	}
}

// Animator sways the owner's skinned mesh vertically.
type Animator struct {
	Enabled   bool
	Speed     float64 // radians per second
	Amplitude float64
	phase     float64
	owner     *Object
}

func (a *Animator) step(dt float64) {
	a.phase += a.Speed * dt
	sk := a.owner.Skinned
	if sk == nil {
		return
	}
	if len(sk.Offsets) != len(sk.BindPose) {
		sk.Offsets = make([]geom.Vec3, len(sk.BindPose))
	}
	for i, v := range sk.BindPose {
		sk.Offsets[i] = geom.V(0, a.Amplitude*math.Sin(a.phase+v.Y), 0)
	}
}

// Behaviour is a script attached to an object. The behaviours list is the
// object's enumerable set of interactive capabilities.
type Behaviour struct {
	Name    string
	Enabled bool
	Update  func(o *Object, dt float64)
	owner   *Object
}

func (b *Behaviour) Owner() *Object { return b.owner }
