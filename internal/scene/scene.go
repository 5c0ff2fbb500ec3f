package scene

import (
	"github.com/google/uuid"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
)

// Hit is one ray intersection returned by RaycastAll.
type Hit struct {
	Point     geom.Vec3
	Distance  float64
	Collider  *BoxCollider
	Object    *Object
	IsTrigger bool
	Layer     int
}

// Scene owns the root objects of a room.
type Scene struct {
	roots []*Object
}

// New returns an empty scene.
func New() *Scene { return &Scene{} }

// Add attaches o as a root object, or under parent when parent is non-nil.
// The object's local transform is kept as-is.
func (s *Scene) Add(o *Object, parent *Object) *Object {
	o.Attach()
	o.Walk(func(n *Object) { n.scene = s })
	if parent == nil {
		s.roots = append(s.roots, o)
		return o
	}
	o.parent = parent
	parent.children = append(parent.children, o)
	return o
}

// Roots returns the top-level objects.
func (s *Scene) Roots() []*Object { return s.roots }

// Walk visits every object in the scene.
func (s *Scene) Walk(fn func(*Object)) {
	for _, r := range s.roots {
		r.Walk(fn)
	}
}

// Find returns the first object with the given name, or nil.
func (s *Scene) Find(name string) *Object {
	var found *Object
	s.Walk(func(o *Object) {
		if found == nil && o.Name == name {
			found = o
		}
	})
	return found
}

// Count returns how many live objects satisfy pred.
func (s *Scene) Count(pred func(*Object) bool) int {
	n := 0
	s.Walk(func(o *Object) {
		if pred(o) {
			n++
		}
	})
	return n
}

// Instantiate deep-copies template as a new root object, preserving its
// world transform. Shared mesh data is not duplicated.
func (s *Scene) Instantiate(template *Object) *Object {
	c := copyTree(template)
	c.LocalPosition, c.LocalYaw, c.LocalScale = template.World().Decompose()
	c.Name = template.Name + "(Clone)"
	return s.Add(c, nil)
}

func copyTree(src *Object) *Object {
	dst := &Object{
		ID:            uuid.New(),
		Name:          src.Name,
		Layer:         src.Layer,
		Active:        src.Active,
		LocalPosition: src.LocalPosition,
		LocalYaw:      src.LocalYaw,
		LocalScale:    src.LocalScale,
	}
	if src.Mesh != nil {
		dst.Mesh = &Mesh{Vertices: src.Mesh.Vertices}
	}
	if src.Skinned != nil {
		dst.Skinned = &SkinnedMesh{
			BindPose: src.Skinned.BindPose,
			Offsets:  append([]geom.Vec3(nil), src.Skinned.Offsets...),
		}
	}
	if src.Renderer != nil {
		r := *src.Renderer
		dst.Renderer = &r
	}
	if src.Collider != nil {
		c := *src.Collider
		dst.Collider = &c
	}
	if src.Body != nil {
		b := *src.Body
		dst.Body = &b
	}
	if src.Animator != nil {
		a := *src.Animator
		dst.Animator = &a
	}
	for _, b := range src.Behaviours {
		cp := *b
		dst.Behaviours = append(dst.Behaviours, &cp)
	}
	dst.Attach()
	for _, ch := range src.children {
		cc := copyTree(ch)
		cc.parent = dst
		dst.children = append(dst.children, cc)
	}
	return dst
}

// Destroy detaches o from the scene and marks its hierarchy destroyed.
// Destroying an already destroyed object is a no-op.
func (s *Scene) Destroy(o *Object) {
	if o == nil || o.destroyed {
		return
	}
	s.detach(o)
	o.Walk(func(n *Object) {
		n.destroyed = true
		n.scene = nil
	})
}

func (s *Scene) detach(o *Object) {
	if o.parent == nil {
		s.roots = removeObject(s.roots, o)
		return
	}
	o.parent.children = removeObject(o.parent.children, o)
	o.parent = nil
}

func removeObject(list []*Object, o *Object) []*Object {
	for i, n := range list {
		if n == o {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// SetParent moves child under parent (nil = root). With worldStays the
// child's world transform is preserved by recomputing its local transform.
func (s *Scene) SetParent(child, parent *Object, worldStays bool) {
	if child == nil || child == parent || (parent != nil && parent.IsChildOf(child)) {
		return
	}
	world := child.World()
	s.detach(child)
	if parent == nil {
		s.roots = append(s.roots, child)
	} else {
		child.parent = parent
		parent.children = append(parent.children, child)
	}
	child.Walk(func(n *Object) { n.scene = s })
	if !worldStays {
		return
	}
	local := world
	if parent != nil {
		inv, _ := parent.World().Inverse()
		local = inv.Mul(world)
	}
	child.LocalPosition, child.LocalYaw, child.LocalScale = local.Decompose()
}

// RaycastAll returns every collider hit by the ray within maxDist on layers
// selected by mask. dir need not be normalized. The result is unordered.
func (s *Scene) RaycastAll(origin, dir geom.Vec3, maxDist float64, mask LayerMask) []Hit {
	d := dir.Normalize()
	if d == geom.Zero {
		return nil
	}
	var hits []Hit
	s.Walk(func(o *Object) {
		c := o.Collider
		if c == nil || !o.ActiveInHierarchy() || !mask.Has(o.Layer) {
			return
		}
		dist, ok := geom.RayBounds(origin, d, maxDist, c.WorldBounds())
		if !ok {
			return
		}
		hits = append(hits, Hit{
			Point:     origin.Add(d.Scale(dist)),
			Distance:  dist,
			Collider:  c,
			Object:    o,
			IsTrigger: c.IsTrigger,
			Layer:     o.Layer,
		})
	})
	return hits
}

// Step advances rigidbodies, animators and behaviours by dt seconds.
func (s *Scene) Step(dt float64) {
	var live []*Object
	s.Walk(func(o *Object) {
		if o.ActiveInHierarchy() {
			live = append(live, o)
		}
	})
	for _, o := range live {
		// An earlier behaviour may have destroyed it this step.
		if !o.ActiveInHierarchy() {
			continue
		}
		if o.Body != nil {
			o.Body.step(dt)
		}
		if o.Animator != nil && o.Animator.Enabled {
			o.Animator.step(dt)
		}
		for _, b := range o.Behaviours {
			if b.Enabled && b.Update != nil {
				b.Update(o, dt)
			}
		}
	}
}
