// Package scene is the in-process stand-in for the engine primitives the
// camouflage logic consumes: an object hierarchy with mesh, renderer,
// collider, rigidbody, animator and behaviour components, raycasting, and a
// perspective camera.
package scene

import (
	"github.com/google/uuid"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
)

// LayerMask selects layers by bit; layer n is bit 1<<n.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers LayerMask = ^LayerMask(0)

// LayerBit returns the mask containing only layer.
func LayerBit(layer int) LayerMask { return LayerMask(1) << uint(layer&31) }

// Has reports whether layer is selected by the mask.
func (m LayerMask) Has(layer int) bool { return m&LayerBit(layer) != 0 }

// Object is a node in the scene hierarchy. Components are optional; at most
// one of each kind except Behaviours.
type Object struct {
	ID     uuid.UUID
	Name   string
	Layer  int
	Active bool

	LocalPosition geom.Vec3
	LocalYaw      float64
	LocalScale    geom.Vec3

	Mesh       *Mesh
	Skinned    *SkinnedMesh
	Renderer   *Renderer
	Collider   *BoxCollider
	Body       *Rigidbody
	Animator   *Animator
	Behaviours []*Behaviour

	parent    *Object
	children  []*Object
	scene     *Scene
	destroyed bool
}

// NewObject creates a detached, active object with unit scale.
func NewObject(name string) *Object {
	return &Object{
		ID:         uuid.New(),
		Name:       name,
		Active:     true,
		LocalScale: geom.One,
	}
}

func (o *Object) Parent() *Object { return o.parent }

func (o *Object) Children() []*Object { return o.children }

// Destroyed reports whether the object was removed from its scene.
func (o *Object) Destroyed() bool { return o.destroyed }

// LocalMatrix is the object's transform relative to its parent.
func (o *Object) LocalMatrix() geom.Affine {
	return geom.TRS(o.LocalPosition, o.LocalYaw, o.LocalScale)
}

// World is the local-to-world transform.
func (o *Object) World() geom.Affine {
	if o.parent == nil {
		return o.LocalMatrix()
	}
	return o.parent.World().Mul(o.LocalMatrix())
}

// Position is the world-space origin of the object.
func (o *Object) Position() geom.Vec3 { return o.World().T }

// SetWorldPosition moves the object so its world origin lands on p.
func (o *Object) SetWorldPosition(p geom.Vec3) {
	if o.parent == nil {
		o.LocalPosition = p
		return
	}
	inv, _ := o.parent.World().Inverse()
	o.LocalPosition = inv.Point(p)
}

// IsChildOf reports whether o is ancestor or lies below it.
func (o *Object) IsChildOf(ancestor *Object) bool {
	if ancestor == nil {
		return false
	}
	for n := o; n != nil; n = n.parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// ActiveInHierarchy is false when o or any ancestor is inactive or destroyed.
func (o *Object) ActiveInHierarchy() bool {
	for n := o; n != nil; n = n.parent {
		if !n.Active || n.destroyed {
			return false
		}
	}
	return true
}

// Walk visits o and every descendant depth-first.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Walk(fn)
	}
}

// RenderersInChildren collects renderers on active objects in the hierarchy.
func (o *Object) RenderersInChildren() []*Renderer {
	var out []*Renderer
	o.Walk(func(n *Object) {
		if n.Renderer != nil && n.ActiveInHierarchy() {
			out = append(out, n.Renderer)
		}
	})
	return out
}

// MeshesInChildren collects active objects carrying a static mesh.
func (o *Object) MeshesInChildren() []*Object {
	var out []*Object
	o.Walk(func(n *Object) {
		if n.Mesh != nil && n.ActiveInHierarchy() {
			out = append(out, n)
		}
	})
	return out
}

// SkinnedInChildren collects active objects carrying a skinned mesh.
func (o *Object) SkinnedInChildren() []*Object {
	var out []*Object
	o.Walk(func(n *Object) {
		if n.Skinned != nil && n.ActiveInHierarchy() {
			out = append(out, n)
		}
	})
	return out
}

// SetLayerRecursive assigns layer to o and all descendants.
func (o *Object) SetLayerRecursive(layer int) {
	o.Walk(func(n *Object) { n.Layer = layer })
}

// RenderBounds encloses every renderer below o. With no renderers it falls
// back to a 0.1 box at o's position.
func (o *Object) RenderBounds() geom.Bounds {
	return RendererBounds(o.RenderersInChildren(), o.Position())
}

// RendererBounds encloses the given renderers; with none it returns a 0.1
// box at fallback.
func RendererBounds(rs []*Renderer, fallback geom.Vec3) geom.Bounds {
	var b geom.Bounds
	init := false
	for _, r := range rs {
		if r == nil {
			continue
		}
		if !init {
			b = r.Bounds()
			init = true
			continue
		}
		b = b.Encapsulate(r.Bounds())
	}
	if !init {
		return geom.NewBounds(fallback, geom.Splat(0.1))
	}
	return b
}

// AddBehaviour attaches an enabled behaviour and returns it.
func (o *Object) AddBehaviour(name string, update func(o *Object, dt float64)) *Behaviour {
	b := &Behaviour{Name: name, Enabled: true, Update: update, owner: o}
	o.Behaviours = append(o.Behaviours, b)
	return b
}

// Attach sets the component's owner back-pointers. Builders call it after
// filling in component fields.
func (o *Object) Attach() *Object {
	if o.Mesh != nil {
		o.Mesh.owner = o
	}
	if o.Skinned != nil {
		o.Skinned.owner = o
	}
	if o.Renderer != nil {
		o.Renderer.owner = o
	}
	if o.Collider != nil {
		o.Collider.owner = o
	}
	if o.Body != nil {
		o.Body.owner = o
	}
	if o.Animator != nil {
		o.Animator.owner = o
	}
	for _, b := range o.Behaviours {
		b.owner = o
	}
	return o
}
