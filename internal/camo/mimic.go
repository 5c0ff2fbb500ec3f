package camo

import (
	"fmt"
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// minAxisSize floors bounds sizes before dividing.
const minAxisSize = 1e-4

// Factory builds inert, bounds-matched disguises from room objects.
type Factory struct {
	Cloner Cloner
	// Keep is left enabled when stripping behaviours; the engine puts its
	// own behaviour handle here.
	Keep *scene.Behaviour
}

// CreateClone copies template, scales and moves the copy so its render
// bounds match reference, parents it under enemy, strips it of physics and
// scripts, and moves it onto enemy's layer.
func (f *Factory) CreateClone(template, enemy *scene.Object, reference geom.Bounds) *scene.Object {
	if template == nil || f.Cloner == nil {
		return nil
	}
	clone := f.Cloner.Instantiate(template)
	clone.Name = fmt.Sprintf("MimicClone_%s_%s", template.Name, enemy.Name)

	scale := ScaleToMatch(clone.RenderBounds(), reference)
	clone.LocalScale = clone.LocalScale.Mul(toLocalAxes(scale, clone.LocalYaw))

	// Instantiate makes a root, so local translation is world translation.
	aligned := clone.RenderBounds()
	clone.LocalPosition = clone.LocalPosition.Add(reference.Center.Sub(aligned.Center))

	f.Cloner.SetParent(clone, enemy, true)
	Strip(clone, f.Keep)
	clone.SetLayerRecursive(enemy.Layer)
	return clone
}

// ScaleToMatch is the per-axis factor taking from's size to to's size, with
// both sizes floored to a small positive value.
func ScaleToMatch(from, to geom.Bounds) geom.Vec3 {
	fs := floorSize(from.Size())
	ts := floorSize(to.Size())
	return geom.V(ts.X/fs.X, ts.Y/fs.Y, ts.Z/fs.Z)
}

// toLocalAxes maps a world-axis factor onto the axes of an object turned by
// yaw. Exact at right angles; in between the X and Z factors are blended.
func toLocalAxes(s geom.Vec3, yaw float64) geom.Vec3 {
	sin, cos := math.Sincos(yaw)
	sin, cos = math.Abs(sin), math.Abs(cos)
	w := sin + cos
	return geom.V((cos*s.X+sin*s.Z)/w, s.Y, (sin*s.X+cos*s.Z)/w)
}

func floorSize(v geom.Vec3) geom.Vec3 {
	for i := 0; i < 3; i++ {
		a := v.Axis(i)
		if a < 0 {
			a = -a
		}
		if a < minAxisSize {
			v = v.WithAxis(i, minAxisSize)
		}
	}
	return v
}

// Strip makes o's hierarchy inert: colliders and rigidbodies are removed,
// animators and every behaviour except keep are disabled.
func Strip(o *scene.Object, keep *scene.Behaviour) {
	o.Walk(func(n *scene.Object) {
		n.Collider = nil
		n.Body = nil
		if n.Animator != nil {
			n.Animator.Enabled = false
		}
		for _, b := range n.Behaviours {
			if b != keep {
				b.Enabled = false
			}
		}
	})
}
