package camo

import (
	"math"
	"testing"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

func TestCreateClone_MatchesReferenceBounds(t *testing.T) {
	r := newRoom()
	f := &Factory{Cloner: r.scene}
	ref := r.enemy.RenderBounds()

	clone := f.CreateClone(r.crate, r.enemy, ref)
	got := clone.RenderBounds()
	if !got.Center.ApproxEqual(ref.Center, 1e-6) {
		t.Fatalf("clone center %v, want %v", got.Center, ref.Center)
	}
	if !got.Extents.ApproxEqual(ref.Extents, 1e-6) {
		t.Fatalf("clone extents %v, want %v", got.Extents, ref.Extents)
	}
	if clone.Parent() != r.enemy {
		t.Fatal("clone should be parented under the enemy")
	}
	if clone.Name != "MimicClone_Crate_Stalker" {
		t.Fatalf("unexpected clone name %q", clone.Name)
	}
}

func TestCreateClone_IsInertAndRetagged(t *testing.T) {
	r := newRoom()
	keep := r.enemy.AddBehaviour("camouflage", nil)
	f := &Factory{Cloner: r.scene, Keep: keep}
	clone := f.CreateClone(r.crate, r.enemy, r.enemy.RenderBounds())

	clone.Walk(func(o *scene.Object) {
		if o.Collider != nil || o.Body != nil {
			t.Fatalf("%s still has physics", o.Name)
		}
		if o.Animator != nil && o.Animator.Enabled {
			t.Fatalf("%s animator still enabled", o.Name)
		}
		for _, b := range o.Behaviours {
			if b.Enabled {
				t.Fatalf("%s behaviour %q still enabled", o.Name, b.Name)
			}
		}
		if o.Layer != enemyLayer {
			t.Fatalf("%s on layer %d, want %d", o.Name, o.Layer, enemyLayer)
		}
	})
	if !keep.Enabled {
		t.Fatal("the orchestrator's own behaviour must stay enabled")
	}
	if r.crate.Collider == nil || !r.crate.Animator.Enabled || !r.crate.Behaviours[0].Enabled {
		t.Fatal("stripping the clone must not touch the template")
	}
}

func TestCreateClone_RotatedParentKeepsAlignment(t *testing.T) {
	r := newRoom()
	r.enemy.LocalYaw = math.Pi / 2
	f := &Factory{Cloner: r.scene}
	ref := r.enemy.RenderBounds()
	clone := f.CreateClone(r.crate, r.enemy, ref)
	if got := clone.RenderBounds(); !got.Center.ApproxEqual(ref.Center, 1e-6) {
		t.Fatalf("clone center %v drifted from %v after reparenting", got.Center, ref.Center)
	}
}

func TestCreateClone_YawedTemplateMatchesExtents(t *testing.T) {
	r := newRoom()
	bench := solid("Bench", geom.V(-2, 0, 5), 3, 0.5, 0.6)
	bench.LocalYaw = math.Pi / 2
	bench = r.scene.Add(bench, nil)
	ref := geom.NewBounds(geom.V(0, 1.2, 5), geom.V(1, 2.4, 1))

	clone := (&Factory{Cloner: r.scene}).CreateClone(bench, r.enemy, ref)
	if got := clone.RenderBounds(); !got.Extents.ApproxEqual(ref.Extents, 1e-6) {
		t.Fatalf("turned bench should fill the reference box, got size %v", got.Size())
	}
}

func TestToLocalAxes(t *testing.T) {
	s := geom.V(2, 3, 5)
	if got := toLocalAxes(s, 0); !got.ApproxEqual(s, 1e-12) {
		t.Fatalf("unturned object keeps world factors, got %v", got)
	}
	if got := toLocalAxes(s, -math.Pi/2); !got.ApproxEqual(geom.V(5, 3, 2), 1e-12) {
		t.Fatalf("quarter turn swaps X and Z, got %v", got)
	}
}

func TestCreateClone_TemplateWithoutRenderers(t *testing.T) {
	r := newRoom()
	empty := r.scene.Add(scene.NewObject("Marker"), nil)
	empty.LocalPosition = geom.V(1, 0, 5)
	f := &Factory{Cloner: r.scene}
	ref := r.enemy.RenderBounds()

	clone := f.CreateClone(empty, r.enemy, ref)
	if clone == nil {
		t.Fatal("degenerate template should still produce a clone")
	}
	if !clone.Position().ApproxEqual(ref.Center, 1e-6) {
		t.Fatalf("degenerate clone should sit at the reference center, got %v", clone.Position())
	}
}

func TestScaleToMatch_FloorsZeroAxes(t *testing.T) {
	flat := geom.NewBounds(geom.Zero, geom.V(2, 0, 2))
	ref := geom.NewBounds(geom.Zero, geom.V(1, 1, 1))
	s := ScaleToMatch(flat, ref)
	if s.X != 0.5 || s.Z != 0.5 {
		t.Fatalf("unexpected planar scale %v", s)
	}
	if math.IsInf(s.Y, 0) || s.Y != 1/minAxisSize {
		t.Fatalf("zero axis should be floored, got %v", s.Y)
	}
}
