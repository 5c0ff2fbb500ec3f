package camo

import (
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// Sampler turns a target's geometry into at most Budget world-space points.
type Sampler struct {
	Budget int

	baked []geom.Vec3
}

// NewSampler returns a sampler; budgets below 1 are raised to 1.
func NewSampler(budget int) *Sampler {
	if budget < 1 {
		budget = 1
	}
	return &Sampler{Budget: budget}
}

// AnyRendererInFrustum reports whether at least one drawn renderer's bounds
// touch the frustum.
func AnyRendererInFrustum(rs []*scene.Renderer, f Frustum) bool {
	for _, r := range rs {
		if r != nil && r.Drawn() && f.InFrustum(r.Bounds()) {
			return true
		}
	}
	return false
}

// Sample returns world points for t. It returns nil when no renderer of t is
// inside f. Static meshes are read first, then skinned meshes baked to their
// current pose; with no mesh data at all, renderer bounds center/min/max are
// used instead.
func (s *Sampler) Sample(t Target, f Frustum) []geom.Vec3 {
	budget := s.Budget
	if budget < 1 {
		budget = 1
	}
	if !AnyRendererInFrustum(t.Renderers, f) {
		return nil
	}

	out := make([]geom.Vec3, 0, budget+8)
	for _, o := range t.Meshes {
		if o.Mesh == nil || len(o.Mesh.Vertices) == 0 {
			continue
		}
		out = addStrided(o.Mesh.Vertices, o.World(), out, budget)
		if len(out) >= budget {
			break
		}
	}

	if len(out) < budget {
		for _, o := range t.Skinned {
			if o.Skinned == nil || len(o.Skinned.BindPose) == 0 {
				continue
			}
			s.baked = o.Skinned.Bake(s.baked)
			out = addStrided(s.baked, o.World(), out, budget)
			if len(out) >= budget {
				break
			}
		}
	}

	if len(out) == 0 {
		for _, r := range t.Renderers {
			if r == nil {
				continue
			}
			b := r.Bounds()
			out = append(out, b.Center, b.Min(), b.Max())
		}
	}

	return StrideSubset(out, budget)
}

// addStrided appends up to budget-len(out) transformed vertices, spreading
// picks evenly over local rather than taking a prefix.
func addStrided(local []geom.Vec3, world geom.Affine, out []geom.Vec3, budget int) []geom.Vec3 {
	need := budget - len(out)
	if need <= 0 {
		return out
	}
	total := len(local)
	if total <= need {
		for _, v := range local {
			out = append(out, world.Point(v))
		}
		return out
	}
	step := float64(total) / float64(need)
	for i := 0; i < need; i++ {
		vi := min(total-1, int(math.Floor(float64(i)*step)))
		out = append(out, world.Point(local[vi]))
	}
	return out
}

// StrideSubset returns pts unchanged when it fits in n, otherwise n evenly
// strided elements.
func StrideSubset(pts []geom.Vec3, n int) []geom.Vec3 {
	if n < 1 {
		return nil
	}
	if len(pts) <= n {
		return pts
	}
	step := float64(len(pts)) / float64(n)
	out := make([]geom.Vec3, n)
	for i := range out {
		out[i] = pts[min(len(pts)-1, int(math.Floor(float64(i)*step)))]
	}
	return out
}
