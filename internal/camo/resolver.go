package camo

import (
	"math"
	"sort"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

const (
	// rayStartOffset pushes the ray origin off the camera along its forward
	// axis so the camera's own collider is not hit.
	rayStartOffset = 0.01
	rayEpsilon     = 0.001
	debugRayMaxLen = 20.0
)

// Resolver decides whether an observer can see a target through the
// room's colliders.
type Resolver struct {
	Query        SceneQuery
	RaycastMask  scene.LayerMask
	IgnoreLayers scene.LayerMask

	// Rays, when set, receives one line per decisive ray.
	Rays RaySink
}

// IsVisible reports whether any of points is on screen and unoccluded.
// A single unoccluded point is enough. Nothing is cast when none of t's
// renderers touch the frustum. Points behind the camera or off the viewport
// are skipped; a point whose first meaningful hit is something other than
// the target is blocked, and the next point is tried.
func (r *Resolver) IsVisible(obs Observer, t Target, points []geom.Vec3) bool {
	if obs == nil || r.Query == nil {
		return false
	}
	if !AnyRendererInFrustum(t.Renderers, obs) {
		return false
	}
	camPos := obs.Position()
	origin := camPos.Add(obs.Forward().Scale(rayStartOffset))

	for _, p := range points {
		vp := obs.WorldToViewport(p)
		if vp.Z <= 0 {
			continue
		}
		if vp.X < 0 || vp.X > 1 || vp.Y < 0 || vp.Y > 1 {
			continue
		}

		toPoint := p.Sub(camPos)
		dist := toPoint.Len()
		if dist <= math.SmallestNonzeroFloat64 {
			continue
		}
		dir := toPoint.Scale(1 / dist)

		hits := r.Query.RaycastAll(origin, dir, dist+rayEpsilon, r.RaycastMask)
		if len(hits) == 0 {
			r.debugRay(camPos, dir, dist, true)
			return true
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

		meaningful := false
		for _, h := range hits {
			if h.Collider == nil || h.IsTrigger || r.IgnoreLayers.Has(h.Layer) {
				continue
			}
			meaningful = true
			mine := t.Owns(h.Object)
			if r.Rays != nil {
				r.Rays.Ray(camPos, h.Point, mine)
			}
			if mine {
				return true
			}
			break
		}
		if !meaningful {
			r.debugRay(camPos, dir, dist, true)
			return true
		}
	}
	return false
}

func (r *Resolver) debugRay(from, dir geom.Vec3, dist float64, visible bool) {
	if r.Rays == nil {
		return
	}
	r.Rays.Ray(from, from.Add(dir.Scale(math.Min(dist, debugRayMaxLen))), visible)
}
