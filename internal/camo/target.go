package camo

import "github.com/Garsondee/Mimic-Sense/internal/scene"

// Target is the geometry evaluated for visibility: either the enemy's own
// parts, captured once, or the current clone's parts, gathered per tick.
type Target struct {
	Root      *scene.Object
	Renderers []*scene.Renderer
	Meshes    []*scene.Object
	Skinned   []*scene.Object

	// Owner decides ray attribution. Hits on Owner's hierarchy count as hits
	// on the target. For a clone this is the enemy: the clone itself carries
	// no colliders, so the disguised enemy's own volume stands in for it.
	Owner *scene.Object
}

// CaptureTarget gathers the render parts below root.
func CaptureTarget(root, owner *scene.Object) Target {
	if owner == nil {
		owner = root
	}
	return Target{
		Root:      root,
		Renderers: root.RenderersInChildren(),
		Meshes:    root.MeshesInChildren(),
		Skinned:   root.SkinnedInChildren(),
		Owner:     owner,
	}
}

// Owns reports whether a hit object belongs to the target.
func (t Target) Owns(o *scene.Object) bool {
	if o == nil {
		return false
	}
	return o.IsChildOf(t.Owner) || o.IsChildOf(t.Root)
}
