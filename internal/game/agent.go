package game

import (
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

const (
	agentRadius = 0.35
	// agentHeight: colliders starting above this are overhead and do not block.
	agentHeight = 1.8
	// arriveEpsilon is how close counts as reaching a waypoint.
	arriveEpsilon = 0.05
)

// NavAgent walks an object along nav grid paths. It implements camo.Mover:
// Halt/Resume toggle the stopped flag without losing the path, ResetPath
// drops it, and SetTarget plans a fresh one.
type NavAgent struct {
	obj   *scene.Object
	grid  *NavGrid
	Speed float64
	// StoppingDistance: the agent stops this far short of its destination.
	StoppingDistance float64

	path      []geom.Vec3
	pathIndex int
	dest      geom.Vec3
	hasDest   bool
	stopped   bool
}

// NewNavAgent creates an agent for obj. A nil grid means straight-line
// movement.
func NewNavAgent(obj *scene.Object, grid *NavGrid, speed float64) *NavAgent {
	return &NavAgent{obj: obj, grid: grid, Speed: speed}
}

// Halt stops movement but keeps the current path.
func (a *NavAgent) Halt() { a.stopped = true }

// Resume continues along the current path, if any.
func (a *NavAgent) Resume() { a.stopped = false }

// ResetPath drops the current path and destination.
func (a *NavAgent) ResetPath() {
	a.path = nil
	a.pathIndex = 0
	a.hasDest = false
}

// SetTarget plans a path to p. When the grid has no route the agent heads
// straight for p.
func (a *NavAgent) SetTarget(p geom.Vec3) {
	a.dest = geom.V(p.X, 0, p.Z)
	a.hasDest = true
	a.pathIndex = 0
	if a.grid != nil {
		a.path = a.grid.FindPath(a.obj.Position(), a.dest)
	} else {
		a.path = nil
	}
	if len(a.path) == 0 {
		a.path = []geom.Vec3{a.dest}
	}
}

// IsMoving mirrors an agent's "not stopped" flag: a resumed agent counts
// as moving even while idle at its destination.
func (a *NavAgent) IsMoving() bool { return !a.stopped }

// Stopped reports whether Halt is in effect.
func (a *NavAgent) Stopped() bool { return a.stopped }

// Destination returns the current destination, if any.
func (a *NavAgent) Destination() (geom.Vec3, bool) { return a.dest, a.hasDest }

// Path returns the remaining waypoints.
func (a *NavAgent) Path() []geom.Vec3 {
	if a.pathIndex >= len(a.path) {
		return nil
	}
	return a.path[a.pathIndex:]
}

// Step advances the agent by dt seconds and turns it to face its heading.
func (a *NavAgent) Step(dt float64) {
	if a.stopped || !a.hasDest || a.pathIndex >= len(a.path) {
		return
	}
	pos := a.obj.Position()
	flat := geom.V(pos.X, 0, pos.Z)
	if flat.Dist(a.dest) <= a.StoppingDistance {
		return
	}
	budget := a.Speed * dt
	for budget > 0 && a.pathIndex < len(a.path) {
		wp := a.path[a.pathIndex]
		to := wp.Sub(flat)
		d := to.Len()
		if d <= arriveEpsilon {
			a.pathIndex++
			continue
		}
		if a.pathIndex == len(a.path)-1 && a.StoppingDistance > 0 {
			// Last leg: never step inside the stopping distance.
			d = math.Max(0, flat.Dist(a.dest)-a.StoppingDistance)
			if d == 0 {
				break
			}
		}
		stepLen := math.Min(budget, d)
		dir := to.Normalize()
		flat = flat.Add(dir.Scale(stepLen))
		a.obj.LocalYaw = math.Atan2(dir.X, dir.Z)
		budget -= stepLen
		if stepLen == d && a.pathIndex < len(a.path)-1 {
			a.pathIndex++
		} else if stepLen == d {
			break
		}
	}
	a.obj.SetWorldPosition(geom.V(flat.X, pos.Y, flat.Z))
}
