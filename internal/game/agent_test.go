package game

import (
	"math"
	"testing"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

func newAgentAt(pos geom.Vec3, grid *NavGrid) (*scene.Object, *NavAgent) {
	s := scene.New()
	obj := s.Add(scene.NewObject("walker"), nil)
	obj.LocalPosition = pos
	return obj, NewNavAgent(obj, grid, 2)
}

func stepAgent(a *NavAgent, seconds float64) {
	for t := 0.0; t < seconds; t += TickDT {
		a.Step(TickDT)
	}
}

func TestNavAgent_ReachesDestination(t *testing.T) {
	ng := NewNavGrid(testArea, nil, 0)
	obj, a := newAgentAt(geom.V(1, 0, 1), ng)
	a.SetTarget(geom.V(7, 0, 1))
	stepAgent(a, 4)
	if d := obj.Position().Dist(geom.V(7, 0, 1)); d > 0.1 {
		t.Fatalf("agent should have arrived, %.2fm short at %v", d, obj.Position())
	}
	if len(a.Path()) != 0 {
		t.Fatalf("path should be consumed, %d waypoints left", len(a.Path()))
	}
}

func TestNavAgent_RespectsSpeed(t *testing.T) {
	obj, a := newAgentAt(geom.V(1, 0, 1), nil)
	a.SetTarget(geom.V(9, 0, 1))
	a.Step(0.5)
	if d := obj.Position().X - 1; math.Abs(d-1) > 1e-9 {
		t.Fatalf("2m/s for 0.5s should move 1m, moved %.3f", d)
	}
}

func TestNavAgent_FacesHeading(t *testing.T) {
	obj, a := newAgentAt(geom.V(1, 0, 1), nil)
	a.SetTarget(geom.V(5, 0, 1))
	a.Step(0.1)
	if math.Abs(obj.LocalYaw-math.Pi/2) > 1e-9 {
		t.Fatalf("heading +X should give yaw pi/2, got %.3f", obj.LocalYaw)
	}
}

func TestNavAgent_HaltKeepsPath(t *testing.T) {
	obj, a := newAgentAt(geom.V(1, 0, 1), nil)
	a.SetTarget(geom.V(9, 0, 1))
	a.Halt()
	before := obj.Position()
	stepAgent(a, 1)
	if obj.Position() != before {
		t.Fatal("halted agent should not move")
	}
	if a.IsMoving() {
		t.Fatal("halted agent should not report moving")
	}
	if len(a.Path()) == 0 {
		t.Fatal("halt should keep the path")
	}
	a.Resume()
	stepAgent(a, 0.5)
	if obj.Position() == before {
		t.Fatal("resumed agent should move")
	}
}

func TestNavAgent_ResetPathDropsDestination(t *testing.T) {
	obj, a := newAgentAt(geom.V(1, 0, 1), nil)
	a.SetTarget(geom.V(9, 0, 1))
	a.ResetPath()
	if _, ok := a.Destination(); ok {
		t.Fatal("reset should clear the destination")
	}
	before := obj.Position()
	stepAgent(a, 1)
	if obj.Position() != before {
		t.Fatal("agent without a path should stay put")
	}
	if !a.IsMoving() {
		t.Fatal("reset does not halt: IsMoving mirrors the stopped flag only")
	}
}

func TestNavAgent_StoppingDistance(t *testing.T) {
	obj, a := newAgentAt(geom.V(1, 0, 1), nil)
	a.StoppingDistance = 2
	a.SetTarget(geom.V(8, 0, 1))
	stepAgent(a, 6)
	d := obj.Position().Dist(geom.V(8, 0, 1))
	if math.Abs(d-2) > 0.05 {
		t.Fatalf("agent should stop 2m short, stopped %.3fm away", d)
	}
}

func TestNavAgent_RoutesAroundObstacle(t *testing.T) {
	wall := geom.FromMinMax(geom.V(0, 0, 4.9), geom.V(8, 2, 5.1))
	ng := NewNavGrid(testArea, []geom.Bounds{wall}, agentRadius)
	obj, a := newAgentAt(geom.V(2, 0, 2), ng)
	a.Speed = 4
	a.SetTarget(geom.V(2, 0, 8))
	crossedWall := false
	for i := 0; i < 10*TicksPerSecond; i++ {
		prev := obj.Position()
		a.Step(TickDT)
		cur := obj.Position()
		if geom.SegmentHitsBounds(prev.Add(geom.V(0, 1, 0)), cur.Add(geom.V(0, 1, 0)), wall) {
			crossedWall = true
		}
	}
	if crossedWall {
		t.Fatal("agent walked through the wall")
	}
	if d := obj.Position().Dist(geom.V(2, 0, 8)); d > 0.1 {
		t.Fatalf("agent should reach the far side, %.2fm short", d)
	}
}
