package game

import (
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
	"github.com/Garsondee/Mimic-Sense/internal/config"
	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.Log.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

func liveClones(s *scene.Scene) int {
	return s.Count(func(o *scene.Object) bool { return strings.HasPrefix(o.Name, "MimicClone_") })
}

func mustEnemy(t *testing.T, ts *TestSim) *Enemy {
	t.Helper()
	e := ts.Enemy()
	if e == nil {
		dumpLog(t, ts)
		t.Fatal("expected an active enemy")
	}
	return e
}

// --- Scenario: Mimic On Sight ---

func TestScenario_MimicOnSight(t *testing.T) {
	t.Log("=== TestScenario_MimicOnSight ===")
	t.Log("--- Setup: default room, player at the south end facing E1 ---")

	ts := NewTestSim(WithSeed(42))
	ts.RunTicks(1)

	e := mustEnemy(t, ts)
	if e.Camo.State() != camo.Mimicking {
		dumpLog(t, ts)
		t.Fatalf("E1 should disguise on the first sample, state=%s", e.Camo.State())
	}
	first, ok := ts.Log.FirstOf("mimic", "applied")
	if !ok || first.Tick != 1 {
		t.Errorf("first mimic should land on tick 1, got %+v", first)
	}
	if liveClones(ts.Room.Scene) != 1 {
		t.Errorf("expected exactly one clone, got %d", liveClones(ts.Room.Scene))
	}
	for _, r := range e.Obj.RenderersInChildren() {
		if e.Camo.Clone() != nil && r.Owner().IsChildOf(e.Camo.Clone()) {
			continue
		}
		if r.Enabled {
			t.Errorf("enemy renderer on %s still drawn while disguised", r.Owner().Name)
		}
	}
	if !e.Agent.Stopped() {
		t.Error("agent should halt while disguised")
	}

	// Staying in view keeps the disguise.
	ts.RunTicks(120)
	if e.Camo.State() != camo.Mimicking || ts.Log.CountCategory("mimic", "applied") != 1 {
		dumpLog(t, ts)
		t.Errorf("watched disguise should hold: state=%s applied=%d",
			e.Camo.State(), ts.Log.CountCategory("mimic", "applied"))
	}
}

// --- Scenario: Restore When Unwatched ---

func TestScenario_RestoreWhenUnwatched(t *testing.T) {
	t.Log("=== TestScenario_RestoreWhenUnwatched ===")
	t.Log("--- Setup: disguise in view, then the player turns away ---")

	ts := NewTestSim(WithSeed(42))
	ts.RunTicks(1)
	e := mustEnemy(t, ts)
	if e.Camo.State() != camo.Mimicking {
		t.Fatalf("precondition: expected mimicking, got %s", e.Camo.State())
	}

	ts.LookAway(e.Position())
	ts.RunTicks(30)
	dumpLog(t, ts)

	if n := ts.Log.CountCategory("mimic", "restored"); n != 1 {
		t.Fatalf("expected one restore, got %d", n)
	}
	if e.Camo.State() != camo.Exposed || e.Camo.Clone() != nil {
		t.Fatalf("enemy should be exposed again, state=%s", e.Camo.State())
	}
	if liveClones(ts.Room.Scene) != 0 {
		t.Errorf("clone should be destroyed, %d left", liveClones(ts.Room.Scene))
	}
	for _, r := range e.Obj.RenderersInChildren() {
		if !r.Enabled {
			t.Errorf("renderer on %s should be re-enabled", r.Owner().Name)
		}
	}
	if e.Agent.Stopped() {
		t.Error("agent should resume after restore")
	}
	if _, ok := e.Agent.Destination(); !ok {
		t.Error("agent should be retargeted at the player after restore")
	}
}

// --- Scenario: Pursuit From Behind ---

func TestScenario_PursuitFromBehind(t *testing.T) {
	t.Log("=== TestScenario_PursuitFromBehind ===")
	t.Log("--- Setup: player faces the south wall, E1 starts 12m behind ---")

	ts := NewTestSim(WithSeed(3), WithPlayerAt(0, -6, math.Pi))
	start := ts.Player.Position().Dist(mustEnemy(t, ts).Position())

	ts.RunTicks(TicksPerSecond)
	e := mustEnemy(t, ts)
	if e.Camo.State() != camo.Exposed {
		t.Fatalf("unseen enemy should stay exposed, got %s", e.Camo.State())
	}
	if !e.Camo.AudioLoopRunning() {
		t.Error("footstep loop should be running while pursuing")
	}
	if ts.Sound.Plays(ClipFootstep) < 1 {
		t.Errorf("expected footsteps within the first second, got %d", ts.Sound.Plays(ClipFootstep))
	}
	if ts.Heartbeat.Pulses() < 1 {
		t.Error("heartbeat should pulse with the enemy in range")
	}

	ts.RunTicks(5 * TicksPerSecond)
	if ts.ClosestApproach() >= start || ts.ClosestApproach() > 3 {
		dumpLog(t, ts)
		t.Fatalf("enemy should close in: start=%.2fm closest=%.2fm", start, ts.ClosestApproach())
	}
	if n := ts.Log.CountCategory("audio", "loop_start"); n != 1 {
		t.Errorf("one exposure episode should start one footstep loop, got %d", n)
	}
}

// --- Scenario: Long Headless Run ---

func TestScenario_HeadlessAudioStaysBounded(t *testing.T) {
	t.Log("=== TestScenario_HeadlessAudioStaysBounded ===")
	t.Log("--- Setup: no speaker attached, player faces away for a minute ---")

	ts := NewTestSim(WithSeed(3), WithPlayerAt(0, -6, math.Pi))
	ts.RunTicks(60 * TicksPerSecond)

	played := ts.Sound.Plays(ClipFootstep) + ts.Sound.Plays(ClipHeartbeat)
	if played < 20 {
		t.Fatalf("expected a minute of footsteps and heartbeats, got %d plays", played)
	}
	if n := ts.Sound.Active(); n > 8 {
		t.Fatalf("finished clips should leave the mixer: %d active after %d plays", n, played)
	}
}

// --- Scenario: No Candidate Nearby ---

func TestScenario_NoCandidateNearby(t *testing.T) {
	t.Log("=== TestScenario_NoCandidateNearby ===")
	t.Log("--- Setup: empty room, E1 in plain view ---")

	ts := NewTestSim(WithSeed(1), WithEmptyRoom())
	ts.RunTicks(30)

	e := mustEnemy(t, ts)
	if e.Camo.State() != camo.Exposed {
		t.Fatalf("without props the enemy cannot disguise, got %s", e.Camo.State())
	}
	if !ts.Log.HasEntry("mimic", "no_candidate", "seen") {
		dumpLog(t, ts)
		t.Fatal("expected a no_candidate event")
	}
	if ts.Log.CountCategory("mimic", "applied") != 0 {
		t.Error("no mimic should be applied")
	}
	if e.Agent.Stopped() {
		t.Error("a skipped transition should not halt the agent")
	}
}

// --- Scenario: Mimic Radius ---

func TestScenario_PropOutsideRadiusIgnored(t *testing.T) {
	t.Log("=== TestScenario_PropOutsideRadiusIgnored ===")

	ts := NewTestSim(
		WithSeed(1),
		WithEmptyRoom(),
		WithRoomObject("FarCrate", -9, -7, 1, 1, 1),
		WithTuning(func(tn *config.Tuning) { tn.Camouflage.MimicRadius = 5 }),
	)
	ts.RunTicks(10)
	if e := mustEnemy(t, ts); e.Camo.State() != camo.Exposed {
		t.Fatalf("prop beyond the mimic radius should not be used, got %s", e.Camo.State())
	}
}

// --- Scenario: Strike A Disguise ---

func strikeRoom() []SimOption {
	return []SimOption{
		WithSeed(5),
		WithEmptyRoom(),
		WithRoomObject("Crate", 2, 3, 1, 1, 1),
		WithSpawns(
			Spawn{Pos: geom.V(0, 0, 3), Yaw: math.Pi},
			Spawn{Pos: geom.V(-3, 0, 4), Yaw: math.Pi},
			Spawn{Pos: geom.V(3, 0, 5), Yaw: math.Pi},
		),
		WithPlayerAt(0, 1.5, 0),
	}
}

func TestScenario_StrikeDisguisedEnemy(t *testing.T) {
	t.Log("=== TestScenario_StrikeDisguisedEnemy ===")
	t.Log("--- Setup: E1 disguises 1.5m in front of the player ---")

	ts := NewTestSim(strikeRoom()...)
	ts.RunTicks(1)
	e1 := mustEnemy(t, ts)
	if e1.Camo.State() != camo.Mimicking {
		t.Fatalf("precondition: E1 should be disguised, got %s", e1.Camo.State())
	}

	if !ts.Strike() {
		dumpLog(t, ts)
		t.Fatal("strike at a disguised enemy in reach should land")
	}
	if !e1.Dead() {
		t.Fatal("E1 should be dead")
	}
	if liveClones(ts.Room.Scene) != 0 {
		t.Fatalf("disguise should go with its enemy, %d clones left", liveClones(ts.Room.Scene))
	}
	if ts.Room.Scene.Find(e1.Obj.Name) != nil {
		t.Fatal("E1 should be removed from the scene")
	}
	e2 := mustEnemy(t, ts)
	if e2.Label != "E2" {
		t.Fatalf("E2 should spawn next, got %s", e2.Label)
	}
	if !ts.Log.HasEntry("player", "kill", "mimicking") {
		t.Error("kill should record the state the enemy died in")
	}

	ts.RunTicks(10)
	ts.KillActive()
	if ts.Enemy() == nil || ts.Enemy().Label != "E3" {
		t.Fatal("E3 should spawn after E2")
	}
	if ts.Spawner.DoorOpen() {
		t.Fatal("door should stay shut while enemies remain")
	}
	ts.KillActive()
	dumpLog(t, ts)

	if ts.Enemy() != nil {
		t.Fatal("no enemy should remain")
	}
	if !ts.Spawner.DoorOpen() || ts.Room.Door.Active {
		t.Fatal("door should open after the last kill")
	}
	if ts.Sound.Plays(ClipDoor) != 1 || ts.Log.CountCategory("spawn", "door_open") != 1 {
		t.Errorf("door should open once: plays=%d events=%d",
			ts.Sound.Plays(ClipDoor), ts.Log.CountCategory("spawn", "door_open"))
	}

	// The room keeps running with no enemy.
	ts.RunTicks(60)
	if ts.Strike() {
		t.Error("strike with no enemy should miss")
	}
}

func TestScenario_StrikeBlockedByOccluder(t *testing.T) {
	t.Log("=== TestScenario_StrikeBlockedByOccluder ===")

	opts := append(strikeRoom(), WithOccluder("Screen", 0, 2.2, 2, 2.5, 0.2))
	ts := NewTestSim(opts...)
	ts.RunTicks(1)

	if ts.Strike() {
		t.Fatal("strike should stop at the screen")
	}
	if !ts.Log.HasEntry("player", "strike_miss", "Screen") {
		dumpLog(t, ts)
		t.Fatal("expected a strike_miss on the screen")
	}
	if mustEnemy(t, ts).Label != "E1" {
		t.Fatal("E1 should survive a blocked strike")
	}
}

// --- Scenario: Single Clone ---

func TestScenario_AtMostOneClone(t *testing.T) {
	t.Log("=== TestScenario_AtMostOneClone ===")
	t.Log("--- Setup: default room, player turns a quarter every 1.5s ---")

	ts := NewTestSim(WithSeed(9))
	for i := 0; i < 1200; i++ {
		if i%90 == 89 {
			ts.Player.Turn(math.Pi/2, 0)
		}
		ts.Step(TickDT)
		if n := liveClones(ts.Room.Scene); n > 1 {
			dumpLog(t, ts)
			t.Fatalf("tick %d: %d clones alive", ts.Tick(), n)
		}
		e := ts.Enemy()
		if e == nil {
			continue
		}
		if (e.Camo.State() == camo.Mimicking) != (e.Camo.Clone() != nil) {
			t.Fatalf("tick %d: state %s disagrees with clone presence", ts.Tick(), e.Camo.State())
		}
	}
	applied := ts.Log.CountCategory("mimic", "applied")
	restored := ts.Log.CountCategory("mimic", "restored")
	if applied-restored < 0 || applied-restored > 1 {
		t.Errorf("applied=%d restored=%d should differ by at most one", applied, restored)
	}
}

// --- Scenario: Determinism ---

func TestScenario_SameSeedSameLog(t *testing.T) {
	run := func() string {
		ts := NewTestSim(WithSeed(77))
		for i := 0; i < 900; i++ {
			if i%120 == 0 {
				ts.Player.Turn(2.1, 0)
			}
			ts.Step(TickDT)
		}
		return ts.Log.Format()
	}
	a, b := run(), run()
	if a != b {
		t.Fatal("two runs with the same seed produced different logs")
	}
	if a == "" {
		t.Fatal("expected a non-empty log")
	}
}

// --- Scenario: Report ---

func TestScenario_Report(t *testing.T) {
	ts := NewTestSim(WithSeed(7))
	rep := NewSimReporter(10)
	run := func(n int) {
		for i := 0; i < n; i++ {
			ts.Step(TickDT)
			rep.Observe(ts.World)
		}
	}
	run(120)
	ts.LookAway(mustEnemy(t, ts).Position())
	run(120)

	rr := rep.Report(7, ts.World)
	if rr.Mimics < 1 || rr.Restores < 1 {
		t.Fatalf("expected a mimic and a restore, got %d/%d", rr.Mimics, rr.Restores)
	}
	if rr.FirstMimic < 0 || rr.FirstRestore < rr.FirstMimic {
		t.Fatalf("first mimic %.2f should precede first restore %.2f", rr.FirstMimic, rr.FirstRestore)
	}
	if rr.MimicShare <= 0 || rr.MimicShare >= 1 {
		t.Errorf("mimic share should be partial, got %.2f", rr.MimicShare)
	}
	if rr.Spawned != 1 || rr.Killed != 0 || rr.DoorOpen {
		t.Errorf("unexpected enemy counts: %+v", rr)
	}
	if len(rep.History()) != 24 {
		t.Errorf("expected 24 snapshots, got %d", len(rep.History()))
	}
	out := rr.Format()
	for _, want := range []string{"=== Camouflage Report (seed=7, 240 ticks", "mimic/restore:", "disguises:", "door=closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	t.Log(out)
}
