package main

import (
	"math"
	"testing"

	"github.com/Garsondee/Mimic-Sense/internal/config"
	"github.com/Garsondee/Mimic-Sense/internal/game"
)

func TestRunOnce_HuntDisguisesFirstEnemy(t *testing.T) {
	rs := runOnce(1, 42, 300, "hunt", config.Default())
	r := rs.report
	if r.Ticks != 300 || r.Seed != 42 {
		t.Fatalf("unexpected run header: ticks=%d seed=%d", r.Ticks, r.Seed)
	}
	if r.Spawned < 1 {
		t.Fatal("expected at least one enemy spawned")
	}
	if r.Mimics < 1 || r.FirstMimic < 0 {
		t.Fatalf("a watched enemy should disguise: mimics=%d first=%.2f", r.Mimics, r.FirstMimic)
	}
}

func TestRunOnce_Deterministic(t *testing.T) {
	a := runOnce(1, 9, 600, "sweep", config.Default()).report.Format()
	b := runOnce(2, 9, 600, "sweep", config.Default()).report.Format()
	if a != b {
		t.Fatalf("same seed should give the same report:\n%s\nvs\n%s", a, b)
	}
}

func TestSweep_TurnsEveryTwoSeconds(t *testing.T) {
	ts := game.NewTestSim()
	start := ts.Player.Yaw()
	for i := 0; i <= 2*game.TicksPerSecond; i++ {
		sweep(ts, i)
	}
	if got := ts.Player.Yaw() - start; math.Abs(got-math.Pi/2) > 1e-9 {
		t.Fatalf("expected one quarter turn, got %.3f", got)
	}
}

func TestScriptNames_Sorted(t *testing.T) {
	names := scriptNames()
	want := []string{"hunt", "idle", "sweep"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestAvgString(t *testing.T) {
	if got := avgString(nil, "s"); got != "n/a" {
		t.Fatalf("empty average should be n/a, got %q", got)
	}
	if got := avgString([]float64{1, 2}, "m"); got != "1.50m" {
		t.Fatalf("expected 1.50m, got %q", got)
	}
	if got := avg(3, 0); got != 0 {
		t.Fatalf("avg over zero runs should be 0, got %v", got)
	}
}

func TestJoinCounts(t *testing.T) {
	if got := joinCounts(nil); got != "none" {
		t.Fatalf("expected none, got %q", got)
	}
	if got := joinCounts(map[string]int{"Lamp": 2, "Crate": 1}); got != "Crate=1,Lamp=2" {
		t.Fatalf("unexpected join: %q", got)
	}
}
