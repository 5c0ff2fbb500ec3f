package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Mimic-Sense/internal/config"
	"github.com/Garsondee/Mimic-Sense/internal/game"
	"github.com/Garsondee/Mimic-Sense/internal/geom"
)

// strikeRange is how close the hunting script walks before swinging.
const strikeRange = 1.8

type runStats struct {
	runIndex int
	seed     int64
	scenario string
	report   game.RunReport
}

// script drives the player for one tick.
type script func(ts *game.TestSim, tick int)

var scripts = map[string]script{
	"sweep": sweep,
	"hunt":  hunt,
	"idle":  func(*game.TestSim, int) {},
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var configPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "hunt", "player script: "+strings.Join(scriptNames(), ", "))
	flag.StringVar(&configPath, "config", "", "tuning YAML file (defaults when empty)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	if _, ok := scripts[scenario]; !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, strings.Join(scriptNames(), ", "))
		os.Exit(2)
	}
	tuning := config.Default()
	if configPath != "" {
		t, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		tuning = t
	}

	fmt.Printf("=== Headless Camouflage Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runOnce(i+1, seed, ticks, scenario, tuning)
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)
}

func scriptNames() []string {
	names := make([]string, 0, len(scripts))
	for k := range scripts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func runOnce(runIndex int, seed int64, ticks int, scenario string, tuning config.Tuning) runStats {
	ts := game.NewTestSim(
		game.WithSeed(seed),
		game.WithTuning(func(t *config.Tuning) { *t = tuning }),
	)
	rep := game.NewSimReporter(0)
	drive := scripts[scenario]
	for i := 0; i < ticks; i++ {
		drive(ts, i)
		ts.Step(game.TickDT)
		rep.Observe(ts.World)
	}
	return runStats{
		runIndex: runIndex,
		seed:     seed,
		scenario: scenario,
		report:   rep.Report(seed, ts.World),
	}
}

// sweep stands still and turns a quarter every two seconds.
func sweep(ts *game.TestSim, tick int) {
	if tick > 0 && tick%(2*game.TicksPerSecond) == 0 {
		ts.Player.Turn(math.Pi/2, 0)
	}
}

// hunt faces the active enemy, walks up to it and strikes.
func hunt(ts *game.TestSim, _ int) {
	e := ts.Enemy()
	if e == nil {
		return
	}
	target := e.Position()
	ts.LookAt(target)
	if flatDist(ts.Player.Position(), target) > strikeRange {
		ts.Player.Move(1, 0, false, game.TickDT)
		return
	}
	ts.Strike()
}

func flatDist(a, b geom.Vec3) float64 {
	return geom.V(a.X, 0, a.Z).Dist(geom.V(b.X, 0, b.Z))
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Print(rs.report.Format())
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalMimic := 0
	totalRestore := 0
	totalDeferred := 0
	totalKilled := 0
	doors := 0
	firstMimics := make([]float64, 0, len(all))
	closest := make([]float64, 0, len(all))
	templates := map[string]int{}

	for _, rs := range all {
		r := rs.report
		totalMimic += r.Mimics
		totalRestore += r.Restores
		totalDeferred += r.Deferred
		totalKilled += r.Killed
		if r.DoorOpen {
			doors++
		}
		if r.FirstMimic >= 0 {
			firstMimics = append(firstMimics, r.FirstMimic)
		}
		if !math.IsInf(r.Closest, 0) {
			closest = append(closest, r.Closest)
		}
		for k, v := range r.Templates {
			templates[k] += v
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_per_run: mimic=%.1f restore=%.1f deferred=%.1f killed=%.1f\n",
		avg(totalMimic, len(all)), avg(totalRestore, len(all)), avg(totalDeferred, len(all)), avg(totalKilled, len(all)))
	fmt.Printf("first_mimic_avg=%s closest_avg=%s door_open=%d/%d\n",
		avgString(firstMimics, "s"), avgString(closest, "m"), doors, len(all))
	fmt.Printf("disguises: %s\n", joinCounts(templates))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgString(vals []float64, unit string) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.2f%s", sum/float64(len(vals)), unit)
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ",")
}
