package main

import (
	"flag"
	"os"
	"time"

	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Mimic-Sense/internal/config"
	"github.com/Garsondee/Mimic-Sense/internal/game"
	"github.com/Garsondee/Mimic-Sense/internal/log"
)

func main() {
	var (
		configPath string
		seed       int64
		rays       bool
		mute       bool
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "tuning YAML file (defaults when empty)")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "RNG seed")
	flag.BoolVar(&rays, "rays", true, "collect visibility rays for the overlay")
	flag.BoolVar(&mute, "mute", false, "disable audio output")
	flag.StringVar(&logLevel, "log-level", "", "log level (overrides the tuning file)")
	flag.Parse()

	tuning := config.Default()
	if configPath != "" {
		t, err := config.Load(configPath)
		if err != nil {
			log.Init("info")
			log.Error("loading tuning", "err", err)
			os.Exit(1)
		}
		tuning = t
	}
	if logLevel == "" {
		logLevel = tuning.LogLevel
	}
	log.Init(logLevel)
	tuning.Visibility.ShowDebugRays = tuning.Visibility.ShowDebugRays || rays

	opts := game.DefaultWorldOptions()
	opts.Tuning = tuning
	opts.Seed = seed
	opts.Logger = log.L()
	world := game.NewWorld(opts)

	if !mute {
		if err := speaker.Init(game.SampleRate, game.SampleRate.N(time.Second/10)); err != nil {
			log.Warn("audio unavailable, running silent", "err", err)
		} else {
			world.Sound.Locker = game.SpeakerLock{LockFn: speaker.Lock, UnlockFn: speaker.Unlock}
			speaker.Play(world.Sound.Streamer())
		}
	}

	g := game.New(world)
	w, h := g.Size()
	ebiten.SetWindowTitle("Mimic Sense")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		log.Error("game exited", "err", err)
		os.Exit(1)
	}
}
