package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/dodscene/dodscene/internal/config"
	"github.com/dodscene/dodscene/internal/core/event"
	coresys "github.com/dodscene/dodscene/internal/core/system"
	"github.com/dodscene/dodscene/internal/data"
	"github.com/dodscene/dodscene/internal/hud"
	"github.com/dodscene/dodscene/internal/logging"
	"github.com/dodscene/dodscene/internal/scene"
	"github.com/dodscene/dodscene/internal/scripting"
	"github.com/dodscene/dodscene/internal/system"
)

const defaultConfigPath = "config/scene.toml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := defaultConfigPath
	optional := true
	if p := os.Getenv("DODSCENE_CONFIG"); p != "" {
		cfgPath = p
		optional = false
	}
	cfg, err := config.Load(cfgPath, optional)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch cfg.Profile.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	// 3. Build the scene
	spawns, err := loadSpawns(cfg.Sim.SpawnFile, log)
	if err != nil {
		return err
	}
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	bus := event.NewBus()
	sc, err := scene.New(
		scene.WithSpawnTable(spawns),
		scene.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		scene.WithBus(bus),
		scene.WithLogger(log.Named("scene")),
	)
	if err != nil {
		return fmt.Errorf("new scene: %w", err)
	}
	for i := 0; i < cfg.Sim.InitialSolids; i++ {
		if _, err := sc.CreateSolid(); err != nil {
			return fmt.Errorf("seed solids: %w", err)
		}
	}
	for i := 0; i < cfg.Sim.InitialLights; i++ {
		if _, err := sc.CreateLight(); err != nil {
			return fmt.Errorf("seed lights: %w", err)
		}
	}
	log.Info("scene ready",
		zap.Int("solids", cfg.Sim.InitialSolids),
		zap.Int("lights", cfg.Sim.InitialLights),
		zap.Uint64("seed", seed))

	// 4. Register systems
	runner := coresys.NewRunner()
	input := system.NewInputSystem(sc, 256, 64, log.Named("input"))
	runner.Register(input)

	if cfg.Script.Enabled {
		lua := scripting.NewEngine(sc, log.Named("lua"))
		defer lua.Close()
		n, err := lua.LoadDir(cfg.Script.Dir)
		if err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
		log.Info("scripts loaded", zap.Int("files", n), zap.String("dir", cfg.Script.Dir))
		if lua.HasFrameHook() {
			runner.Register(system.NewScriptSystem(lua, log.Named("lua")))
		} else {
			log.Info("no on_frame hook defined, script phase idle")
		}
	}

	runner.Register(system.NewSceneSystem(sc, bus))
	runner.Register(system.NewStatsSystem(sc, bus, cfg.Stats.IntervalFrames, log.Named("stats")))

	// Settle the seeded entities: deliver their events and fill the output
	// buffers without advancing time.
	runner.TickPhase(coresys.PhaseUpdate, 0)

	var quit <-chan struct{}
	if cfg.HUD.Enabled {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("hud screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("hud init: %w", err)
		}
		defer screen.Fini()
		h := hud.New(screen, sc, input)
		runner.Register(h)
		go h.Run()
		quit = h.Done()
	}

	// 5. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tick := cfg.Sim.TickRate.Duration
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	log.Info("frame loop started", zap.Duration("tick", tick), zap.Int("frames", cfg.Sim.Frames))

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			runner.Tick(now.Sub(last))
			last = now
			if cfg.Sim.Frames > 0 && runner.Frames() >= uint64(cfg.Sim.Frames) {
				log.Info("frame budget reached", zap.Any("stats", sc.Stats()))
				return nil
			}
		case <-quit:
			log.Info("quit from hud")
			return nil
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// loadSpawns reads the spawn range table. A missing file falls back to the
// built-in ranges.
func loadSpawns(path string, log *zap.Logger) (*data.SpawnTable, error) {
	if path == "" {
		return data.DefaultSpawnTable(), nil
	}
	t, err := data.LoadSpawnTable(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("spawn table missing, using defaults", zap.String("path", path))
		return data.DefaultSpawnTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load spawn table: %w", err)
	}
	return t, nil
}
