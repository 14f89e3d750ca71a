package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/kartcore/asset"
	"github.com/lixenwraith/kartcore/audio"
	"github.com/lixenwraith/kartcore/config"
	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/logging"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/physics"
	"github.com/lixenwraith/kartcore/service"
	"github.com/lixenwraith/kartcore/status"
	"github.com/lixenwraith/kartcore/storage"
	"github.com/lixenwraith/kartcore/system"
	"github.com/lixenwraith/kartcore/telemetry"
)

var (
	configFlag    = flag.String("config", "", "Config file path")
	headlessFlag  = flag.Bool("headless", false, "Run a scripted session without a terminal")
	ticksFlag     = flag.Int("ticks", 600, "Steps to simulate in headless mode")
	heightmapFlag = flag.String("heightmap", "", "Grayscale PNG used as terrain")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nKARTSIM CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kartsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, _ := os.UserHomeDir()
	v := config.New(*configFlag, config.DefaultSearchDirs(home)...)
	cfg, found, err := config.Load(v)
	if err != nil {
		return err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Dir: cfg.Log.Dir, MaxSize: cfg.Log.MaxSize}
	if *headlessFlag {
		logOpts.Console = os.Stderr
	}
	log, closer, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.Info().Bool("config_file", found).Int("tick_rate", cfg.TickRate).Msg("kartsim starting")

	// Services
	ctx := context.Background()
	store := storage.New(storage.Config{Driver: cfg.Results.Driver, DSN: cfg.Results.DSN}, log)
	player := audio.NewCuePlayer(audio.Config{Enabled: cfg.Audio.Enabled && !*headlessFlag, Volume: cfg.Audio.Volume}, log)

	hub := service.NewHub(log)
	for _, svc := range []service.Service{store, player} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(ctx); err != nil {
		return err
	}
	defer hub.StopAll()
	if err := hub.StartAll(); err != nil {
		return err
	}

	ins, err := telemetry.New(telemetry.WithEnabled(cfg.Telemetry.Enabled))
	if err != nil {
		return err
	}

	// Scene
	game := engine.NewGame(log, cfg.Step())
	scene, err := loadScene(game.World, cfg.Scene.Path)
	if err != nil {
		return err
	}
	assignPlayers(game.World, cfg.Player)

	pw := physics.NewWorld(physics.WithLogger(log))
	reg := status.NewRegistry()

	var src input.Source
	var tracker *input.Tracker
	var term *input.TerminalSource
	if *headlessFlag {
		tracker = input.NewTracker()
		src = tracker
	} else {
		term = input.NewTerminalSource()
		src = steppedTerminal{term}
	}

	cars := system.NewCarSystem(pw, src, game.Queue, reg)
	phys := system.NewPhysicsSystem(pw, cars)
	if *heightmapFlag != "" {
		if err := loadHeightmap(phys, *heightmapFlag); err != nil {
			return err
		}
	}

	game.AddSystem(cars)
	game.AddSystem(phys)
	game.AddSystem(system.NewTransformSyncSystem(cars, phys))
	game.AddSystem(system.NewRaceLogSystem(store, scene.Name))
	game.AddSystem(system.NewTelemetrySystem(ins))
	game.AddSystem(system.NewAudioSystem(player))

	if err := game.Play(); err != nil {
		return fmt.Errorf("start race: %w", err)
	}
	defer game.Stop()

	if *headlessFlag {
		return runHeadless(ctx, game, tracker, reg, store, *ticksFlag, log)
	}
	return runTerminal(game, term, reg, cfg.TickRate)
}

func loadScene(w *engine.World, path string) (*engine.SceneResult, error) {
	if path == "" {
		return engine.LoadScene(w, []byte(asset.DemoTrack))
	}
	return engine.LoadSceneFile(w, path)
}

// assignPlayers applies the configured controller slots to every car
func assignPlayers(w *engine.World, p config.PlayerConfig) {
	for _, e := range w.Components.Car.All() {
		cfg, _ := w.Components.Car.Get(e)
		cfg.Players.Front = p.Front
		cfg.Players.Back = p.Back
		w.Components.Car.Set(e, cfg)
	}
}

func loadHeightmap(ps *system.PhysicsSystem, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open heightmap: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode heightmap: %w", err)
	}
	return ps.LoadHeightmap(img, parameter.DefaultTerrainMaxHeight)
}

func logSnapshot(log zerolog.Logger, reg *status.Registry) {
	ev := log.Info()
	for _, e := range reg.Snapshot() {
		ev = ev.Str(e.Key, e.Value)
	}
	ev.Msg("race status")
}
