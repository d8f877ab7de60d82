// Headless runner for the particle simulation. Rendering and interactive
// control live outside this module; this binary drives the engine through
// the same collaborator surface a host would use.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/sim"
	"github.com/pthm-cable/plife/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	tablePath := flag.String("table", "", "Interaction table CSV to load at startup")
	saveTable := flag.String("save-table", "", "Write the final interaction table to this path on exit")
	randomize := flag.Float64("randomize", 0, "Randomize the table in [-v, v) at startup (0 = off)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	particles := flag.Int("particles", 0, "Initial particle count (0 = use config)")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in sim seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	engine, err := sim.New(cfg, sim.Options{
		Seed:           rngSeed,
		StatsWindowSec: *statsWindow,
		Output:         output,
		LogStats:       true,
	})
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	if *tablePath != "" {
		if err := engine.LoadTable(*tablePath); err != nil {
			slog.Error("failed to load interaction table", "path", *tablePath, "error", err)
			os.Exit(1)
		}
		slog.Info("loaded interaction table", "path", *tablePath)
	} else if *randomize > 0 {
		engine.RandomizeTable(float32(-*randomize), float32(*randomize))
		slog.Info("randomized interaction table", "range", *randomize)
	}

	count := *particles
	if count <= 0 {
		count = cfg.Particles.Initial
	}
	engine.Spawn(count, nil, engine.ArenaBounds())
	engine.SetEnabled(true)

	slog.Info("starting simulation",
		"seed", rngSeed,
		"particles", count,
		"types", engine.Registry().Count(),
		"max_ticks", *maxTicks,
	)

	for {
		engine.Step()

		if *maxTicks > 0 && engine.Tick() >= *maxTicks {
			slog.Info("max ticks reached", "tick", engine.Tick())
			break
		}
	}

	if *saveTable != "" {
		if err := engine.SaveTable(*saveTable); err != nil {
			slog.Error("failed to save interaction table", "path", *saveTable, "error", err)
			os.Exit(1)
		}
		slog.Info("saved interaction table", "path", *saveTable)
	}
}
