// tablegen emits an interaction table CSV for a given config: all-zero by
// default, or randomized within a range. Useful for seeding exploratory
// runs without hand-editing the matrix.
package main

import (
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/interaction"
	"github.com/pthm-cable/plife/particle"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	out := flag.String("out", "table.csv", "Output path")
	min := flag.Float64("min", 0, "Lower bound for randomized values")
	max := flag.Float64("max", 0, "Upper bound for randomized values (min == max = all-zero table)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	reg, err := particle.NewRegistry(cfg.Particles.Types)
	if err != nil {
		slog.Error("invalid type list", "error", err)
		os.Exit(1)
	}

	table := interaction.New(reg.Count())
	if *min != *max {
		rngSeed := *seed
		if rngSeed == 0 {
			rngSeed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewPCG(uint64(rngSeed), 0xda3e39cb94b95bdb))
		table.Randomize(float32(*min), float32(*max), rng)
	}

	if err := interaction.Save(*out, table, reg); err != nil {
		slog.Error("failed to write table", "path", *out, "error", err)
		os.Exit(1)
	}
	slog.Info("wrote interaction table", "path", *out, "types", reg.Count())
}
