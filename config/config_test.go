package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/plife/particle"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Arena.Width != 1000 || cfg.Arena.Height != 1000 {
		t.Errorf("arena = %gx%g, want 1000x1000", cfg.Arena.Width, cfg.Arena.Height)
	}
	if len(cfg.Particles.Types) != 3 {
		t.Errorf("types = %v, want 3 entries", cfg.Particles.Types)
	}
	if cfg.Derived.D1 != 30 || cfg.Derived.D2 != 65 || cfg.Derived.D3 != 100 {
		t.Errorf("zones = %g/%g/%g, want 30/65/100",
			cfg.Derived.D1, cfg.Derived.D2, cfg.Derived.D3)
	}
	if cfg.Derived.HalfW != 500 || cfg.Derived.HalfH != 500 {
		t.Errorf("half extents = %g/%g, want 500/500", cfg.Derived.HalfW, cfg.Derived.HalfH)
	}

	// dt == half_life: velocity halves every tick
	if math.Abs(float64(cfg.Derived.DampingFactor)-0.5) > 1e-6 {
		t.Errorf("damping factor = %g, want 0.5", cfg.Derived.DampingFactor)
	}

	if len(cfg.Derived.Weights) != 3 {
		t.Fatalf("weights = %v, want 3 entries", cfg.Derived.Weights)
	}
	for i, w := range cfg.Derived.Weights {
		if w != 1 {
			t.Errorf("weight %d = %g, want uniform 1", i, w)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, "physics:\n  dt: 0.05\narena:\n  width: 2000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Physics.DT != 0.05 {
		t.Errorf("dt = %g, want 0.05", cfg.Physics.DT)
	}
	if cfg.Arena.Width != 2000 || cfg.Arena.Height != 1000 {
		t.Errorf("arena = %gx%g, want 2000x1000 (height from defaults)",
			cfg.Arena.Width, cfg.Arena.Height)
	}
	// 0.5^(0.05/0.1)
	if math.Abs(float64(cfg.Derived.DampingFactor)-math.Sqrt(0.5)) > 1e-6 {
		t.Errorf("damping factor = %g, want %g", cfg.Derived.DampingFactor, math.Sqrt(0.5))
	}
}

func TestZoneRadiusSplitForm(t *testing.T) {
	path := writeConfig(t, "zones:\n  d1: 0\n  d2: 0\n  d3: 0\n  radius: 200\n  split: 0.25\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Derived.D1 != 50 || cfg.Derived.D2 != 125 || cfg.Derived.D3 != 200 {
		t.Errorf("zones = %g/%g/%g, want 50/125/200",
			cfg.Derived.D1, cfg.Derived.D2, cfg.Derived.D3)
	}
}

func TestEmptyTypesResolveToPalette(t *testing.T) {
	path := writeConfig(t, "particles:\n  types: []\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := particle.Palette()
	if len(cfg.Particles.Types) != len(want) {
		t.Fatalf("types = %d entries, want the full %d-name palette",
			len(cfg.Particles.Types), len(want))
	}
	for i, name := range want {
		if cfg.Particles.Types[i] != name {
			t.Errorf("types[%d] = %q, want %q", i, cfg.Particles.Types[i], name)
		}
	}
	if len(cfg.Derived.Weights) != len(want) {
		t.Errorf("weights = %d entries, want uniform over %d types",
			len(cfg.Derived.Weights), len(want))
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero dt", "physics:\n  dt: 0\n"},
		{"negative half_life", "physics:\n  half_life: -1\n"},
		{"negative repulsion", "physics:\n  repulsion: -5\n"},
		{"unordered zones", "zones:\n  d1: 70\n  d2: 65\n  d3: 100\n"},
		{"too few types", "particles:\n  types: [red, green]\n"},
		{"too many types", "particles:\n  types: [a,b,c,d,e,f,g,h,i,j,k,l,m,n,o,p,q,r]\n"},
		{"duplicate types", "particles:\n  types: [red, green, red]\n"},
		{"weight count mismatch", "particles:\n  weights: [1, 2]\n"},
		{"zero arena", "arena:\n  width: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Load should fail for %s", tt.name)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Arena.Width = 1234
	cfg.computeDerived()

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if reloaded.Arena.Width != 1234 {
		t.Errorf("width = %g, want 1234", reloaded.Arena.Width)
	}
}
