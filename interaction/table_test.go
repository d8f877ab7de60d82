package interaction

import (
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/plife/particle"
)

func testRegistry(t *testing.T) *particle.Registry {
	t.Helper()
	reg, err := particle.NewRegistry([]string{"red", "green", "blue"})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestSetGet(t *testing.T) {
	tbl := New(3)
	for target := particle.Type(0); target < 3; target++ {
		for source := particle.Type(0); source < 3; source++ {
			want := float32(target)*10 - float32(source)
			tbl.Set(target, source, want)
			if got := tbl.Get(target, source); got != want {
				t.Errorf("Get(%d,%d) = %g, want %g", target, source, got, want)
			}
		}
	}

	// Asymmetric by design: [target][source] vs [source][target]
	tbl.Set(0, 1, 42)
	tbl.Set(1, 0, -7)
	if tbl.Get(0, 1) == tbl.Get(1, 0) {
		t.Error("table should hold directed coefficients")
	}
}

func TestRandomizeRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	tbl := New(3)
	tbl.Randomize(-50, 50, rng)

	var nonZero bool
	for target := particle.Type(0); target < 3; target++ {
		for source := particle.Type(0); source < 3; source++ {
			v := tbl.Get(target, source)
			if v < -50 || v >= 50 {
				t.Errorf("Get(%d,%d) = %g, outside [-50, 50)", target, source, v)
			}
			if v != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Error("Randomize left the table all-zero")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	rng := rand.New(rand.NewPCG(3, 9))

	tbl := New(3)
	tbl.Randomize(-100, 100, rng)
	tbl.Set(0, 2, float32(math.Pi))
	tbl.Set(2, 0, -0.0001)

	path := filepath.Join(t.TempDir(), "table.csv")
	if err := Save(path, tbl, reg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, reg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for target := particle.Type(0); target < 3; target++ {
		for source := particle.Type(0); source < 3; source++ {
			if got, want := loaded.Get(target, source), tbl.Get(target, source); got != want {
				t.Errorf("round trip Get(%d,%d) = %g, want %g", target, source, got, want)
			}
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	reg := testRegistry(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), reg)
	if err == nil {
		t.Fatal("Load of missing file should fail")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			"unknown type in header",
			",target,red,green,magenta\nred,0,0,0\ngreen,0,0,0\nblue,0,0,0\n",
			ErrParse,
		},
		{
			"unknown source type",
			",target,red,green,blue\nred,0,0,0\nmagenta,0,0,0\nblue,0,0,0\n",
			ErrParse,
		},
		{
			"non-numeric field",
			",target,red,green,blue\nred,0,x,0\ngreen,0,0,0\nblue,0,0,0\n",
			ErrParse,
		},
		{
			"missing header label",
			",source,red,green,blue\nred,0,0,0\ngreen,0,0,0\nblue,0,0,0\n",
			ErrParse,
		},
		{
			"too few rows",
			",target,red,green,blue\nred,0,0,0\ngreen,0,0,0\n",
			ErrDimension,
		},
		{
			"too many rows",
			",target,red,green,blue\nred,0,0,0\ngreen,0,0,0\nblue,0,0,0\nblue,0,0,0\n",
			ErrDimension,
		},
		{
			"short row",
			",target,red,green,blue\nred,0,0\ngreen,0,0,0\nblue,0,0,0\n",
			ErrDimension,
		},
		{
			"short header",
			",target,red,green\nred,0,0,0\ngreen,0,0,0\nblue,0,0,0\n",
			ErrDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "table.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path, reg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadColumnOrderIndependent(t *testing.T) {
	reg := testRegistry(t)

	// Header columns in non-registry order; value column j targets the
	// type named in header column j+2.
	content := ",target,blue,red,green\n" +
		"red,1,2,3\n" +
		"green,4,5,6\n" +
		"blue,7,8,9\n"
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path, reg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Row "red" (source=0): blue(2) gets 1, red(0) gets 2, green(1) gets 3
	if got := tbl.Get(2, 0); got != 1 {
		t.Errorf("Get(blue, red) = %g, want 1", got)
	}
	if got := tbl.Get(0, 0); got != 2 {
		t.Errorf("Get(red, red) = %g, want 2", got)
	}
	if got := tbl.Get(1, 0); got != 3 {
		t.Errorf("Get(green, red) = %g, want 3", got)
	}
	// Row "blue" (source=2): green(1) gets 9
	if got := tbl.Get(1, 2); got != 9 {
		t.Errorf("Get(green, blue) = %g, want 9", got)
	}
}
