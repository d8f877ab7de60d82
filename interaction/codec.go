package interaction

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pthm-cable/plife/particle"
)

// File format (comma-delimited text):
//
//	,target,red,green,blue
//	red,0,-20,100
//	green,100,0,-20
//	blue,-20,100,0
//
// Row 0 is an empty cell, the literal label "target", then one column per
// type name. Each following row names the source type and holds one value
// per type-name column; the column identifies the target type. Values are
// IEEE-754 single precision.

// Error kinds surfaced by Load. I/O failures are returned wrapped around
// the underlying os error instead.
var (
	// ErrParse marks an unrecognized type name or non-numeric field.
	ErrParse = errors.New("interaction: parse error")
	// ErrDimension marks a row or column count mismatch against the registry.
	ErrDimension = errors.New("interaction: dimension mismatch")
)

// headerLabel is the fixed second cell of the header row.
const headerLabel = "target"

// Load reads a table from path. Load is all-or-nothing: it builds a fresh
// table and returns it only once every cell has parsed, so a failed load
// can never leave a caller's active table partially overwritten.
func Load(path string, reg *particle.Registry) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row widths validated below for better errors

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	k := reg.Count()
	if len(records) != k+1 {
		return nil, fmt.Errorf("%w: got %d rows, want header plus %d source rows",
			ErrDimension, len(records), k)
	}

	header := records[0]
	if len(header) != k+2 {
		return nil, fmt.Errorf("%w: header has %d columns, want %d",
			ErrDimension, len(header), k+2)
	}
	if header[0] != "" || header[1] != headerLabel {
		return nil, fmt.Errorf("%w: header must start with an empty cell and %q",
			ErrParse, headerLabel)
	}

	// Column j of each data row targets the type named in header[j+2].
	targets := make([]particle.Type, k)
	for j := 0; j < k; j++ {
		t, err := reg.Parse(header[j+2])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		targets[j] = t
	}

	table := New(k)
	for i, row := range records[1:] {
		if len(row) != k+1 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrDimension, i+1, len(row), k+1)
		}

		source, err := reg.Parse(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, i+1, err)
		}

		for j := 0; j < k; j++ {
			v, err := strconv.ParseFloat(row[j+1], 32)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %q is not a number",
					ErrParse, i+1, j+1, row[j+1])
			}
			table.Set(targets[j], source, float32(v))
		}
	}

	return table, nil
}

// Save writes the table to path in the format Load reads. Values are
// formatted so that a load of the written file reproduces the table
// exactly.
func Save(path string, t *Table, reg *particle.Registry) error {
	if t.K() != reg.Count() {
		return fmt.Errorf("%w: table is %dx%d but registry has %d types",
			ErrDimension, t.K(), t.K(), reg.Count())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating table file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, t.K()+2)
	header = append(header, "", headerLabel)
	header = append(header, reg.Names()...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	row := make([]string, t.K()+1)
	for _, source := range reg.All() {
		row[0] = reg.Name(source)
		for j, target := range reg.All() {
			row[j+1] = strconv.FormatFloat(float64(t.Get(target, source)), 'g', -1, 32)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing table file: %w", err)
	}
	return f.Close()
}
