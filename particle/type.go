// Package particle defines particle types and the owned particle collection.
package particle

import (
	"fmt"
	"strings"
)

// Type identifies a particle category. Values are indices into the
// interaction table, in [0, Registry.Count()).
type Type uint8

// MaxTypes is the largest supported number of particle types.
const MaxTypes = 17

// Palette returns the default type names, ordered. A configuration with
// an empty type list resolves to the full palette; configurations with
// fewer types typically use a subset of these.
func Palette() []string {
	return []string{
		"amber", "blue", "cyan", "emerald", "fuchsia", "green",
		"indigo", "lime", "orange", "pink", "purple", "red",
		"rose", "sky", "teal", "violet", "yellow",
	}
}

// Registry holds the fixed set of particle types for a simulation run.
// The set is fixed at startup; ids are the positions in the name list.
type Registry struct {
	names []string
	index map[string]Type
}

// NewRegistry creates a registry from ordered type names.
func NewRegistry(names []string) (*Registry, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("particle: registry needs at least one type")
	}
	if len(names) > MaxTypes {
		return nil, fmt.Errorf("particle: too many types: %d (max %d)", len(names), MaxTypes)
	}

	r := &Registry{
		names: append([]string(nil), names...),
		index: make(map[string]Type, len(names)),
	}
	for i, name := range names {
		key := strings.ToLower(name)
		if key == "" {
			return nil, fmt.Errorf("particle: empty type name at index %d", i)
		}
		if _, dup := r.index[key]; dup {
			return nil, fmt.Errorf("particle: duplicate type name %q", name)
		}
		r.index[key] = Type(i)
	}
	return r, nil
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	return len(r.names)
}

// Name returns the display name for a type id.
func (r *Registry) Name(t Type) string {
	return r.names[t]
}

// Names returns the ordered type names.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Parse resolves a type name, case-insensitively.
func (r *Registry) Parse(name string) (Type, error) {
	t, ok := r.index[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("particle: unknown type name %q (expected one of %s)",
			name, strings.Join(r.names, ", "))
	}
	return t, nil
}

// All returns every registered type id in order.
func (r *Registry) All() []Type {
	out := make([]Type, len(r.names))
	for i := range out {
		out[i] = Type(i)
	}
	return out
}
