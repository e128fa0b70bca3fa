// Package preset maps instrument names to partial/amplitude tables for the
// sonification engine. A Registry starts out empty or seeded with the
// built-in tables and can be extended programmatically or from JSON files.
package preset

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-sonify/sonify"
)

// Preset is a named overtone table plus a scalar gain multiplier applied to
// every partial amplitude on lookup.
type Preset struct {
	Partials sonify.PartialSet
	Gain     float64
}

// Registry holds presets by name. It is not safe for concurrent mutation;
// populate it up front and share it read-only, as the cmd tools do.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{presets: make(map[string]Preset)}
}

// NewDefaultRegistry returns a registry seeded with the built-in instrument
// tables.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, p := range builtins() {
		// Built-in tables are well-formed; Register only fails on invalid input.
		if err := r.Register(name, p); err != nil {
			panic(fmt.Sprintf("preset: invalid builtin %q: %v", name, err))
		}
	}
	return r
}

// Register adds or replaces a preset after validating it.
func (r *Registry) Register(name string, p Preset) error {
	if name == "" {
		return fmt.Errorf("empty preset name")
	}
	if err := p.Partials.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	if p.Gain < 0 {
		return fmt.Errorf("preset %q: gain must be >= 0, got %g", name, p.Gain)
	}
	if p.Gain == 0 {
		p.Gain = 1
	}
	r.presets[name] = p
	return nil
}

// Get returns the raw preset entry.
func (r *Registry) Get(name string) (Preset, bool) {
	p, ok := r.presets[name]
	return p, ok
}

// Lookup resolves a preset name to a partial set with the preset gain
// folded into the amplitudes. It implements sonify.PresetSource.
func (r *Registry) Lookup(name string) (sonify.PartialSet, bool) {
	p, ok := r.presets[name]
	if !ok {
		return sonify.PartialSet{}, false
	}
	return p.Partials.Scaled(p.Gain), true
}

// Names returns all registered preset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtins returns the built-in instrument tables. Harmonic amplitude
// profiles are coarse approximations of the named timbres; "bell" uses the
// classic inharmonic Risset ratios.
func builtins() map[string]Preset {
	return map[string]Preset{
		"sine": {
			Partials: sonify.PartialSet{
				Ratios:     []float64{1},
				Amplitudes: []float64{1},
			},
			Gain: 1,
		},
		"violin": {
			Partials: sonify.PartialSet{
				Ratios:     []float64{1, 2, 3, 4, 5, 6, 7},
				Amplitudes: []float64{1, 0.6, 0.45, 0.3, 0.25, 0.2, 0.15},
			},
			Gain: 1,
		},
		"flute": {
			Partials: sonify.PartialSet{
				Ratios:     []float64{1, 2, 3},
				Amplitudes: []float64{1, 0.35, 0.1},
			},
			Gain: 1,
		},
		"clarinet": {
			Partials: sonify.PartialSet{
				Ratios:     []float64{1, 3, 5, 7, 9},
				Amplitudes: []float64{1, 0.75, 0.5, 0.2, 0.1},
			},
			Gain: 1,
		},
		"brass": {
			Partials: sonify.PartialSet{
				Ratios:     []float64{1, 2, 3, 4, 5, 6, 7, 8},
				Amplitudes: []float64{1, 0.9, 0.8, 0.7, 0.55, 0.4, 0.3, 0.2},
			},
			Gain: 1,
		},
		"organ": {
			Partials: sonify.PartialSet{
				Ratios:     []float64{0.5, 1, 2, 4, 8},
				Amplitudes: []float64{0.5, 1, 0.7, 0.45, 0.25},
			},
			Gain: 1,
		},
		"bell": {
			Partials: sonify.PartialSet{
				Ratios:     []float64{0.56, 0.92, 1.19, 1.71, 2, 2.74, 3, 3.76, 4.07},
				Amplitudes: []float64{1, 0.67, 1, 1.8, 2.67, 1.67, 1.46, 1.33, 1.33},
			},
			Gain: 0.3,
		},
	}
}
