package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/cwbudde/algo-sonify/sonify"
)

// File is the JSON schema for preset files.
type File struct {
	Presets map[string]Entry `json:"presets"`
}

// Entry is one preset definition in a preset file.
type Entry struct {
	Partials     []float64 `json:"partials"`
	Amplitudes   []float64 `json:"amplitudes"`
	PhaseOffsets []float64 `json:"phase_offsets,omitempty"`
	Gain         *float64  `json:"gain,omitempty"`
}

// LoadJSON loads a preset JSON file and applies it on top of the built-in
// registry. File entries replace builtins of the same name.
func LoadJSON(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	r := NewDefaultRegistry()
	if err := ApplyFile(r, &f); err != nil {
		return nil, err
	}
	return r, nil
}

// ApplyFile applies a parsed preset file onto an existing registry.
func ApplyFile(dst *Registry, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination registry")
	}
	if f == nil || len(f.Presets) == 0 {
		return nil
	}

	keys := make([]string, 0, len(f.Presets))
	for k := range f.Presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := f.Presets[k]
		if len(e.Partials) == 0 {
			return fmt.Errorf("preset %q: partials must not be empty", k)
		}
		if len(e.Amplitudes) != len(e.Partials) {
			return fmt.Errorf("preset %q: %d amplitudes for %d partials", k, len(e.Amplitudes), len(e.Partials))
		}
		if e.PhaseOffsets != nil && len(e.PhaseOffsets) != len(e.Partials) {
			return fmt.Errorf("preset %q: %d phase offsets for %d partials", k, len(e.PhaseOffsets), len(e.Partials))
		}
		gain := 1.0
		if e.Gain != nil {
			if *e.Gain < 0 {
				return fmt.Errorf("preset %q: gain must be >= 0", k)
			}
			gain = *e.Gain
		}
		ps := sonify.PartialSet{
			Ratios:     append([]float64(nil), e.Partials...),
			Amplitudes: append([]float64(nil), e.Amplitudes...),
		}
		if e.PhaseOffsets != nil {
			ps.PhaseOffsets = append([]float64(nil), e.PhaseOffsets...)
		}
		if err := dst.Register(k, Preset{Partials: ps, Gain: gain}); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes a preset file to disk with stable formatting. It is used
// by the fitting tool to persist fitted presets.
func WriteJSON(path string, f *File) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
