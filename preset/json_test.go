package preset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeTempJSON(t, `{
		"presets": {
			"custom": {
				"partials": [1, 2, 3],
				"amplitudes": [1, 0.4, 0.2],
				"phase_offsets": [0, 0.5, 1.0],
				"gain": 0.8
			}
		}
	}`)

	r, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	p, ok := r.Get("custom")
	if !ok {
		t.Fatal("custom preset missing")
	}
	if len(p.Partials.Ratios) != 3 || p.Gain != 0.8 {
		t.Fatalf("unexpected preset: %+v", p)
	}
	if p.Partials.PhaseOffsets[2] != 1.0 {
		t.Fatalf("phase offsets not loaded: %v", p.Partials.PhaseOffsets)
	}
	// Builtins survive the overlay.
	if _, ok := r.Get("sine"); !ok {
		t.Fatal("builtin sine lost after overlay")
	}
}

func TestLoadJSONOverridesBuiltin(t *testing.T) {
	path := writeTempJSON(t, `{
		"presets": {
			"sine": {
				"partials": [1],
				"amplitudes": [0.25]
			}
		}
	}`)

	r, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	ps, _ := r.Lookup("sine")
	if ps.Amplitudes[0] != 0.25 {
		t.Fatalf("builtin not overridden: %v", ps.Amplitudes)
	}
}

func TestApplyFileValidation(t *testing.T) {
	cases := []struct {
		name    string
		file    File
		wantErr string
	}{
		{
			name: "empty partials",
			file: File{Presets: map[string]Entry{
				"x": {Partials: nil, Amplitudes: nil},
			}},
			wantErr: "partials must not be empty",
		},
		{
			name: "amplitude mismatch",
			file: File{Presets: map[string]Entry{
				"x": {Partials: []float64{1, 2}, Amplitudes: []float64{1}},
			}},
			wantErr: "amplitudes",
		},
		{
			name: "phase offset mismatch",
			file: File{Presets: map[string]Entry{
				"x": {
					Partials:     []float64{1},
					Amplitudes:   []float64{1},
					PhaseOffsets: []float64{0, 1},
				},
			}},
			wantErr: "phase offsets",
		},
		{
			name: "negative gain",
			file: File{Presets: map[string]Entry{
				"x": {Partials: []float64{1}, Amplitudes: []float64{1}, Gain: floatPtr(-0.5)},
			}},
			wantErr: "gain must be >= 0",
		},
	}
	for _, c := range cases {
		err := ApplyFile(NewRegistry(), &c.file)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !strings.Contains(err.Error(), c.wantErr) {
			t.Fatalf("%s: got %q, want substring %q", c.name, err, c.wantErr)
		}
	}
}

func TestApplyFileNil(t *testing.T) {
	if err := ApplyFile(NewRegistry(), nil); err != nil {
		t.Fatalf("nil file should be a no-op: %v", err)
	}
	if err := ApplyFile(nil, &File{}); err == nil {
		t.Fatal("expected error for nil registry")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitted.json")
	gain := 1.0
	f := &File{Presets: map[string]Entry{
		"fitted": {
			Partials:   []float64{1, 2},
			Amplitudes: []float64{1, 0.3},
			Gain:       &gain,
		},
	}}
	if err := WriteJSON(path, f); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	r, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	p, ok := r.Get("fitted")
	if !ok {
		t.Fatal("fitted preset missing after round trip")
	}
	if p.Partials.Amplitudes[1] != 0.3 {
		t.Fatalf("amplitudes lost: %v", p.Partials.Amplitudes)
	}
}

func floatPtr(v float64) *float64 { return &v }
