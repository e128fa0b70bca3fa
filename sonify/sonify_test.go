package sonify

import (
	"math"
	"testing"
)

func TestSonifyF0EndToEnd(t *testing.T) {
	// trajectory [(0, 440), (1, 440)], fs 22050, single partial, no fade.
	traj := mustTrajectory(t, []float64{0, 1}, []float64{440, 440})
	opts := Options{SampleRate: 22050, Normalize: true}

	out, err := SonifyF0(traj, opts)
	if err != nil {
		t.Fatalf("SonifyF0: %v", err)
	}
	if len(out) != 22050 {
		t.Fatalf("got %d samples, want 22050", len(out))
	}
	step := 2 * math.Pi * 440 / 22050
	for n := range out {
		want := math.Sin(step * float64(n+1))
		if math.Abs(out[n]-want) > 1e-5 {
			t.Fatalf("sample %d: got %.9f, want %.9f", n, out[n], want)
		}
	}
}

func TestSonifyF0SilencePad(t *testing.T) {
	const fs = 1000
	traj := mustTrajectory(t, []float64{0, 0.5}, []float64{440, 440})
	opts := Options{SampleRate: fs, DurationSamples: 800, Normalize: false}

	out, err := SonifyF0(traj, opts)
	if err != nil {
		t.Fatalf("SonifyF0: %v", err)
	}
	if len(out) != 800 {
		t.Fatalf("got %d samples, want 800", len(out))
	}
	for n := 500; n < 800; n++ {
		if out[n] != 0 {
			t.Fatalf("padded sample %d: got %g, want 0", n, out[n])
		}
	}
	nonZero := false
	for n := 0; n < 500; n++ {
		if out[n] != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatal("voiced span is silent")
	}
}

func TestSonifyF0Truncation(t *testing.T) {
	traj := mustTrajectory(t, []float64{0, 1}, []float64{440, 440})
	opts := Options{SampleRate: 22050, DurationSamples: 4096, Normalize: true}

	out, err := SonifyF0(traj, opts)
	if err != nil {
		t.Fatalf("SonifyF0: %v", err)
	}
	if len(out) != 4096 {
		t.Fatalf("got %d samples, want 4096", len(out))
	}
}

func TestSonifyF0NormalizedPeak(t *testing.T) {
	traj := mustTrajectory(t, []float64{0, 0.5}, []float64{440, 440})
	opts := DefaultOptions()
	opts.SampleRate = 8000

	out, err := SonifyF0Partials(traj, PartialSet{
		Ratios:     []float64{1, 2, 3},
		Amplitudes: []float64{0.2, 0.1, 0.05},
	}, opts)
	if err != nil {
		t.Fatalf("SonifyF0Partials: %v", err)
	}
	if peak := maxAbs(out); math.Abs(peak-1) > 1e-12 {
		t.Fatalf("peak: got %.15f, want 1", peak)
	}
}

func TestSonifyF0ZeroFrequencyIsSilence(t *testing.T) {
	traj := mustTrajectory(t, []float64{0, 0.25}, []float64{0, 0})
	opts := Options{SampleRate: 8000, Normalize: true}

	out, err := SonifyF0(traj, opts)
	if err != nil {
		t.Fatalf("SonifyF0: %v", err)
	}
	// sin of a constant zero phase: silence, and normalization must leave
	// it untouched rather than divide by the zero peak.
	for n, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: got %g, want 0", n, v)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("default options: %v", err)
	}
	opts.SampleRate = 0
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	opts = DefaultOptions()
	opts.FadeDuration = -1
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for negative fade")
	}
	opts = DefaultOptions()
	opts.DurationSamples = -5
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestDefaultPartialSetFreshPerCall(t *testing.T) {
	a := DefaultPartialSet()
	a.Amplitudes[0] = 0.5
	b := DefaultPartialSet()
	if b.Amplitudes[0] != 1 {
		t.Fatalf("default partial set shared across calls: %v", b.Amplitudes)
	}
}
