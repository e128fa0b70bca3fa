package sonify

import (
	"fmt"
	"sort"
)

// Gain is a tagged gain specification for one voice: either a scalar
// broadcast to every breakpoint or an explicit per-breakpoint array. The
// zero value means unity gain.
type Gain struct {
	scalar   float64
	per      []float64
	isScalar bool
}

// ScalarGain returns a gain applied uniformly to all breakpoints.
func ScalarGain(v float64) Gain {
	return Gain{scalar: v, isScalar: true}
}

// BreakpointGain returns a gain with one value per trajectory breakpoint.
func BreakpointGain(vs []float64) Gain {
	return Gain{per: append([]float64(nil), vs...)}
}

// resolve normalizes the gain specification into a per-breakpoint array of
// length n.
func (g Gain) resolve(n int) ([]float64, error) {
	if g.per != nil {
		if len(g.per) != n {
			return nil, fmt.Errorf("%w: %d gain values vs %d breakpoints", ErrLengthMismatch, len(g.per), n)
		}
		return append([]float64(nil), g.per...), nil
	}
	v := 1.0
	if g.isScalar {
		v = g.scalar
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out, nil
}

// Voice is one entry of a multi-voice mix: a trajectory, the name of the
// preset supplying its overtone structure and an optional gain.
type Voice struct {
	Trajectory Trajectory
	Preset     string
	Gain       Gain
}

// PresetSource resolves preset names to partial sets. The registry in the
// preset package implements it; tests may supply their own.
type PresetSource interface {
	Lookup(name string) (PartialSet, bool)
}

// SonifyF0WithPresets synthesizes every voice with the partial set named by
// its preset and sums the results into a single buffer of common length.
//
// The common length is opts.DurationSamples if set, otherwise the maximum
// natural length across all voices, so every voice can be summed without a
// length mismatch. Voices are synthesized un-normalized and may overlap in
// amplitude; normalization, if requested, happens once on the summed
// output. Voices are processed in sorted label order so the float summation
// order, and therefore the output, is deterministic.
func SonifyF0WithPresets(voices map[string]Voice, presets PresetSource, opts Options) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(voices) == 0 {
		return nil, fmt.Errorf("%w", ErrEmptyVoiceSet)
	}

	labels := make([]string, 0, len(voices))
	for label := range voices {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	// Resolve and validate every voice before any synthesis so that no
	// partial buffer is ever exposed on a contract violation.
	type resolvedVoice struct {
		traj     Trajectory
		partials PartialSet
	}
	resolved := make([]resolvedVoice, 0, len(voices))
	maxTime := 0.0
	for _, label := range labels {
		v := voices[label]
		if err := v.Trajectory.Validate(); err != nil {
			return nil, fmt.Errorf("voice %q: %w", label, err)
		}
		partials, ok := presets.Lookup(v.Preset)
		if !ok {
			return nil, fmt.Errorf("voice %q: %w: %q", label, ErrUnknownPreset, v.Preset)
		}
		if err := partials.Validate(); err != nil {
			return nil, fmt.Errorf("voice %q: preset %q: %w", label, v.Preset, err)
		}
		gains, err := v.Gain.resolve(len(v.Trajectory))
		if err != nil {
			return nil, fmt.Errorf("voice %q: %w", label, err)
		}
		traj := append(Trajectory(nil), v.Trajectory...)
		for i := range traj {
			traj[i].Gain *= gains[i]
		}
		resolved = append(resolved, resolvedVoice{traj: traj, partials: partials})
		if d := v.Trajectory.Duration(); d > maxTime {
			maxTime = d
		}
	}

	targetSamples := opts.DurationSamples
	if targetSamples == 0 {
		targetSamples = ceilSamples(maxTime, opts.SampleRate)
	}

	out := make([]float64, targetSamples)
	for _, rv := range resolved {
		freqs, gains, err := stretchContour(rv.traj, targetSamples, opts.SampleRate)
		if err != nil {
			return nil, err
		}
		voiceBuf, err := synthesizeBank(freqs, gains, rv.partials, opts.SampleRate, opts.FadeDuration)
		if err != nil {
			return nil, err
		}
		for n, s := range voiceBuf {
			out[n] += s
		}
	}

	if opts.Normalize {
		out = Normalize(out)
	}
	return out, nil
}
