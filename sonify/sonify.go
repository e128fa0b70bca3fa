// Package sonify converts sparse fundamental-frequency trajectories into
// audible waveforms by driving a bank of phase-continuous sinusoidal
// oscillators. A trajectory of (time, frequency, gain) breakpoints is
// stretched to a dense per-sample contour with zero-order hold, rendered
// through per-partial phase accumulators and peak-normalized. Multiple
// voices, each with its own preset-driven overtone structure, can be summed
// into one buffer.
//
// All synthesis is single-threaded batch computation over caller-owned
// inputs; every call either returns a freshly allocated buffer or fails
// before touching one.
package sonify

import "fmt"

// Options controls a synthesis call.
type Options struct {
	// SampleRate is the output sample rate in Hz.
	SampleRate int
	// FadeDuration is the linear fade-in/out length in seconds, clamped to
	// half the buffer when the buffer is shorter than two fades.
	FadeDuration float64
	// DurationSamples fixes the output length. 0 means the natural length
	// ceil(lastBreakpointTime * SampleRate). A shorter value truncates the
	// trajectory, a longer one pads with silence.
	DurationSamples int
	// Normalize rescales the output to a peak of 1 when set.
	Normalize bool
}

// DefaultOptions returns the default synthesis options: 22050 Hz, 50 ms
// edge fades, natural duration, normalization on.
func DefaultOptions() Options {
	return Options{
		SampleRate:   22050,
		FadeDuration: 0.05,
		Normalize:    true,
	}
}

func (o *Options) Validate() error {
	if o.SampleRate < 1 {
		return fmt.Errorf("sample rate must be >= 1, got %d", o.SampleRate)
	}
	if o.FadeDuration < 0 {
		return fmt.Errorf("fade duration must be >= 0, got %g", o.FadeDuration)
	}
	if o.DurationSamples < 0 {
		return fmt.Errorf("duration samples must be >= 0, got %d", o.DurationSamples)
	}
	return nil
}

// SonifyF0 renders a trajectory with a single partial, the fundamental at
// amplitude 1.
func SonifyF0(traj Trajectory, opts Options) ([]float64, error) {
	return SonifyF0Partials(traj, DefaultPartialSet(), opts)
}

// SonifyF0Partials renders a trajectory with an explicit partial set.
func SonifyF0Partials(traj Trajectory, partials PartialSet, opts Options) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := partials.Validate(); err != nil {
		return nil, err
	}
	freqs, gains, err := stretchContour(traj, opts.DurationSamples, opts.SampleRate)
	if err != nil {
		return nil, err
	}
	out, err := synthesizeBank(freqs, gains, partials, opts.SampleRate, opts.FadeDuration)
	if err != nil {
		return nil, err
	}
	if opts.Normalize {
		out = Normalize(out)
	}
	return out, nil
}
