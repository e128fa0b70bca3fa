package sonify

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-approx"
)

// Breakpoint is one sample point of a pitch trajectory: a time position in
// seconds, a fundamental frequency in Hz and a gain, conventionally in
// [0,1].
type Breakpoint struct {
	Time float64
	Freq float64
	Gain float64
}

// Trajectory is an ordered sequence of breakpoints with strictly increasing
// time positions. It is read-only to the synthesis engine; all synthesis
// calls leave it untouched.
type Trajectory []Breakpoint

// NewTrajectory builds a trajectory from parallel time and frequency arrays.
// All gains are set to 1.
func NewTrajectory(times []float64, freqs []float64) (Trajectory, error) {
	if len(times) != len(freqs) {
		return nil, fmt.Errorf("%w: %d times vs %d frequencies", ErrLengthMismatch, len(times), len(freqs))
	}
	t := make(Trajectory, len(times))
	for i := range times {
		t[i] = Breakpoint{Time: times[i], Freq: freqs[i], Gain: 1}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTrajectoryWithGains builds a trajectory from parallel time, frequency
// and gain arrays. The gain array must match the breakpoint count.
func NewTrajectoryWithGains(times []float64, freqs []float64, gains []float64) (Trajectory, error) {
	if len(gains) != len(times) {
		return nil, fmt.Errorf("%w: %d gains vs %d breakpoints", ErrLengthMismatch, len(gains), len(times))
	}
	t, err := NewTrajectory(times, freqs)
	if err != nil {
		return nil, err
	}
	for i := range t {
		t[i].Gain = gains[i]
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the trajectory invariants: at least one breakpoint,
// strictly increasing non-negative times, non-negative frequencies and
// non-negative gains.
func (t Trajectory) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no breakpoints", ErrInvalidTrajectory)
	}
	prev := math.Inf(-1)
	for i, bp := range t {
		if bp.Time < 0 {
			return fmt.Errorf("%w: negative time %g at breakpoint %d", ErrInvalidTrajectory, bp.Time, i)
		}
		if bp.Time <= prev {
			return fmt.Errorf("%w: time %g at breakpoint %d not strictly increasing", ErrInvalidTrajectory, bp.Time, i)
		}
		if bp.Freq < 0 {
			return fmt.Errorf("%w: negative frequency %g at breakpoint %d", ErrInvalidTrajectory, bp.Freq, i)
		}
		if bp.Gain < 0 {
			return fmt.Errorf("%w: negative gain %g at breakpoint %d", ErrInvalidTrajectory, bp.Gain, i)
		}
		prev = bp.Time
	}
	return nil
}

// Duration returns the time of the last breakpoint in seconds.
func (t Trajectory) Duration() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].Time
}

// NumSamples returns the natural output length for the given sample rate.
func (t Trajectory) NumSamples(sampleRate int) int {
	return int(math.Ceil(t.Duration() * float64(sampleRate)))
}

// MIDINoteToFreq converts a MIDI note number to frequency in Hz.
func MIDINoteToFreq(note int) float64 {
	const a4Freq = 440.0
	const a4Note = 69
	exponent := float32(note-a4Note) / 12.0
	return a4Freq * float64(pow2Approx(exponent))
}

// CentsToRatio converts a detune in cents to a frequency ratio.
func CentsToRatio(cents float64) float64 {
	return float64(pow2Approx(float32(cents) / 1200.0))
}

func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

// FromMIDINotes builds a step trajectory from a MIDI note sequence, holding
// each note for step seconds. Intended for demos and tests.
func FromMIDINotes(notes []int, step float64) (Trajectory, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: non-positive note step %g", ErrInvalidTrajectory, step)
	}
	t := make(Trajectory, 0, len(notes)+1)
	for i, n := range notes {
		t = append(t, Breakpoint{Time: float64(i) * step, Freq: MIDINoteToFreq(n), Gain: 1})
	}
	if len(notes) > 0 {
		t = append(t, Breakpoint{Time: float64(len(notes)) * step, Freq: 0, Gain: 0})
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
