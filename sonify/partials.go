package sonify

import "fmt"

// PartialSet describes the overtone structure of a voice: per-partial
// frequency ratios relative to the fundamental, per-partial amplitudes and
// optional per-partial phase offsets in radians.
//
// Ratios need not be integers; inharmonic partials (bells) are allowed.
// PhaseOffsets may be nil, meaning all partials start at phase zero.
type PartialSet struct {
	Ratios       []float64
	Amplitudes   []float64
	PhaseOffsets []float64
}

// DefaultPartialSet returns a freshly allocated single-partial set: the
// fundamental at amplitude 1. Callers may modify the result without
// affecting later calls.
func DefaultPartialSet() PartialSet {
	return PartialSet{
		Ratios:     []float64{1},
		Amplitudes: []float64{1},
	}
}

// Validate checks that the set holds at least one partial and that the
// amplitude and phase-offset arrays are parallel to the ratio array.
func (p PartialSet) Validate() error {
	if len(p.Ratios) == 0 {
		return fmt.Errorf("%w: no partials", ErrLengthMismatch)
	}
	if len(p.Amplitudes) != len(p.Ratios) {
		return fmt.Errorf("%w: %d amplitudes vs %d partials", ErrLengthMismatch, len(p.Amplitudes), len(p.Ratios))
	}
	if p.PhaseOffsets != nil && len(p.PhaseOffsets) != len(p.Ratios) {
		return fmt.Errorf("%w: %d phase offsets vs %d partials", ErrLengthMismatch, len(p.PhaseOffsets), len(p.Ratios))
	}
	return nil
}

// Scaled returns a copy of the set with all amplitudes multiplied by gain.
func (p PartialSet) Scaled(gain float64) PartialSet {
	out := PartialSet{
		Ratios:     append([]float64(nil), p.Ratios...),
		Amplitudes: make([]float64, len(p.Amplitudes)),
	}
	for i, a := range p.Amplitudes {
		out.Amplitudes[i] = a * gain
	}
	if p.PhaseOffsets != nil {
		out.PhaseOffsets = append([]float64(nil), p.PhaseOffsets...)
	}
	return out
}
