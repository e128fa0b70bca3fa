package sonify

import (
	"fmt"
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// synthesizeBank renders a dense frequency contour through a bank of
// phase-continuous sinusoidal oscillators, one per partial, and applies the
// per-sample gain envelope plus linear edge fades.
//
// Each partial keeps a running phase accumulator seeded with its phase
// offset. The accumulator is never reset mid-buffer; integrating
// instantaneous frequency is what keeps the waveform click-free across the
// abrupt frequency steps produced by zero-order-hold stretching. Evaluating
// sin(2*pi*f*t) from absolute time instead would reintroduce a phase jump at
// every segment boundary.
func synthesizeBank(freqs []float64, gains []float64, partials PartialSet, sampleRate int, fadeDuration float64) ([]float64, error) {
	if len(freqs) != len(gains) {
		return nil, fmt.Errorf("%w: %d frequencies vs %d gains", ErrLengthMismatch, len(freqs), len(gains))
	}
	if err := partials.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, len(freqs))
	twoPiOverFs := 2 * math.Pi / float64(sampleRate)
	for p, ratio := range partials.Ratios {
		amp := partials.Amplitudes[p]
		phase := 0.0
		if partials.PhaseOffsets != nil {
			phase = partials.PhaseOffsets[p]
		}
		step := twoPiOverFs * ratio
		for n, f := range freqs {
			phase += step * f
			out[n] += math.Sin(phase) * amp
		}
	}

	// Gain envelope. Tiny envelope values can leave denormals in the sum.
	for n := range out {
		out[n] = dspcore.FlushDenormals(out[n] * gains[n])
	}

	applyEdgeFades(out, fadeDuration, sampleRate)
	return out, nil
}

// applyEdgeFades applies a linear fade-in over the first fadeDuration
// seconds and a matching fade-out over the last, clamped so the two ramps
// never overlap.
func applyEdgeFades(buf []float64, fadeDuration float64, sampleRate int) {
	if fadeDuration <= 0 || len(buf) == 0 {
		return
	}
	fadeLen := int(math.Round(fadeDuration * float64(sampleRate)))
	if 2*fadeLen > len(buf) {
		fadeLen = len(buf) / 2
	}
	for i := 0; i < fadeLen; i++ {
		g := float64(i) / float64(fadeLen)
		buf[i] *= g
		buf[len(buf)-1-i] *= g
	}
}
