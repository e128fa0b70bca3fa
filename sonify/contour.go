package sonify

import "math"

// stretchContour expands a sparse trajectory into dense per-sample frequency
// and gain arrays using zero-order hold: each segment [t_i, t_{i+1}) keeps
// the frequency and gain of its left breakpoint. Frequency is intentionally
// not interpolated; audible continuity is governed by phase integration in
// the oscillator bank, not by smoothing the contour.
//
// targetSamples selects an explicit output length; 0 means the natural
// length ceil(lastTime*fs). A shorter target truncates the trajectory at the
// target time, a longer one pads with silence.
func stretchContour(traj Trajectory, targetSamples int, sampleRate int) ([]float64, []float64, error) {
	if err := traj.Validate(); err != nil {
		return nil, nil, err
	}

	fs := float64(sampleRate)
	numSamples := traj.NumSamples(sampleRate)

	pts := append(Trajectory(nil), traj...)
	if targetSamples > 0 && targetSamples != numSamples {
		targetTime := float64(targetSamples) / fs
		if targetSamples < numSamples {
			// Truncate: drop breakpoints at/after the target time, then
			// close the last surviving segment with a synthetic breakpoint
			// holding the preceding frequency.
			kept := pts[:0]
			for _, bp := range pts {
				if bp.Time < targetTime {
					kept = append(kept, bp)
				}
			}
			last := Breakpoint{Time: targetTime}
			if n := len(kept); n > 0 {
				last.Freq = kept[n-1].Freq
				last.Gain = kept[n-1].Gain
			}
			pts = append(kept, last)
		}
		// A longer target needs no extra breakpoint: segments are filled
		// from their left breakpoint and the final breakpoint's span is
		// silence, so extending the buffer renders the padded span as
		// silence unconditionally.
		numSamples = targetSamples
	}

	freqs := make([]float64, numSamples)
	gains := make([]float64, numSamples)
	for i := 0; i+1 < len(pts); i++ {
		start := clampIndex(int(pts[i].Time*fs), numSamples)
		end := clampIndex(int(pts[i+1].Time*fs), numSamples)
		for n := start; n < end; n++ {
			freqs[n] = pts[i].Freq
			gains[n] = pts[i].Gain
		}
	}
	// The final breakpoint's own span stays silent (freq 0, gain 0); the
	// buffers are already zeroed.
	return freqs, gains, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// ceilSamples converts a duration in seconds to a sample count, rounding up.
func ceilSamples(seconds float64, sampleRate int) int {
	return int(math.Ceil(seconds * float64(sampleRate)))
}
