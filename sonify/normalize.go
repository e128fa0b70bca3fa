package sonify

import "math"

// Normalize rescales a waveform so its peak absolute value is 1 and returns
// the result as a fresh buffer. An all-zero input is returned as an
// unchanged copy; there is nothing to scale and dividing by the zero peak
// would poison the buffer with NaNs.
func Normalize(buf []float64) []float64 {
	out := make([]float64, len(buf))
	peak := maxAbs(buf)
	if peak == 0 {
		copy(out, buf)
		return out
	}
	inv := 1.0 / peak
	for i, v := range buf {
		out[i] = v * inv
	}
	return out
}

func maxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		a := math.Abs(v)
		if a > m {
			m = a
		}
	}
	return m
}
