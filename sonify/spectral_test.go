package sonify

import (
	"math"
	"math/cmplx"
	"testing"

	algofft "github.com/cwbudde/algo-fft"
)

// magnitudeSpectrum returns the Hann-windowed magnitude spectrum of the
// first fftSize samples of x.
func magnitudeSpectrum(t *testing.T, x []float64, fftSize int) []float64 {
	t.Helper()
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		t.Fatalf("fft plan: %v", err)
	}
	buf := make([]float64, fftSize)
	for i := 0; i < fftSize && i < len(x); i++ {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		buf[i] = x[i] * w
	}
	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)
	mags := make([]float64, fftSize/2)
	for k := 1; k < len(mags); k++ {
		mags[k] = cmplx.Abs(spec[k])
	}
	return mags
}

func peakBin(mags []float64) int {
	best := 0
	for k := range mags {
		if mags[k] > mags[best] {
			best = k
		}
	}
	return best
}

func TestSpectralPeakAtFundamental(t *testing.T) {
	const fs = 22050
	const f0 = 440.0
	const fftSize = 8192

	traj := mustTrajectory(t, []float64{0, 1}, []float64{f0, f0})
	out, err := SonifyF0(traj, Options{SampleRate: fs, Normalize: true})
	if err != nil {
		t.Fatalf("SonifyF0: %v", err)
	}

	mags := magnitudeSpectrum(t, out, fftSize)
	binHz := float64(fs) / float64(fftSize)
	got := float64(peakBin(mags)) * binHz
	if math.Abs(got-f0) > binHz {
		t.Fatalf("spectral peak at %.1f Hz, want %.1f Hz (+/- %.2f)", got, f0, binHz)
	}
}

func TestSpectralPartialAmplitudeRatio(t *testing.T) {
	const fs = 22050
	const f0 = 440.0
	const fftSize = 8192

	traj := mustTrajectory(t, []float64{0, 1}, []float64{f0, f0})
	out, err := SonifyF0Partials(traj, PartialSet{
		Ratios:     []float64{1, 2},
		Amplitudes: []float64{1, 0.5},
	}, Options{SampleRate: fs, Normalize: false})
	if err != nil {
		t.Fatalf("SonifyF0Partials: %v", err)
	}

	mags := magnitudeSpectrum(t, out, fftSize)
	binHz := float64(fs) / float64(fftSize)
	fundamental := lobeSum(mags, f0/binHz)
	overtone := lobeSum(mags, 2*f0/binHz)
	if fundamental <= 0 {
		t.Fatal("no energy at fundamental")
	}
	ratio := overtone / fundamental
	if math.Abs(ratio-0.5) > 0.05 {
		t.Fatalf("overtone/fundamental ratio %.3f, want 0.5 +/- 0.05", ratio)
	}
}

// lobeSum sums the magnitudes across the window main lobe around a
// fractional bin position. The sum is insensitive to where the frequency
// falls between bins, unlike the single peak bin.
func lobeSum(mags []float64, bin float64) float64 {
	k := int(math.Round(bin))
	sum := 0.0
	for i := k - 2; i <= k+2; i++ {
		if i >= 0 && i < len(mags) {
			sum += mags[i]
		}
	}
	return sum
}
