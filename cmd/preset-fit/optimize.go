package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/algo-sonify/sonify"
)

const fitFFTSize = 4096

// spectrumMeasurer computes averaged Hann-windowed magnitude spectra and
// harmonic amplitude profiles from them.
type spectrumMeasurer struct {
	plan *algofft.PlanRealT[float64, complex128]
	hann []float64
	buf  []float64
	spec []complex128
}

func newSpectrumMeasurer() (*spectrumMeasurer, error) {
	plan, err := algofft.NewPlanReal64(fitFFTSize)
	if err != nil {
		return nil, err
	}
	hann := make([]float64, fitFFTSize)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fitFFTSize-1))
	}
	return &spectrumMeasurer{
		plan: plan,
		hann: hann,
		buf:  make([]float64, fitFFTSize),
		spec: make([]complex128, fitFFTSize/2+1),
	}, nil
}

// averageSpectrum returns the mean magnitude spectrum of x over half-
// overlapping frames. Signals shorter than one frame are zero-padded.
func (m *spectrumMeasurer) averageSpectrum(x []float64) []float64 {
	nBins := fitFFTSize / 2
	avg := make([]float64, nBins)
	hop := fitFFTSize / 2
	nFrames := 0
	for pos := 0; pos+fitFFTSize <= len(x); pos += hop {
		for i := 0; i < fitFFTSize; i++ {
			m.buf[i] = x[pos+i] * m.hann[i]
		}
		m.plan.Forward(m.spec, m.buf)
		for k := 1; k < nBins; k++ {
			avg[k] += cmplx.Abs(m.spec[k])
		}
		nFrames++
	}
	if nFrames == 0 {
		for i := range m.buf {
			m.buf[i] = 0
		}
		for i := 0; i < len(x) && i < fitFFTSize; i++ {
			m.buf[i] = x[i] * m.hann[i]
		}
		m.plan.Forward(m.spec, m.buf)
		for k := 1; k < nBins; k++ {
			avg[k] = cmplx.Abs(m.spec[k])
		}
		nFrames = 1
	}
	scale := 1.0 / float64(nFrames)
	for k := range avg {
		avg[k] *= scale
	}
	return avg
}

// estimateF0 returns the frequency of the strongest spectral bin above
// minHz.
func (m *spectrumMeasurer) estimateF0(x []float64, sampleRate int, minHz float64) float64 {
	avg := m.averageSpectrum(x)
	binHz := float64(sampleRate) / float64(fitFFTSize)
	loK := int(minHz / binHz)
	if loK < 1 {
		loK = 1
	}
	bestK := loK
	bestMag := 0.0
	for k := loK; k < len(avg); k++ {
		if avg[k] > bestMag {
			bestMag = avg[k]
			bestK = k
		}
	}
	return float64(bestK) * binHz
}

// harmonicProfile measures the magnitudes at the first count multiples of
// f0, normalized so the strongest harmonic is 1.
func (m *spectrumMeasurer) harmonicProfile(x []float64, sampleRate int, f0 float64, count int) ([]float64, error) {
	avg := m.averageSpectrum(x)
	binHz := float64(sampleRate) / float64(fitFFTSize)
	profile := make([]float64, count)
	for h := 1; h <= count; h++ {
		k := int(math.Round(float64(h) * f0 / binHz))
		if k < 1 || k >= len(avg) {
			continue // harmonic above Nyquist contributes nothing
		}
		// Take the strongest of the neighboring bins; windowing smears the
		// harmonic across a few bins.
		mag := avg[k]
		if k > 1 && avg[k-1] > mag {
			mag = avg[k-1]
		}
		if k+1 < len(avg) && avg[k+1] > mag {
			mag = avg[k+1]
		}
		profile[h-1] = mag
	}
	peak := 0.0
	for _, v := range profile {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return nil, fmt.Errorf("no harmonic energy at f0 %.1f Hz", f0)
	}
	for i := range profile {
		profile[i] /= peak
	}
	return profile, nil
}

type fitConfig struct {
	target     []float64
	f0         float64
	sampleRate int
	variant    string
	pop        int
	maxEvals   int
	seed       int64
	onEval     func(score float64)
}

type fitResult struct {
	amplitudes []float64
	score      float64
	evals      int
}

// runFit searches partial amplitude vectors that reproduce the target
// harmonic profile when synthesized and measured the same way.
func runFit(cfg *fitConfig) (*fitResult, error) {
	m, err := newSpectrumMeasurer()
	if err != nil {
		return nil, err
	}

	dims := len(cfg.target)
	ratios := make([]float64, dims)
	for i := range ratios {
		ratios[i] = float64(i + 1)
	}
	toneOpts := sonify.Options{
		SampleRate:   cfg.sampleRate,
		FadeDuration: 0.01,
		Normalize:    true,
	}
	toneTraj, err := sonify.NewTrajectory(
		[]float64{0, 0.5},
		[]float64{cfg.f0, cfg.f0},
	)
	if err != nil {
		return nil, err
	}

	best := &fitResult{score: math.Inf(1)}
	evaluate := func(pos []float64) float64 {
		partials := sonify.PartialSet{Ratios: ratios, Amplitudes: pos}
		tone, err := sonify.SonifyF0Partials(toneTraj, partials, toneOpts)
		if err != nil {
			return math.Inf(1)
		}
		profile, err := m.harmonicProfile(tone, cfg.sampleRate, cfg.f0, dims)
		if err != nil {
			return math.Inf(1)
		}
		score := 0.0
		for i := range profile {
			d := profile[i] - cfg.target[i]
			score += d * d
		}
		best.evals++
		if score < best.score {
			best.score = score
			best.amplitudes = append([]float64(nil), pos...)
		}
		if cfg.onEval != nil {
			cfg.onEval(best.score)
		}
		return score
	}

	iters := cfg.maxEvals / (2 * cfg.pop)
	if iters < 1 {
		iters = 1
	}
	mayflyConfig, err := newMayflyConfig(cfg.variant, cfg.pop, dims, iters)
	if err != nil {
		return nil, err
	}
	mayflyConfig.Rand = rand.New(rand.NewSource(cfg.seed))
	mayflyConfig.ObjectiveFunc = evaluate
	if _, err := runMayfly(mayflyConfig); err != nil {
		return nil, err
	}
	if best.amplitudes == nil {
		return nil, fmt.Errorf("no successful evaluation")
	}
	return best, nil
}

func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
