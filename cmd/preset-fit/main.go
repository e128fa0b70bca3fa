package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/cwbudde/algo-sonify/internal/rendercommon"
	"github.com/cwbudde/algo-sonify/preset"
	"github.com/cwbudde/algo-sonify/sonify"
)

func main() {
	reference := flag.String("reference", "", "Reference WAV file with a sustained tone")
	f0 := flag.Float64("f0", 0, "Fundamental frequency of the reference tone in Hz (0 = detect from spectrum)")
	partialCount := flag.Int("partials", 8, "Number of harmonic partials to fit")
	name := flag.String("name", "fitted", "Name of the fitted preset")
	output := flag.String("output", "fitted.json", "Output preset JSON path")
	preview := flag.String("preview", "", "Optional WAV path for a one-second preview of the fitted preset")
	variant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	pop := flag.Int("mayfly-pop", 10, "Male and female population size")
	maxEvals := flag.Int("max-evals", 400, "Objective evaluation budget")
	seed := flag.Int64("seed", 1, "Optimizer RNG seed")
	quiet := flag.Bool("quiet", false, "Suppress the progress bar")
	flag.Parse()

	if *reference == "" {
		fmt.Fprintln(os.Stderr, "-reference is required")
		os.Exit(1)
	}
	if *partialCount < 1 {
		fmt.Fprintln(os.Stderr, "-partials must be >= 1")
		os.Exit(1)
	}
	if *pop < 2 {
		*pop = 2
	}

	ref, sampleRate, err := rendercommon.ReadWAVMono(*reference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading reference %q: %v\n", *reference, err)
		os.Exit(1)
	}

	measurer, err := newSpectrumMeasurer()
	if err != nil {
		fmt.Fprintln(os.Stderr, "FFT plan error:", err)
		os.Exit(1)
	}
	fundamental := *f0
	if fundamental <= 0 {
		fundamental = measurer.estimateF0(ref, sampleRate, 30)
		fmt.Printf("Detected f0: %.1f Hz\n", fundamental)
	}
	target, err := measurer.harmonicProfile(ref, sampleRate, fundamental, *partialCount)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Reference analysis error:", err)
		os.Exit(1)
	}

	fmt.Printf("Fitting %d partial amplitudes at %.1f Hz (%s, pop %d, %d evals)...\n",
		*partialCount, fundamental, *variant, *pop, *maxEvals)

	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.NewOptions(
			*maxEvals,
			progressbar.OptionSetDescription("fitting..."),
			progressbar.OptionFullWidth(),
		)
	}

	result, err := runFit(&fitConfig{
		target:     target,
		f0:         fundamental,
		sampleRate: sampleRate,
		variant:    *variant,
		pop:        *pop,
		maxEvals:   *maxEvals,
		seed:       *seed,
		onEval: func(bestScore float64) {
			if bar != nil {
				bar.Add(1)
			}
		},
	})
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fit error:", err)
		os.Exit(1)
	}
	fmt.Printf("Best score %.6g after %d evaluations\n", result.score, result.evals)

	ratios := make([]float64, *partialCount)
	for i := range ratios {
		ratios[i] = float64(i + 1)
	}
	gain := 1.0
	file := &preset.File{
		Presets: map[string]preset.Entry{
			*name: {
				Partials:   ratios,
				Amplitudes: result.amplitudes,
				Gain:       &gain,
			},
		},
	}
	if err := preset.WriteJSON(*output, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *output)

	if *preview != "" {
		if err := writePreview(*preview, fundamental, ratios, result.amplitudes, sampleRate); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing preview %q: %v\n", *preview, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *preview)
	}
}

func writePreview(path string, f0 float64, ratios []float64, amplitudes []float64, sampleRate int) error {
	traj, err := sonify.NewTrajectory([]float64{0, 1}, []float64{f0, f0})
	if err != nil {
		return err
	}
	opts := sonify.DefaultOptions()
	opts.SampleRate = sampleRate
	tone, err := sonify.SonifyF0Partials(traj, sonify.PartialSet{Ratios: ratios, Amplitudes: amplitudes}, opts)
	if err != nil {
		return err
	}
	return rendercommon.WriteMonoWAV(path, tone, sampleRate)
}
