package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/cwbudde/algo-sonify/charter"
	"github.com/cwbudde/algo-sonify/internal/rendercommon"
	"github.com/cwbudde/algo-sonify/preset"
	"github.com/cwbudde/algo-sonify/sonify"
)

func main() {
	input := flag.String("input", "", "Trajectory CSV path (rows: time,frequency[,gain])")
	voicesPath := flag.String("voices", "", "Voice set JSON path for multi-voice renders (overrides -input)")
	presetName := flag.String("preset", "sine", "Preset name for single-voice renders")
	presetPath := flag.String("presets", "", "Preset JSON file applied on top of the built-in registry (optional)")
	duration := flag.Float64("duration", 0, "Output duration in seconds (0 = natural trajectory length)")
	fade := flag.Float64("fade", 0.05, "Edge fade duration in seconds")
	sampleRate := flag.Int("sample-rate", 22050, "Synthesis sample rate in Hz")
	outputRate := flag.Int("output-rate", 0, "Output sample rate in Hz (0 = same as -sample-rate)")
	normalize := flag.Bool("normalize", true, "Normalize the summed output to peak 1")
	output := flag.String("output", "output.wav", "Output WAV file path")
	chartPath := flag.String("chart", "", "Waveform HTML chart output path (optional)")
	contourPath := flag.String("contour-chart", "", "Contour HTML chart output path, single-voice only (optional)")
	flag.Parse()

	registry := preset.NewDefaultRegistry()
	if *presetPath != "" {
		var err error
		registry, err = preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading presets %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
	}

	voices, err := collectVoices(*input, *voicesPath, *presetName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	opts := sonify.DefaultOptions()
	opts.SampleRate = *sampleRate
	opts.FadeDuration = *fade
	opts.Normalize = *normalize
	if *duration > 0 {
		opts.DurationSamples = durationSamples(*duration, *sampleRate)
	}

	fmt.Printf("Rendering %d voice(s) at %d Hz (fade %.3fs, normalize %v)...\n",
		len(voices), opts.SampleRate, opts.FadeDuration, opts.Normalize)

	out, err := sonify.SonifyF0WithPresets(voices, registry, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Synthesis error:", err)
		os.Exit(1)
	}

	rate := opts.SampleRate
	if *outputRate > 0 && *outputRate != rate {
		out, err = rendercommon.ResampleIfNeeded(out, rate, *outputRate)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Resample error:", err)
			os.Exit(1)
		}
		rate = *outputRate
	}

	if err := rendercommon.WriteMonoWAV(*output, out, rate); err != nil {
		fmt.Fprintln(os.Stderr, "Error writing WAV file:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s: %d samples (%.3fs), peak %.2f dBFS, rms %.2f dBFS\n",
		*output, len(out), float64(len(out))/float64(rate),
		rendercommon.DBFS(rendercommon.PeakAbs(out)), rendercommon.DBFS(rendercommon.RMS(out)))

	if *chartPath != "" {
		if err := charter.WriteWaveformChart(*chartPath, "sonified waveform", out, rate, 2000); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing waveform chart:", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *chartPath)
	}
	if *contourPath != "" {
		if len(voices) != 1 {
			fmt.Fprintln(os.Stderr, "-contour-chart requires a single voice")
			os.Exit(1)
		}
		for _, v := range voices {
			times := make([]float64, len(v.Trajectory))
			freqs := make([]float64, len(v.Trajectory))
			for i, bp := range v.Trajectory {
				times[i] = bp.Time
				freqs[i] = bp.Freq
			}
			if err := charter.WriteContourChart(*contourPath, "f0 contour", times, freqs); err != nil {
				fmt.Fprintln(os.Stderr, "Error writing contour chart:", err)
				os.Exit(1)
			}
		}
		fmt.Printf("Wrote %s\n", *contourPath)
	}
}

// voiceEntry is one voice in a -voices JSON file.
type voiceEntry struct {
	Trajectory string    `json:"trajectory"`
	Preset     string    `json:"preset"`
	Gain       *float64  `json:"gain,omitempty"`
	Gains      []float64 `json:"gains,omitempty"`
}

// durationSamples converts a duration in seconds to a sample count,
// rounding up so a requested duration is never shortened by a sample.
func durationSamples(seconds float64, sampleRate int) int {
	return int(math.Ceil(seconds * float64(sampleRate)))
}

func collectVoices(input string, voicesPath string, presetName string) (map[string]sonify.Voice, error) {
	if voicesPath != "" {
		return loadVoiceFile(voicesPath)
	}
	if input == "" {
		return nil, fmt.Errorf("either -input or -voices is required")
	}
	traj, err := readTrajectoryCSV(input)
	if err != nil {
		return nil, err
	}
	return map[string]sonify.Voice{
		"main": {Trajectory: traj, Preset: presetName},
	}, nil
}

func loadVoiceFile(path string) (map[string]sonify.Voice, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string]voiceEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	voices := make(map[string]sonify.Voice, len(entries))
	for label, e := range entries {
		if e.Trajectory == "" {
			return nil, fmt.Errorf("voice %q: trajectory path is required", label)
		}
		if e.Preset == "" {
			return nil, fmt.Errorf("voice %q: preset name is required", label)
		}
		if e.Gain != nil && e.Gains != nil {
			return nil, fmt.Errorf("voice %q: gain and gains are mutually exclusive", label)
		}
		traj, err := readTrajectoryCSV(e.Trajectory)
		if err != nil {
			return nil, fmt.Errorf("voice %q: %w", label, err)
		}
		v := sonify.Voice{Trajectory: traj, Preset: e.Preset}
		if e.Gain != nil {
			v.Gain = sonify.ScalarGain(*e.Gain)
		} else if e.Gains != nil {
			v.Gain = sonify.BreakpointGain(e.Gains)
		}
		voices[label] = v
	}
	return voices, nil
}

// readTrajectoryCSV parses "time,frequency[,gain]" rows. A header row is
// skipped when the first field does not parse as a number.
func readTrajectoryCSV(path string) (sonify.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var times, freqs, gains []float64
	hasGains := false
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row++
		if len(rec) < 2 {
			return nil, fmt.Errorf("%s row %d: expected time,frequency[,gain]", path, row)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if row == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%s row %d: bad time %q", path, row, rec[0])
		}
		fr, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad frequency %q", path, row, rec[1])
		}
		g := 1.0
		if len(rec) >= 3 && rec[2] != "" {
			g, err = strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: bad gain %q", path, row, rec[2])
			}
			hasGains = true
		}
		times = append(times, t)
		freqs = append(freqs, fr)
		gains = append(gains, g)
	}
	if hasGains {
		return sonify.NewTrajectoryWithGains(times, freqs, gains)
	}
	return sonify.NewTrajectory(times, freqs)
}
