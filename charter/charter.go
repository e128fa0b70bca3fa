// Package charter renders f0 contours and waveforms as standalone HTML
// line charts for quick visual inspection of a sonification.
package charter

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// WriteContourChart plots breakpoint frequencies over time.
func WriteContourChart(path string, title string, times []float64, freqs []float64) error {
	if len(times) != len(freqs) {
		return fmt.Errorf("charter: %d times vs %d frequencies", len(times), len(freqs))
	}
	items := make([]opts.LineData, len(freqs))
	xLabels := make([]string, len(times))
	for i := range freqs {
		items[i] = opts.LineData{Value: freqs[i]}
		xLabels[i] = fmt.Sprintf("%.3f", times[i])
	}
	return writeLine(path, title, "time (s) / frequency (Hz)", xLabels, items, false)
}

// WriteWaveformChart plots a waveform, downsampled to at most maxPoints
// peak-preserving points so long renders stay viewable.
func WriteWaveformChart(path string, title string, data []float64, sampleRate int, maxPoints int) error {
	if maxPoints < 2 {
		maxPoints = 2
	}
	step := len(data) / maxPoints
	if step < 1 {
		step = 1
	}
	n := (len(data) + step - 1) / step
	items := make([]opts.LineData, 0, n)
	xLabels := make([]string, 0, n)
	for start := 0; start < len(data); start += step {
		end := start + step
		if end > len(data) {
			end = len(data)
		}
		// Keep the extreme of each bucket so transients survive decimation.
		v := data[start]
		for _, s := range data[start:end] {
			if abs(s) > abs(v) {
				v = s
			}
		}
		items = append(items, opts.LineData{Value: v})
		xLabels = append(xLabels, fmt.Sprintf("%.3f", float64(start)/float64(sampleRate)))
	}
	return writeLine(path, title, "time (s) / amplitude", xLabels, items, false)
}

func writeLine(path string, title string, subtitle string, xLabels []string, items []opts.LineData, smooth bool) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	)
	line.SetXAxis(xLabels).
		AddSeries("Data", items).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: smooth}))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
