package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mrdg/wavegen/audio"
)

const (
	paramWaveform = iota
	paramFrequency
	paramVolume
	numParams
)

const (
	minChartPoints    = 50  // below this, periodic waveforms are interpolated
	interpolatePoints = 200 // number of points to interpolate to
	chartBound        = 1.2 // the chart's y axis spans [-chartBound, chartBound]
	gaugeWidth        = 20
)

// view is everything needed to draw one frame of the interactive display.
type view struct {
	params      audio.Parameters
	selected    int
	samples     []float64
	bandLimited bool
	smoothing   bool
	width       int
	height      int
}

// renderScreen draws v to w. Lines end in \r\n because the terminal is in raw
// mode while the display is active.
func renderScreen(w io.Writer, v view) {
	var lines []string
	title := "Waveform Generator - Press 'q' to quit"
	pad := (v.width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	lines = append(lines, strings.Repeat(" ", pad)+colorize(title, colorCyan), "")
	lines = append(lines, renderControls(v)...)
	lines = append(lines, "")

	// title, controls, gauge and help take up this many rows
	const reserved = 12
	chartHeight := v.height - reserved
	if chartHeight < 5 {
		chartHeight = 5
	}
	lines = append(lines, renderChart(v.params, v.samples, v.width, chartHeight)...)
	lines = append(lines, "", renderHelp())

	fmt.Fprint(w, "\033[H\033[2J")
	fmt.Fprint(w, strings.Join(lines, "\r\n"))
}

func renderControls(v view) []string {
	p := v.params
	rows := [numParams]string{
		paramWaveform:  fmt.Sprintf("Waveform:  %s", p.Waveform),
		paramFrequency: fmt.Sprintf("Frequency: %.1f Hz", p.Frequency),
		paramVolume:    fmt.Sprintf("Volume:    %.0f%%", p.Volume*100),
	}
	var lines []string
	for i, row := range rows {
		if i == v.selected {
			lines = append(lines, colorize("> "+row, colorYellow))
		} else {
			lines = append(lines, "  "+row)
		}
	}
	lines = append(lines, "  "+gauge(p.Volume, gaugeWidth))
	lines = append(lines, "  "+colorize(fmt.Sprintf("band-limited: %s  smoothing: %s",
		onOff(v.bandLimited), onOff(v.smoothing)), colorBlue))
	return lines
}

func gauge(v float64, width int) string {
	n := int(math.Round(v * float64(width)))
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	bar := strings.Repeat("#", n) + strings.Repeat("-", width-n)
	return colorize("["+bar+"]", colorGreen)
}

// renderChart plots samples into a grid of width by height characters,
// including a header line and the y axis labels.
func renderChart(p audio.Parameters, samples []float64, width, height int) []string {
	span := ""
	if p.Frequency > 0 && p.Waveform != audio.Noise {
		span = fmt.Sprintf(" [%.1fms]", 3000/p.Frequency)
	}
	header := fmt.Sprintf("Waveform (%s @ %.0fHz)%s", p.Waveform, p.Frequency, span)
	lines := []string{colorize(header, colorMagenta)}

	if len(samples) < 2 {
		return append(lines, "Waiting for waveform data...")
	}
	if len(samples) < minChartPoints && p.Waveform != audio.Noise {
		samples = interpolate(samples, interpolatePoints)
	}

	const margin = 3 // room for the y axis labels
	cols := width - margin
	if cols < 2 {
		cols = 2
	}
	rows := height - 1
	if rows < 3 {
		rows = 3
	}

	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", cols))
	}
	for x := 0; x < cols; x++ {
		i := x * (len(samples) - 1) / (cols - 1)
		grid[chartRow(samples[i], rows)][x] = '*'
	}

	labels := map[int]string{
		chartRow(1, rows):  " 1 ",
		chartRow(0, rows):  " 0 ",
		chartRow(-1, rows): "-1 ",
	}
	for r, row := range grid {
		label, ok := labels[r]
		if !ok {
			label = strings.Repeat(" ", margin)
		}
		lines = append(lines, label+colorize(string(row), colorCyan))
	}
	return lines
}

func chartRow(v float64, rows int) int {
	if v > chartBound {
		v = chartBound
	}
	if v < -chartBound {
		v = -chartBound
	}
	return int(math.Round((chartBound - v) / (2 * chartBound) * float64(rows-1)))
}

// interpolate resamples samples to n points using linear interpolation.
func interpolate(samples []float64, n int) []float64 {
	if len(samples) == 0 || n < 2 {
		return samples
	}
	out := make([]float64, n)
	step := float64(len(samples)-1) / float64(n-1)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)
		if idx+1 < len(samples) {
			out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
		} else {
			out[i] = samples[idx]
		}
	}
	return out
}

func renderHelp() string {
	return "Navigate: " + colorize("↑↓", colorGreen) +
		" | Adjust: " + colorize("←→", colorGreen) +
		" | Waveforms: " + colorize("1-5", colorGreen) +
		" | Band-limit: " + colorize("b", colorGreen) +
		" | Smoothing: " + colorize("s", colorGreen) +
		" | Quit: " + colorize("q/ESC", colorRed) +
		"\r\n1: Sine, 2: Sawtooth, 3: Triangle, 4: Square, 5: Noise"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
