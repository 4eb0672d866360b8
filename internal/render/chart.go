// Package render draws a race frame as a static PNG bar chart.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/JonMunkholm/racechart/internal/core"
)

// ChartOptions sizes the rendered image. Zero values fall back to 800x480.
type ChartOptions struct {
	Width  int
	Height int
}

const (
	defaultWidth  = 800
	defaultHeight = 480
	barSpacing    = 12
	maxBarWidth   = 60
)

// FramePNG renders f as a vertical bar chart, bars in rank order and
// coloured by their palette slot. The value axis runs to the dataset-wide
// maximum so bar heights compare across steps, and extends below 0 when
// the frame holds negative values.
func FramePNG(w io.Writer, f core.Frame, opts ChartOptions) error {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	bars := make([]chart.Value, 0, len(f.Rows))
	for _, r := range f.Rows {
		col := drawing.ColorFromHex(strings.TrimPrefix(r.Color, "#"))
		bars = append(bars, chart.Value{
			Value: r.Value,
			Label: r.Label,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}
	if len(bars) == 0 {
		// go-chart refuses to draw zero bars.
		bars = append(bars, chart.Value{Value: 0, Label: "no data"})
	}

	lo, hi := valueRange(f)

	bc := chart.BarChart{
		Title:      chartTitle(f),
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth(opts.Width, len(bars)),
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// valueRange returns the value axis bounds for f. The axis always includes
// 0; it is never empty.
func valueRange(f core.Frame) (lo, hi float64) {
	hi = max(f.MaxValue, 0)
	for _, r := range f.Rows {
		lo = min(lo, r.Value)
		hi = max(hi, r.Value)
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func chartTitle(f core.Frame) string {
	if f.StepLabel == "" {
		return f.Metric
	}
	return fmt.Sprintf("%s - %s", f.Metric, f.StepLabel)
}

// barWidth fits n bars into the plot area, capped at maxBarWidth.
func barWidth(width, n int) int {
	avail := width - 120
	bw := avail/n - barSpacing
	if bw > maxBarWidth {
		bw = maxBarWidth
	}
	if bw < 4 {
		bw = 4
	}
	return bw
}
