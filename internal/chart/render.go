package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptySeries is returned when there is nothing to draw.
var ErrEmptySeries = errors.New("series has no values")

var barColor = drawing.ColorFromHex(BarColor[1:])

// RenderPNG draws s as a bar chart with the y axis starting at zero.
func RenderPNG(w io.Writer, s Series, width, height int) error {
	if s.Empty() {
		return ErrEmptySeries
	}

	maxY := 0.0
	bars := make([]gochart.Value, len(s.Values))
	for i, v := range s.Values {
		if v > maxY {
			maxY = v
		}
		label := ""
		if i < len(s.Labels) {
			label = s.Labels[i]
		}
		bars[i] = gochart.Value{
			Label: label,
			Value: v,
			Style: gochart.Style{
				FillColor:   barColor,
				StrokeColor: barColor,
				StrokeWidth: 1,
			},
		}
	}
	if maxY <= 0 {
		maxY = 1
	}

	barWidth := (width - 80) / (2 * len(bars))
	if barWidth < 2 {
		barWidth = 2
	}

	bc := gochart.BarChart{
		Title:      s.Label,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: maxY * 1.05},
		},
		Bars: bars,
	}

	// Render into a buffer so a failed render never leaves a partial image
	// on w.
	var buf bytes.Buffer
	if err := bc.Render(gochart.PNG, &buf); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
