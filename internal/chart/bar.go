// Package chart renders stat windows as PNG bar charts for the embed pages.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var barColor = drawing.Color{R: 141, G: 99, B: 255, A: 153}

// RenderBarChart draws one bar per value with the matching label underneath
// and returns the encoded PNG. Values and labels are expected oldest first so
// the most recent match lands on the right edge.
func RenderBarChart(values []int, labels []string, title string) ([]byte, error) {
	if len(values) == 0 || len(values) != len(labels) {
		return nil, fmt.Errorf("chart: %d values against %d labels", len(values), len(labels))
	}

	maxVal := 0
	bars := make([]chart.Value, 0, len(values))
	for i, v := range values {
		if v > maxVal {
			maxVal = v
		}
		bars = append(bars, chart.Value{
			Value: float64(v),
			Label: labels[i],
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	bc := chart.BarChart{
		Title:    title,
		Width:    600,
		Height:   400,
		BarWidth: 48,
		YAxis: chart.YAxis{
			// A fixed floor keeps an all-zero window renderable.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxVal + 1)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", title, err)
	}
	return buf.Bytes(), nil
}
