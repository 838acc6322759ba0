package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientHistory is returned when fewer qualifying matches were found
// than the metric's window requires.
var ErrInsufficientHistory = errors.New("insufficient qualifying match history")

// Line is the over/under threshold derived from one window of samples.
type Line struct {
	Value  float64
	Metric Metric
	Window []StatSample
}

// ComputeLine derives the betting line from a full window of samples,
// oldest first. The rounding is deliberately asymmetric: when the mean
// lands on an exact integer the line shifts a whole point toward the
// side that favors the bettor, and fractional means snap to the nearer
// favorable half-point. Ties against the line stay possible only through
// the integer-mean branch.
func ComputeLine(samples []StatSample, metric Metric) (Line, error) {
	w := metric.Window()
	if len(samples) != w {
		return Line{}, fmt.Errorf("%w: got %d of %d", ErrInsufficientHistory, len(samples), w)
	}

	sum := 0
	for _, s := range samples {
		sum += s.Value
	}

	line := Line{Metric: metric, Window: samples}

	// Exact integer mean: shift one full point toward the favorable side.
	if sum%w == 0 {
		avg := float64(sum / w)
		if metric.LowerIsBetter() {
			line.Value = avg + 1
		} else {
			line.Value = avg - 1
		}
		return line, nil
	}

	avg := float64(sum) / float64(w)
	rounded := math.Round(avg*100) / 100
	whole := math.Trunc(rounded)
	frac := rounded - whole

	if frac >= 0.5 {
		if metric.LowerIsBetter() {
			line.Value = whole + 1
		} else {
			line.Value = whole
		}
	} else {
		if metric.LowerIsBetter() {
			line.Value = whole + 0.5
		} else {
			line.Value = whole - 0.5
		}
	}
	return line, nil
}
