package stats

import (
	"errors"
	"testing"
)

func samplesOf(values ...int) []StatSample {
	s := make([]StatSample, len(values))
	for i, v := range values {
		s[i] = StatSample{Value: v, Month: 1, Day: i + 1}
	}
	return s
}

func TestComputeLine_IntegerMeanShiftsTowardBettor(t *testing.T) {
	// Mean 3 exactly: higher-is-better shifts down a full point.
	line, err := ComputeLine(samplesOf(3, 3, 3, 3, 3), Kills)
	if err != nil {
		t.Fatalf("ComputeLine: %v", err)
	}
	if line.Value != 2 {
		t.Errorf("kills line = %v, want 2", line.Value)
	}

	// Lower-is-better shifts up instead.
	line, err = ComputeLine(samplesOf(4, 4, 4, 4, 4, 4, 4, 4, 4, 4), Placement)
	if err != nil {
		t.Fatalf("ComputeLine: %v", err)
	}
	if line.Value != 5 {
		t.Errorf("placement line = %v, want 5", line.Value)
	}
}

func TestComputeLine_Rounding(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		metric Metric
		want   float64
	}{
		// mean 3.8, frac >= .5 after truncation check: 3.8 -> trunc 3, frac .8 -> 3
		{"high fraction higher-is-better", []int{3, 4, 4, 4, 4}, Kills, 3},
		// mean 3.2 -> frac .2 -> 3 - 0.5
		{"low fraction higher-is-better", []int{3, 3, 3, 3, 4}, Kills, 2.5},
		// mean 2.6 -> frac .6 -> 2
		{"deaths high fraction", []int{2, 2, 3, 3, 3}, Deaths, 2},
		// mean 10.4 -> frac .4 -> 9.5
		{"assists low fraction", []int{10, 10, 10, 10, 12}, Assists, 9.5},
		// mean 4.7 -> frac .7 -> lower-is-better goes to trunc+1 = 5
		{"placement high fraction", []int{4, 4, 4, 5, 5, 5, 5, 5, 5, 5}, Placement, 5},
		// mean 4.3 -> frac .3 -> lower-is-better goes to 4.5
		{"placement low fraction", []int{4, 4, 4, 4, 4, 4, 4, 5, 5, 5}, Placement, 4.5},
		// mean 4.5 -> frac exactly .5 -> lower-is-better takes trunc+1
		{"exact half placement", []int{4, 4, 4, 4, 4, 5, 5, 5, 5, 5}, Placement, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ComputeLine(samplesOf(tt.values...), tt.metric)
			if err != nil {
				t.Fatalf("ComputeLine: %v", err)
			}
			if line.Value != tt.want {
				t.Errorf("line = %v, want %v", line.Value, tt.want)
			}
		})
	}
}

func TestComputeLine_Deterministic(t *testing.T) {
	window := samplesOf(7, 2, 9, 4, 6)
	first, err := ComputeLine(window, Kills)
	if err != nil {
		t.Fatalf("ComputeLine: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := ComputeLine(window, Kills)
		if err != nil {
			t.Fatalf("ComputeLine: %v", err)
		}
		if again.Value != first.Value {
			t.Fatalf("line changed between runs: %v then %v", first.Value, again.Value)
		}
	}
}

func TestComputeLine_ShortWindow(t *testing.T) {
	_, err := ComputeLine(samplesOf(1, 2, 3), Kills)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("err = %v, want ErrInsufficientHistory", err)
	}
}

func TestMetricWindows(t *testing.T) {
	if got := Kills.Window(); got != 5 {
		t.Errorf("kills window = %d, want 5", got)
	}
	if got := Placement.Window(); got != 10 {
		t.Errorf("placement window = %d, want 10", got)
	}
	if Kills.LowerIsBetter() || Deaths.LowerIsBetter() || Assists.LowerIsBetter() {
		t.Error("counting stats must be higher-is-better")
	}
	if !Placement.LowerIsBetter() {
		t.Error("placement must be lower-is-better")
	}
}
