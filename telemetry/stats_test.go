package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	values := []float64{5, 1, 3, 2, 4, 10, 6, 8, 7, 9}
	s := Summarize(values)

	if math.Abs(s.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
	if s.StdDev <= 0 {
		t.Errorf("stddev = %v, want positive", s.StdDev)
	}
	if s.P10 > s.P50 || s.P50 > s.P90 {
		t.Errorf("quantiles out of order: p10=%v p50=%v p90=%v", s.P10, s.P50, s.P90)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Error("empty sample should return the zero summary")
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Error("Summarize sorted the caller's slice")
	}
}

func TestNewFrameWindow(t *testing.T) {
	tests := []struct {
		name             string
		frames, dropped  int64
		wantDropPct      float64
	}{
		{"no drops", 100, 0, 0},
		{"half dropped", 100, 50, 50},
		{"no frames", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewFrameWindow(10, tt.frames, tt.frames-tt.dropped, tt.dropped)
			if math.Abs(w.DropPct-tt.wantDropPct) > 0.001 {
				t.Errorf("drop pct = %v, want %v", w.DropPct, tt.wantDropPct)
			}
		})
	}
}
