package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is a five-number description of a sample.
type Summary struct {
	Mean   float64
	StdDev float64
	P10    float64
	P50    float64
	P90    float64
}

// Summarize computes summary statistics for an unsorted sample. Returns the
// zero Summary for an empty sample.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		P10:    stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// FrameWindow is one window of barrier accounting for CSV export.
type FrameWindow struct {
	WindowEnd int64   `csv:"window_end"` // tick at the end of the window
	Frames    int64   `csv:"frames"`
	Advanced  int64   `csv:"advanced"`
	Dropped   int64   `csv:"dropped"`
	DropPct   float64 `csv:"drop_pct"`
}

// NewFrameWindow builds a window record from cumulative driver counters.
func NewFrameWindow(tick, frames, advanced, dropped int64) FrameWindow {
	w := FrameWindow{
		WindowEnd: tick,
		Frames:    frames,
		Advanced:  advanced,
		Dropped:   dropped,
	}
	if frames > 0 {
		w.DropPct = float64(dropped) / float64(frames) * 100
	}
	return w
}
