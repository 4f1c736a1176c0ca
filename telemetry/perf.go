// Package telemetry collects frame and tick timing for the simulation host
// and exports it as structured logs and CSV.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the host's refresh loop.
const (
	PhaseEmitters = "emitters"
	PhaseBarrier  = "barrier"
	PhaseRender   = "render"
)

// FrameSample holds timing data for a single display refresh.
type FrameSample struct {
	Duration time.Duration
	Advanced bool // whether the tick barrier transition succeeded
	Phases   map[string]time.Duration
}

// PerfCollector tracks refresh timing over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []FrameSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize refreshes
// (e.g. 120 for two seconds at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]FrameSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new refresh.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes the current refresh and records the sample.
func (p *PerfCollector) EndFrame(advanced bool) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = FrameSample{
		Duration: now.Sub(p.frameStart),
		Advanced: advanced,
		Phases:   p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// FrameSeconds returns the durations in the current window, in seconds, for
// statistical summaries.
func (p *PerfCollector) FrameSeconds() []float64 {
	out := make([]float64, 0, p.sampleCount)
	for i := 0; i < p.sampleCount; i++ {
		out = append(out, p.samples[i].Duration.Seconds())
	}
	return out
}

// PerfStats holds aggregated timing over the current window.
type PerfStats struct {
	AvgFrame time.Duration
	MinFrame time.Duration
	MaxFrame time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Barrier outcomes within the window.
	Frames          int
	Advanced        int
	DropRate        float64 // dropped / frames
	FramesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total time.Duration
	var minFrame, maxFrame time.Duration
	advanced := 0
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration
		if i == 0 || s.Duration < minFrame {
			minFrame = s.Duration
		}
		if s.Duration > maxFrame {
			maxFrame = s.Duration
		}
		if s.Advanced {
			advanced++
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var fps float64
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgFrame:        avg,
		MinFrame:        minFrame,
		MaxFrame:        maxFrame,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		Frames:          p.sampleCount,
		Advanced:        advanced,
		DropRate:        float64(p.sampleCount-advanced) / float64(p.sampleCount),
		FramesPerSecond: fps,
	}
}

// LogStats logs the window summary.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"min_frame_us", s.MinFrame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"frames", s.Frames,
		"advanced", s.Advanced,
		"drop_rate", s.DropRate,
	}

	for _, phase := range []string{PhaseEmitters, PhaseBarrier, PhaseRender} {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Int("frames", s.Frames),
		slog.Int("advanced", s.Advanced),
		slog.Float64("drop_rate", s.DropRate),
	}
	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   int64   `csv:"window_end"`
	AvgFrameUS  int64   `csv:"avg_frame_us"`
	MinFrameUS  int64   `csv:"min_frame_us"`
	MaxFrameUS  int64   `csv:"max_frame_us"`
	Frames      int     `csv:"frames"`
	Advanced    int     `csv:"advanced"`
	DropRate    float64 `csv:"drop_rate"`
	FPS         float64 `csv:"fps"`
	EmittersPct float64 `csv:"emitters_pct"`
	BarrierPct  float64 `csv:"barrier_pct"`
	RenderPct   float64 `csv:"render_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgFrameUS:  s.AvgFrame.Microseconds(),
		MinFrameUS:  s.MinFrame.Microseconds(),
		MaxFrameUS:  s.MaxFrame.Microseconds(),
		Frames:      s.Frames,
		Advanced:    s.Advanced,
		DropRate:    s.DropRate,
		FPS:         s.FramesPerSecond,
		EmittersPct: s.PhasePct[PhaseEmitters],
		BarrierPct:  s.PhasePct[PhaseBarrier],
		RenderPct:   s.PhasePct[PhaseRender],
	}
}
