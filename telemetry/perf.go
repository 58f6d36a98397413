package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies a timed section of one frame.
type Phase uint8

// Frame phases in execution order.
const (
	PhaseStep Phase = iota
	PhaseDrift
	PhaseSubmit
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"step", "drift", "submit", "telemetry"}

// String returns the phase name used in logs and CSV headers.
func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	Work   time.Duration
	Phases [numPhases]time.Duration
}

// PerfCollector tracks per-frame work time over a rolling window.
type PerfCollector struct {
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	frameStart time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Wall time between display refreshes
	lastRefresh     time.Time
	refreshInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]PerfSample, windowSize),
	}
}

// BeginFrame starts timing a frame's work.
func (p *PerfCollector) BeginFrame() {
	p.frameStart = time.Now()
	p.current = PerfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens the next.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

// EndFrame closes the running phase and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	p.closePhase(now)
	p.current.Work = now.Sub(p.frameStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// RecordRefresh records the interval since the previous display refresh.
func (p *PerfCollector) RecordRefresh() {
	now := time.Now()
	if !p.lastRefresh.IsZero() {
		p.refreshInterval = now.Sub(p.lastRefresh)
	}
	p.lastRefresh = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgWork time.Duration
	MinWork time.Duration
	MaxWork time.Duration

	// Average duration and share of work per phase
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	// Frames per second the work alone would allow
	Capacity float64

	// Display refresh timing
	RefreshInterval time.Duration
	FPS             float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var stats PerfStats
	stats.RefreshInterval = p.refreshInterval
	if p.refreshInterval > 0 {
		stats.FPS = float64(time.Second) / float64(p.refreshInterval)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Work
		if i == 0 || s.Work < stats.MinWork {
			stats.MinWork = s.Work
		}
		if s.Work > stats.MaxWork {
			stats.MaxWork = s.Work
		}
		for ph, d := range s.Phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgWork = total / n
	for ph := range phaseSum {
		stats.PhaseAvg[ph] = phaseSum[ph] / n
		if stats.AvgWork > 0 {
			stats.PhasePct[ph] = float64(stats.PhaseAvg[ph]) / float64(stats.AvgWork) * 100
		}
	}
	if stats.AvgWork > 0 {
		stats.Capacity = float64(time.Second) / float64(stats.AvgWork)
	}

	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_work_us", s.AvgWork.Microseconds()),
		slog.Int64("min_work_us", s.MinWork.Microseconds()),
		slog.Int64("max_work_us", s.MaxWork.Microseconds()),
		slog.Float64("capacity_fps", s.Capacity),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if s.PhasePct[ph] > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgWorkUS    int64   `csv:"avg_work_us"`
	MinWorkUS    int64   `csv:"min_work_us"`
	MaxWorkUS    int64   `csv:"max_work_us"`
	CapacityFPS  float64 `csv:"capacity_fps"`
	FPS          float64 `csv:"fps"`
	StepPct      float64 `csv:"step_pct"`
	DriftPct     float64 `csv:"drift_pct"`
	SubmitPct    float64 `csv:"submit_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgWorkUS:    s.AvgWork.Microseconds(),
		MinWorkUS:    s.MinWork.Microseconds(),
		MaxWorkUS:    s.MaxWork.Microseconds(),
		CapacityFPS:  s.Capacity,
		FPS:          s.FPS,
		StepPct:      s.PhasePct[PhaseStep],
		DriftPct:     s.PhasePct[PhaseDrift],
		SubmitPct:    s.PhasePct[PhaseSubmit],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}

// LogStats logs the perf stats using slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}
