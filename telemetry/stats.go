package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame uint64 `csv:"-"`
	WindowEndFrame   uint64 `csv:"window_end"`
	Frames           int    `csv:"frames"`
	Particles        int    `csv:"particles"`

	// Boundary activity during the window
	Reflections         int     `csv:"reflections"`
	ReflectionsPerFrame float64 `csv:"reflections_per_frame"`
	PeakOvershoot       int     `csv:"peak_overshoot"` // Max components outside the cube in any frame
	Overshoot           int     `csv:"overshoot"`      // Components outside the cube at window end

	// Largest absolute position component per particle, sampled at window end
	ExtentMean float64 `csv:"extent_mean"`
	ExtentStd  float64 `csv:"extent_std"`
	ExtentP90  float64 `csv:"extent_p90"`
	ExtentMax  float64 `csv:"extent_max"`

	// Particle speed, sampled at window end. Constant over a run.
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`

	// Scene drift accumulators at window end
	Yaw   float64 `csv:"yaw"`
	Pitch float64 `csv:"pitch"`

	// Viewport
	Width   int `csv:"width"`
	Height  int `csv:"height"`
	Resizes int `csv:"resizes"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std, P90, Max float64
}

// Summarize computes mean, standard deviation, 90th percentile and max.
// values is not modified.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	d.Max = sorted[n-1]
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Int("frames", s.Frames),
		slog.Int("particles", s.Particles),
		slog.Int("reflections", s.Reflections),
		slog.Float64("reflections_per_frame", s.ReflectionsPerFrame),
		slog.Int("peak_overshoot", s.PeakOvershoot),
		slog.Int("overshoot", s.Overshoot),
		slog.Float64("extent_mean", s.ExtentMean),
		slog.Float64("extent_std", s.ExtentStd),
		slog.Float64("extent_p90", s.ExtentP90),
		slog.Float64("extent_max", s.ExtentMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("yaw", s.Yaw),
		slog.Float64("pitch", s.Pitch),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Int("resizes", s.Resizes),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"frames", s.Frames,
		"reflections", s.Reflections,
		"peak_overshoot", s.PeakOvershoot,
		"extent_mean", s.ExtentMean,
		"extent_max", s.ExtentMax,
		"speed_mean", s.SpeedMean,
		"yaw", s.Yaw,
		"pitch", s.Pitch,
	)
}
