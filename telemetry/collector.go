package telemetry

import "github.com/pthm-cable/driftbox/components"

// Collector accumulates per-frame counters and produces WindowStats.
type Collector struct {
	windowFrames uint64

	// Current window tracking
	windowStart   uint64
	frames        int
	reflections   int
	peakOvershoot int
	resizes       int

	// Reused between flushes
	extents []float64
	speeds  []float64
}

// Sampler exposes the field state a window summary needs.
type Sampler interface {
	Len() int
	Overshoot() int
	Extents(dst []float64) []float64
	Speeds(dst []float64) []float64
}

// NewCollector creates a collector that flushes every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: uint64(windowFrames)}
}

// RecordFrame records one step's reflections and the overshoot after it.
func (c *Collector) RecordFrame(reflections, overshoot int) {
	c.frames++
	c.reflections += reflections
	if overshoot > c.peakOvershoot {
		c.peakOvershoot = overshoot
	}
}

// RecordResize records a viewport resize.
func (c *Collector) RecordResize() {
	c.resizes++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame uint64) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(frame uint64, f Sampler, rot components.Transform, width, height int) WindowStats {
	c.extents = f.Extents(c.extents)
	c.speeds = f.Speeds(c.speeds)
	ext := Summarize(c.extents)
	spd := Summarize(c.speeds)

	var perFrame float64
	if c.frames > 0 {
		perFrame = float64(c.reflections) / float64(c.frames)
	}

	stats := WindowStats{
		WindowStartFrame:    c.windowStart,
		WindowEndFrame:      frame,
		Frames:              c.frames,
		Particles:           f.Len(),
		Reflections:         c.reflections,
		ReflectionsPerFrame: perFrame,
		PeakOvershoot:       c.peakOvershoot,
		Overshoot:           f.Overshoot(),
		ExtentMean:          ext.Mean,
		ExtentStd:           ext.Std,
		ExtentP90:           ext.P90,
		ExtentMax:           ext.Max,
		SpeedMean:           spd.Mean,
		SpeedStd:            spd.Std,
		Yaw:                 rot.RotY,
		Pitch:               rot.RotX,
		Width:               width,
		Height:              height,
		Resizes:             c.resizes,
	}

	c.windowStart = frame
	c.frames = 0
	c.reflections = 0
	c.peakOvershoot = 0
	c.resizes = 0

	return stats
}
