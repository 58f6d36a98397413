package game

import (
	"errors"

	"github.com/pthm-cable/driftbox/telemetry"
)

// ErrAlreadyRunning is returned by a second call to FrameLoop.Start.
var ErrAlreadyRunning = errors.New("game: frame loop already running")

// LoopState is the frame loop lifecycle state.
type LoopState uint8

const (
	Idle LoopState = iota
	Running
)

func (s LoopState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return "unknown"
}

// FrameLoop advances the field and scene once per display refresh and
// submits the result to the renderer. Once started it reschedules itself
// for as long as the host keeps delivering frames; there is no stop.
type FrameLoop struct {
	ctx   *Context
	sched Scheduler
	perf  *telemetry.PerfCollector

	state LoopState
	frame uint64

	// Called after each submission, before the next frame is requested
	onFrame func(frame uint64)

	// Bound once so rescheduling does not allocate
	next func()
}

// NewFrameLoop creates an idle loop. A nil perf collector gets a default one.
func NewFrameLoop(ctx *Context, sched Scheduler, perf *telemetry.PerfCollector) *FrameLoop {
	if perf == nil {
		perf = telemetry.NewPerfCollector(0)
	}
	l := &FrameLoop{
		ctx:   ctx,
		sched: sched,
		perf:  perf,
	}
	l.next = l.iterate
	return l
}

// OnFrame sets a hook run after every submission.
func (l *FrameLoop) OnFrame(fn func(frame uint64)) {
	l.onFrame = fn
}

// Start moves the loop from Idle to Running and requests the first frame.
func (l *FrameLoop) Start() error {
	if l.state == Running {
		return ErrAlreadyRunning
	}
	l.state = Running
	l.sched.RequestFrame(l.next)
	return nil
}

// State returns the lifecycle state.
func (l *FrameLoop) State() LoopState {
	return l.state
}

// Frame returns the number of completed iterations.
func (l *FrameLoop) Frame() uint64 {
	return l.frame
}

// Perf returns the loop's perf collector.
func (l *FrameLoop) Perf() *telemetry.PerfCollector {
	return l.perf
}

// iterate runs one frame: step, mark dirty, drift, submit, reschedule.
func (l *FrameLoop) iterate() {
	c := l.ctx
	l.perf.RecordRefresh()
	l.perf.BeginFrame()

	l.perf.StartPhase(telemetry.PhaseStep)
	c.Field.Step()
	c.Scene.MarkDirty(c.Cloud)

	l.perf.StartPhase(telemetry.PhaseDrift)
	c.Drift.Advance(c.Scene)

	l.perf.StartPhase(telemetry.PhaseSubmit)
	c.Renderer.Submit(c.Scene, c.Camera)
	l.frame++

	if l.onFrame != nil {
		l.perf.StartPhase(telemetry.PhaseTelemetry)
		l.onFrame(l.frame)
	}
	l.perf.EndFrame()

	l.sched.RequestFrame(l.next)
}
