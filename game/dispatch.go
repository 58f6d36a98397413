package game

import (
	"context"
	"errors"
	"sync"
)

// ErrDispatcherClosed is returned by Post after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Event is delivered by a host to the Dispatcher.
type Event interface {
	event()
}

// FrameEvent signals a display refresh.
type FrameEvent struct{}

// ResizeEvent signals a new host surface size.
type ResizeEvent struct {
	Width, Height int
}

func (FrameEvent) event()  {}
func (ResizeEvent) event() {}

// Scheduler runs a callback on the next display refresh.
type Scheduler interface {
	RequestFrame(fn func())
}

// ResizeSource notifies registered callbacks of surface size changes.
type ResizeSource interface {
	OnResize(fn func(width, height int))
}

// EventSource is both frame scheduler and resize source.
type EventSource interface {
	Scheduler
	ResizeSource
}

// Dispatcher serialises frame and resize events onto one goroutine.
// Every callback runs to completion before the next event is handled.
//
// Frame callbacks are one-shot: a callback registered with RequestFrame
// runs on the next FrameEvent only, and must request again to keep running.
// A FrameEvent with no pending callback is dropped.
type Dispatcher struct {
	events chan Event
	done   chan struct{}
	once   sync.Once

	pending func()
	resize  []func(width, height int)

	frames  uint64
	resizes uint64
}

// NewDispatcher creates a dispatcher whose queue holds up to buffer events.
func NewDispatcher(buffer int) *Dispatcher {
	if buffer < 0 {
		buffer = 0
	}
	return &Dispatcher{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// RequestFrame registers fn for the next FrameEvent, replacing any pending callback.
func (d *Dispatcher) RequestFrame(fn func()) {
	d.pending = fn
}

// OnResize registers fn for every ResizeEvent.
func (d *Dispatcher) OnResize(fn func(width, height int)) {
	d.resize = append(d.resize, fn)
}

// Pending reports whether a frame callback is waiting.
func (d *Dispatcher) Pending() bool {
	return d.pending != nil
}

// Dispatch handles ev on the calling goroutine. It reports whether any
// callback ran.
func (d *Dispatcher) Dispatch(ev Event) bool {
	switch e := ev.(type) {
	case FrameEvent:
		fn := d.pending
		if fn == nil {
			return false
		}
		d.pending = nil
		d.frames++
		fn()
		return true
	case ResizeEvent:
		d.resizes++
		for _, fn := range d.resize {
			fn(e.Width, e.Height)
		}
		return len(d.resize) > 0
	}
	return false
}

// Post queues ev for Run. It blocks while the queue is full and returns
// ErrDispatcherClosed once Close has been called.
func (d *Dispatcher) Post(ctx context.Context, ev Event) error {
	select {
	case <-d.done:
		return ErrDispatcherClosed
	default:
	}
	select {
	case d.events <- ev:
		return nil
	case <-d.done:
		return ErrDispatcherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run dispatches queued events until Close is called or ctx is done.
// It returns nil after Close once the queue is drained.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-d.events:
			d.Dispatch(ev)
		case <-d.done:
			d.drain()
			return nil
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.events:
			d.Dispatch(ev)
		default:
			return
		}
	}
}

// Close stops Run after the queued events. Safe to call more than once,
// and from any goroutine.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.done) })
}

// Frames returns the number of frame callbacks run.
func (d *Dispatcher) Frames() uint64 {
	return d.frames
}

// Resizes returns the number of resize events handled.
func (d *Dispatcher) Resizes() uint64 {
	return d.resizes
}
