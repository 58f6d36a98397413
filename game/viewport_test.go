package game

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportOnResize(t *testing.T) {
	_, spy, ctx, _, err := newTestLoop(testConfig())
	require.NoError(t, err)
	defer ctx.Close()

	v := NewViewport(ctx)
	w, h := v.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	v.OnResize(1024, 512)

	assert.Equal(t, 2.0, ctx.Camera.Aspect)
	assert.True(t, ctx.Camera.ProjectionStale())
	assert.Equal(t, 1024.0, ctx.Camera.ViewportW)
	assert.Equal(t, 512.0, ctx.Camera.ViewportH)
	assert.Equal(t, 1024, spy.Width)
	assert.Equal(t, 512, spy.Height)

	// The renderer refreshes the stale projection on submission
	spy.Recorder.Submit(ctx.Scene, ctx.Camera)
	assert.False(t, ctx.Camera.ProjectionStale())
}

func TestViewportResizeIdempotent(t *testing.T) {
	_, spyOnce, ctxOnce, _, err := newTestLoop(testConfig())
	require.NoError(t, err)
	defer ctxOnce.Close()
	_, spyTwice, ctxTwice, _, err := newTestLoop(testConfig())
	require.NoError(t, err)
	defer ctxTwice.Close()

	NewViewport(ctxOnce).OnResize(1920, 1080)

	v := NewViewport(ctxTwice)
	v.OnResize(1920, 1080)
	v.OnResize(1920, 1080)

	assert.Equal(t, ctxOnce.Camera.Aspect, ctxTwice.Camera.Aspect)
	assert.Equal(t, spyOnce.Width, spyTwice.Width)
	assert.Equal(t, spyOnce.Height, spyTwice.Height)
	assert.Equal(t, ctxOnce.Camera.Projection().RawMatrix().Data, ctxTwice.Camera.Projection().RawMatrix().Data)
}

func TestViewportDegenerateSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		check         func(float64) bool
	}{
		{"zero height", 800, 0, func(a float64) bool { return math.IsInf(a, 1) }},
		{"zero both", 0, 0, math.IsNaN},
		{"zero width", 0, 600, func(a float64) bool { return a == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, spy, ctx, loop, err := newTestLoop(testConfig())
			require.NoError(t, err)
			defer ctx.Close()

			NewViewport(ctx).OnResize(tt.width, tt.height)
			assert.True(t, tt.check(ctx.Camera.Aspect), "aspect %v", ctx.Camera.Aspect)
			assert.Equal(t, tt.width, spy.Width)
			assert.Equal(t, tt.height, spy.Height)

			// Frames keep running with the unusable projection
			require.NoError(t, loop.Start())
			assert.NotPanics(t, func() { d.Dispatch(FrameEvent{}) })
			assert.Equal(t, uint64(1), loop.Frame())
		})
	}
}

func TestResizeAppliedBeforeNextFrame(t *testing.T) {
	d, spy, ctx, loop, err := newTestLoop(testConfig())
	require.NoError(t, err)
	defer ctx.Close()

	d.OnResize(NewViewport(ctx).OnResize)
	require.NoError(t, loop.Start())

	bg := context.Background()
	require.NoError(t, d.Post(bg, FrameEvent{}))
	require.NoError(t, d.Post(bg, ResizeEvent{Width: 400, Height: 400}))
	require.NoError(t, d.Post(bg, FrameEvent{}))
	d.Close()
	require.NoError(t, d.Run(bg))

	require.Len(t, spy.checks, 2)
	assert.InDelta(t, 800.0/600.0, spy.checks[0].aspect, 1e-12)
	assert.Equal(t, 1.0, spy.checks[1].aspect)
	assert.Equal(t, 1.0, spy.LastAspect)
	assert.Equal(t, uint64(1), d.Resizes())
}
