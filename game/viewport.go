package game

import (
	"log/slog"

	"github.com/pthm-cable/driftbox/camera"
	"github.com/pthm-cable/driftbox/renderer"
)

// Viewport keeps the camera and renderer in step with the host surface size.
type Viewport struct {
	cam *camera.Camera
	r   renderer.Renderer

	width, height int
}

// NewViewport creates a viewport adapter over the context's camera and renderer.
func NewViewport(ctx *Context) *Viewport {
	return &Viewport{
		cam:    ctx.Camera,
		r:      ctx.Renderer,
		width:  int(ctx.Camera.ViewportW),
		height: int(ctx.Camera.ViewportH),
	}
}

// OnResize applies a new surface size. Zero dimensions are not rejected:
// the resulting non-finite aspect goes to the camera as is.
func (v *Viewport) OnResize(width, height int) {
	aspect := float64(width) / float64(height)

	v.cam.SetAspect(aspect)
	v.cam.SetViewport(float64(width), float64(height))
	v.cam.MarkProjectionStale()
	v.r.SetSize(width, height)

	v.width, v.height = width, height
	slog.Debug("viewport resized", "width", width, "height", height, "aspect", aspect)
}

// Size returns the last applied surface size.
func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}
