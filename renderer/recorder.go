package renderer

import (
	"fmt"

	"github.com/pthm-cable/driftbox/camera"
	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/scene"
)

// Recorder is a headless Renderer that keeps what it was given instead of drawing.
type Recorder struct {
	Width, Height int

	Submits   int // Submit calls
	Uploads   int // Dirty point clouds copied
	Drawn     int // Points with a loaded sprite that passed the alpha test in the last Submit
	SizeCalls int

	// Last uploaded positions, one slice per point cloud in visit order
	Uploaded [][]float32

	// Scene rotation and camera aspect seen by the last Submit
	LastRotation components.Transform
	LastAspect   float64

	sprites    map[components.SpriteID]SpriteSpec
	nextSprite components.SpriteID
}

// NewRecorder creates a recorder with the given output surface size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		Width:   width,
		Height:  height,
		sprites: make(map[components.SpriteID]SpriteSpec),
	}
}

// LoadSprite records the description and returns a fresh handle.
func (r *Recorder) LoadSprite(spec SpriteSpec) (components.SpriteID, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return 0, fmt.Errorf("invalid sprite size %dx%d", spec.Width, spec.Height)
	}
	r.nextSprite++
	r.sprites[r.nextSprite] = spec
	return r.nextSprite, nil
}

// Sprite returns a loaded sprite description.
func (r *Recorder) Sprite(id components.SpriteID) (SpriteSpec, error) {
	spec, ok := r.sprites[id]
	if !ok {
		return SpriteSpec{}, fmt.Errorf("sprite %d: %w", id, ErrUnknownSprite)
	}
	return spec, nil
}

// SetSize resizes the virtual output surface.
func (r *Recorder) SetSize(width, height int) {
	r.Width = width
	r.Height = height
	r.SizeCalls++
}

// Submit uploads dirty clouds and records the frame state.
func (r *Recorder) Submit(s *scene.Scene, cam *camera.Camera) {
	cam.Projection()
	r.LastAspect = cam.Aspect
	r.LastRotation = *s.Rotation()
	r.Drawn = 0

	idx := 0
	s.EachPoints(func(cloud *components.PointCloud, mat *components.PointMaterial) {
		if idx >= len(r.Uploaded) {
			r.Uploaded = append(r.Uploaded, nil)
		}
		if cloud.Dirty || len(r.Uploaded[idx]) != len(cloud.Positions) {
			r.Uploaded[idx] = append(r.Uploaded[idx][:0], cloud.Positions...)
			cloud.Dirty = false
			r.Uploads++
		}
		if _, err := r.Sprite(mat.Sprite); err == nil && passesAlphaTest(mat) {
			r.Drawn += cloud.Count
		}
		idx++
	})

	r.Submits++
}
