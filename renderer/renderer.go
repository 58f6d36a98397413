// Package renderer turns the scene graph and camera into pixels.
package renderer

import (
	"errors"
	"image/color"

	"github.com/pthm-cable/driftbox/camera"
	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/scene"
)

// ErrUnknownSprite is returned when a material references a sprite that was never loaded.
var ErrUnknownSprite = errors.New("renderer: unknown sprite")

// Renderer consumes the scene and camera once per frame.
// Failures inside Submit (lost context and the like) are the implementation's concern.
type Renderer interface {
	Submit(s *scene.Scene, cam *camera.Camera)
	SetSize(width, height int)
}

// SpriteLoader produces an opaque sprite handle from a description.
type SpriteLoader interface {
	LoadSprite(spec SpriteSpec) (components.SpriteID, error)
}

// SpriteSpec describes a solid square sprite.
type SpriteSpec struct {
	Width, Height int
	Fill          color.RGBA
}

// passesAlphaTest reports whether points drawn with mat survive the alpha cutoff.
func passesAlphaTest(mat *components.PointMaterial) bool {
	return float32(mat.Tint.A)/255 >= mat.AlphaTest
}
