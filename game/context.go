// Package game wires the particle field, scene, camera and renderer into a
// frame loop driven by host events.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/driftbox/camera"
	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/config"
	"github.com/pthm-cable/driftbox/field"
	"github.com/pthm-cable/driftbox/renderer"
	"github.com/pthm-cable/driftbox/scene"
)

// ErrNoSurface is returned when the host has no surface to draw on.
// Callers should exit quietly: nothing has been constructed.
var ErrNoSurface = errors.New("game: no host surface")

// Surface is the host drawing area.
type Surface interface {
	Size() (width, height int)
}

// Context holds the rendering state shared by the frame loop and the viewport.
type Context struct {
	Field    *field.Field
	Scene    *scene.Scene
	Camera   *camera.Camera
	Renderer renderer.Renderer
	Drift    scene.Drift

	// Point cloud node bound to Field's position buffer
	Cloud ecs.Entity
}

// NewContext builds the field, scene graph and camera for a surface.
// The renderer output is sized to the surface before the first frame.
func NewContext(cfg *config.Config, surface Surface, r renderer.Renderer, loader renderer.SpriteLoader, rng *rand.Rand) (*Context, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	width, height := surface.Size()

	// Sprite first so a load failure leaves nothing half built
	fill := cfg.Derived.SpriteRGBA
	fill.A = 255
	sprite, err := loader.LoadSprite(renderer.SpriteSpec{
		Width:  cfg.Sprite.Size,
		Height: cfg.Sprite.Size,
		Fill:   fill,
	})
	if err != nil {
		return nil, fmt.Errorf("loading particle sprite: %w", err)
	}

	f := field.New(cfg.Field.Count, cfg.Derived.Radius32, cfg.Derived.SpeedScale32, rng)
	if cfg.Parallel.Threshold > 0 {
		f.EnableParallel(cfg.Parallel.Workers, cfg.Parallel.Threshold)
	}

	cam := camera.New(cfg.Camera.FOV, float64(width), float64(height), cfg.Camera.Near, cfg.Camera.Far)
	p, t := cfg.Camera.Position, cfg.Camera.Target
	cam.LookAt(p[0], p[1], p[2], t[0], t[1], t[2])

	s := scene.New()
	cloud := s.AddPoints("particles", f.Positions(), components.PointMaterial{
		Sprite:    sprite,
		Tint:      cfg.Derived.SpriteRGBA,
		Size:      float32(cfg.Sprite.PointSize),
		AlphaTest: float32(cfg.Sprite.AlphaTest),
	})

	r.SetSize(width, height)

	return &Context{
		Field:    f,
		Scene:    s,
		Camera:   cam,
		Renderer: r,
		Drift:    scene.Drift{Yaw: cfg.Drift.Yaw, Pitch: cfg.Drift.Pitch},
		Cloud:    cloud,
	}, nil
}

// Close releases the field's workers.
func (c *Context) Close() {
	c.Field.Close()
}
