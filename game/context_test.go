package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/renderer"
)

func TestNewContextWithoutSurface(t *testing.T) {
	rec := renderer.NewRecorder(0, 0)

	ctx, err := NewContext(testConfig(), nil, rec, rec, rand.New(rand.NewSource(1)))

	require.True(t, errors.Is(err, ErrNoSurface), "got %v", err)
	assert.Nil(t, ctx)
	assert.Zero(t, rec.SizeCalls, "renderer must not be touched")
	_, err = rec.Sprite(1)
	assert.True(t, errors.Is(err, renderer.ErrUnknownSprite), "no sprite should be loaded")
}

func TestNewContextSpriteFailure(t *testing.T) {
	rec := renderer.NewRecorder(0, 0)

	_, err := NewContext(testConfig(), fixedSurface{800, 600}, rec, failingLoader{errSpriteBoom}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errSpriteBoom))
	assert.Zero(t, rec.SizeCalls)
}

func TestNewContextBuildsScene(t *testing.T) {
	cfg := testConfig()
	rec := renderer.NewRecorder(0, 0)

	ctx, err := NewContext(cfg, fixedSurface{1280, 720}, rec, rec, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	defer ctx.Close()

	// Renderer sized to the surface before any frame
	assert.Equal(t, 1280, rec.Width)
	assert.Equal(t, 720, rec.Height)
	assert.Equal(t, 1, rec.SizeCalls)
	assert.Zero(t, rec.Submits)

	// Camera
	assert.InDelta(t, 1280.0/720.0, ctx.Camera.Aspect, 1e-12)
	assert.Equal(t, 75.0, ctx.Camera.FOV)
	assert.Equal(t, 0.1, ctx.Camera.Near)
	assert.Equal(t, 1000.0, ctx.Camera.Far)
	assert.Equal(t, -1.0, ctx.Camera.TargetZ)

	// Field
	assert.Equal(t, cfg.Field.Count, ctx.Field.Len())
	assert.Equal(t, float32(150), ctx.Field.Radius())

	// The cloud shares the field's position buffer
	cloud := ctx.Scene.Cloud(ctx.Cloud)
	require.NotNil(t, cloud)
	assert.Equal(t, cfg.Field.Count, cloud.Count)
	assert.Same(t, &ctx.Field.Positions()[0], &cloud.Positions[0])

	// Scene starts at rest
	assert.Zero(t, *ctx.Scene.Rotation())

	// Drift rates
	assert.Equal(t, 0.0002, ctx.Drift.Yaw)
	assert.Equal(t, 0.0001, ctx.Drift.Pitch)
}

func TestNewContextSprite(t *testing.T) {
	rec := renderer.NewRecorder(0, 0)
	ctx, err := NewContext(testConfig(), fixedSurface{800, 600}, rec, rec, nil)
	require.NoError(t, err)
	defer ctx.Close()

	var mat struct {
		found bool
		alpha uint8
		size  float32
		cut   float32
	}
	ctx.Scene.EachPoints(func(_ *components.PointCloud, m *components.PointMaterial) {
		mat.found = true
		mat.alpha = m.Tint.A
		mat.size = m.Size
		mat.cut = m.AlphaTest

		spec, err := rec.Sprite(m.Sprite)
		require.NoError(t, err)
		assert.Equal(t, 20, spec.Width)
		assert.Equal(t, 20, spec.Height)
		assert.Equal(t, uint8(0xAD), spec.Fill.R)
		assert.Equal(t, uint8(0xD8), spec.Fill.G)
		assert.Equal(t, uint8(0xE6), spec.Fill.B)
		assert.Equal(t, uint8(255), spec.Fill.A)
	})

	require.True(t, mat.found)
	assert.Equal(t, uint8(178), mat.alpha) // 0.7 opacity
	assert.InDelta(t, 1.5, mat.size, 1e-6)
	assert.InDelta(t, 0.5, mat.cut, 1e-6)
}
