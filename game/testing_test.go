package game

import (
	"errors"
	"math/rand"

	"github.com/pthm-cable/driftbox/camera"
	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/config"
	"github.com/pthm-cable/driftbox/field"
	"github.com/pthm-cable/driftbox/renderer"
	"github.com/pthm-cable/driftbox/scene"
)

const testSeed = 7

type fixedSurface struct{ w, h int }

func (s fixedSurface) Size() (int, int) { return s.w, s.h }

// submitCheck is what the spy saw when Submit was called.
type submitCheck struct {
	dirty   bool
	pending bool
	yaw     float64
	pitch   float64
	aspect  float64
	pos     []float32
}

// spyRenderer records the frame state visible at each submission.
type spyRenderer struct {
	*renderer.Recorder
	d      *Dispatcher
	ctx    *Context
	checks []submitCheck
}

func newSpy(d *Dispatcher) *spyRenderer {
	return &spyRenderer{Recorder: renderer.NewRecorder(0, 0), d: d}
}

func (s *spyRenderer) Submit(sc *scene.Scene, cam *camera.Camera) {
	cloud := sc.Cloud(s.ctx.Cloud)
	rot := sc.Rotation()
	s.checks = append(s.checks, submitCheck{
		dirty:   cloud.Dirty,
		pending: s.d.Pending(),
		yaw:     rot.RotY,
		pitch:   rot.RotX,
		aspect:  cam.Aspect,
		pos:     append([]float32(nil), cloud.Positions...),
	})
	s.Recorder.Submit(sc, cam)
}

type failingLoader struct{ err error }

func (l failingLoader) LoadSprite(renderer.SpriteSpec) (components.SpriteID, error) {
	return 0, l.err
}

var errSpriteBoom = errors.New("sprite boom")

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Field.Count = 200
	return cfg
}

// referenceField draws the same field NewContext would for testSeed.
func referenceField(cfg *config.Config) *field.Field {
	return field.New(cfg.Field.Count, cfg.Derived.Radius32, cfg.Derived.SpeedScale32, rand.New(rand.NewSource(testSeed)))
}

// newTestLoop builds a context over a spy renderer and an idle loop.
func newTestLoop(cfg *config.Config) (*Dispatcher, *spyRenderer, *Context, *FrameLoop, error) {
	d := NewDispatcher(64)
	spy := newSpy(d)
	ctx, err := NewContext(cfg, fixedSurface{800, 600}, spy, spy, rand.New(rand.NewSource(testSeed)))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	spy.ctx = ctx
	return d, spy, ctx, NewFrameLoop(ctx, d, nil), nil
}
