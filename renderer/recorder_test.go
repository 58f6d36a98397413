package renderer

import (
	"errors"
	"image/color"
	"testing"

	"github.com/pthm-cable/driftbox/camera"
	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/scene"
)

func TestRecorderLoadSprite(t *testing.T) {
	r := NewRecorder(800, 600)

	id, err := r.LoadSprite(SpriteSpec{Width: 20, Height: 20, Fill: color.RGBA{0xAD, 0xD8, 0xE6, 0xFF}})
	if err != nil {
		t.Fatalf("LoadSprite failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero sprite handle")
	}

	spec, err := r.Sprite(id)
	if err != nil {
		t.Fatalf("Sprite(%d) failed: %v", id, err)
	}
	if spec.Width != 20 || spec.Height != 20 {
		t.Errorf("unexpected sprite spec %+v", spec)
	}

	if _, err := r.Sprite(id + 1); !errors.Is(err, ErrUnknownSprite) {
		t.Errorf("expected ErrUnknownSprite, got %v", err)
	}
	if _, err := r.LoadSprite(SpriteSpec{}); err == nil {
		t.Error("expected error for empty sprite")
	}
}

func TestRecorderSubmitUploadsDirtyOnly(t *testing.T) {
	r := NewRecorder(800, 600)
	s := scene.New()
	cam := camera.New(75, 800, 600, 0.1, 1000)

	sprite, err := r.LoadSprite(SpriteSpec{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	buf := []float32{1, 2, 3, 4, 5, 6}
	mat := components.PointMaterial{Sprite: sprite, Tint: color.RGBA{A: 178}, AlphaTest: 0.5}
	e := s.AddPoints("particles", buf, mat)

	r.Submit(s, cam)
	if r.Uploads != 1 {
		t.Fatalf("expected first submit to upload, got %d uploads", r.Uploads)
	}
	if r.Drawn != 2 {
		t.Errorf("expected 2 points drawn, got %d", r.Drawn)
	}

	// Clean cloud: no upload, stale copy retained
	buf[0] = 99
	r.Submit(s, cam)
	if r.Uploads != 1 {
		t.Errorf("expected no upload for clean cloud, got %d uploads", r.Uploads)
	}
	if r.Uploaded[0][0] != 1 {
		t.Errorf("expected stale upload to be kept, got %v", r.Uploaded[0][0])
	}

	s.MarkDirty(e)
	r.Submit(s, cam)
	if r.Uploads != 2 || r.Uploaded[0][0] != 99 {
		t.Errorf("expected dirty cloud to re-upload, uploads=%d first=%v", r.Uploads, r.Uploaded[0][0])
	}
	if s.Cloud(e).Dirty {
		t.Error("expected submit to clear the dirty flag")
	}
	if r.Submits != 3 {
		t.Errorf("expected 3 submits, got %d", r.Submits)
	}
}

func TestRecorderAlphaTest(t *testing.T) {
	r := NewRecorder(800, 600)
	s := scene.New()
	cam := camera.New(75, 800, 600, 0.1, 1000)

	sprite, err := r.LoadSprite(SpriteSpec{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	s.AddPoints("faint", make([]float32, 9), components.PointMaterial{Sprite: sprite, Tint: color.RGBA{A: 50}, AlphaTest: 0.5})
	r.Submit(s, cam)

	if r.Drawn != 0 {
		t.Errorf("expected points below the alpha cutoff to be discarded, got %d drawn", r.Drawn)
	}
}

func TestRecorderSkipsUnknownSprite(t *testing.T) {
	r := NewRecorder(800, 600)
	s := scene.New()
	cam := camera.New(75, 800, 600, 0.1, 1000)

	e := s.AddPoints("orphan", make([]float32, 9), components.PointMaterial{Sprite: 7, Tint: color.RGBA{A: 255}})
	r.Submit(s, cam)

	if r.Drawn != 0 {
		t.Errorf("expected points without a loaded sprite to be skipped, got %d drawn", r.Drawn)
	}
	if r.Uploads != 1 || s.Cloud(e).Dirty {
		t.Error("expected the cloud to be uploaded even when it cannot be drawn")
	}
}

func TestRecorderSubmitRefreshesStaleProjection(t *testing.T) {
	r := NewRecorder(800, 600)
	s := scene.New()
	cam := camera.New(75, 800, 600, 0.1, 1000)

	cam.SetAspect(2)
	cam.MarkProjectionStale()
	r.Submit(s, cam)

	if cam.ProjectionStale() {
		t.Error("expected submit to refresh the projection")
	}
	if r.LastAspect != 2 {
		t.Errorf("expected aspect 2, got %v", r.LastAspect)
	}
}

func TestRecorderRecordsRotation(t *testing.T) {
	r := NewRecorder(800, 600)
	s := scene.New()
	cam := camera.New(75, 800, 600, 0.1, 1000)

	scene.Drift{Yaw: 0.5, Pitch: 0.25}.Advance(s)
	r.Submit(s, cam)

	if r.LastRotation.RotY != 0.5 || r.LastRotation.RotX != 0.25 {
		t.Errorf("unexpected rotation %+v", r.LastRotation)
	}
}
