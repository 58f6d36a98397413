package scene

import (
	"math"
	"testing"

	"github.com/pthm-cable/driftbox/components"
)

func TestNewRootAtRest(t *testing.T) {
	s := New()
	rot := s.Rotation()
	if rot == nil {
		t.Fatal("expected root transform")
	}
	if rot.RotX != 0 || rot.RotY != 0 || rot.RotZ != 0 {
		t.Errorf("expected zero rotation, got %+v", *rot)
	}
}

func TestAddPointsSharesBuffer(t *testing.T) {
	s := New()
	buf := []float32{1, 2, 3, 4, 5, 6}
	e := s.AddPoints("particles", buf, components.PointMaterial{Sprite: 1, Size: 1.5})

	cloud := s.Cloud(e)
	if cloud == nil {
		t.Fatal("expected point cloud")
	}
	if cloud.Count != 2 {
		t.Errorf("expected 2 points, got %d", cloud.Count)
	}

	buf[0] = 42
	if cloud.Positions[0] != 42 {
		t.Error("expected cloud to observe writes to the shared buffer")
	}
}

func TestMarkDirty(t *testing.T) {
	s := New()
	e := s.AddPoints("particles", make([]float32, 3), components.PointMaterial{})

	s.Cloud(e).Dirty = false
	s.MarkDirty(e)
	if !s.Cloud(e).Dirty {
		t.Error("expected cloud to be dirty after MarkDirty")
	}
}

func TestEachPointsVisitsClouds(t *testing.T) {
	s := New()
	s.AddPoints("a", make([]float32, 3), components.PointMaterial{Sprite: 1})
	s.AddPoints("b", make([]float32, 6), components.PointMaterial{Sprite: 2})

	total := 0
	sprites := map[components.SpriteID]bool{}
	s.EachPoints(func(cloud *components.PointCloud, mat *components.PointMaterial) {
		total += cloud.Count
		sprites[mat.Sprite] = true
	})

	if total != 3 {
		t.Errorf("expected 3 points across clouds, got %d", total)
	}
	if len(sprites) != 2 {
		t.Errorf("expected 2 distinct sprites, got %d", len(sprites))
	}
}

func TestDriftAccumulates(t *testing.T) {
	s := New()
	d := Drift{Yaw: 0.0002, Pitch: 0.0001}

	const frames = 10000
	for i := 0; i < frames; i++ {
		d.Advance(s)
	}

	rot := s.Rotation()
	if math.Abs(rot.RotY-frames*0.0002) > 1e-9 {
		t.Errorf("expected yaw %v, got %v", frames*0.0002, rot.RotY)
	}
	if math.Abs(rot.RotX-frames*0.0001) > 1e-9 {
		t.Errorf("expected pitch %v, got %v", frames*0.0001, rot.RotX)
	}
	if rot.RotZ != 0 {
		t.Errorf("expected no roll, got %v", rot.RotZ)
	}
}

func TestDriftIgnoresParticles(t *testing.T) {
	a := New()
	b := New()
	b.AddPoints("particles", make([]float32, 300), components.PointMaterial{})

	d := Drift{Yaw: 0.0002, Pitch: 0.0001}
	for i := 0; i < 100; i++ {
		d.Advance(a)
		d.Advance(b)
	}

	if *a.Rotation() != *b.Rotation() {
		t.Errorf("drift depends on scene contents: %+v vs %+v", *a.Rotation(), *b.Rotation())
	}
}
