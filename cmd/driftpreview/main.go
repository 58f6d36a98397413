// Drift preview tool - tune the particle field and scene drift with sliders.
//
// Usage: go run ./cmd/driftpreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/config"
	"github.com/pthm-cable/driftbox/field"
	"github.com/pthm-cable/driftbox/scene"
	"github.com/pthm-cable/driftbox/telemetry"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewWidth = 700
	panelWidth   = windowWidth - previewWidth - 30
)

// previewParams holds the tunable values.
type previewParams struct {
	Count      int
	Radius     float32
	SpeedScale float32
	Yaw        float32
	Pitch      float32
	Distance   float32 // Camera distance from the cube centre
	Seed       int64
}

type preview struct {
	params previewParams
	field  *field.Field
	scene  *scene.Scene
	drift  scene.Drift

	extents []float64
}

func newPreview(p previewParams) *preview {
	pv := &preview{params: p, scene: scene.New()}
	pv.rebuild()
	return pv
}

// rebuild redraws the field from the current parameters. Rotation is kept.
func (pv *preview) rebuild() {
	p := pv.params
	pv.field = field.New(p.Count, p.Radius, p.SpeedScale, rand.New(rand.NewSource(p.Seed)))
}

func main() {
	cfg := config.Default()

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Drift Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	pv := newPreview(previewParams{
		Count:      cfg.Field.Count,
		Radius:     cfg.Derived.Radius32,
		SpeedScale: cfg.Derived.SpeedScale32,
		Yaw:        float32(cfg.Drift.Yaw),
		Pitch:      float32(cfg.Drift.Pitch),
		Distance:   450,
		Seed:       12345,
	})

	tint := cfg.Derived.SpriteRGBA
	paused := false

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}

		if !paused {
			pv.field.Step()
			pv.drift = scene.Drift{Yaw: float64(pv.params.Yaw), Pitch: float64(pv.params.Pitch)}
			pv.drift.Advance(pv.scene)
		}

		rot := pv.scene.Rotation()
		model := rl.MatrixRotateXYZ(rl.NewVector3(float32(rot.RotX), float32(rot.RotY), float32(rot.RotZ)))
		view := rl.NewCamera3D(
			rl.NewVector3(0, 0, pv.params.Distance),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			float32(cfg.Camera.FOV),
			rl.CameraPerspective,
		)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		// Field preview, clipped to the left area
		rl.BeginScissorMode(0, 0, previewWidth, windowHeight)
		rl.BeginMode3D(view)
		r := pv.params.Radius
		rl.DrawCubeWires(rl.NewVector3(0, 0, 0), 2*r, 2*r, 2*r, rl.DarkGray)
		pos := pv.field.Positions()
		for i := 0; i < pv.field.Len(); i++ {
			j := i * 3
			p := rl.Vector3Transform(rl.NewVector3(pos[j], pos[j+1], pos[j+2]), model)
			rl.DrawPoint3D(p, tint)
		}
		rl.EndMode3D()
		rl.EndScissorMode()

		// Stats
		pv.extents = pv.field.Extents(pv.extents)
		ext := telemetry.Summarize(pv.extents)
		rl.DrawText(fmt.Sprintf("Extent mean: %.1f  p90: %.1f  max: %.2f", ext.Mean, ext.P90, ext.Max), 15, windowHeight-70, 16, rl.LightGray)
		rl.DrawText(fmt.Sprintf("Outside: %d  Reflections: %d", pv.field.Overshoot(), pv.field.Reflections()), 15, windowHeight-50, 16, rl.LightGray)
		rl.DrawText(fmt.Sprintf("Yaw: %.4f  Pitch: %.4f", rot.RotY, rot.RotX), 15, windowHeight-30, 16, rl.LightGray)

		pv.drawPanel()

		rl.DrawFPS(previewWidth-90, 10)
		rl.EndDrawing()
	}
}

// drawPanel draws the control panel and applies changes.
func (pv *preview) drawPanel() {
	rl.DrawRectangle(previewWidth, 0, windowWidth-previewWidth, windowHeight, rl.RayWhite)

	x := float32(previewWidth + 15)
	y := float32(10)

	rl.DrawText("Field Parameters", int32(x), int32(y), 20, rl.DarkGray)
	y += 35

	p := &pv.params
	needsRebuild := false

	count := slider(x, &y, "Particle count", "100", "20000", float32(p.Count), 100, 20000, "%.0f")
	if int(count) != p.Count {
		p.Count = int(count)
		needsRebuild = true
	}

	radius := slider(x, &y, "Radius (cube half-width)", "10", "400", p.Radius, 10, 400, "%.0f")
	if radius != p.Radius {
		p.Radius = radius
		needsRebuild = true
	}

	speed := slider(x, &y, "Speed scale", "0.01", "5", p.SpeedScale, 0.01, 5, "%.2f")
	if speed != p.SpeedScale {
		p.SpeedScale = speed
		needsRebuild = true
	}

	// Separator
	rl.DrawLine(int32(x), int32(y), int32(x)+int32(panelWidth)-20, int32(y), rl.LightGray)
	y += 15

	rl.DrawText("Drift (per frame)", int32(x), int32(y), 16, rl.DarkGray)
	y += 25

	p.Yaw = slider(x, &y, "Yaw", "0", "0.01", p.Yaw, 0, 0.01, "%.4f")
	p.Pitch = slider(x, &y, "Pitch", "0", "0.01", p.Pitch, 0, 0.01, "%.4f")
	p.Distance = slider(x, &y, "Camera distance", "0", "1000", p.Distance, 0, 1000, "%.0f")
	y += 10

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, "Random Seed") {
		p.Seed = rand.Int63()
		needsRebuild = true
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Reset Rotation") {
		*pv.scene.Rotation() = components.Transform{}
	}
	y += 40

	rl.DrawText(fmt.Sprintf("Seed: %d", p.Seed), int32(x), int32(y), 14, rl.Gray)
	rl.DrawText("Space: pause", int32(x), int32(y)+20, 14, rl.Gray)

	if needsRebuild {
		pv.rebuild()
	}
}

// slider draws a labelled slider and advances y past it.
func slider(x float32, y *float32, label, left, right string, value, lo, hi float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		left, right,
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}
