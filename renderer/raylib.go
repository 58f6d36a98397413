package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftbox/camera"
	"github.com/pthm-cable/driftbox/components"
	"github.com/pthm-cable/driftbox/scene"
)

// Raylib draws point clouds as camera-facing billboards.
// All calls must happen on the thread that owns the window.
type Raylib struct {
	width, height int
	clear         rl.Color
	title         string // HUD title; empty hides the HUD
	frames        uint64

	textures   map[components.SpriteID]rl.Texture2D
	nextSprite components.SpriteID

	// Uploaded positions, one buffer per point cloud in visit order
	buffers [][]rl.Vector3
	visible []rl.Vector3
}

// NewRaylib creates a renderer for an already opened window.
// A non-empty title turns on the HUD.
func NewRaylib(width, height int, transparent bool, title string) *Raylib {
	clear := rl.Black
	if transparent {
		clear = rl.Blank
	}
	return &Raylib{
		width:    width,
		height:   height,
		clear:    clear,
		title:    title,
		textures: make(map[components.SpriteID]rl.Texture2D),
	}
}

// LoadSprite generates a solid texture on the GPU.
func (r *Raylib) LoadSprite(spec SpriteSpec) (components.SpriteID, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return 0, fmt.Errorf("invalid sprite size %dx%d", spec.Width, spec.Height)
	}
	img := rl.GenImageColor(spec.Width, spec.Height, spec.Fill)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if !rl.IsTextureValid(tex) {
		return 0, fmt.Errorf("uploading %dx%d sprite texture failed", spec.Width, spec.Height)
	}

	r.nextSprite++
	r.textures[r.nextSprite] = tex
	return r.nextSprite, nil
}

// SetSize resizes the output surface. A user-driven resize has already
// resized the window, in which case only the bookkeeping changes.
func (r *Raylib) SetSize(width, height int) {
	r.width = width
	r.height = height
	if rl.GetScreenWidth() != width || rl.GetScreenHeight() != height {
		rl.SetWindowSize(width, height)
	}
}

// Submit draws one frame with the camera's own projection, so its near and
// far planes and the aspect set on resize apply.
func (r *Raylib) Submit(s *scene.Scene, cam *camera.Camera) {
	proj := toRaylibMatrix(cam.Projection())

	view := rl.NewCamera3D(
		rl.NewVector3(float32(cam.X), float32(cam.Y), float32(cam.Z)),
		rl.NewVector3(float32(cam.TargetX), float32(cam.TargetY), float32(cam.TargetZ)),
		rl.NewVector3(0, 1, 0),
		float32(cam.FOV),
		rl.CameraPerspective,
	)

	rot := s.Rotation()
	model := rl.MatrixRotateXYZ(rl.NewVector3(float32(rot.RotX), float32(rot.RotY), float32(rot.RotZ)))

	rl.BeginDrawing()
	rl.ClearBackground(r.clear)
	rl.BeginMode3D(view)
	rl.SetMatrixProjection(proj)

	idx, points := 0, 0
	s.EachPoints(func(cloud *components.PointCloud, mat *components.PointMaterial) {
		points += cloud.Count
		if idx >= len(r.buffers) {
			r.buffers = append(r.buffers, nil)
		}
		if cloud.Dirty || len(r.buffers[idx]) != cloud.Count {
			r.buffers[idx] = upload(r.buffers[idx], cloud)
			cloud.Dirty = false
		}

		tex, ok := r.textures[mat.Sprite]
		if ok && passesAlphaTest(mat) {
			r.visible = cullPoints(r.visible, r.buffers[idx], model, cam)
			for _, p := range r.visible {
				rl.DrawBillboard(view, tex, p, mat.Size, mat.Tint)
			}
		}
		idx++
	})

	rl.EndMode3D()
	r.frames++
	if r.title != "" {
		drawHUD(HUDData{
			Title:     r.title,
			Particles: points,
			Frame:     r.frames,
			FPS:       rl.GetFPS(),
			Yaw:       rot.RotY,
			Pitch:     rot.RotX,
			Width:     r.width,
			Height:    r.height,
		})
	}
	rl.EndDrawing()
}

// Unload releases all sprite textures.
func (r *Raylib) Unload() {
	for id, tex := range r.textures {
		rl.UnloadTexture(tex)
		delete(r.textures, id)
	}
}

// upload copies a flat xyz buffer into dst.
func upload(dst []rl.Vector3, cloud *components.PointCloud) []rl.Vector3 {
	dst = dst[:0]
	for i := 0; i < cloud.Count; i++ {
		j := i * 3
		dst = append(dst, rl.NewVector3(cloud.Positions[j], cloud.Positions[j+1], cloud.Positions[j+2]))
	}
	return dst
}
