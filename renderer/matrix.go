package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/driftbox/camera"
)

// toRaylibMatrix converts a 4x4 gonum matrix. Both use column vectors;
// rl.NewMatrix takes its arguments row by row.
func toRaylibMatrix(m mat.Matrix) rl.Matrix {
	return rl.NewMatrix(
		float32(m.At(0, 0)), float32(m.At(0, 1)), float32(m.At(0, 2)), float32(m.At(0, 3)),
		float32(m.At(1, 0)), float32(m.At(1, 1)), float32(m.At(1, 2)), float32(m.At(1, 3)),
		float32(m.At(2, 0)), float32(m.At(2, 1)), float32(m.At(2, 2)), float32(m.At(2, 3)),
		float32(m.At(3, 0)), float32(m.At(3, 1)), float32(m.At(3, 2)), float32(m.At(3, 3)),
	)
}

// cullPoints appends to dst the points of src, rotated by model, that lie
// inside the camera frustum.
func cullPoints(dst, src []rl.Vector3, model rl.Matrix, cam *camera.Camera) []rl.Vector3 {
	dst = dst[:0]
	for _, p := range src {
		p = rl.Vector3Transform(p, model)
		if cam.IsVisible(float64(p.X), float64(p.Y), float64(p.Z)) {
			dst = append(dst, p)
		}
	}
	return dst
}
