// Package camera provides a perspective camera for viewing the particle field.
package camera

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Camera is a perspective camera looking from a position towards a target.
// Aspect changes take effect on the projection only after the projection
// is marked stale and recomputed.
type Camera struct {
	// Position is the eye point in world coordinates
	X, Y, Z float64

	// Target is the point the camera looks at
	TargetX, TargetY, TargetZ float64

	// Vertical field of view in degrees
	FOV float64

	// Aspect is width / height of the output surface
	Aspect float64

	// Clip planes
	Near, Far float64

	// Viewport dimensions (output surface size in pixels)
	ViewportW, ViewportH float64

	stale    bool
	proj     *mat.Dense
	view     *mat.Dense
	viewProj *mat.Dense

	// Scratch vectors for WorldToScreen
	world *mat.VecDense
	clip  *mat.VecDense
}

// New creates a camera at the origin looking down -Z.
func New(fov, viewportW, viewportH, near, far float64) *Camera {
	c := &Camera{
		TargetZ:   -1,
		FOV:       fov,
		Aspect:    viewportW / viewportH,
		Near:      near,
		Far:       far,
		ViewportW: viewportW,
		ViewportH: viewportH,
		proj:      mat.NewDense(4, 4, nil),
		view:      mat.NewDense(4, 4, nil),
		viewProj:  mat.NewDense(4, 4, nil),
		world:     mat.NewVecDense(4, nil),
		clip:      mat.NewVecDense(4, nil),
	}
	c.UpdateProjectionMatrix()
	return c
}

// LookAt moves the eye and target. The view matrix is rebuilt immediately.
func (c *Camera) LookAt(x, y, z, tx, ty, tz float64) {
	c.X, c.Y, c.Z = x, y, z
	c.TargetX, c.TargetY, c.TargetZ = tx, ty, tz
	c.updateView()
}

// SetAspect stores a new aspect ratio without touching the projection.
// Non-finite values are accepted as-is.
func (c *Camera) SetAspect(aspect float64) {
	c.Aspect = aspect
}

// SetViewport records the output surface size.
func (c *Camera) SetViewport(w, h float64) {
	c.ViewportW = w
	c.ViewportH = h
}

// MarkProjectionStale flags the projection for recomputation.
func (c *Camera) MarkProjectionStale() {
	c.stale = true
}

// ProjectionStale reports whether the projection lags the parameters.
func (c *Camera) ProjectionStale() bool {
	return c.stale
}

// UpdateProjectionMatrix recomputes the projection from FOV, Aspect, Near and Far.
func (c *Camera) UpdateProjectionMatrix() {
	f := 1 / math.Tan(c.FOV*math.Pi/360)
	nf := c.Near - c.Far

	c.proj.Zero()
	c.proj.Set(0, 0, f/c.Aspect)
	c.proj.Set(1, 1, f)
	c.proj.Set(2, 2, (c.Far+c.Near)/nf)
	c.proj.Set(2, 3, 2*c.Far*c.Near/nf)
	c.proj.Set(3, 2, -1)

	c.stale = false
	c.updateView()
}

// Projection returns the projection matrix, recomputing it first if stale.
func (c *Camera) Projection() *mat.Dense {
	if c.stale {
		c.UpdateProjectionMatrix()
	}
	return c.proj
}

// updateView rebuilds the look-at matrix and the combined view-projection.
func (c *Camera) updateView() {
	fx, fy, fz := normalize(c.TargetX-c.X, c.TargetY-c.Y, c.TargetZ-c.Z)
	// World up is +Y; side = forward x up
	sx, sy, sz := normalize(-fz, 0, fx)
	// Corrected up = side x forward
	ux, uy, uz := sy*fz-sz*fy, sz*fx-sx*fz, sx*fy-sy*fx

	c.view.Zero()
	c.view.Set(0, 0, sx)
	c.view.Set(0, 1, sy)
	c.view.Set(0, 2, sz)
	c.view.Set(0, 3, -(sx*c.X + sy*c.Y + sz*c.Z))
	c.view.Set(1, 0, ux)
	c.view.Set(1, 1, uy)
	c.view.Set(1, 2, uz)
	c.view.Set(1, 3, -(ux*c.X + uy*c.Y + uz*c.Z))
	c.view.Set(2, 0, -fx)
	c.view.Set(2, 1, -fy)
	c.view.Set(2, 2, -fz)
	c.view.Set(2, 3, fx*c.X+fy*c.Y+fz*c.Z)
	c.view.Set(3, 3, 1)

	c.viewProj.Mul(c.proj, c.view)
}

// WorldToScreen projects a world point onto the viewport.
// Returns false if the point is behind the eye, outside the frustum, or the
// projection is degenerate.
func (c *Camera) WorldToScreen(x, y, z float64) (sx, sy float64, ok bool) {
	if c.stale {
		c.UpdateProjectionMatrix()
	}

	c.world.SetVec(0, x)
	c.world.SetVec(1, y)
	c.world.SetVec(2, z)
	c.world.SetVec(3, 1)
	clip := c.clip
	clip.MulVec(c.viewProj, c.world)

	w := clip.AtVec(3)
	if w <= 0 {
		return 0, 0, false
	}
	nx := clip.AtVec(0) / w
	ny := clip.AtVec(1) / w
	nz := clip.AtVec(2) / w
	if !finite(nx) || !finite(ny) || !finite(nz) {
		return 0, 0, false
	}
	if absf(nx) > 1 || absf(ny) > 1 || absf(nz) > 1 {
		return 0, 0, false
	}

	sx = (nx + 1) / 2 * c.ViewportW
	sy = (1 - ny) / 2 * c.ViewportH
	return sx, sy, true
}

// IsVisible returns true if a world point lies inside the view frustum.
func (c *Camera) IsVisible(x, y, z float64) bool {
	_, _, ok := c.WorldToScreen(x, y, z)
	return ok
}

func normalize(x, y, z float64) (float64, float64, float64) {
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return 0, 0, 0
	}
	return x / l, y / l, z / l
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// absf returns the absolute value of a float64.
func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
