// Package field holds the particle state buffers and their per-frame integration.
package field

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/blas/blas32"
)

// Field owns the position and velocity buffers of a fixed particle population.
// Particle i occupies elements [3i, 3i+3) of both buffers (x, y, z).
type Field struct {
	n          int
	radius     float32
	speedScale float32

	pos []float32
	vel []float32

	// Velocity sign flips during the most recent Step
	reflections int

	pool *workerPool
}

// New allocates a field of n particles. Every position component is drawn
// uniformly from [-radius, radius) and every velocity component from
// [-speedScale/2, speedScale/2), independently per axis. A nil rng seeds
// from the clock.
func New(n int, radius, speedScale float32, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	f := &Field{
		n:          n,
		radius:     radius,
		speedScale: speedScale,
		pos:        make([]float32, n*3),
		vel:        make([]float32, n*3),
	}

	for i := 0; i < n; i++ {
		j := i * 3
		f.pos[j] = (rng.Float32() - 0.5) * 2 * radius
		f.pos[j+1] = (rng.Float32() - 0.5) * 2 * radius
		f.pos[j+2] = (rng.Float32() - 0.5) * 2 * radius

		f.vel[j] = (rng.Float32() - 0.5) * speedScale
		f.vel[j+1] = (rng.Float32() - 0.5) * speedScale
		f.vel[j+2] = (rng.Float32() - 0.5) * speedScale
	}

	return f
}

// FromBuffers wraps existing buffers without copying. Both must hold 3n values.
// The speed scale is inferred as twice the largest velocity component.
func FromBuffers(pos, vel []float32, radius float32) (*Field, error) {
	if len(pos) != len(vel) {
		return nil, fmt.Errorf("buffer length mismatch: %d positions, %d velocities", len(pos), len(vel))
	}
	if len(pos)%3 != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of 3", len(pos))
	}

	var maxComp float32
	for _, v := range vel {
		if a := float32(math.Abs(float64(v))); a > maxComp {
			maxComp = a
		}
	}

	return &Field{
		n:          len(pos) / 3,
		radius:     radius,
		speedScale: maxComp * 2,
		pos:        pos,
		vel:        vel,
	}, nil
}

// Step advances every particle by its velocity, then applies Reflect per axis.
func (f *Field) Step() {
	if f.pool != nil && f.n >= f.pool.threshold {
		f.reflections = f.pool.run(f)
		return
	}
	f.reflections = f.stepRange(0, f.n)
}

// stepRange integrates particles [i0, i1) and returns the number of sign flips.
// Particles never read each other's state, so disjoint ranges may run concurrently.
func (f *Field) stepRange(i0, i1 int) int {
	lo, hi := i0*3, i1*3
	if hi <= lo {
		return 0
	}

	// pos += vel
	blas32.Axpy(1,
		blas32.Vector{N: hi - lo, Inc: 1, Data: f.vel[lo:hi]},
		blas32.Vector{N: hi - lo, Inc: 1, Data: f.pos[lo:hi]},
	)

	flips := 0
	for j := lo; j < hi; j++ {
		v := Reflect(f.pos[j], f.vel[j], f.radius)
		if v != f.vel[j] {
			flips++
		}
		f.vel[j] = v
	}
	return flips
}

// Len returns the particle count.
func (f *Field) Len() int { return f.n }

// Radius returns the bound half-width.
func (f *Field) Radius() float32 { return f.radius }

// SpeedScale returns the velocity draw range width.
func (f *Field) SpeedScale() float32 { return f.speedScale }

// Positions returns the live position buffer. Callers must not resize it.
func (f *Field) Positions() []float32 { return f.pos }

// Velocities returns the live velocity buffer.
func (f *Field) Velocities() []float32 { return f.vel }

// Reflections returns the number of velocity flips in the last Step.
func (f *Field) Reflections() int { return f.reflections }

// Particle returns the state of particle i.
func (f *Field) Particle(i int) (x, y, z, vx, vy, vz float32) {
	j := i * 3
	return f.pos[j], f.pos[j+1], f.pos[j+2], f.vel[j], f.vel[j+1], f.vel[j+2]
}

// Overshoot counts position components currently outside [-R, R].
func (f *Field) Overshoot() int {
	count := 0
	for _, p := range f.pos {
		if p > f.radius || p < -f.radius {
			count++
		}
	}
	return count
}

// Speeds writes each particle's speed into dst (grown as needed) and returns it.
func (f *Field) Speeds(dst []float64) []float64 {
	dst = dst[:0]
	for i := 0; i < f.n; i++ {
		j := i * 3
		vx, vy, vz := float64(f.vel[j]), float64(f.vel[j+1]), float64(f.vel[j+2])
		dst = append(dst, math.Sqrt(vx*vx+vy*vy+vz*vz))
	}
	return dst
}

// Extents writes each particle's largest absolute position component into dst.
func (f *Field) Extents(dst []float64) []float64 {
	dst = dst[:0]
	for i := 0; i < f.n; i++ {
		j := i * 3
		m := math.Abs(float64(f.pos[j]))
		m = math.Max(m, math.Abs(float64(f.pos[j+1])))
		m = math.Max(m, math.Abs(float64(f.pos[j+2])))
		dst = append(dst, m)
	}
	return dst
}
