package field

// Reflect returns the velocity component for a position component that has
// already been advanced this frame. Outside [-r, r] the sign flips; the
// position is never clamped, so a particle may sit up to one step outside
// the cube before it drifts back.
func Reflect(pos, vel, r float32) float32 {
	if pos > r || pos < -r {
		return -vel
	}
	return vel
}
