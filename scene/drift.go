package scene

// Drift is the slow whole-scene rotation applied once per frame.
type Drift struct {
	Yaw   float64 // Added to the root rotation about Y
	Pitch float64 // Added to the root rotation about X
}

// Advance adds one frame of drift to the scene root, unconditionally.
func (d Drift) Advance(s *Scene) {
	rot := s.Rotation()
	rot.RotY += d.Yaw
	rot.RotX += d.Pitch
}
