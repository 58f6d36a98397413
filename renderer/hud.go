package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds what the heads-up display shows.
type HUDData struct {
	Title         string
	Particles     int
	Frame         uint64
	FPS           int32
	Yaw, Pitch    float64
	Width, Height int
}

// Lines returns the HUD text, one entry per row.
func (d HUDData) Lines() []string {
	return []string{
		d.Title,
		fmt.Sprintf("Particles: %d | Frame: %d | FPS: %d", d.Particles, d.Frame, d.FPS),
		fmt.Sprintf("Yaw: %.4f | Pitch: %.4f | %dx%d", d.Yaw, d.Pitch, d.Width, d.Height),
	}
}

// drawHUD renders the HUD in the top left corner.
func drawHUD(d HUDData) {
	lines := d.Lines()
	rl.DrawText(lines[0], 10, 10, 20, rl.White)
	for i, line := range lines[1:] {
		rl.DrawText(line, 10, int32(35+20*i), 16, rl.LightGray)
	}
}
