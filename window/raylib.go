package window

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftbox/config"
	"github.com/pthm-cable/driftbox/game"
)

// Raylib is a desktop window host. Its methods must run on the main thread.
type Raylib struct {
	maxFrames uint64
}

// OpenRaylib creates the window. It returns game.ErrNoSurface when no
// window could be created.
func OpenRaylib(screen config.ScreenConfig, maxFrames uint64) (*Raylib, error) {
	var flags uint32
	if screen.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if screen.Transparent {
		flags |= rl.FlagWindowTransparent
	}
	if flags != 0 {
		rl.SetConfigFlags(flags)
	}

	rl.InitWindow(int32(screen.Width), int32(screen.Height), screen.Title)
	if !rl.IsWindowReady() {
		return nil, game.ErrNoSurface
	}
	rl.SetTargetFPS(int32(screen.TargetFPS))

	return &Raylib{maxFrames: maxFrames}, nil
}

// Size returns the current window size.
func (w *Raylib) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Run delivers one frame per display refresh, preceded by a resize event
// whenever the window size changed, until the window is closed, maxFrames
// frames have run or ctx is done.
func (w *Raylib) Run(ctx context.Context, d *game.Dispatcher) error {
	var frames uint64
	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if rl.IsWindowResized() {
			width, height := w.Size()
			d.Dispatch(game.ResizeEvent{Width: width, Height: height})
		}

		if !d.Dispatch(game.FrameEvent{}) {
			// Nothing drew this refresh; keep the event pump going
			rl.BeginDrawing()
			rl.EndDrawing()
		}

		frames++
		if w.maxFrames > 0 && frames >= w.maxFrames {
			break
		}
	}
	return nil
}

// Close destroys the window.
func (w *Raylib) Close() {
	rl.CloseWindow()
}
