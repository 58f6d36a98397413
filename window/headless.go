// Package window provides the hosts that deliver frame and resize events.
package window

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pthm-cable/driftbox/game"
)

// Resize is a scripted surface size change applied before a given frame.
type Resize struct {
	Frame         uint64
	Width, Height int
}

// Headless is a host without a display. Frames come from a ticker, or as
// fast as they are consumed when fps is 0.
type Headless struct {
	width, height int
	interval      time.Duration
	maxFrames     uint64
	resizes       []Resize
}

// NewHeadless creates a host with an initial surface size. maxFrames 0 runs
// until the context is cancelled.
func NewHeadless(width, height, fps int, maxFrames uint64, resizes []Resize) *Headless {
	h := &Headless{
		width:     width,
		height:    height,
		maxFrames: maxFrames,
		resizes:   resizes,
	}
	if fps > 0 {
		h.interval = time.Second / time.Duration(fps)
	}
	return h
}

// Size returns the initial surface size.
func (h *Headless) Size() (int, int) {
	return h.width, h.height
}

// Run feeds events to d from a producer goroutine and dispatches them on the
// calling goroutine. It returns when maxFrames frames have been delivered
// or ctx is done.
func (h *Headless) Run(ctx context.Context, d *game.Dispatcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- h.produce(ctx, d)
	}()

	runErr := d.Run(ctx)
	cancel()
	if err := <-done; err != nil && runErr == nil && err != context.Canceled {
		return err
	}
	return runErr
}

func (h *Headless) produce(ctx context.Context, d *game.Dispatcher) error {
	defer d.Close()

	var tick <-chan time.Time
	if h.interval > 0 {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	next := 0
	for frame := uint64(0); h.maxFrames == 0 || frame < h.maxFrames; frame++ {
		for next < len(h.resizes) && h.resizes[next].Frame <= frame {
			r := h.resizes[next]
			if err := d.Post(ctx, game.ResizeEvent{Width: r.Width, Height: r.Height}); err != nil {
				return err
			}
			next++
		}

		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := d.Post(ctx, game.FrameEvent{}); err != nil {
			return err
		}
	}
	return nil
}

// ParseResizes parses a comma separated list of WxH@frame entries,
// e.g. "800x600@120,1024x768@300". Entries are sorted by frame.
func ParseResizes(s string) ([]Resize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out []Resize
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		size, at, ok := strings.Cut(part, "@")
		if !ok {
			return nil, fmt.Errorf("resize %q: missing @frame", part)
		}
		ws, hs, ok := strings.Cut(size, "x")
		if !ok {
			return nil, fmt.Errorf("resize %q: size must be WxH", part)
		}

		w, err := strconv.Atoi(ws)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("resize %q: bad width: %w", part, errOrNegative(err))
		}
		h, err := strconv.Atoi(hs)
		if err != nil || h < 0 {
			return nil, fmt.Errorf("resize %q: bad height: %w", part, errOrNegative(err))
		}
		frame, err := strconv.ParseUint(at, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("resize %q: bad frame: %w", part, err)
		}

		out = append(out, Resize{Frame: frame, Width: w, Height: h})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out, nil
}

var errNegative = errors.New("negative value")

func errOrNegative(err error) error {
	if err != nil {
		return err
	}
	return errNegative
}
