package render

import (
	"math"
	"time"

	"github.com/iburimskiy/shift-rings/internal/rings"
)

// Throttle admits frames at most once per interval. Frames arriving early are
// dropped, not delayed, so every admitted frame advances the animation by
// exactly one tick.
type Throttle struct {
	interval time.Duration
	last     time.Time
	started  bool
}

func NewThrottle(fps float64) *Throttle {
	return &Throttle{interval: time.Duration(float64(time.Second) / fps)}
}

// Ready reports whether a frame at now should be drawn and, if so, records
// it as the last drawn frame.
func (t *Throttle) Ready(now time.Time) bool {
	if t.started && now.Sub(t.last) <= t.interval {
		return false
	}
	t.last = now
	t.started = true
	return true
}

func (t *Throttle) Interval() time.Duration { return t.interval }

// Viewport is the logical drawing area and the device pixel ratio of the
// backing store.
type Viewport struct {
	Width  float64
	Height float64
	Ratio  float64
}

// NewViewport treats a missing ratio as 1.
func NewViewport(width, height, ratio float64) Viewport {
	if ratio <= 0 {
		ratio = 1
	}
	return Viewport{Width: width, Height: height, Ratio: ratio}
}

// BackingSize is the surface size in device pixels.
func (v Viewport) BackingSize() (int, int) {
	return int(math.Ceil(v.Width * v.Ratio)), int(math.Ceil(v.Height * v.Ratio))
}

func (v Viewport) Center() rings.Point {
	return rings.Point{X: v.Width / 2, Y: v.Height / 2}
}

// MaxDist is the radius of the outermost ring.
func (v Viewport) MaxDist() float64 {
	return math.Max(v.Width/2, v.Height/2)
}

// Device converts a logical point to device pixels.
func (v Viewport) Device(p rings.Point) rings.Point {
	return rings.Point{X: p.X * v.Ratio, Y: p.Y * v.Ratio}
}

func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0 || v.Ratio <= 0
}
