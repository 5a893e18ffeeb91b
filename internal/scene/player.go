package scene

import (
	"image/color"
	"time"

	"github.com/iburimskiy/shift-rings/internal/config"
	"github.com/iburimskiy/shift-rings/internal/render"
)

// Loudness follows a soundtrack by one frame and returns its level in [0, 1].
type Loudness interface {
	Update(frame time.Duration) float64
}

// Player paces a scene. Every admitted frame first shows the scene as it is,
// then advances it one tick.
type Player struct {
	Scene    *Scene
	Tint     *Tint
	Throttle *render.Throttle
	// Loudness is optional. Its level scales drift amplitude by
	// 1 + Gain*level.
	Loudness Loudness
	Gain     float64
	Paused   bool
}

func NewPlayer(cfg *config.Config, sc *Scene) *Player {
	return &Player{
		Scene:    sc,
		Tint:     NewTint(cfg),
		Throttle: render.NewThrottle(cfg.FPS),
		Gain:     cfg.AudioGain,
	}
}

// Step offers a frame at now and reports whether it was admitted. Paused
// players admit nothing.
func (p *Player) Step(now time.Time, show func(sc *Scene, clr color.RGBA)) bool {
	if p.Paused || !p.Throttle.Ready(now) {
		return false
	}
	show(p.Scene, p.Tint.Color())

	scale := 1.0
	if p.Loudness != nil {
		scale += p.Gain * p.Loudness.Update(p.Throttle.Interval())
	}
	p.Scene.SetScale(scale)
	p.Scene.Advance()
	p.Tint.Advance()
	return true
}
