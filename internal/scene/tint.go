package scene

import (
	"image/color"
	"math"

	"github.com/iburimskiy/shift-rings/internal/config"
)

// Tint is the stroke color of a scene, either fixed or slowly cycling
// through hues.
type Tint struct {
	Base  config.Color
	Cycle bool
	Speed float64

	phase float64
}

func NewTint(cfg *config.Config) *Tint {
	return &Tint{Base: cfg.LineColor, Cycle: cfg.HueCycle, Speed: config.ColorShiftSpeed}
}

// Advance moves the hue one frame forward.
func (t *Tint) Advance() {
	if t.Cycle {
		t.phase += t.Speed
	}
}

func (t *Tint) RGB() (uint8, uint8, uint8) {
	if !t.Cycle {
		return t.Base.R, t.Base.G, t.Base.B
	}
	return hsvToRgb(t.phase*360, 0.6, 1.0)
}

func (t *Tint) Color() color.RGBA {
	r, g, b := t.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// hsvToRgb maps a hue in degrees (any value, wrapped to [0, 360)) and a
// saturation and value in [0, 1] to 8-bit RGB.
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	chroma := v * s
	sector := h / 60
	mid := chroma * (1 - math.Abs(math.Mod(sector, 2)-1))
	floor := v - chroma

	rgb := [6][3]float64{
		{chroma, mid, 0},
		{mid, chroma, 0},
		{0, chroma, mid},
		{0, mid, chroma},
		{mid, 0, chroma},
		{chroma, 0, mid},
	}[int(sector)%6]

	to8 := func(c float64) uint8 { return uint8((c + floor) * 255) }
	return to8(rgb[0]), to8(rgb[1]), to8(rgb[2])
}
