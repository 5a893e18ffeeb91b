package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/iburimskiy/shift-rings/internal/rings"
)

// Canvas is an offscreen PathSurface backed by a gg context, used for PNG
// snapshots.
type Canvas struct {
	dc         *gg.Context
	viewport   Viewport
	background color.Color
	stroke     color.Color
	lineWidth  float64
}

func NewCanvas(vp Viewport, lineWidth float64, stroke color.Color) (*Canvas, error) {
	if vp.Empty() {
		return nil, ErrNoContext
	}
	w, h := vp.BackingSize()
	dc := gg.NewContext(w, h)
	dc.Scale(vp.Ratio, vp.Ratio)
	return &Canvas{
		dc:         dc,
		viewport:   vp,
		background: color.Black,
		stroke:     stroke,
		lineWidth:  lineWidth,
	}, nil
}

func (c *Canvas) SetStrokeColor(clr color.Color) { c.stroke = clr }

func (c *Canvas) Clear() {
	c.dc.SetColor(c.background)
	c.dc.Clear()
}

func (c *Canvas) BeginStroke() { c.dc.ClearPath() }

func (c *Canvas) MoveTo(p rings.Point) { c.dc.MoveTo(p.X, p.Y) }

func (c *Canvas) LineTo(p rings.Point) { c.dc.LineTo(p.X, p.Y) }

func (c *Canvas) Stroke() {
	c.dc.SetColor(c.stroke)
	c.dc.SetLineWidth(c.lineWidth)
	c.dc.Stroke()
}

func (c *Canvas) Image() image.Image { return c.dc.Image() }

func (c *Canvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

func (c *Canvas) SavePNG(path string) error { return c.dc.SavePNG(path) }
