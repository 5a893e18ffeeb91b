package render

import (
	"math"

	"github.com/iburimskiy/shift-rings/internal/rings"
)

// ClipToDevice maps a clip-space point onto a width by height pixel target
// with y pointing down. It inverts rings.ClipSpace for a target whose center
// is the clip origin.
func ClipToDevice(x, y float32, width, height float64) rings.Point {
	return rings.Point{
		X: (float64(x) + 1) / 2 * width,
		Y: (1 - float64(y)) / 2 * height,
	}
}

// Perpendicular returns the unit left normal of the segment from a to b.
// A degenerate segment gets the upward normal (0, -1).
func Perpendicular(a, b rings.Point) rings.Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Hypot(dx, dy)
	if ln < 1e-10 {
		return rings.Point{X: 0, Y: -1}
	}
	return rings.Point{X: -dy / ln, Y: dx / ln}
}

// LineQuad returns the corners of a line of the given width from a to b, in
// the order a+n, a-n, b+n, b-n where n is the half-width normal. Triangles
// (0, 1, 2) and (1, 3, 2) cover it.
func LineQuad(a, b rings.Point, width float64) [4]rings.Point {
	n := Perpendicular(a, b)
	hx, hy := n.X*width/2, n.Y*width/2
	return [4]rings.Point{
		{X: a.X + hx, Y: a.Y + hy},
		{X: a.X - hx, Y: a.Y - hy},
		{X: b.X + hx, Y: b.Y + hy},
		{X: b.X - hx, Y: b.Y - hy},
	}
}
