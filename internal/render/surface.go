// Package render holds the drawing contracts the ring animation writes into
// and the surface-independent frame plumbing: DPI scaling and frame pacing.
package render

import (
	"errors"

	"github.com/iburimskiy/shift-rings/internal/rings"
)

// ErrNoContext is returned when a surface cannot obtain the drawing context
// it renders into. Rendering must not proceed after it.
var ErrNoContext = errors.New("render: drawing context unavailable")

// PathSurface is an immediate-mode canvas taking coordinates in logical
// pixels.
type PathSurface interface {
	Clear()
	BeginStroke()
	MoveTo(p rings.Point)
	LineTo(p rings.Point)
	Stroke()
}

// BufferSurface consumes line endpoints already mapped to clip space, as
// interleaved x0, y0, x1, y1 floats.
type BufferSurface interface {
	Upload(vertices []float32)
	DrawLines()
}

// StrokeLines draws lines as a single stroke batch.
func StrokeLines(s PathSurface, lines []rings.Line) {
	s.BeginStroke()
	for _, l := range lines {
		s.MoveTo(l.Start)
		s.LineTo(l.End)
	}
	s.Stroke()
}
