package rings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShift_LineSegment(t *testing.T) {
	center := Point{X: 100, Y: 50}
	s := Shift{Angle: 0, ParentAngle: math.Pi / 2}

	l := s.LineSegment(center, 10, 20)

	assert.InDelta(t, 110, l.Start.X, 1e-9)
	assert.InDelta(t, 50, l.Start.Y, 1e-9)
	assert.InDelta(t, 100, l.End.X, 1e-9)
	assert.InDelta(t, 70, l.End.Y, 1e-9)
}

func TestShift_LineSegmentAtCenter(t *testing.T) {
	center := Point{X: 3, Y: 4}
	l := Shift{Angle: 1.2, ParentAngle: 2.5}.LineSegment(center, 0, 0)
	assert.Equal(t, center, l.Start)
	assert.Equal(t, center, l.End)
}

func TestClipSpace(t *testing.T) {
	center := Point{X: 320, Y: 240}

	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{name: "center", p: center, want: Point{0, 0}},
		{name: "right edge", p: Point{X: 640, Y: 240}, want: Point{1, 0}},
		{name: "left edge", p: Point{X: 0, Y: 240}, want: Point{-1, 0}},
		{name: "top edge", p: Point{X: 320, Y: 0}, want: Point{0, 1}},
		{name: "bottom edge", p: Point{X: 320, Y: 480}, want: Point{0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipSpace(tt.p, center)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}
}

func TestVertices(t *testing.T) {
	center := Point{X: 10, Y: 10}
	lines := []Line{
		{Start: Point{10, 10}, End: Point{20, 10}},
		{Start: Point{10, 0}, End: Point{0, 20}},
	}

	buf := Vertices(nil, lines, center)

	require.Len(t, buf, 8)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, -1, -1}, buf)
}

func TestVertices_Appends(t *testing.T) {
	buf := []float32{9}
	buf = Vertices(buf, []Line{{}}, Point{X: 1, Y: 1})
	assert.Equal(t, []float32{9, -1, 1, -1, 1}, buf)
}
