package rings

import "math"

// Point is a position on the drawing surface, in logical pixels unless noted.
type Point struct {
	X, Y float64
}

// Line is one rendered stroke.
type Line struct {
	Start, End Point
}

// Polar returns the point at radius r and angle theta around center.
func Polar(center Point, r, theta float64) Point {
	return Point{
		X: center.X + r*math.Cos(theta),
		Y: center.Y + r*math.Sin(theta),
	}
}

// Shift pairs the angle of a slot on one radius with the angle the same slot
// had one tick earlier, drawn on the adjacent radius.
type Shift struct {
	Angle       float64
	ParentAngle float64
}

// LineSegment projects Angle onto radius and ParentAngle onto parentRadius.
func (s Shift) LineSegment(center Point, radius, parentRadius float64) Line {
	return Line{
		Start: Polar(center, radius, s.Angle),
		End:   Polar(center, parentRadius, s.ParentAngle),
	}
}

// ClipSpace maps a surface point into normalized device coordinates around
// center. The y axis is flipped so that up is positive.
func ClipSpace(p, center Point) Point {
	return Point{
		X: (p.X - center.X) / center.X,
		Y: (center.Y - p.Y) / center.Y,
	}
}

// Vertices appends the clip-space endpoints of lines to dst as interleaved
// x0, y0, x1, y1 values and returns the extended slice.
func Vertices(dst []float32, lines []Line, center Point) []float32 {
	for _, l := range lines {
		a := ClipSpace(l.Start, center)
		b := ClipSpace(l.End, center)
		dst = append(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y))
	}
	return dst
}
