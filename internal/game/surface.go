package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/shift-rings/internal/render"
	"github.com/iburimskiy/shift-rings/internal/rings"
)

// maxBatchLines keeps a batch's vertex indices within uint16.
const maxBatchLines = 8192

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

func colorize(vs []ebiten.Vertex, clr color.RGBA) {
	r := float32(clr.R) / 0xff
	g := float32(clr.G) / 0xff
	b := float32(clr.B) / 0xff
	a := float32(clr.A) / 0xff
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
}

// pathSurface is the canvas-style surface: logical-pixel strokes scaled to
// the device pixel ratio and tessellated by ebiten's vector package.
type pathSurface struct {
	target   *ebiten.Image
	viewport render.Viewport
	color    color.RGBA
	width    float64

	path     vector.Path
	lines    int
	vertices []ebiten.Vertex
	indices  []uint16
}

func (s *pathSurface) bind(target *ebiten.Image, vp render.Viewport) error {
	if target == nil {
		return render.ErrNoContext
	}
	s.target = target
	s.viewport = vp
	return nil
}

func (s *pathSurface) Clear() { s.target.Fill(color.Black) }

func (s *pathSurface) BeginStroke() {
	s.path = vector.Path{}
	s.lines = 0
}

func (s *pathSurface) MoveTo(p rings.Point) {
	d := s.viewport.Device(p)
	s.path.MoveTo(float32(d.X), float32(d.Y))
}

func (s *pathSurface) LineTo(p rings.Point) {
	d := s.viewport.Device(p)
	s.path.LineTo(float32(d.X), float32(d.Y))
	s.lines++
	if s.lines >= maxBatchLines {
		s.Stroke()
		s.BeginStroke()
	}
}

func (s *pathSurface) Stroke() {
	if s.lines == 0 {
		return
	}
	op := &vector.StrokeOptions{Width: float32(s.width * s.viewport.Ratio)}
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], op)
	colorize(s.vertices, s.color)
	s.target.DrawTriangles(s.vertices, s.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// bufferSurface is the line-list surface: it takes clip-space endpoints and
// expands every line into a quad of the configured width.
type bufferSurface struct {
	target *ebiten.Image
	color  color.RGBA
	width  float64
	ratio  float64

	uploaded []float32
	vertices []ebiten.Vertex
	indices  []uint16
}

func (s *bufferSurface) bind(target *ebiten.Image, ratio float64) error {
	if target == nil {
		return render.ErrNoContext
	}
	s.target = target
	s.ratio = ratio
	return nil
}

func (s *bufferSurface) Upload(vertices []float32) { s.uploaded = vertices }

func (s *bufferSurface) DrawLines() {
	b := s.target.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	width := s.width * s.ratio

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for i := 0; i+3 < len(s.uploaded); i += 4 {
		start := render.ClipToDevice(s.uploaded[i], s.uploaded[i+1], w, h)
		end := render.ClipToDevice(s.uploaded[i+2], s.uploaded[i+3], w, h)
		s.appendQuad(render.LineQuad(start, end, width))
		if len(s.vertices) >= maxBatchLines*4 {
			s.flush()
		}
	}
	s.flush()
}

func (s *bufferSurface) appendQuad(q [4]rings.Point) {
	v := uint16(len(s.vertices))
	for _, p := range q {
		s.vertices = append(s.vertices, ebiten.Vertex{DstX: float32(p.X), DstY: float32(p.Y)})
	}
	s.indices = append(s.indices, v, v+1, v+2, v+1, v+3, v+2)
}

func (s *bufferSurface) flush() {
	if len(s.vertices) == 0 {
		return
	}
	colorize(s.vertices, s.color)
	s.target.DrawTriangles(s.vertices, s.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}
