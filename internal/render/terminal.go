package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/shift-rings/internal/rings"
)

const (
	halfUpper = 1 << iota
	halfLower
)

// Terminal rasterizes strokes into a tcell screen. Each cell holds two
// vertically stacked pixels, so the logical surface is cols wide and 2*rows
// tall.
type Terminal struct {
	screen tcell.Screen
	cols   int
	rows   int
	cells  []uint8
	pen    rings.Point
	style  tcell.Style
}

// NewTerminal initializes screen and takes ownership of it.
func NewTerminal(screen tcell.Screen) (*Terminal, error) {
	if screen == nil {
		return nil, ErrNoContext
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoContext, err)
	}
	screen.HideCursor()
	t := &Terminal{
		screen: screen,
		style:  tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	}
	t.Resize()
	return t, nil
}

// Resize picks up the current screen size and returns the new viewport.
func (t *Terminal) Resize() Viewport {
	t.cols, t.rows = t.screen.Size()
	t.cells = make([]uint8, t.cols*t.rows)
	return t.Viewport()
}

func (t *Terminal) Viewport() Viewport {
	return NewViewport(float64(t.cols), float64(t.rows*2), 1)
}

func (t *Terminal) Screen() tcell.Screen { return t.screen }

func (t *Terminal) SetStrokeColor(r, g, b uint8) {
	t.style = t.style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func (t *Terminal) Clear() {
	t.screen.Clear()
	clear(t.cells)
}

func (t *Terminal) BeginStroke() { clear(t.cells) }

func (t *Terminal) MoveTo(p rings.Point) { t.pen = p }

func (t *Terminal) LineTo(p rings.Point) {
	x0, y0 := int(math.Round(t.pen.X)), int(math.Round(t.pen.Y))
	x1, y1 := int(math.Round(p.X)), int(math.Round(p.Y))
	t.pen = p

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		t.plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (t *Terminal) plot(x, y int) {
	if x < 0 || y < 0 || x >= t.cols || y >= t.rows*2 {
		return
	}
	bit := uint8(halfUpper)
	if y%2 == 1 {
		bit = halfLower
	}
	t.cells[(y/2)*t.cols+x] |= bit
}

func (t *Terminal) Stroke() {
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			var r rune
			switch t.cells[row*t.cols+col] {
			case halfUpper:
				r = '▀'
			case halfLower:
				r = '▄'
			case halfUpper | halfLower:
				r = '█'
			default:
				continue
			}
			t.screen.SetContent(col, row, r, nil, t.style)
		}
	}
	t.screen.Show()
}

// Fini restores the terminal.
func (t *Terminal) Fini() { t.screen.Fini() }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
