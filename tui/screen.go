package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/fukurin00/map_drawer/drawer"
)

const (
	wallRune    = '█'
	previewRune = '·'
)

var (
	wallStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	previewStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	statusStyle  = tcell.StyleDefault.Reverse(true)
)

// Screen is the display surface on a terminal. One cell shows a block of
// scaleX by scaleY canvas pixels; the last row is kept for the status line.
type Screen struct {
	ts      tcell.Screen
	strokes map[string]drawer.Stroke
	order   []string
	preview *[2]drawer.Point

	canvasW, canvasH int
	scaleX, scaleY   int
}

func NewScreen(ts tcell.Screen, canvasW, canvasH int) *Screen {
	s := &Screen{
		ts:      ts,
		strokes: make(map[string]drawer.Stroke),
		canvasW: canvasW,
		canvasH: canvasH,
	}
	s.Resize()
	return s
}

// Resize recomputes the cell scale from the terminal size.
func (s *Screen) Resize() {
	w, h := s.ts.Size()
	rows := h - 1
	if w < 1 {
		w = 1
	}
	if rows < 1 {
		rows = 1
	}
	s.scaleX = (s.canvasW + w - 1) / w
	s.scaleY = (s.canvasH + rows - 1) / rows
}

// ToCanvas maps a terminal cell to the canvas pixel at its centre.
func (s *Screen) ToCanvas(x, y int) drawer.Point {
	return drawer.Point{X: x*s.scaleX + s.scaleX/2, Y: y*s.scaleY + s.scaleY/2}
}

func (s *Screen) toCell(p drawer.Point) (int, int) {
	return floorDiv(p.X, s.scaleX), floorDiv(p.Y, s.scaleY)
}

// InCanvas reports whether cell x,y shows part of the canvas.
func (s *Screen) InCanvas(x, y int) bool {
	p := s.ToCanvas(x, y)
	return x >= 0 && y >= 0 && p.X < s.canvasW && p.Y < s.canvasH
}

func (s *Screen) DrawStroke(id string, st drawer.Stroke) {
	if _, ok := s.strokes[id]; !ok {
		s.order = append(s.order, id)
	}
	s.strokes[id] = st
}

func (s *Screen) EraseStroke(id string) {
	delete(s.strokes, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Screen) DrawPreview(from, to drawer.Point) {
	s.preview = &[2]drawer.Point{from, to}
}

func (s *Screen) ClearPreview() {
	s.preview = nil
}

func (s *Screen) Reset() {
	s.strokes = make(map[string]drawer.Stroke)
	s.order = nil
	s.preview = nil
}

// Len returns the number of stroke handles on screen, borders included.
func (s *Screen) Len() int {
	return len(s.strokes)
}

// Render draws the canvas area and the status line.
func (s *Screen) Render(status string) {
	s.ts.Clear()
	for _, id := range s.order {
		st := s.strokes[id]
		s.line(st.From, st.To, wallRune, wallStyle)
	}
	if s.preview != nil {
		s.line(s.preview[0], s.preview[1], previewRune, previewStyle)
	}

	w, h := s.ts.Size()
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		s.ts.SetContent(x, h-1, r, nil, statusStyle)
		x++
	}
	for ; x < w; x++ {
		s.ts.SetContent(x, h-1, ' ', nil, statusStyle)
	}
	s.ts.Show()
}

// line walks the cells between two canvas points (Bresenham).
func (s *Screen) line(from, to drawer.Point, r rune, style tcell.Style) {
	x0, y0 := s.toCell(from)
	x1, y1 := s.toCell(to)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.set(x0, y0, r, style)
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

func (s *Screen) set(x, y int, r rune, style tcell.Style) {
	_, h := s.ts.Size()
	if y >= h-1 || !s.InCanvas(x, y) {
		return
	}
	s.ts.SetContent(x, y, r, nil, style)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
