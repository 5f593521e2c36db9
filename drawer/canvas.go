// Package drawer holds the map canvas model: the stroke history, the
// binary raster that mirrors it, and the pointer-event state machine
// that turns presses, drags and clicks into strokes.
package drawer

import (
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	DefaultWidth           = 400 // 4m square at 0.01 m/px
	DefaultHeight          = 400
	DefaultThickness       = 3.0
	DefaultBorderThickness = 5.0
)

// Surface ids of the border fixture, in drawing order.
var BorderIDs = [4]string{"border-top", "border-right", "border-bottom", "border-left"}

type Options struct {
	Width           int
	Height          int
	Thickness       float64
	BorderThickness float64
	Borders         bool
}

// MapCanvas owns the stroke history and the raster and keeps them
// consistent: the raster is always the rasterization of the border
// fixture (when enabled) plus every stroke in history.
//
// MapCanvas is not safe for concurrent use. One event loop drives it.
type MapCanvas struct {
	width           int
	height          int
	thickness       float64
	borderThickness float64
	borders         bool

	surface Surface
	raster  *Raster
	history *History

	mode Mode

	// freehand drag
	dragging bool
	last     Point

	// two-click line
	hasAnchor  bool
	anchor     Point
	previewing bool

	newID func() string
}

// New creates a canvas and draws the border fixture when enabled.
// A nil surface draws headless.
func New(opts Options, surface Surface) *MapCanvas {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Thickness <= 0 {
		opts.Thickness = DefaultThickness
	}
	if opts.BorderThickness <= 0 {
		opts.BorderThickness = DefaultBorderThickness
	}
	if surface == nil {
		surface = NopSurface{}
	}

	m := &MapCanvas{
		width:           opts.Width,
		height:          opts.Height,
		thickness:       opts.Thickness,
		borderThickness: opts.BorderThickness,
		borders:         opts.Borders,
		surface:         surface,
		raster:          NewRaster(opts.Width, opts.Height),
		history:         NewHistory(),
		mode:            ModeFreehand,
		newID:           uuid.NewString,
	}
	m.drawBorders()
	log.Debugf("canvas %dx%d thickness %.1f borders %v", m.width, m.height, m.thickness, m.borders)
	return m
}

func (m *MapCanvas) Size() (int, int) {
	return m.width, m.height
}

func (m *MapCanvas) Mode() Mode {
	return m.mode
}

// Anchor returns the pending two-click anchor, if any.
func (m *MapCanvas) Anchor() (Point, bool) {
	return m.anchor, m.hasAnchor
}

// Drawing reports whether a freehand drag is active.
func (m *MapCanvas) Drawing() bool {
	return m.dragging
}

// History returns a copy of the strokes in drawing order.
func (m *MapCanvas) History() []Stroke {
	return m.history.Strokes()
}

// BeginStroke handles a pointer press. In freehand mode it starts a drag.
// In line mode the first press stores the anchor and the second one
// finishes a stroke from the anchor to p, which is returned.
func (m *MapCanvas) BeginStroke(p Point) (Stroke, bool) {
	switch m.mode {
	case ModeTwoClick:
		if !m.hasAnchor {
			m.anchor = p
			m.hasAnchor = true
			return Stroke{}, false
		}
		s := m.commit(m.anchor, p)
		m.hasAnchor = false
		m.clearPreview()
		return s, true
	default:
		m.dragging = true
		m.last = p
		return Stroke{}, false
	}
}

// ExtendStroke handles pointer motion. A freehand drag appends one stroke
// per call from the previous point to p. In line mode with a pending
// anchor it only moves the preview, which never reaches the raster.
func (m *MapCanvas) ExtendStroke(p Point) (Stroke, bool) {
	switch m.mode {
	case ModeTwoClick:
		if m.hasAnchor {
			m.surface.DrawPreview(m.anchor, p)
			m.previewing = true
		}
		return Stroke{}, false
	default:
		if !m.dragging {
			return Stroke{}, false
		}
		s := m.commit(m.last, p)
		m.last = p
		return s, true
	}
}

// EndStroke handles pointer release.
func (m *MapCanvas) EndStroke() {
	switch m.mode {
	case ModeTwoClick:
		m.clearPreview()
	default:
		m.dragging = false
	}
}

// AddStrokeByCoordinates adds a line from two "x,y" texts. Nothing
// changes when either text is malformed; the error is an
// *InputFormatError.
func (m *MapCanvas) AddStrokeByCoordinates(start, end string) (Stroke, error) {
	from, err := ParsePoint("start", start)
	if err != nil {
		return Stroke{}, err
	}
	to, err := ParsePoint("end", end)
	if err != nil {
		return Stroke{}, err
	}
	return m.commit(from, to), nil
}

// AddStroke adds a finished line from one point to another.
func (m *MapCanvas) AddStroke(from, to Point) Stroke {
	return m.commit(from, to)
}

// Undo removes the newest stroke and rebuilds the raster from scratch.
// Strokes may overlap, so unsetting the removed stroke's pixels would be
// wrong; replaying the rest is the only way to stay consistent.
func (m *MapCanvas) Undo() (Stroke, bool) {
	s, ok := m.history.Pop()
	if !ok {
		return Stroke{}, false
	}
	m.surface.EraseStroke(s.ID)
	m.rebuild()
	log.Debugf("undo %s, %d strokes left", s.ID, m.history.Len())
	return s, true
}

// ClearAll empties the history and resets surface and raster to the
// border fixture.
func (m *MapCanvas) ClearAll() {
	m.history.Clear()
	m.cancel()
	m.surface.Reset()
	m.raster.Clear()
	m.drawBorders()
	log.Debug("canvas cleared")
}

// SwitchMode toggles between freehand and line mode. Any pending anchor,
// preview or drag is dropped without adding a stroke.
func (m *MapCanvas) SwitchMode() Mode {
	if m.mode == ModeFreehand {
		m.SetMode(ModeTwoClick)
	} else {
		m.SetMode(ModeFreehand)
	}
	return m.mode
}

func (m *MapCanvas) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.cancel()
	m.mode = mode
}

// Snapshot copies the current raster. Pending anchors and previews are
// never part of it.
func (m *MapCanvas) Snapshot() *Snapshot {
	return newSnapshot(m.raster.img)
}

// Borders returns the border fixture strokes, or nil when disabled.
func (m *MapCanvas) Borders() []Stroke {
	if !m.borders {
		return nil
	}
	w, h := m.width-1, m.height-1
	ends := [4][2]Point{
		{{0, 0}, {w, 0}},
		{{w, 0}, {w, h}},
		{{0, h}, {w, h}},
		{{0, 0}, {0, h}},
	}
	out := make([]Stroke, len(ends))
	for i, e := range ends {
		out[i] = Stroke{ID: BorderIDs[i], From: e[0], To: e[1], Thickness: m.borderThickness}
	}
	return out
}

func (m *MapCanvas) commit(from, to Point) Stroke {
	s := Stroke{ID: m.newID(), From: from, To: to, Thickness: m.thickness}
	m.history.Push(s)
	m.raster.DrawStroke(s)
	m.surface.DrawStroke(s.ID, s)
	return s
}

func (m *MapCanvas) drawBorders() {
	for _, b := range m.Borders() {
		m.raster.DrawStroke(b)
		m.surface.DrawStroke(b.ID, b)
	}
}

func (m *MapCanvas) rebuild() {
	m.raster.Clear()
	for _, b := range m.Borders() {
		m.raster.DrawStroke(b)
	}
	for _, s := range m.history.Strokes() {
		m.raster.DrawStroke(s)
	}
}

func (m *MapCanvas) cancel() {
	m.hasAnchor = false
	m.dragging = false
	m.clearPreview()
}

func (m *MapCanvas) clearPreview() {
	if m.previewing {
		m.surface.ClearPreview()
		m.previewing = false
	}
}
