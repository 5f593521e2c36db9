package drawer

// History is the ordered list of drawn strokes.
// It only grows at the end, shrinks from the end, or empties.
type History struct {
	strokes []Stroke
}

func NewHistory() *History {
	return &History{strokes: make([]Stroke, 0, 64)}
}

func (h *History) Push(s Stroke) {
	h.strokes = append(h.strokes, s)
}

// Pop removes and returns the newest stroke.
func (h *History) Pop() (Stroke, bool) {
	if len(h.strokes) == 0 {
		return Stroke{}, false
	}
	last := h.strokes[len(h.strokes)-1]
	h.strokes = h.strokes[:len(h.strokes)-1]
	return last, true
}

func (h *History) Clear() {
	h.strokes = h.strokes[:0]
}

func (h *History) Len() int {
	return len(h.strokes)
}

// Strokes returns a copy in insertion order.
func (h *History) Strokes() []Stroke {
	out := make([]Stroke, len(h.strokes))
	copy(out, h.strokes)
	return out
}
