package drawer

// Surface mirrors drawing calls for visual feedback. It owns whatever
// handles it creates and is never consulted as the source of truth.
type Surface interface {
	DrawStroke(id string, s Stroke)
	EraseStroke(id string)
	DrawPreview(from, to Point)
	ClearPreview()
	Reset()
}

// NopSurface discards every call. Used for headless drawing.
type NopSurface struct{}

func (NopSurface) DrawStroke(string, Stroke) {}
func (NopSurface) EraseStroke(string)        {}
func (NopSurface) DrawPreview(Point, Point)  {}
func (NopSurface) ClearPreview()             {}
func (NopSurface) Reset()                    {}
