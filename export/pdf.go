package export

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/fukurin00/map_drawer/drawer"
)

const (
	sheetMargin = 15.0 // [mm]
	captionSize = 10.0 // [pt]
)

// WritePDF draws strokes on an A4 sheet, scaled to fit inside the margins,
// with a caption giving the map size in metres and the print scale.
func WritePDF(w io.Writer, strokes []drawer.Stroke, width, height int, resolution float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid map size %dx%d", width, height)
	}
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	pw, ph := p.GetPageSize()

	areaW := pw - 2*sheetMargin
	areaH := ph - 3*sheetMargin
	scale := math.Min(areaW/float64(width), areaH/float64(height)) // mm per px

	p.SetDrawColor(200, 200, 200)
	p.SetLineWidth(0.1)
	p.Rect(sheetMargin, sheetMargin, float64(width)*scale, float64(height)*scale, "D")

	p.SetDrawColor(0, 0, 0)
	p.SetFillColor(0, 0, 0)
	p.SetLineCapStyle("square")
	for _, s := range strokes {
		x1 := sheetMargin + (float64(s.From.X)+0.5)*scale
		y1 := sheetMargin + (float64(s.From.Y)+0.5)*scale
		x2 := sheetMargin + (float64(s.To.X)+0.5)*scale
		y2 := sheetMargin + (float64(s.To.Y)+0.5)*scale
		t := s.Thickness * scale
		if s.From == s.To {
			p.Rect(x1-t/2, y1-t/2, t, t, "F")
			continue
		}
		p.SetLineWidth(t)
		p.Line(x1, y1, x2, y2)
	}

	p.SetFont("Helvetica", "", captionSize)
	p.Text(sheetMargin, sheetMargin+float64(height)*scale+8,
		fmt.Sprintf("%d x %d px, %.2f x %.2f m, resolution %g m/px, 1 mm = %.3f m",
			width, height, float64(width)*resolution, float64(height)*resolution,
			resolution, resolution/scale))

	return p.Output(w)
}
