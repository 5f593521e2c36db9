package drawer

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

const (
	Free     uint8 = 255
	Occupied uint8 = 0

	// pixels covered at least this much by a stroke become occupied
	coverageThreshold uint8 = 0x40
)

// Raster is the off-screen binary bitmap mirroring the canvas.
// Pixels only ever go from Free to Occupied between two Clear calls,
// so the result of drawing a set of strokes does not depend on order.
type Raster struct {
	img *image.Gray
	ras *vector.Rasterizer
}

func NewRaster(width, height int) *Raster {
	r := &Raster{
		img: image.NewGray(image.Rect(0, 0, width, height)),
		ras: vector.NewRasterizer(1, 1),
	}
	r.Clear()
	return r
}

// Clear sets every pixel free.
func (r *Raster) Clear() {
	for i := range r.img.Pix {
		r.img.Pix[i] = Free
	}
}

func (r *Raster) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// DrawStroke marks the pixels under s occupied. Parts outside the
// raster are clipped.
func (r *Raster) DrawStroke(s Stroke) {
	quad, ok := strokeQuad(s, r.img.Bounds())
	if !ok {
		return
	}

	minX, minY := quad[0][0], quad[0][1]
	maxX, maxY := minX, minY
	for _, c := range quad[1:] {
		minX = math.Min(minX, c[0])
		minY = math.Min(minY, c[1])
		maxX = math.Max(maxX, c[0])
		maxY = math.Max(maxY, c[1])
	}
	area := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(r.img.Bounds())
	if area.Empty() {
		return
	}

	w, h := area.Dx(), area.Dy()
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	r.ras.Reset(w, h)
	r.ras.DrawOp = draw.Src
	r.ras.MoveTo(float32(quad[0][0]-ox), float32(quad[0][1]-oy))
	for _, c := range quad[1:] {
		r.ras.LineTo(float32(c[0]-ox), float32(c[1]-oy))
	}
	r.ras.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, a := range row {
			if a >= coverageThreshold {
				r.img.Pix[r.img.PixOffset(area.Min.X+x, area.Min.Y+y)] = Occupied
			}
		}
	}
}

// strokeQuad returns the corners of the stroke outline: a rectangle
// Thickness wide around the segment, extended by half the thickness past
// both ends. Odd thicknesses sit on pixel centres, even ones on corners,
// so axis-aligned strokes cover whole pixels.
//
// The segment is first clipped to bounds grown by the thickness, so far
// away endpoints never reach the float32 rasterizer. ok is false when
// nothing of the stroke can touch bounds.
func strokeQuad(s Stroke, bounds image.Rectangle) (quad [4][2]float64, ok bool) {
	t := s.Thickness
	if t <= 0 {
		t = 1
	}
	off := 0.0
	if int(math.Round(t))%2 == 1 {
		off = 0.5
	}
	x1, y1 := float64(s.From.X)+off, float64(s.From.Y)+off
	x2, y2 := float64(s.To.X)+off, float64(s.To.Y)+off

	ux, uy := 1.0, 0.0
	if l := math.Hypot(x2-x1, y2-y1); l > 0 {
		ux, uy = (x2-x1)/l, (y2-y1)/l
	}

	margin := t + 1
	x1, y1, x2, y2, ok = clipSegment(x1, y1, x2, y2,
		float64(bounds.Min.X)-margin, float64(bounds.Min.Y)-margin,
		float64(bounds.Max.X)+margin, float64(bounds.Max.Y)+margin)
	if !ok {
		return quad, false
	}

	half := t / 2
	ex, ey := ux*half, uy*half
	nx, ny := -uy*half, ux*half

	return [4][2]float64{
		{x1 - ex + nx, y1 - ey + ny},
		{x2 + ex + nx, y2 + ey + ny},
		{x2 + ex - nx, y2 + ey - ny},
		{x1 - ex - nx, y1 - ey - ny},
	}, true
}

// clipSegment clips x1,y1-x2,y2 to the rectangle (Liang-Barsky).
// Endpoints inside the rectangle are returned unchanged.
func clipSegment(x1, y1, x2, y2, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 - minX},
		{dx, maxX - x1},
		{-dy, y1 - minY},
		{dy, maxY - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	cx1, cy1, cx2, cy2 := x1, y1, x2, y2
	if t0 > 0 {
		cx1, cy1 = x1+t0*dx, y1+t0*dy
	}
	if t1 < 1 {
		cx2, cy2 = x1+t1*dx, y1+t1*dy
	}
	return cx1, cy1, cx2, cy2, true
}
