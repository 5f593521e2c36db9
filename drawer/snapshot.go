package drawer

import (
	"bytes"
	"image"
)

// Snapshot is an immutable copy of the raster at one point in time.
type Snapshot struct {
	width  int
	height int
	pix    []uint8
}

func newSnapshot(img *image.Gray) *Snapshot {
	b := img.Bounds()
	s := &Snapshot{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    make([]uint8, b.Dx()*b.Dy()),
	}
	for y := 0; y < s.height; y++ {
		copy(s.pix[y*s.width:(y+1)*s.width], img.Pix[y*img.Stride:y*img.Stride+s.width])
	}
	return s
}

func (s *Snapshot) Width() int  { return s.width }
func (s *Snapshot) Height() int { return s.height }

// At returns Free or Occupied. Out-of-range pixels read as Free.
func (s *Snapshot) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return Free
	}
	return s.pix[y*s.width+x]
}

func (s *Snapshot) Occupied(x, y int) bool {
	return s.At(x, y) == Occupied
}

func (s *Snapshot) OccupiedCount() int {
	n := 0
	for _, p := range s.pix {
		if p == Occupied {
			n++
		}
	}
	return n
}

// Equal reports whether both snapshots have the same size and pixels.
func (s *Snapshot) Equal(o *Snapshot) bool {
	return s.width == o.width && s.height == o.height && bytes.Equal(s.pix, o.pix)
}

// Image returns a fresh grayscale image of the snapshot.
func (s *Snapshot) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.pix)
	return img
}
