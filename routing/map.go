package routing

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/jbuchbinder/gopnm"
	"github.com/labstack/gommon/log"

	"github.com/fukurin00/map_drawer/drawer"
	"github.com/fukurin00/map_drawer/export"
)

const (
	Open  int8 = 0
	Close int8 = 100
)

// MapMeta is a thresholded map. Data is row-major with row 0 at the
// bottom of the image, as map_server publishes it.
type MapMeta struct {
	W      int
	H      int
	Origin Point
	Reso   float64
	Data   []int8
}

// read image file of ROS format.
// closeThresh is the occupancy probability above which a cell is closed;
// zero uses occupied_thresh from the yaml.
func ReadMapImage(yamlFile string, closeThresh float64) (*MapMeta, error) {
	yf, err := os.Open(yamlFile)
	if err != nil {
		return nil, err
	}
	mapConfig, err := export.ReadMetadata(yf)
	yf.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", yamlFile, err)
	}
	if closeThresh <= 0 {
		closeThresh = mapConfig.OccupiedThresh
	}

	mapFile := mapConfig.Image
	if !filepath.IsAbs(mapFile) {
		mapFile = filepath.Join(filepath.Dir(yamlFile), mapFile)
	}
	file, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	imageData, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mapFile, err)
	}

	m := new(MapMeta)
	m.Reso = mapConfig.Resolution
	if len(mapConfig.Origin) >= 2 {
		m.Origin = Point{X: mapConfig.Origin[0], Y: mapConfig.Origin[1]}
	}
	bound := imageData.Bounds()
	m.W = bound.Dx()
	m.H = bound.Dy()
	m.Data = make([]int8, m.W*m.H)

	negate := mapConfig.Negate != 0
	open, close := 0, 0
	for j := 0; j < m.H; j++ {
		for i := 0; i < m.W; i++ {
			pixel := color.GrayModel.Convert(imageData.At(bound.Min.X+i, bound.Min.Y+j)).(color.Gray).Y
			occ := float64(255-pixel) / 255
			if negate {
				occ = float64(pixel) / 255
			}
			v := Open
			if occ > closeThresh {
				v = Close
				close++
			} else {
				open++
			}
			m.Data[i+(m.H-1-j)*m.W] = v
		}
	}
	log.Infof("read %s: %dx%d reso %g, open: %d, close: %d", mapFile, m.W, m.H, m.Reso, open, close)
	return m, nil
}

// FromSnapshot builds the same map straight from a canvas snapshot,
// with the origin at (0,0).
func FromSnapshot(snap *drawer.Snapshot, reso float64) *MapMeta {
	m := &MapMeta{W: snap.Width(), H: snap.Height(), Reso: reso}
	m.Data = make([]int8, m.W*m.H)
	for j := 0; j < m.H; j++ {
		for i := 0; i < m.W; i++ {
			if snap.Occupied(i, j) {
				m.Data[i+(m.H-1-j)*m.W] = Close
			}
		}
	}
	return m
}

// LoadROSMap converts an OccupancyGrid message. Unknown cells (-1) are
// treated as closed.
func LoadROSMap(grid export.OccupancyGrid, closeThresh float64) *MapMeta {
	m := &MapMeta{
		W:      int(grid.Info.Width),
		H:      int(grid.Info.Height),
		Origin: Point{X: grid.Info.Origin.Position.X, Y: grid.Info.Origin.Position.Y},
		Reso:   decimalReso(grid.Info.Resolution),
	}
	m.Data = make([]int8, len(grid.Data))
	for i, d := range grid.Data {
		if d < 0 || float64(d) > closeThresh*100 {
			m.Data[i] = Close
		}
	}
	return m
}

// decimalReso undoes the float32 rounding of the message field, so 0.01
// stays 0.01 and cell positions match the sidecar.
func decimalReso(r float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(r), 'g', -1, 32), 64)
	if err != nil {
		return float64(r)
	}
	return v
}

// Counts returns the number of open and closed cells.
func (m *MapMeta) Counts() (open, close int) {
	for _, d := range m.Data {
		if d == Close {
			close++
		} else {
			open++
		}
	}
	return open, close
}
