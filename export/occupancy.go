package export

import (
	"encoding/json"
	"time"

	"github.com/fukurin00/map_drawer/drawer"
)

const (
	CellFree     int8 = 0
	CellOccupied int8 = 100
)

// OccupancyGrid mirrors nav_msgs/OccupancyGrid as rosbridge encodes it.
type OccupancyGrid struct {
	Header Header      `json:"header"`
	Info   MapMetaData `json:"info"`
	Data   []int8      `json:"data"`
}

type Header struct {
	Seq     uint32 `json:"seq"`
	Stamp   Time   `json:"stamp"`
	FrameID string `json:"frame_id"`
}

type Time struct {
	Secs  int64 `json:"secs"`
	Nsecs int64 `json:"nsecs"`
}

type MapMetaData struct {
	MapLoadTime Time    `json:"map_load_time"`
	Resolution  float32 `json:"resolution"`
	Width       uint32  `json:"width"`
	Height      uint32  `json:"height"`
	Origin      Pose    `json:"origin"`
}

type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// NewOccupancyGrid converts a snapshot into grid cells. Row 0 of the grid
// is the bottom image row, as map_server loads it.
func NewOccupancyGrid(snap *drawer.Snapshot, resolution float64, stamp time.Time) OccupancyGrid {
	w, h := snap.Width(), snap.Height()
	t := Time{Secs: stamp.Unix(), Nsecs: int64(stamp.Nanosecond())}

	g := OccupancyGrid{
		Header: Header{Stamp: t, FrameID: "map"},
		Info: MapMetaData{
			MapLoadTime: t,
			Resolution:  float32(resolution),
			Width:       uint32(w),
			Height:      uint32(h),
			Origin:      Pose{Orientation: Quaternion{W: 1}},
		},
		Data: make([]int8, w*h),
	}
	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w
		for x := 0; x < w; x++ {
			if snap.Occupied(x, y) {
				g.Data[row+x] = CellOccupied
			} else {
				g.Data[row+x] = CellFree
			}
		}
	}
	return g
}

func (g OccupancyGrid) MarshalPayload() ([]byte, error) {
	return json.Marshal(g)
}
