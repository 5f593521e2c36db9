package routing

import (
	"math"
	"time"

	"github.com/labstack/gommon/log"
)

type Point struct {
	X float64
	Y float64
}

type ObjMap [][]bool

type GridMap struct {
	Resolution float64
	Origin     Point
	Width      int
	Height     int

	ObjectMap ObjMap //元からある障害物と半径分の膨張ならTrue
}

func (g GridMap) Ind2Pos(xId, yId int) (float64, float64) {
	x := g.Origin.X + float64(xId)*g.Resolution
	y := g.Origin.Y + float64(yId)*g.Resolution
	return x, y
}

// Pos2Ind returns -1,-1 for positions outside the map.
func (g GridMap) Pos2Ind(x, y float64) (int, int) {
	xid := int(math.Round((x - g.Origin.X) / g.Resolution))
	yid := int(math.Round((y - g.Origin.Y) / g.Resolution))
	if !g.Contains(xid, yid) {
		log.Debugf("position (%f,%f) is out of map", x, y)
		return -1, -1
	}
	return xid, yid
}

func (g GridMap) Contains(xId, yId int) bool {
	return xId >= 0 && yId >= 0 && xId < g.Width && yId < g.Height
}

func (g GridMap) Blocked(xId, yId int) bool {
	return !g.Contains(xId, yId) || g.ObjectMap[yId][xId]
}

// initialize grid map using map resolution. Closed cells are inflated by
// robotRadius.
func NewGridMap(m MapMeta, robotRadius float64) *GridMap {
	g := new(GridMap)
	g.Resolution = m.Reso
	g.Origin = m.Origin
	g.Width = m.W
	g.Height = m.H
	g.ObjectMap = make(ObjMap, m.H)
	for i := 0; i < m.H; i++ {
		g.ObjectMap[i] = make([]bool, m.W)
	}

	start := time.Now()
	disc := inflation(robotRadius, m.Reso)
	count := 0
	for i, d := range m.Data {
		if d != Close {
			continue
		}
		x, y := i%m.W, i/m.W
		for _, o := range disc {
			nx, ny := x+o[0], y+o[1]
			if !g.Contains(nx, ny) || g.ObjectMap[ny][nx] {
				continue
			}
			g.ObjectMap[ny][nx] = true
			count++
		}
	}
	elaps := time.Since(start).Seconds()
	log.Debugf("load objmap using robot radius %g takes %f seconds, obj %d counts, width: %d, height: %d", robotRadius, elaps, count, g.Width, g.Height)
	return g
}

// inflation lists the cell offsets within radius of a cell centre.
func inflation(radius, reso float64) [][2]int {
	r := int(math.Floor(radius / reso))
	var offsets [][2]int
	for j := -r; j <= r; j++ {
		for i := -r; i <= r; i++ {
			if math.Hypot(float64(i)*reso, float64(j)*reso) <= radius {
				offsets = append(offsets, [2]int{i, j})
			}
		}
	}
	if len(offsets) == 0 {
		offsets = append(offsets, [2]int{0, 0})
	}
	return offsets
}
