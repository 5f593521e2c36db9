package routing

import (
	"errors"
	"fmt"
	"math"

	astar "github.com/beefsack/go-astar"
	"github.com/labstack/gommon/log"
)

var (
	ErrNoPath   = errors.New("path planning error: no path to goal")
	ErrBlocked  = errors.New("path planning error: cell is blocked")
	ErrOutOfMap = errors.New("path planning error: cell is out of map")
)

// motion: x, y, cost
var around8 = [8][3]float64{
	{1, 0, 1},
	{0, 1, 1},
	{-1, 0, 1},
	{0, -1, 1},
	{-1, -1, math.Sqrt2},
	{-1, 1, math.Sqrt2},
	{1, 1, math.Sqrt2},
	{1, -1, math.Sqrt2},
}

// Node is one grid cell as seen by the A* search. Two nodes of the same
// map and cell compare equal.
type Node struct {
	g   *GridMap
	XId int
	YId int
}

func (n Node) PathNeighbors() []astar.Pather {
	var around []astar.Pather
	for _, m := range around8 {
		aX := n.XId + int(m[0])
		aY := n.YId + int(m[1])
		if n.g.Blocked(aX, aY) {
			continue
		}
		// no corner cutting between two closed cells
		if m[0] != 0 && m[1] != 0 && (n.g.Blocked(aX, n.YId) || n.g.Blocked(n.XId, aY)) {
			continue
		}
		around = append(around, Node{g: n.g, XId: aX, YId: aY})
	}
	return around
}

func (n Node) PathNeighborCost(to astar.Pather) float64 {
	t := to.(Node)
	if t.XId != n.XId && t.YId != n.YId {
		return math.Sqrt2
	}
	return 1
}

func (n Node) PathEstimatedCost(to astar.Pather) float64 {
	t := to.(Node)
	return math.Hypot(float64(t.XId-n.XId), float64(t.YId-n.YId))
}

func (g *GridMap) node(x, y int) Node {
	return Node{g: g, XId: x, YId: y}
}

// Plan searches an 8-connected route over open cells and returns it
// start first, with its length in cells.
func (g *GridMap) Plan(sx, sy, gx, gy int) (route [][2]int, length float64, err error) {
	for _, c := range [2][2]int{{sx, sy}, {gx, gy}} {
		if !g.Contains(c[0], c[1]) {
			return nil, 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfMap, c[0], c[1])
		}
		if g.ObjectMap[c[1]][c[0]] {
			return nil, 0, fmt.Errorf("%w: (%d,%d)", ErrBlocked, c[0], c[1])
		}
	}

	from := g.node(sx, sy)
	path, length, found := astar.Path(from, g.node(gx, gy))
	if !found {
		return nil, 0, ErrNoPath
	}
	route = make([][2]int, len(path))
	for i, p := range path {
		n := p.(Node)
		route[i] = [2]int{n.XId, n.YId}
	}
	if len(route) > 0 && route[0] != ([2]int{sx, sy}) {
		for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
			route[i], route[j] = route[j], route[i]
		}
	}
	log.Debugf("find goal: %d cells, length %f", len(route), length)
	return route, length, nil
}

// PlanPos plans between two positions in metres and returns the route
// as cell centres in metres.
func (g *GridMap) PlanPos(start, goal Point) ([]Point, error) {
	sx, sy := g.Pos2Ind(start.X, start.Y)
	gx, gy := g.Pos2Ind(goal.X, goal.Y)
	route, _, err := g.Plan(sx, sy, gx, gy)
	if err != nil {
		return nil, err
	}
	pos := make([]Point, len(route))
	for i, r := range route {
		x, y := g.Ind2Pos(r[0], r[1])
		pos[i] = Point{X: x, Y: y}
	}
	return pos, nil
}
