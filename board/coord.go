// Package board provides hex-grid geometry for the battle core:
// coordinate conversion, distance, line tracing, line of sight, and
// BFS reachability over a bounded grid with wall hexes. It has no
// knowledge of units or rules; every other package consumes it.
//
// The grid uses offset coordinates (col,row), 0-indexed, odd-q layout
// (odd columns shifted down). Distance and line math convert to cube
// coordinates (x,y,z) with x+y+z=0.
package board

import "fmt"

// Coord is an offset hex position on the grid.
type Coord struct {
	Col int `json:"col" yaml:"col"`
	Row int `json:"row" yaml:"row"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Cube is the cube-coordinate form of a hex position.
type Cube struct {
	X, Y, Z int
}

// ToCube converts an offset coordinate to cube coordinates.
func (c Coord) ToCube() Cube {
	x := c.Col
	z := c.Row - (c.Col-(c.Col&1))/2
	y := -x - z
	return Cube{X: x, Y: y, Z: z}
}

// ToOffset converts cube coordinates back to an offset coordinate.
func (cu Cube) ToOffset() Coord {
	col := cu.X
	row := cu.Z + (cu.X-(cu.X&1))/2
	return Coord{Col: col, Row: row}
}

// Distance returns the hex distance between two coordinates:
// max(|dx|,|dy|,|dz|) in cube space.
func Distance(a, b Coord) int {
	ac, bc := a.ToCube(), b.ToCube()
	dx := abs(ac.X - bc.X)
	dy := abs(ac.Y - bc.Y)
	dz := abs(ac.Z - bc.Z)
	m := dx
	if dy > m {
		m = dy
	}
	if dz > m {
		m = dz
	}
	return m
}

// Adjacent reports whether two hexes share an edge.
func Adjacent(a, b Coord) bool {
	return Distance(a, b) == 1
}

// cubeDirs lists the six neighbor directions in cube space. BFS
// discovery order depends on this ordering.
var cubeDirs = [6]Cube{
	{X: 0, Y: 1, Z: -1},
	{X: 1, Y: 0, Z: -1},
	{X: 1, Y: -1, Z: 0},
	{X: 0, Y: -1, Z: 1},
	{X: -1, Y: 0, Z: 1},
	{X: -1, Y: 1, Z: 0},
}

// Neighbors returns the six adjacent coordinates in fixed order.
func Neighbors(c Coord) [6]Coord {
	cu := c.ToCube()
	var out [6]Coord
	for i, d := range cubeDirs {
		out[i] = Cube{X: cu.X + d.X, Y: cu.Y + d.Y, Z: cu.Z + d.Z}.ToOffset()
	}
	return out
}

// CoordSet is a set of hex coordinates.
type CoordSet map[Coord]struct{}

// NewCoordSet builds a set from the given coordinates.
func NewCoordSet(coords ...Coord) CoordSet {
	s := make(CoordSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s CoordSet) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Add inserts a coordinate.
func (s CoordSet) Add(c Coord) {
	s[c] = struct{}{}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
