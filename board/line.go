package board

import "math"

// Sight is the outcome of a line-of-sight check.
type Sight struct {
	CanSee  bool
	InCover bool
}

// TraceLine returns the hexes a straight line between the centers of a
// and b crosses, in order from a to b, exclusive of both endpoints.
// Adjacent or identical hexes yield nil. Uses cube-space linear
// interpolation rounded to the nearest hex.
func TraceLine(a, b Coord) []Coord {
	dist := Distance(a, b)
	if dist <= 1 {
		return nil
	}
	ac, bc := a.ToCube(), b.ToCube()
	line := make([]Coord, 0, dist-1)
	for i := 1; i < dist; i++ {
		t := float64(i) / float64(dist)
		x := lerp(float64(ac.X), float64(bc.X), t)
		y := lerp(float64(ac.Y), float64(bc.Y), t)
		z := lerp(float64(ac.Z), float64(bc.Z), t)
		line = append(line, cubeRound(x, y, z).ToOffset())
	}
	return line
}

// LineOfSight checks visibility from a to b across the given wall set.
//
// CanSee is false when any wall lies exactly on the traced line
// strictly between the endpoints. InCover is true when the target can
// be seen but is partially obscured; the obscurement test is: a wall
// hex within distance 1 of any interior traced hex, or within
// distance 1 of the target hex itself. Walls adjacent only to the
// shooter never grant the target cover. The adjacency test is the same
// six-neighbor relation pathfinding uses.
func LineOfSight(a, b Coord, walls CoordSet) Sight {
	if a == b {
		return Sight{CanSee: true}
	}
	line := TraceLine(a, b)
	for _, h := range line {
		if walls.Has(h) {
			return Sight{CanSee: false}
		}
	}
	s := Sight{CanSee: true}
	for _, h := range line {
		if wallAdjacent(h, walls) {
			s.InCover = true
			return s
		}
	}
	if wallAdjacent(b, walls) {
		s.InCover = true
	}
	return s
}

func wallAdjacent(c Coord, walls CoordSet) bool {
	for _, n := range Neighbors(c) {
		if walls.Has(n) {
			return true
		}
	}
	return false
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// cubeRound snaps interpolated cube coordinates to the nearest hex,
// rebalancing the axis with the largest rounding error so x+y+z=0
// holds.
func cubeRound(x, y, z float64) Cube {
	rx := math.Round(x)
	ry := math.Round(y)
	rz := math.Round(z)

	dx := math.Abs(rx - x)
	dy := math.Abs(ry - y)
	dz := math.Abs(rz - z)

	if dx > dy && dx > dz {
		rx = -ry - rz
	} else if dy > dz {
		ry = -rx - rz
	} else {
		rz = -rx - ry
	}
	return Cube{X: int(rx), Y: int(ry), Z: int(rz)}
}
