package board

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Board is the static battlefield: rectangular bounds, wall hexes, and
// named objective hex groups. It never changes during a battle;
// validation happens once here so resolution code can trust it.
type Board struct {
	bounds     Bounds
	walls      CoordSet
	objectives map[string][]Coord
}

// New builds a board after validating dimensions and wall placement.
func New(width, height int, walls []Coord) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("board: dimensions %dx%d out of range", width, height)
	}
	b := &Board{
		bounds:     Bounds{Width: width, Height: height},
		walls:      make(CoordSet, len(walls)),
		objectives: make(map[string][]Coord),
	}
	for _, w := range walls {
		if !b.bounds.Contains(w) {
			return nil, fmt.Errorf("board: wall %v outside %dx%d grid", w, width, height)
		}
		b.walls.Add(w)
	}
	return b, nil
}

// AddObjective registers a named objective hex group. Objective hexes
// must be in bounds and off walls.
func (b *Board) AddObjective(name string, hexes []Coord) error {
	if name == "" {
		return fmt.Errorf("board: objective with empty name")
	}
	if len(hexes) == 0 {
		return fmt.Errorf("board: objective %q has no hexes", name)
	}
	if _, dup := b.objectives[name]; dup {
		return fmt.Errorf("board: duplicate objective %q", name)
	}
	for _, h := range hexes {
		if !b.bounds.Contains(h) {
			return fmt.Errorf("board: objective %q hex %v out of bounds", name, h)
		}
		if b.walls.Has(h) {
			return fmt.Errorf("board: objective %q hex %v is a wall", name, h)
		}
	}
	b.objectives[name] = slices.Clone(hexes)
	return nil
}

// Bounds returns the board extent.
func (b *Board) Bounds() Bounds { return b.bounds }

// InBounds reports whether c lies on the board.
func (b *Board) InBounds(c Coord) bool { return b.bounds.Contains(c) }

// IsWall reports whether c is a wall hex.
func (b *Board) IsWall(c Coord) bool { return b.walls.Has(c) }

// Walls returns a copy of the wall set.
func (b *Board) Walls() CoordSet {
	return maps.Clone(b.walls)
}

// ObjectiveNames returns all objective names, sorted.
func (b *Board) ObjectiveNames() []string {
	names := maps.Keys(b.objectives)
	slices.Sort(names)
	return names
}

// Objective returns the hex group for a named objective.
func (b *Board) Objective(name string) ([]Coord, bool) {
	hexes, ok := b.objectives[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(hexes), true
}

// Sight runs a line-of-sight check over this board's walls.
func (b *Board) Sight(from, to Coord) Sight {
	return LineOfSight(from, to, b.walls)
}

// ReachableFrom runs the BFS over this board's bounds with the board
// walls plus any extra blocked hexes (typically occupied ones).
func (b *Board) ReachableFrom(start Coord, maxSteps int, extraBlocked CoordSet) map[Coord]int {
	blocked := maps.Clone(b.walls)
	for c := range extraBlocked {
		blocked.Add(c)
	}
	return Reachable(start, maxSteps, blocked, b.bounds)
}
