package board

// Reachable runs a breadth-first search from start and returns every
// in-bounds hex reachable within maxSteps, mapped to its step count.
// Step cost is uniform 1. Blocked hexes are never entered or crossed.
// The start hex is included at step 0 even when it sits on a blocked
// hex (a unit searches from wherever it stands). Discovery order
// follows the fixed neighbor order, so the first-found shortest path
// decides reachability deterministically.
func Reachable(start Coord, maxSteps int, blocked CoordSet, bounds Bounds) map[Coord]int {
	steps := map[Coord]int{start: 0}
	if maxSteps <= 0 {
		return steps
	}
	queue := []Coord{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := steps[cur]
		if d == maxSteps {
			continue
		}
		for _, n := range Neighbors(cur) {
			if _, seen := steps[n]; seen {
				continue
			}
			if !bounds.Contains(n) || blocked.Has(n) {
				continue
			}
			steps[n] = d + 1
			queue = append(queue, n)
		}
	}
	return steps
}

// Bounds is the rectangular extent of a grid.
type Bounds struct {
	Width  int
	Height int
}

// Contains reports whether c lies on the grid.
func (b Bounds) Contains(c Coord) bool {
	return c.Col >= 0 && c.Col < b.Width && c.Row >= 0 && c.Row < b.Height
}
