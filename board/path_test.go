package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReachableOpenField(t *testing.T) {
	bounds := Bounds{Width: 9, Height: 9}
	start := Coord{4, 4}
	got := Reachable(start, 3, NewCoordSet(), bounds)

	// On an open board the reachable set is exactly the in-bounds hexes
	// within hex distance 3, each at its true distance.
	for col := 0; col < 9; col++ {
		for row := 0; row < 9; row++ {
			c := Coord{col, row}
			steps, ok := got[c]
			if Distance(start, c) <= 3 {
				require.True(t, ok, "expected %v reachable", c)
				require.Equal(t, Distance(start, c), steps)
			} else {
				require.False(t, ok, "did not expect %v reachable", c)
			}
		}
	}
}

func TestReachableRespectsBlockedAndBudget(t *testing.T) {
	bounds := Bounds{Width: 7, Height: 7}
	start := Coord{0, 0}
	blocked := NewCoordSet(Coord{1, 0}, Coord{0, 1})
	got := Reachable(start, 4, blocked, bounds)

	for c, steps := range got {
		require.False(t, blocked.Has(c), "blocked hex %v in reachable set", c)
		require.True(t, bounds.Contains(c))
		require.LessOrEqual(t, steps, 4)
		require.GreaterOrEqual(t, steps, Distance(start, c),
			"steps can never beat hex distance for %v", c)
	}
	require.Equal(t, 0, got[start])
}

func TestReachableDetoursAroundWalls(t *testing.T) {
	// A wall strip down column 1 with a single gap at the bottom forces
	// the path from (0,0) to (2,0) the long way around.
	bounds := Bounds{Width: 3, Height: 4}
	walls := NewCoordSet(Coord{1, 0}, Coord{1, 1}, Coord{1, 2})

	short := Reachable(Coord{0, 0}, 5, walls, bounds)
	_, ok := short[Coord{2, 0}]
	require.False(t, ok, "budget 5 cannot round the wall")

	long := Reachable(Coord{0, 0}, 8, walls, bounds)
	require.Equal(t, 8, long[Coord{2, 0}])
}

func TestReachableZeroBudget(t *testing.T) {
	got := Reachable(Coord{2, 2}, 0, NewCoordSet(), Bounds{Width: 5, Height: 5})
	require.Equal(t, map[Coord]int{{2, 2}: 0}, got)
}
