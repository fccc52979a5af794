package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skirmish/board"
)

func TestObjectiveControl(t *testing.T) {
	b := mkBoard(t, 12, 12)
	require.NoError(t, b.AddObjective("relay", []board.Coord{at(4, 4), at(6, 4), at(8, 4)}))
	gs := mkBattle(t, b, nil,
		testUnit(1, Player1, at(4, 4), func(u *Unit) { u.OC = 2 }),
		testUnit(2, Player2, at(6, 4)),
		testUnit(4, Player2, at(8, 8)),
	)

	t.Run("setup weighs the marker immediately", func(t *testing.T) {
		require.Equal(t, Player1, gs.Objectives()["relay"], "two against one")
		require.Contains(t, kinds(gs.Events), EventControl)
	})

	for _, k := range []ActionKind{SkipAction, SkipAction, SkipAction} {
		_, err := gs.Apply(Action{Kind: k, Unit: 1})
		require.NoError(t, err)
	}
	require.Equal(t, Player2, gs.Current)

	t.Run("a tie in weight leaves the holder in place", func(t *testing.T) {
		res, err := gs.Apply(Action{Kind: MoveAction, Unit: 4, To: to(at(8, 4))})
		require.NoError(t, err)
		require.Equal(t, Player1, res.State.Objectives["relay"], "two on two changes nothing")
		require.NotContains(t, kinds(res.Events), EventControl)
	})

	for _, id := range []UnitID{2, 2, 4, 2, 4} {
		_, err := gs.Apply(Action{Kind: SkipAction, Unit: id})
		require.NoError(t, err)
	}
	require.Equal(t, 2, gs.Turn)
	require.Equal(t, Player1, gs.Current)

	t.Run("majority takes the marker", func(t *testing.T) {
		res, err := gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(1, 4))})
		require.NoError(t, err)
		require.Equal(t, Player2, res.State.Objectives["relay"])
		require.Contains(t, kinds(res.Events), EventControl)
	})

	for _, id := range []UnitID{1, 1} {
		_, err := gs.Apply(Action{Kind: SkipAction, Unit: id})
		require.NoError(t, err)
	}
	require.Equal(t, Player2, gs.Current)

	t.Run("walking away does not give it back", func(t *testing.T) {
		_, err := gs.Apply(Action{Kind: MoveAction, Unit: 2, To: to(at(6, 7))})
		require.NoError(t, err)
		res, err := gs.Apply(Action{Kind: MoveAction, Unit: 4, To: to(at(8, 8))})
		require.NoError(t, err)
		require.Equal(t, Player2, res.State.Objectives["relay"], "an empty marker keeps its holder")
		require.NotContains(t, kinds(res.Events), EventControl)
	})
}

func TestControlResetsWhenTurnsRunBackwards(t *testing.T) {
	b := mkBoard(t, 8, 8)
	require.NoError(t, b.AddObjective("well", []board.Coord{at(3, 3)}))
	u := testUnit(1, Player1, at(3, 3))
	gs := &GameState{Board: b, Units: map[UnitID]*Unit{1: &u}, Turn: 5}
	tr := newControlTracker()

	tr.recompute(gs)
	require.Equal(t, Player1, tr.Holder("well"))

	u.Pos = at(0, 0)
	gs.Turn = 6
	tr.recompute(gs)
	require.Equal(t, Player1, tr.Holder("well"), "memory survives the unit leaving")

	gs.Turn = 1
	tr.recompute(gs)
	require.Equal(t, NoPlayer, tr.Holder("well"), "a rewound clock starts a fresh episode")
}
