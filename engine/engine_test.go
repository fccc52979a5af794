package engine

import (
	"errors"
	"testing"

	"skirmish/board"
	"skirmish/dice"
	"skirmish/game"

	"github.com/stretchr/testify/require"
)

func testUnit(id game.UnitID, p game.PlayerID, pos board.Coord) game.Unit {
	return game.Unit{
		ID: id, Name: "trooper", Player: p, Pos: pos,
		HP: 2, MaxHP: 2, Move: 4, Toughness: 4, Armor: 3, Invul: game.NoInvul, OC: 1,
		Ranged: game.RangedProfile{Range: 12, Shots: 1, HitOn: 4, Strength: 4, AP: 0, Damage: 1},
		Melee:  game.MeleeProfile{Range: 1, Attacks: 1, HitOn: 4, Strength: 4, AP: 0, Damage: 1},
	}
}

func testBattle(t *testing.T, seed int64) *game.GameState {
	t.Helper()
	b, err := board.New(10, 10, nil)
	require.NoError(t, err)
	gs, err := game.NewBattle(game.Setup{
		Board: b,
		Units: []game.Unit{
			testUnit(1, game.Player1, board.Coord{Col: 0, Row: 0}),
			testUnit(2, game.Player1, board.Coord{Col: 1, Row: 1}),
			testUnit(3, game.Player2, board.Coord{Col: 9, Row: 9}),
			testUnit(4, game.Player2, board.Coord{Col: 8, Row: 8}),
		},
		MaxTurns: 2,
		Roller:   dice.NewRoller(seed),
	})
	require.NoError(t, err)
	return gs
}

// firstCaller always plays the first legal action.
type firstCaller struct{ name string }

func (c firstCaller) Name() string { return c.name }

func (c firstCaller) Act(_ game.Snapshot, legal []game.Action) (game.Action, error) {
	return legal[0], nil
}

// rogueCaller plays a fixed action regardless of legality.
type rogueCaller struct{ act game.Action }

func (c rogueCaller) Name() string { return "rogue" }

func (c rogueCaller) Act(game.Snapshot, []game.Action) (game.Action, error) {
	return c.act, nil
}

// failingCaller aborts on its first turn.
type failingCaller struct{ err error }

func (c failingCaller) Name() string { return "flaky" }

func (c failingCaller) Act(game.Snapshot, []game.Action) (game.Action, error) {
	return game.Action{}, c.err
}

func TestLocalExecute(t *testing.T) {
	local := NewLocal(testBattle(t, 11))

	t.Run("legal action mutates and reports", func(t *testing.T) {
		legal := local.Legal()
		require.NotEmpty(t, legal)
		res, err := local.Execute(legal[0])
		require.NoError(t, err)
		require.NotEmpty(t, res.Events)
		require.Equal(t, res.State, local.Snapshot())
	})

	t.Run("illegal action leaves no trace", func(t *testing.T) {
		before := local.Snapshot()
		_, err := local.Execute(game.Action{Kind: game.MoveAction, Unit: 99})
		require.ErrorIs(t, err, game.ErrIllegalAction)
		require.Equal(t, before, local.Snapshot())
	})
}

func TestMatchRunsToCompletion(t *testing.T) {
	m := NewMatch(testBattle(t, 7), firstCaller{"alpha"}, firstCaller{"beta"})

	var results int
	m.Observe = func(a game.Action, res *game.Result) {
		require.NotEmpty(t, res.Events)
		results++
	}

	final, err := m.Run()
	require.NoError(t, err)
	require.True(t, final.Over)
	require.NotEmpty(t, final.Verdict)
	require.Positive(t, results)
	require.True(t, m.Local.Over())
}

func TestMatchAbortsOnCallerError(t *testing.T) {
	boom := errors.New("link dropped")
	m := NewMatch(testBattle(t, 7), failingCaller{err: boom}, firstCaller{"beta"})
	_, err := m.Run()
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "flaky")
}

func TestMatchAbortsOnIllegalAction(t *testing.T) {
	rogue := rogueCaller{act: game.Action{Kind: game.ShootAction, Unit: 1, Target: 3}}
	m := NewMatch(testBattle(t, 7), rogue, firstCaller{"beta"})
	_, err := m.Run()
	require.ErrorIs(t, err, game.ErrIllegalAction)
	require.Contains(t, err.Error(), "rogue")
}
