package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skirmish/board"
	"skirmish/dice"
)

func TestNewBattleValidation(t *testing.T) {
	b := mkBoard(t, 12, 12, at(4, 4))
	ok := []Unit{testUnit(1, Player1, at(0, 0)), testUnit(2, Player2, at(11, 11))}

	cases := []struct {
		name  string
		setup Setup
	}{
		{"nil board", Setup{Units: ok, MaxTurns: 4}},
		{"zero turns", Setup{Board: b, Units: ok}},
		{"no opponent", Setup{Board: b, MaxTurns: 4, Units: []Unit{testUnit(1, Player1, at(0, 0))}}},
		{"duplicate id", Setup{Board: b, MaxTurns: 4, Units: []Unit{
			testUnit(1, Player1, at(0, 0)), testUnit(1, Player2, at(5, 5)),
		}}},
		{"stacked units", Setup{Board: b, MaxTurns: 4, Units: []Unit{
			testUnit(1, Player1, at(3, 3)), testUnit(2, Player2, at(3, 3)),
		}}},
		{"off the board", Setup{Board: b, MaxTurns: 4, Units: []Unit{
			testUnit(1, Player1, at(0, 12)), testUnit(2, Player2, at(5, 5)),
		}}},
		{"on a wall", Setup{Board: b, MaxTurns: 4, Units: []Unit{
			testUnit(1, Player1, at(4, 4)), testUnit(2, Player2, at(5, 5)),
		}}},
		{"dead at setup", Setup{Board: b, MaxTurns: 4, Units: []Unit{
			testUnit(1, Player1, at(0, 0), func(u *Unit) { u.HP = 0 }),
			testUnit(2, Player2, at(5, 5)),
		}}},
		{"armor out of range", Setup{Board: b, MaxTurns: 4, Units: []Unit{
			testUnit(1, Player1, at(0, 0), func(u *Unit) { u.Armor = 1 }),
			testUnit(2, Player2, at(5, 5)),
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBattle(tc.setup)
			require.Error(t, err)
			var ie *IntegrityError
			require.ErrorAs(t, err, &ie)
			require.NotErrorIs(t, err, ErrIllegalAction)
		})
	}

	t.Run("valid setup opens player 1 move phase", func(t *testing.T) {
		gs := mkBattle(t, b, nil, ok...)
		require.Equal(t, 1, gs.Turn)
		require.Equal(t, PhaseMove, gs.Phase)
		require.Equal(t, Player1, gs.Current)
		require.Equal(t, []UnitID{1}, gs.pool.Members())
	})
}

func TestApplyRejections(t *testing.T) {
	b := mkBoard(t, 12, 12)
	gs := mkBattle(t, b, nil,
		testUnit(1, Player1, at(0, 0)),
		testUnit(2, Player2, at(11, 11)),
	)

	t.Run("unknown kind", func(t *testing.T) {
		_, err := gs.Apply(Action{Kind: "teleport", Unit: 1})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
	t.Run("unknown unit", func(t *testing.T) {
		_, err := gs.Apply(Action{Kind: MoveAction, Unit: 99, To: to(at(1, 1))})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
	t.Run("opponent unit", func(t *testing.T) {
		_, err := gs.Apply(Action{Kind: MoveAction, Unit: 2, To: to(at(11, 10))})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
	t.Run("wrong phase", func(t *testing.T) {
		_, err := gs.Apply(Action{Kind: ShootAction, Unit: 1, Target: 2})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
	t.Run("rejections leave no trace", func(t *testing.T) {
		require.Equal(t, PhaseMove, gs.Phase)
		require.Equal(t, at(0, 0), gs.Units[1].Pos)
	})
}

func TestMovePhase(t *testing.T) {
	b := mkBoard(t, 12, 12)

	t.Run("move updates position and records the unit", func(t *testing.T) {
		gs := mkBattle(t, b, nil,
			testUnit(1, Player1, at(0, 0)),
			testUnit(3, Player1, at(5, 0)),
			testUnit(2, Player2, at(11, 11)),
		)
		res, err := gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(0, 4))})
		require.NoError(t, err)
		require.Equal(t, at(0, 4), gs.Units[1].Pos)
		require.Equal(t, PhaseMove, gs.Phase, "second unit still owes its move")
		require.Equal(t, []UnitID{1}, res.State.Records.Moved)
		require.Contains(t, kinds(res.Events), EventMove)
	})
	t.Run("destination beyond budget is rejected", func(t *testing.T) {
		gs := mkBattle(t, b, nil,
			testUnit(1, Player1, at(0, 0)),
			testUnit(2, Player2, at(11, 11)),
		)
		_, err := gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(0, 5))})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
	t.Run("a resolved unit cannot act again", func(t *testing.T) {
		gs := mkBattle(t, b, nil,
			testUnit(1, Player1, at(0, 0)),
			testUnit(3, Player1, at(5, 0)),
			testUnit(2, Player2, at(11, 11)),
		)
		_, err := gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(0, 2))})
		require.NoError(t, err)
		_, err = gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(0, 4))})
		require.ErrorIs(t, err, ErrIllegalAction)
		_, err = gs.Apply(Action{Kind: SkipAction, Unit: 1})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
	t.Run("moves never end in contact", func(t *testing.T) {
		gs := mkBattle(t, b, nil,
			testUnit(1, Player1, at(3, 3)),
			testUnit(2, Player2, at(3, 6)),
		)
		dests := gs.moveDestinations(gs.Units[1], 4)
		require.NotEmpty(t, dests)
		for _, d := range dests {
			require.False(t, board.Adjacent(d, at(3, 6)), "destination %s touches the enemy", d)
		}
		_, err := gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(3, 5))})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
	t.Run("fleeing breaks contact completely", func(t *testing.T) {
		gs := mkBattle(t, b, nil,
			testUnit(1, Player1, at(3, 3)),
			testUnit(3, Player1, at(0, 11)),
			testUnit(2, Player2, at(3, 4)),
		)
		res, err := gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(3, 1))})
		require.NoError(t, err)
		require.Contains(t, kinds(res.Events), EventFlee)
		require.Equal(t, []UnitID{1}, res.State.Records.Fled)
		require.Equal(t, []UnitID{1}, res.State.Records.Moved)
	})
}

func TestAdvance(t *testing.T) {
	b := mkBoard(t, 12, 12)
	gs := mkBattle(t, b, dice.NewScript(5),
		testUnit(1, Player1, at(0, 0)),
		testUnit(3, Player1, at(5, 0)),
		testUnit(2, Player2, at(11, 11)),
	)

	res, err := gs.Apply(Action{Kind: AdvanceAction, Unit: 1})
	require.NoError(t, err)
	require.Contains(t, res.Destinations, at(0, 9), "budget is move four plus the rolled five")

	_, err = gs.Apply(Action{Kind: AdvanceAction, Unit: 1})
	require.ErrorIs(t, err, ErrIllegalAction, "one advance roll per activation")

	res, err = gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(0, 9))})
	require.NoError(t, err)
	require.Equal(t, at(0, 9), gs.Units[1].Pos)
	require.Equal(t, []UnitID{1}, res.State.Records.Advanced)
	require.Equal(t, []UnitID{1}, res.State.Records.Moved)
}

func TestAdvancedUnitsSitOutShootingAndCharging(t *testing.T) {
	b := mkBoard(t, 12, 12)
	// Unit 1 advances into easy range of the enemy; unit 3 holds still.
	gs := mkBattle(t, b, dice.NewScript(3),
		testUnit(1, Player1, at(0, 0)),
		testUnit(3, Player1, at(4, 8)),
		testUnit(2, Player2, at(0, 11)),
	)
	_, err := gs.Apply(Action{Kind: AdvanceAction, Unit: 1})
	require.NoError(t, err)
	_, err = gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(0, 7))})
	require.NoError(t, err)
	_, err = gs.Apply(Action{Kind: SkipAction, Unit: 3})
	require.NoError(t, err)

	require.Equal(t, PhaseShoot, gs.Phase)
	require.Equal(t, []UnitID{3}, gs.pool.Members(), "the advanced unit may not shoot")

	_, err = gs.Apply(Action{Kind: SkipAction, Unit: 3})
	require.NoError(t, err)
	require.Equal(t, PhaseCharge, gs.Phase)
	require.NotContains(t, gs.pool.Members(), UnitID(1), "the advanced unit may not charge")
}

func TestFledUnitsSitOutShootingAndCharging(t *testing.T) {
	b := mkBoard(t, 12, 12)
	// Unit 1 starts in contact and flees; both players stay in easy range.
	gs := mkBattle(t, b, nil,
		testUnit(1, Player1, at(3, 3)),
		testUnit(3, Player1, at(5, 5)),
		testUnit(2, Player2, at(3, 4)),
	)
	res, err := gs.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(3, 1))})
	require.NoError(t, err)
	require.Contains(t, kinds(res.Events), EventFlee)
	_, err = gs.Apply(Action{Kind: SkipAction, Unit: 3})
	require.NoError(t, err)

	require.Equal(t, PhaseShoot, gs.Phase)
	require.Equal(t, []UnitID{3}, gs.pool.Members(), "the unit that fled may not shoot")

	_, err = gs.Apply(Action{Kind: SkipAction, Unit: 3})
	require.NoError(t, err)
	require.Equal(t, PhaseCharge, gs.Phase)
	require.NotContains(t, gs.pool.Members(), UnitID(1), "the unit that fled may not charge")
}

func TestPhaseCascadeAndTurns(t *testing.T) {
	b := mkBoard(t, 12, 12)
	// Too far apart for any phase but movement to have members.
	gs := mkBattle(t, b, nil,
		testUnit(1, Player1, at(0, 0)),
		testUnit(2, Player2, at(11, 11)),
	)

	res, err := gs.Apply(Action{Kind: SkipAction, Unit: 1})
	require.NoError(t, err)
	require.Equal(t, Player2, gs.Current, "empty phases cascade to the opponent")
	require.Equal(t, PhaseMove, gs.Phase)
	require.Equal(t, 1, gs.Turn)

	res, err = gs.Apply(Action{Kind: SkipAction, Unit: 2})
	require.NoError(t, err)
	require.Equal(t, Player1, gs.Current)
	require.Equal(t, 2, gs.Turn, "turn increments when play returns to player 1")
	require.Contains(t, kinds(res.Events), EventTurn)
}

func TestTurnLimitScoring(t *testing.T) {
	newScored := func(t *testing.T, p1OC, p2OC int, objective bool) *GameState {
		t.Helper()
		b := mkBoard(t, 12, 12)
		if objective {
			require.NoError(t, b.AddObjective("hill", []board.Coord{at(0, 0)}))
		}
		gs, err := NewBattle(Setup{
			Board:    b,
			MaxTurns: 1,
			Roller:   dice.NewRoller(3),
			Units: []Unit{
				testUnit(1, Player1, at(0, 0), func(u *Unit) { u.OC = p1OC }),
				testUnit(2, Player2, at(11, 11), func(u *Unit) { u.OC = p2OC }),
			},
		})
		require.NoError(t, err)
		_, err = gs.Apply(Action{Kind: SkipAction, Unit: 1})
		require.NoError(t, err)
		_, err = gs.Apply(Action{Kind: SkipAction, Unit: 2})
		require.NoError(t, err)
		require.True(t, gs.Over)
		return gs
	}

	t.Run("objectives held decide it", func(t *testing.T) {
		gs := newScored(t, 1, 5, true)
		require.Equal(t, Player1, gs.Winner)
		require.Equal(t, "objectives", gs.Verdict)
	})
	t.Run("control weight breaks the tie", func(t *testing.T) {
		gs := newScored(t, 1, 5, false)
		require.Equal(t, Player2, gs.Winner)
		require.Equal(t, "weight of numbers", gs.Verdict)
	})
	t.Run("dead level battles draw", func(t *testing.T) {
		gs := newScored(t, 1, 1, false)
		require.Equal(t, NoPlayer, gs.Winner)
		require.Equal(t, "draw", gs.Verdict)
	})
	t.Run("no actions after the end", func(t *testing.T) {
		gs := newScored(t, 1, 1, false)
		_, err := gs.Apply(Action{Kind: SkipAction, Unit: 1})
		require.ErrorIs(t, err, ErrIllegalAction)
	})
}

func TestElimination(t *testing.T) {
	b := mkBoard(t, 12, 12)
	gs := mkBattle(t, b, dice.NewScript(6, 6, 1),
		testUnit(1, Player1, at(0, 0)),
		testUnit(2, Player2, at(0, 5), func(u *Unit) { u.HP = 1 }),
	)
	_, err := gs.Apply(Action{Kind: SkipAction, Unit: 1})
	require.NoError(t, err)
	require.Equal(t, PhaseShoot, gs.Phase)

	res, err := gs.Apply(Action{Kind: ShootAction, Unit: 1, Target: 2})
	require.NoError(t, err)
	require.True(t, gs.Over)
	require.Equal(t, Player1, gs.Winner)
	require.Equal(t, "elimination", gs.Verdict)
	require.Contains(t, kinds(res.Events), EventDeath)
	require.Contains(t, kinds(res.Events), EventEnd)
	require.NotContains(t, gs.Units, UnitID(2))
	require.Len(t, gs.Fallen(), 1)
}

func TestCloneIsIndependent(t *testing.T) {
	b := mkBoard(t, 12, 12)
	gs := mkBattle(t, b, nil,
		testUnit(1, Player1, at(0, 0)),
		testUnit(3, Player1, at(5, 0)),
		testUnit(2, Player2, at(11, 11)),
	)
	c := gs.Clone()
	c.SetRoller(dice.NewRoller(99))
	_, err := c.Apply(Action{Kind: MoveAction, Unit: 1, To: to(at(0, 3))})
	require.NoError(t, err)

	require.Equal(t, at(0, 0), gs.Units[1].Pos, "clone moves do not touch the original")
	require.Empty(t, gs.moved)
	require.Equal(t, at(0, 3), c.Units[1].Pos)
}
