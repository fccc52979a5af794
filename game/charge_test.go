package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skirmish/dice"
)

func TestChargeEligibility(t *testing.T) {
	b := mkBoard(t, 12, 12)
	gs := mkBattle(t, b, nil,
		testUnit(4, Player1, at(0, 6)),
		testUnit(5, Player1, at(11, 0)),
		testUnit(6, Player1, at(0, 10)),
		testUnit(2, Player2, at(0, 11)),
	)
	// 5 cannot reach contact on any roll, 6 already stands in it.
	require.Equal(t, []UnitID{4}, gs.chargeEligible())
}

func TestChargeRollTooShortFails(t *testing.T) {
	b := mkBoard(t, 12, 12)
	gs := mkBattle(t, b, dice.NewScript(3, 4),
		testUnit(1, Player1, at(0, 1)),
		testUnit(2, Player2, at(0, 10)),
	)
	_, err := gs.Apply(Action{Kind: SkipAction, Unit: 1})
	require.NoError(t, err)
	_, err = gs.Apply(Action{Kind: SkipAction, Unit: 1})
	require.NoError(t, err)
	require.Equal(t, PhaseCharge, gs.Phase, "nine hexes out is inside the envelope")

	// The enemy sits 9 away; a 7 leaves every contact hex out of reach.
	res, err := gs.Apply(Action{Kind: ActivateAction, Unit: 1})
	require.NoError(t, err)
	require.Contains(t, kinds(res.Events), EventChargeRoll)
	require.Contains(t, kinds(res.Events), EventChargeFail)
	require.Empty(t, res.Destinations)
	require.Equal(t, at(0, 1), gs.Units[1].Pos, "a failed charge moves nobody")
	require.Contains(t, res.State.Records.Charged, UnitID(1))
	require.Equal(t, Player2, gs.Current, "the failure drained the phase")
}

func TestChargeMove(t *testing.T) {
	b := mkBoard(t, 12, 12)
	gs := mkBattle(t, b, dice.NewScript(2, 3),
		testUnit(1, Player1, at(0, 4)),
		testUnit(2, Player2, at(0, 0)),
		testUnit(3, Player2, at(1, 0)),
	)
	_, err := gs.Apply(Action{Kind: SkipAction, Unit: 1})
	require.NoError(t, err)
	_, err = gs.Apply(Action{Kind: SkipAction, Unit: 1})
	require.NoError(t, err)
	require.Equal(t, PhaseCharge, gs.Phase)

	res, err := gs.Apply(Action{Kind: ActivateAction, Unit: 1})
	require.NoError(t, err)
	require.Contains(t, res.Destinations, at(0, 1),
		"the one free hex touching unit 2 is three steps out, inside the rolled five")

	t.Run("destination must come from the roll", func(t *testing.T) {
		_, err := gs.Apply(Action{Kind: ChargeAction, Unit: 1, To: to(at(0, 3))})
		require.ErrorIs(t, err, ErrIllegalAction)
		require.NotNil(t, gs.pendingCharge, "a bad pick does not burn the roll")
	})

	t.Run("charging moves in and locks the target", func(t *testing.T) {
		res, err = gs.Apply(Action{Kind: ChargeAction, Unit: 1, To: to(at(0, 1)), Target: 3})
		require.NoError(t, err)
		require.Equal(t, at(0, 1), gs.Units[1].Pos)
		require.Equal(t, UnitID(3), gs.chargeTargets[1])

		require.Equal(t, PhaseFight, gs.Phase)
		require.NotNil(t, res.State.Fight)
		require.Equal(t, "charging", res.State.Fight.SubPhase)
		require.Equal(t, []UnitID{1}, res.State.Fight.Chargers.Members)
	})
}

func TestChargePostponeDiscardsRoll(t *testing.T) {
	b := mkBoard(t, 12, 12)
	script := dice.NewScript(6, 6, 6, 5, 1, 1, 1, 1)
	gs := mkBattle(t, b, script,
		testUnit(10, Player1, at(0, 6)),
		testUnit(11, Player1, at(2, 6)),
		testUnit(20, Player2, at(0, 11)),
	)
	for _, id := range []UnitID{10, 11, 10, 11} {
		_, err := gs.Apply(Action{Kind: SkipAction, Unit: id})
		require.NoError(t, err)
	}
	require.Equal(t, PhaseCharge, gs.Phase)
	require.Equal(t, []UnitID{10, 11}, gs.pool.Members())

	res, err := gs.Apply(Action{Kind: ActivateAction, Unit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Destinations)
	require.Equal(t, 12, gs.pendingCharge.Distance)

	res, err = gs.Apply(Action{Kind: ActivateAction, Unit: 11})
	require.NoError(t, err)
	require.Contains(t, kinds(res.Events), EventPostpone)
	require.Equal(t, UnitID(11), gs.pendingCharge.Unit, "the postponed roll is gone")
	require.Equal(t, 11, gs.pendingCharge.Distance)
	require.Equal(t, []UnitID{10, 11}, gs.pool.Members(), "unit 10 is back in the pool")

	// Unit 10 comes back later and rolls fresh dice, badly this time.
	res, err = gs.Apply(Action{Kind: ActivateAction, Unit: 10})
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventPostpone, EventActivate, EventChargeRoll, EventChargeFail}, kinds(res.Events))
	require.Nil(t, gs.pendingCharge)
	require.Equal(t, []UnitID{11}, gs.pool.Members())

	res, err = gs.Apply(Action{Kind: ActivateAction, Unit: 11})
	require.NoError(t, err)
	require.Equal(t, 0, script.Remaining(), "every scripted die was spent")
	require.Equal(t, []UnitID{10, 11}, res.State.Records.Charged)
	require.Equal(t, Player2, gs.Current)
}
