package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skirmish/board"
	"skirmish/dice"
)

// testUnit returns a baseline trooper: 2 HP, move 4, a 12-hex rifle,
// one melee attack, everything hitting and saving on 4s. Mutators
// adjust fields per test.
func testUnit(id UnitID, p PlayerID, pos board.Coord, mods ...func(*Unit)) Unit {
	u := Unit{
		ID:     id,
		Player: p,
		Pos:    pos,
		HP:     2, MaxHP: 2,
		Move: 4, Toughness: 4, Armor: 3, Invul: NoInvul, OC: 1,
		Ranged: RangedProfile{Range: 12, Shots: 1, HitOn: 4, Strength: 4, AP: 0, Damage: 1},
		Melee:  MeleeProfile{Range: 1, Attacks: 1, HitOn: 4, Strength: 4, AP: 0, Damage: 1},
	}
	for _, m := range mods {
		m(&u)
	}
	return u
}

func mkBoard(t *testing.T, w, h int, walls ...board.Coord) *board.Board {
	t.Helper()
	b, err := board.New(w, h, walls)
	require.NoError(t, err)
	return b
}

// mkBattle starts a four-turn battle. A nil roller gets a fixed seed;
// pass a script when the exact dice matter.
func mkBattle(t *testing.T, b *board.Board, r dice.Roller, units ...Unit) *GameState {
	t.Helper()
	if r == nil {
		r = dice.NewRoller(11)
	}
	gs, err := NewBattle(Setup{Board: b, Units: units, MaxTurns: 4, Roller: r})
	require.NoError(t, err)
	return gs
}

func at(col, row int) board.Coord { return board.Coord{Col: col, Row: row} }

func to(c board.Coord) *board.Coord { return &c }

// kinds extracts the event kinds from a result, for order assertions.
func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}
