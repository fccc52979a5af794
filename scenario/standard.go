package scenario

import (
	"skirmish/board"
	"skirmish/game"
)

// Standard returns the built-in scenario: a 16x12 field with two
// objectives, scattered walls, and three units a side. It is the
// default for the runner and the server when no file is given.
func Standard() *Scenario {
	captainRanged := game.RangedProfile{Range: 12, Shots: 2, HitOn: 3, Strength: 4, AP: 1, Damage: 2}
	captainMelee := game.MeleeProfile{Range: 1, Attacks: 4, HitOn: 3, Strength: 5, AP: 2, Damage: 2}
	gunnerRanged := game.RangedProfile{Range: 18, Shots: 3, HitOn: 4, Strength: 4, AP: 1, Damage: 1}
	gunnerMelee := game.MeleeProfile{Range: 1, Attacks: 1, HitOn: 4, Strength: 3, AP: 0, Damage: 1}
	assaultRanged := game.RangedProfile{Range: 6, Shots: 1, HitOn: 4, Strength: 3, AP: 0, Damage: 1}
	assaultMelee := game.MeleeProfile{Range: 1, Attacks: 3, HitOn: 3, Strength: 4, AP: 1, Damage: 1}

	return &Scenario{
		Name:     "standard",
		MaxTurns: 5,
		Board: Board{
			Cols: 16,
			Rows: 12,
			Walls: []board.Coord{
				{Col: 7, Row: 3}, {Col: 8, Row: 3},
				{Col: 7, Row: 8}, {Col: 8, Row: 8},
				{Col: 3, Row: 6}, {Col: 12, Row: 5},
			},
			Objectives: []Objective{
				{Name: "west", Hexes: []board.Coord{{Col: 4, Row: 5}, {Col: 4, Row: 6}, {Col: 5, Row: 6}}},
				{Name: "east", Hexes: []board.Coord{{Col: 10, Row: 6}, {Col: 11, Row: 6}, {Col: 11, Row: 7}}},
			},
		},
		Units: []Unit{
			{ID: 1, Name: "captain", Player: 1, At: board.Coord{Col: 7, Row: 0},
				MaxHP: 5, Move: 5, Toughness: 4, Armor: 2, Invul: 4, OC: 2,
				Ranged: captainRanged, Melee: captainMelee},
			{ID: 2, Name: "gunner", Player: 1, At: board.Coord{Col: 3, Row: 0},
				MaxHP: 2, Move: 4, Toughness: 4, Armor: 3, OC: 1,
				Ranged: gunnerRanged, Melee: gunnerMelee},
			{ID: 3, Name: "assault", Player: 1, At: board.Coord{Col: 12, Row: 0},
				MaxHP: 3, Move: 6, Toughness: 4, Armor: 3, OC: 1,
				Ranged: assaultRanged, Melee: assaultMelee},
			{ID: 4, Name: "captain", Player: 2, At: board.Coord{Col: 8, Row: 11},
				MaxHP: 5, Move: 5, Toughness: 4, Armor: 2, Invul: 4, OC: 2,
				Ranged: captainRanged, Melee: captainMelee},
			{ID: 5, Name: "gunner", Player: 2, At: board.Coord{Col: 12, Row: 11},
				MaxHP: 2, Move: 4, Toughness: 4, Armor: 3, OC: 1,
				Ranged: gunnerRanged, Melee: gunnerMelee},
			{ID: 6, Name: "assault", Player: 2, At: board.Coord{Col: 3, Row: 11},
				MaxHP: 3, Move: 6, Toughness: 4, Armor: 3, OC: 1,
				Ranged: assaultRanged, Melee: assaultMelee},
		},
	}
}
