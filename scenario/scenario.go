// Package scenario describes battle setups: board shape, terrain,
// objectives, and the units each player fields. Scenarios load from
// YAML files or come built in; either way they validate fully before
// a battle starts.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"skirmish/board"
	"skirmish/dice"
	"skirmish/game"

	"gopkg.in/yaml.v3"
)

// Scenario is one battle setup. The zero value is invalid; build one
// with Load, Parse, or Standard.
type Scenario struct {
	Name     string `yaml:"name"`
	MaxTurns int    `yaml:"max_turns"`
	Board    Board  `yaml:"board"`
	Units    []Unit `yaml:"units"`
}

// Board is the battlefield layout.
type Board struct {
	Cols       int           `yaml:"cols"`
	Rows       int           `yaml:"rows"`
	Walls      []board.Coord `yaml:"walls,omitempty"`
	Objectives []Objective   `yaml:"objectives,omitempty"`
}

// Objective is a named group of hexes fought over for control.
type Objective struct {
	Name  string        `yaml:"name"`
	Hexes []board.Coord `yaml:"hexes"`
}

// Unit is a stat block plus a deployment hex. Omitting hp fields a
// fresh unit at max_hp; omitting invul fields a unit with no
// invulnerable save.
type Unit struct {
	ID        int         `yaml:"id"`
	Name      string      `yaml:"name"`
	Player    int         `yaml:"player"`
	At        board.Coord `yaml:"at"`
	HP        int         `yaml:"hp,omitempty"`
	MaxHP     int         `yaml:"max_hp"`
	Move      int         `yaml:"move"`
	Toughness int         `yaml:"toughness"`
	Armor     int         `yaml:"armor"`
	Invul     int         `yaml:"invul,omitempty"`
	OC        int         `yaml:"oc"`

	Ranged game.RangedProfile `yaml:"ranged,omitempty"`
	Melee  game.MeleeProfile  `yaml:"melee,omitempty"`
}

// Load reads a scenario file and validates it end to end.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML, rejects unknown fields, and validates by
// building the battle once. A scenario that parses is a scenario that
// plays.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if _, err := s.Battle(dice.NewRoller(0)); err != nil {
		return nil, err
	}
	return &s, nil
}

// Battle constructs a fresh battle from the scenario. A nil roller
// gets a time-seeded one; pass a fixed seed for reproducible play.
func (s *Scenario) Battle(r dice.Roller) (*game.GameState, error) {
	b, err := board.New(s.Board.Cols, s.Board.Rows, s.Board.Walls)
	if err != nil {
		return nil, err
	}
	for _, o := range s.Board.Objectives {
		if err := b.AddObjective(o.Name, o.Hexes); err != nil {
			return nil, err
		}
	}
	units := make([]game.Unit, len(s.Units))
	for i, u := range s.Units {
		units[i] = u.build()
	}
	return game.NewBattle(game.Setup{
		Board:    b,
		Units:    units,
		MaxTurns: s.MaxTurns,
		Roller:   r,
	})
}

func (u Unit) build() game.Unit {
	hp := u.HP
	if hp == 0 {
		hp = u.MaxHP
	}
	invul := u.Invul
	if invul == 0 {
		invul = game.NoInvul
	}
	return game.Unit{
		ID:        game.UnitID(u.ID),
		Name:      u.Name,
		Player:    game.PlayerID(u.Player),
		Pos:       u.At,
		HP:        hp,
		MaxHP:     u.MaxHP,
		Move:      u.Move,
		Toughness: u.Toughness,
		Armor:     u.Armor,
		Invul:     invul,
		OC:        u.OC,
		Ranged:    u.Ranged,
		Melee:     u.Melee,
	}
}
