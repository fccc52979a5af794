package game

import (
	"fmt"

	"skirmish/board"
)

// UnitID identifies a unit within one battle.
type UnitID int

// PlayerID is 1 or 2.
type PlayerID int

// Opponent returns the other player.
func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// RangedProfile is a unit's shooting weapon. Shots is the number of
// shot sub-actions per turn; a unit with Shots == 0 has no ranged
// weapon and never enters a shooting pool.
type RangedProfile struct {
	Range    int `json:"range" yaml:"range"`
	Shots    int `json:"shots" yaml:"shots"`
	HitOn    int `json:"hit_on" yaml:"hit_on"`
	Strength int `json:"strength" yaml:"strength"`
	AP       int `json:"ap" yaml:"ap"`
	Damage   int `json:"damage" yaml:"damage"`
}

// MeleeProfile is a unit's close-combat weapon. Attacks is the number
// of strike sub-actions per fight activation.
type MeleeProfile struct {
	Range    int `json:"range" yaml:"range"`
	Attacks  int `json:"attacks" yaml:"attacks"`
	HitOn    int `json:"hit_on" yaml:"hit_on"`
	Strength int `json:"strength" yaml:"strength"`
	AP       int `json:"ap" yaml:"ap"`
	Damage   int `json:"damage" yaml:"damage"`
}

// Unit is one model on the board. Saves are roll targets on a d6: an
// armor save of 3 passes on 3+. An invulnerable save of 7 means none.
// ShotsLeft and AttacksLeft are the live sub-action counters for the
// unit's current activation.
type Unit struct {
	ID     UnitID      `json:"id"`
	Name   string      `json:"name"`
	Player PlayerID    `json:"player"`
	Pos    board.Coord `json:"pos"`

	HP        int `json:"hp"`
	MaxHP     int `json:"max_hp"`
	Move      int `json:"move"`
	Toughness int `json:"toughness"`
	Armor     int `json:"armor"`
	Invul     int `json:"invul"`
	OC        int `json:"oc"`

	Ranged RangedProfile `json:"ranged"`
	Melee  MeleeProfile  `json:"melee"`

	ShotsLeft   int `json:"shots_left"`
	AttacksLeft int `json:"attacks_left"`
}

// NoInvul is the Invul value of a unit without an invulnerable save.
const NoInvul = 7

// HasRanged reports whether the unit carries a shooting weapon.
func (u *Unit) HasRanged() bool { return u.Ranged.Shots > 0 }

// HasMelee reports whether the unit carries a close-combat weapon.
func (u *Unit) HasMelee() bool { return u.Melee.Attacks > 0 }

// Label is the unit's display form in events and logs.
func (u *Unit) Label() string {
	if u.Name == "" {
		return fmt.Sprintf("unit %d", u.ID)
	}
	return fmt.Sprintf("%s (unit %d)", u.Name, u.ID)
}

// Validate checks the stat block once, at battle setup. Anything that
// slips past here surfaces later as an IntegrityError at the point of
// use.
func (u *Unit) Validate() error {
	subject := u.Label()
	switch {
	case u.ID <= 0:
		return integrity(subject, "id", "must be positive")
	case u.Player != Player1 && u.Player != Player2:
		return integrity(subject, "player", fmt.Sprintf("must be 1 or 2, got %d", u.Player))
	case u.MaxHP < 1:
		return integrity(subject, "max_hp", "must be at least 1")
	case u.HP < 0 || u.HP > u.MaxHP:
		return integrity(subject, "hp", fmt.Sprintf("must be in [0, %d], got %d", u.MaxHP, u.HP))
	case u.Move < 0:
		return integrity(subject, "move", "must not be negative")
	case u.Toughness < 1:
		return integrity(subject, "toughness", "must be at least 1")
	case u.Armor < 2 || u.Armor > 7:
		return integrity(subject, "armor", fmt.Sprintf("must be in [2, 7], got %d", u.Armor))
	case u.Invul < 2 || u.Invul > NoInvul:
		return integrity(subject, "invul", fmt.Sprintf("must be in [2, %d], got %d", NoInvul, u.Invul))
	case u.OC < 0:
		return integrity(subject, "oc", "must not be negative")
	}
	if u.HasRanged() {
		if err := validateProfile(subject, "ranged", u.Ranged.Range, u.Ranged.HitOn, u.Ranged.Strength, u.Ranged.Damage); err != nil {
			return err
		}
	}
	if u.HasMelee() {
		if err := validateProfile(subject, "melee", u.Melee.Range, u.Melee.HitOn, u.Melee.Strength, u.Melee.Damage); err != nil {
			return err
		}
	}
	return nil
}

func validateProfile(subject, weapon string, rng, hitOn, strength, damage int) error {
	switch {
	case rng < 1:
		return integrity(subject, weapon+".range", "must be at least 1")
	case hitOn < 2 || hitOn > 6:
		return integrity(subject, weapon+".hit_on", fmt.Sprintf("must be in [2, 6], got %d", hitOn))
	case strength < 1:
		return integrity(subject, weapon+".strength", "must be at least 1")
	case damage < 1:
		return integrity(subject, weapon+".damage", "must be at least 1")
	}
	return nil
}

// rangedAttack extracts the shooting attack parameters, failing if the
// unit has no ranged weapon.
func (u *Unit) rangedAttack() (attack, error) {
	if !u.HasRanged() {
		return attack{}, integrity(u.Label(), "ranged", "no ranged weapon")
	}
	return attack{
		HitOn:    u.Ranged.HitOn,
		Strength: u.Ranged.Strength,
		AP:       u.Ranged.AP,
		Damage:   u.Ranged.Damage,
	}, nil
}

// meleeAttack extracts the close-combat attack parameters, failing if
// the unit has no melee weapon.
func (u *Unit) meleeAttack() (attack, error) {
	if !u.HasMelee() {
		return attack{}, integrity(u.Label(), "melee", "no melee weapon")
	}
	return attack{
		HitOn:    u.Melee.HitOn,
		Strength: u.Melee.Strength,
		AP:       u.Melee.AP,
		Damage:   u.Melee.Damage,
	}, nil
}
