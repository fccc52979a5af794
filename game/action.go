package game

import (
	"fmt"

	"skirmish/board"
)

// ActionKind names one request a player can submit. Kinds are strings
// so actions round-trip through JSON unchanged.
type ActionKind string

const (
	// ActivateAction selects a pool unit. In the charge phase this
	// rolls the charge dice; elsewhere it only surfaces the unit's
	// options. Activating a fresh unit while another is active and
	// uncommitted postpones the active one back to the pool.
	ActivateAction ActionKind = "activate"
	// MoveAction moves the active (or implicitly activated) unit to a
	// destination hex. After an AdvanceAction it completes the advance.
	MoveAction ActionKind = "move"
	// AdvanceAction declares an advance: rolls one die and extends the
	// unit's move budget for the following MoveAction.
	AdvanceAction ActionKind = "advance"
	// ShootAction fires one shot from the active unit at a target.
	ShootAction ActionKind = "shoot"
	// ChargeAction moves a unit whose charge roll succeeded into its
	// chosen destination hex.
	ChargeAction ActionKind = "charge"
	// FightAction resolves one melee strike at a target.
	FightAction ActionKind = "fight"
	// SkipAction declines a pool unit's activation and records it.
	SkipAction ActionKind = "skip"
	// CancelAction returns an uncommitted active unit to its pool.
	CancelAction ActionKind = "cancel"
)

// Action is the single command players submit to a battle. Unit is
// required for every kind except cancel. Target names an enemy for
// shoot and fight; To names a destination hex for move and charge.
type Action struct {
	Kind   ActionKind   `json:"kind"`
	Unit   UnitID       `json:"unit,omitempty"`
	Target UnitID       `json:"target,omitempty"`
	To     *board.Coord `json:"to,omitempty"`
}

func (a Action) String() string {
	s := fmt.Sprintf("%s unit=%d", a.Kind, a.Unit)
	if a.Target != 0 {
		s += fmt.Sprintf(" target=%d", a.Target)
	}
	if a.To != nil {
		s += fmt.Sprintf(" to=%s", *a.To)
	}
	return s
}
