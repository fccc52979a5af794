package game

import (
	"fmt"

	"skirmish/board"
)

// EventKind names one entry type in a battle's resolution log.
type EventKind string

const (
	EventPhase      EventKind = "phase"       // phase or sub-phase entered
	EventTurn       EventKind = "turn"        // new turn began
	EventActivate   EventKind = "activate"    // unit pulled from a pool
	EventPostpone   EventKind = "postpone"    // uncommitted unit returned to pool
	EventMove       EventKind = "move"        // normal move resolved
	EventAdvance    EventKind = "advance"     // advance roll made
	EventFlee       EventKind = "flee"        // move out of melee contact
	EventShot       EventKind = "shot"        // one shot fully resolved
	EventStrike     EventKind = "strike"      // one melee strike fully resolved
	EventChargeRoll EventKind = "charge_roll" // charge dice rolled
	EventChargeMove EventKind = "charge_move" // charge movement resolved
	EventChargeFail EventKind = "charge_fail" // charge roll left no destination
	EventDeath      EventKind = "death"       // unit removed at zero hit points
	EventSkip       EventKind = "skip"        // unit declined its activation
	EventPrune      EventKind = "prune"       // unit dropped from pool, nothing left to do
	EventControl    EventKind = "control"     // objective changed controller
	EventEnd        EventKind = "end"         // battle over
)

// AttackDice records the die rolls of one shot or strike. A zero roll
// means the sequence stopped before that die was thrown. Damage is the
// amount actually subtracted from the target.
type AttackDice struct {
	HitRoll   int  `json:"hit_roll"`
	HitOn     int  `json:"hit_on"`
	WoundRoll int  `json:"wound_roll,omitempty"`
	WoundOn   int  `json:"wound_on,omitempty"`
	SaveRoll  int  `json:"save_roll,omitempty"`
	SaveOn    int  `json:"save_on,omitempty"`
	NoSave    bool `json:"no_save,omitempty"`
	Cover     bool `json:"cover,omitempty"`
	Damage    int  `json:"damage"`
}

// Event is one append-only entry in the resolution log. Fields beyond
// Kind are filled per kind; a zero UnitID or coordinate pointer means
// the field does not apply.
type Event struct {
	Kind   EventKind    `json:"kind"`
	Turn   int          `json:"turn"`
	Phase  Phase        `json:"phase"`
	Player PlayerID     `json:"player,omitempty"`
	Unit   UnitID       `json:"unit,omitempty"`
	Target UnitID       `json:"target,omitempty"`
	From   *board.Coord `json:"from,omitempty"`
	To     *board.Coord `json:"to,omitempty"`
	Roll   int          `json:"roll,omitempty"`
	Dice   *AttackDice  `json:"dice,omitempty"`
	Mark   string       `json:"mark,omitempty"` // objective name for control events
	Note   string       `json:"note,omitempty"`
}

// Line renders the event as one human-readable log line.
func (e Event) Line() string {
	switch e.Kind {
	case EventTurn:
		return fmt.Sprintf("turn %d begins", e.Turn)
	case EventPhase:
		return fmt.Sprintf("player %d %s phase", e.Player, e.Note)
	case EventActivate:
		return fmt.Sprintf("unit %d activated", e.Unit)
	case EventPostpone:
		return fmt.Sprintf("unit %d postponed", e.Unit)
	case EventMove:
		return fmt.Sprintf("unit %d moved %s -> %s", e.Unit, e.From, e.To)
	case EventAdvance:
		return fmt.Sprintf("unit %d advances, rolled %d", e.Unit, e.Roll)
	case EventFlee:
		return fmt.Sprintf("unit %d fled %s -> %s", e.Unit, e.From, e.To)
	case EventShot:
		return fmt.Sprintf("unit %d shoots unit %d: %s", e.Unit, e.Target, e.Dice.line())
	case EventStrike:
		return fmt.Sprintf("unit %d strikes unit %d: %s", e.Unit, e.Target, e.Dice.line())
	case EventChargeRoll:
		return fmt.Sprintf("unit %d charge roll %d", e.Unit, e.Roll)
	case EventChargeMove:
		return fmt.Sprintf("unit %d charges %s -> %s at unit %d", e.Unit, e.From, e.To, e.Target)
	case EventChargeFail:
		return fmt.Sprintf("unit %d charge failed on %d", e.Unit, e.Roll)
	case EventDeath:
		return fmt.Sprintf("unit %d destroyed", e.Unit)
	case EventSkip:
		return fmt.Sprintf("unit %d skipped", e.Unit)
	case EventPrune:
		return fmt.Sprintf("unit %d idle, dropped from pool", e.Unit)
	case EventControl:
		if e.Player == NoPlayer {
			return fmt.Sprintf("objective %s contested", e.Mark)
		}
		return fmt.Sprintf("objective %s taken by player %d", e.Mark, e.Player)
	case EventEnd:
		if e.Player == NoPlayer {
			return "battle over: draw"
		}
		return fmt.Sprintf("battle over: player %d wins (%s)", e.Player, e.Note)
	}
	return string(e.Kind)
}

func (d *AttackDice) line() string {
	if d == nil {
		return "no dice"
	}
	if d.HitRoll < d.HitOn {
		return fmt.Sprintf("hit %d/%d+ miss", d.HitRoll, d.HitOn)
	}
	if d.WoundRoll < d.WoundOn {
		return fmt.Sprintf("hit %d, wound %d/%d+ fails", d.HitRoll, d.WoundRoll, d.WoundOn)
	}
	if d.NoSave {
		return fmt.Sprintf("hit %d, wound %d, no save, %d damage", d.HitRoll, d.WoundRoll, d.Damage)
	}
	if d.SaveRoll >= d.SaveOn {
		return fmt.Sprintf("hit %d, wound %d, saved %d/%d+", d.HitRoll, d.WoundRoll, d.SaveRoll, d.SaveOn)
	}
	return fmt.Sprintf("hit %d, wound %d, save %d/%d+ fails, %d damage", d.HitRoll, d.WoundRoll, d.SaveRoll, d.SaveOn, d.Damage)
}
