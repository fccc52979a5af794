package game

import (
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"skirmish/board"
	"skirmish/dice"
)

// chargeRange is the farthest a charge can reach, the best roll of two
// dice. Eligibility is judged against this envelope before any roll is
// made.
const chargeRange = 12

// ChargeRoll is the transient record of a declared charge. It exists
// from the activation roll until the unit moves in, fails outright, or
// is postponed; postponing discards the roll entirely.
type ChargeRoll struct {
	Unit     UnitID    `json:"unit"`
	Distance int       `json:"distance"`
	RolledAt time.Time `json:"rolled_at"`

	options map[board.Coord][]UnitID
}

// Destinations lists the hexes the roll allows, in column then row
// order.
func (cr *ChargeRoll) Destinations() []board.Coord {
	out := maps.Keys(cr.options)
	sortCoords(out)
	return out
}

// targetsAt lists the enemies a charge ending on the hex would engage.
func (cr *ChargeRoll) targetsAt(c board.Coord) []UnitID {
	return cr.options[c]
}

// chargeOptions maps each legal charge destination under the given
// step budget to the enemies it would engage, in ID order. A
// destination is a free hex reachable around walls and units that ends
// adjacent to at least one living enemy.
func (gs *GameState) chargeOptions(u *Unit, budget int) map[board.Coord][]UnitID {
	if budget > chargeRange {
		budget = chargeRange
	}
	steps := gs.Board.ReachableFrom(u.Pos, budget, gs.occupied(u.ID))
	out := make(map[board.Coord][]UnitID)
	for hex, d := range steps {
		if d == 0 {
			continue
		}
		var adj []UnitID
		for id, e := range gs.Units {
			if e.Player != u.Player && board.Adjacent(hex, e.Pos) {
				adj = append(adj, id)
			}
		}
		if len(adj) > 0 {
			slices.Sort(adj)
			out[hex] = adj
		}
	}
	return out
}

// rollCharge resolves the activation roll for a charge-phase unit. A
// roll with no destination fails the charge on the spot: the unit is
// recorded as having charged and moves nowhere. Otherwise the roll
// stays pending until the player picks a destination or backs out.
func (gs *GameState) rollCharge(u *Unit) {
	roll := dice.Sum2D6(gs.roller)
	gs.event(Event{Kind: EventChargeRoll, Player: u.Player, Unit: u.ID, Roll: roll})
	options := gs.chargeOptions(u, roll)
	if len(options) == 0 {
		gs.pool.complete()
		gs.charged.add(u.ID)
		gs.event(Event{Kind: EventChargeFail, Player: u.Player, Unit: u.ID, Roll: roll})
		return
	}
	gs.pendingCharge = &ChargeRoll{Unit: u.ID, Distance: roll, RolledAt: time.Now(), options: options}
}

// applyChargeMove moves a rolled charger into its chosen destination
// and marks the enemy it engages as its charge target.
func (gs *GameState) applyChargeMove(a Action) (*Result, error) {
	if gs.Phase != PhaseCharge {
		return nil, illegal("charge moves only happen in the charge phase")
	}
	cr := gs.pendingCharge
	if cr == nil || cr.Unit != a.Unit {
		return nil, illegal("unit %d has no charge roll pending", a.Unit)
	}
	u, err := gs.unit(a.Unit)
	if err != nil {
		return nil, err
	}
	if a.To == nil {
		return nil, illegal("charge needs a destination")
	}
	to := *a.To
	targets := cr.targetsAt(to)
	if len(targets) == 0 {
		return nil, illegal("hex %s is not a destination of unit %d's charge", to, a.Unit)
	}
	target := a.Target
	if target == 0 {
		target = targets[0]
	} else if !slices.Contains(targets, target) {
		return nil, illegal("unit %d is not engaged by a charge to %s", target, to)
	}
	from := u.Pos
	u.Pos = to
	gs.pool.commit()
	gs.pool.complete()
	gs.charged.add(u.ID)
	gs.chargeTargets[u.ID] = target
	gs.pendingCharge = nil
	gs.event(Event{
		Kind: EventChargeMove, Player: u.Player, Unit: u.ID,
		Target: target, From: &from, To: &to, Roll: cr.Distance,
	})
	return &Result{}, nil
}
