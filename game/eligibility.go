package game

import (
	"golang.org/x/exp/slices"

	"skirmish/board"
)

// This file is the single home of the per-phase eligibility rules and
// the target and destination searches. Pool construction, action
// validation, and LegalActions all go through the same functions.

// occupied returns the hexes of all living units except the given one.
func (gs *GameState) occupied(except UnitID) board.CoordSet {
	s := make(board.CoordSet, len(gs.Units))
	for id, u := range gs.Units {
		if id != except {
			s.Add(u.Pos)
		}
	}
	return s
}

// adjacentToEnemy reports whether a hex touches a living enemy of p.
func (gs *GameState) adjacentToEnemy(c board.Coord, p PlayerID) bool {
	for _, u := range gs.Units {
		if u.Player != p && board.Adjacent(c, u.Pos) {
			return true
		}
	}
	return false
}

// engaged reports whether the unit stands adjacent to a living enemy.
func (gs *GameState) engaged(u *Unit) bool {
	return gs.adjacentToEnemy(u.Pos, u.Player)
}

// moveEligible lists the current player's units that have not yet
// moved this turn. Engaged units stay in: their legal destinations are
// exactly the hexes that break contact.
func (gs *GameState) moveEligible() []UnitID {
	var ids []UnitID
	for id, u := range gs.Units {
		if u.Player == gs.Current && !gs.moved.has(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// shootEligible lists the current player's units that may open fire:
// armed, unfired, neither fled nor advanced this turn, not engaged,
// and with at least one valid target.
func (gs *GameState) shootEligible() []UnitID {
	var ids []UnitID
	for id, u := range gs.Units {
		if u.Player != gs.Current || !u.HasRanged() {
			continue
		}
		if gs.shot.has(id) || gs.fled.has(id) || gs.advanced.has(id) {
			continue
		}
		if gs.engaged(u) || len(gs.shootTargets(u)) == 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// chargeEligible lists the current player's units that may declare a
// charge: not yet charged, neither fled nor advanced, not engaged, and
// with a possible destination under the best roll of twelve.
func (gs *GameState) chargeEligible() []UnitID {
	var ids []UnitID
	for id, u := range gs.Units {
		if u.Player != gs.Current {
			continue
		}
		if gs.charged.has(id) || gs.fled.has(id) || gs.advanced.has(id) {
			continue
		}
		if gs.engaged(u) || len(gs.chargeOptions(u, chargeRange)) == 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// fightEligible lists p's units that can strike: armed for melee, not
// yet fought this phase, with an enemy in reach.
func (gs *GameState) fightEligible(p PlayerID) []UnitID {
	var ids []UnitID
	for id, u := range gs.Units {
		if u.Player != p || !u.HasMelee() {
			continue
		}
		if gs.attacked.has(id) || len(gs.meleeTargets(u)) == 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// shootTargets lists the living enemies the unit may fire at: inside
// weapon range, visible, and not adjacent to any unit of the shooter's
// side. Enemies locked in melee with the shooter's side are protected.
func (gs *GameState) shootTargets(u *Unit) []UnitID {
	if !u.HasRanged() {
		return nil
	}
	var out []UnitID
	for id, e := range gs.Units {
		if e.Player == u.Player {
			continue
		}
		if board.Distance(u.Pos, e.Pos) > u.Ranged.Range {
			continue
		}
		if gs.adjacentToEnemy(e.Pos, e.Player) {
			continue
		}
		if !gs.Board.Sight(u.Pos, e.Pos).CanSee {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// meleeTargets lists the living enemies inside the unit's melee reach.
func (gs *GameState) meleeTargets(u *Unit) []UnitID {
	if !u.HasMelee() {
		return nil
	}
	var out []UnitID
	for id, e := range gs.Units {
		if e.Player != u.Player && board.Distance(u.Pos, e.Pos) <= u.Melee.Range {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// moveDestinations lists the hexes a move with the given budget may
// finish on: reachable around walls and units, and not adjacent to any
// living enemy. Contact is only ever made by charging, and a fleeing
// unit must break contact completely.
func (gs *GameState) moveDestinations(u *Unit, budget int) []board.Coord {
	steps := gs.Board.ReachableFrom(u.Pos, budget, gs.occupied(u.ID))
	var out []board.Coord
	for hex, d := range steps {
		if d == 0 || gs.adjacentToEnemy(hex, u.Player) {
			continue
		}
		out = append(out, hex)
	}
	sortCoords(out)
	return out
}

// LegalActions enumerates the actions Apply would accept right now,
// for bots and interface hints. Pure selection moves, activating
// outside the charge phase and cancel, are accepted by Apply but not
// listed since they never advance the battle.
func (gs *GameState) LegalActions() []Action {
	if gs.Over {
		return nil
	}
	if gs.Phase == PhaseFight {
		return gs.fight.legalActions(gs)
	}
	pool := gs.pool
	active := pool.Active()

	// A committed unit must finish before anything else happens.
	if active != 0 && pool.Committed() {
		u := gs.Units[active]
		var out []Action
		if gs.Phase == PhaseShoot {
			for _, t := range gs.shootTargets(u) {
				out = append(out, Action{Kind: ShootAction, Unit: active, Target: t})
			}
		}
		return out
	}

	var out []Action
	for _, id := range pool.Members() {
		u := gs.Units[id]
		switch gs.Phase {
		case PhaseMove:
			budget := u.Move
			advanced := false
			if id == active && gs.plan != nil {
				budget = gs.plan.budget
				advanced = gs.plan.advanced
			}
			for _, dest := range gs.moveDestinations(u, budget) {
				d := dest
				out = append(out, Action{Kind: MoveAction, Unit: id, To: &d})
			}
			if !advanced {
				out = append(out, Action{Kind: AdvanceAction, Unit: id})
			}
		case PhaseShoot:
			for _, t := range gs.shootTargets(u) {
				out = append(out, Action{Kind: ShootAction, Unit: id, Target: t})
			}
		case PhaseCharge:
			if id == active && gs.pendingCharge != nil {
				for _, dest := range gs.pendingCharge.Destinations() {
					d := dest
					out = append(out, Action{Kind: ChargeAction, Unit: id, To: &d})
				}
			} else {
				out = append(out, Action{Kind: ActivateAction, Unit: id})
			}
		}
		out = append(out, Action{Kind: SkipAction, Unit: id})
	}
	return out
}

func sortCoords(cs []board.Coord) {
	slices.SortFunc(cs, func(a, b board.Coord) int {
		if a.Col != b.Col {
			return a.Col - b.Col
		}
		return a.Row - b.Row
	})
}
