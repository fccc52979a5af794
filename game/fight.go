package game

import (
	"golang.org/x/exp/slices"
)

// fightState drives the fight phase. The current player's successful
// chargers strike first in any order, then activations alternate with
// the non-current player picking first in each pair, and when one side
// runs out the other cleans up. Within an activation the usual pool
// contract applies: postponement until the first strike, then the unit
// must finish.
type fightState struct {
	sub      FightSubPhase
	chargers *ActivationPool
	pools    map[PlayerID]*ActivationPool
	picker   PlayerID
	finished bool
}

func newFightState(gs *GameState) *fightState {
	current := gs.Current
	var chargers, rest []UnitID
	for _, id := range gs.fightEligible(current) {
		if _, ok := gs.chargeTargets[id]; ok {
			chargers = append(chargers, id)
		} else {
			rest = append(rest, id)
		}
	}
	f := &fightState{
		sub:      SubCharging,
		chargers: newPool(chargers),
		pools: map[PlayerID]*ActivationPool{
			current:            newPool(rest),
			current.Opponent(): newPool(gs.fightEligible(current.Opponent())),
		},
		picker: current.Opponent(),
	}
	f.normalize(gs)
	return f
}

func (f *fightState) done() bool { return f.finished }

// actor returns the player entitled to act right now.
func (f *fightState) actor(current PlayerID) PlayerID {
	if f.sub == SubCharging {
		return current
	}
	return f.picker
}

// activePool returns the pool the actor draws from.
func (f *fightState) activePool(gs *GameState) *ActivationPool {
	if f.sub == SubCharging {
		return f.chargers
	}
	return f.pools[f.picker]
}

// afterActivation advances the machine once an activation resolves. In
// the alternating sub-phase the pick passes to the other player.
func (f *fightState) afterActivation(gs *GameState) {
	if f.sub == SubAlternating {
		f.picker = f.picker.Opponent()
	}
	f.normalize(gs)
}

// normalize settles the machine on the next sub-phase that has units
// left, or marks the fight finished. It logs at most one sub-phase
// entry.
func (f *fightState) normalize(gs *GameState) {
	before := f.sub
	f.settle(gs)
	if !f.finished && f.sub != before {
		gs.event(Event{
			Kind:   EventPhase,
			Player: f.actor(gs.Current),
			Note:   "fight " + f.sub.String(),
		})
	}
}

func (f *fightState) settle(gs *GameState) {
	for {
		switch f.sub {
		case SubCharging:
			if !f.chargers.Empty() {
				return
			}
			f.sub = SubAlternating
			f.picker = gs.Current.Opponent()
		case SubAlternating:
			mine := f.pools[f.picker]
			other := f.pools[f.picker.Opponent()]
			if mine.Empty() && other.Empty() {
				f.finished = true
				return
			}
			if mine.Empty() {
				f.picker = f.picker.Opponent()
				f.sub = SubCleanup
				continue
			}
			return
		case SubCleanup:
			if f.pools[f.picker].Empty() {
				f.finished = true
			}
			return
		}
	}
}

// removeDead drops a dead unit from every pool and prunes members left
// without a target. The active striker is exempt; its own completion
// check handles running out of enemies.
func (f *fightState) removeDead(gs *GameState, id UnitID) {
	f.chargers.prune(id)
	f.pools[Player1].prune(id)
	f.pools[Player2].prune(id)
	for _, p := range []*ActivationPool{f.chargers, f.pools[Player1], f.pools[Player2]} {
		for _, member := range p.Members() {
			if member == p.Active() {
				continue
			}
			u := gs.Units[member]
			if len(gs.meleeTargets(u)) == 0 {
				p.prune(member)
				gs.event(Event{Kind: EventPrune, Player: u.Player, Unit: member})
			}
		}
	}
}

// fightActivate pulls a unit into its activation, postponing an
// uncommitted predecessor, and arms its strike counter.
func (gs *GameState) fightActivate(pool *ActivationPool, u *Unit) error {
	if pool.Active() == u.ID {
		return nil
	}
	postponed, err := pool.activate(u.ID)
	if err != nil {
		return err
	}
	if postponed != 0 {
		gs.Units[postponed].AttacksLeft = 0
		gs.event(Event{Kind: EventPostpone, Player: u.Player, Unit: postponed})
	}
	u.AttacksLeft = u.Melee.Attacks
	gs.event(Event{Kind: EventActivate, Player: u.Player, Unit: u.ID})
	return nil
}

// applyFightStrike resolves one melee strike by the fight actor.
func (gs *GameState) applyFightStrike(a Action) (*Result, error) {
	if gs.Phase != PhaseFight {
		return nil, illegal("strikes only happen in the fight phase")
	}
	f := gs.fight
	u, err := gs.unit(a.Unit)
	if err != nil {
		return nil, err
	}
	if u.Player != f.actor(gs.Current) {
		return nil, illegal("player %d is not striking now", u.Player)
	}
	target, err := gs.unit(a.Target)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(gs.meleeTargets(u), target.ID) {
		return nil, illegal("unit %d is not in melee reach of unit %d", a.Target, a.Unit)
	}
	prof, err := u.meleeAttack()
	if err != nil {
		return nil, err
	}
	pool := f.activePool(gs)
	if err := gs.fightActivate(pool, u); err != nil {
		return nil, err
	}
	d := gs.resolveAttack(prof, target, false)
	pool.commit()
	u.AttacksLeft--
	gs.event(Event{Kind: EventStrike, Player: u.Player, Unit: u.ID, Target: target.ID, Dice: d})
	if target.HP <= 0 {
		gs.killUnit(target)
	}
	res := &Result{}
	if u.AttacksLeft <= 0 || len(gs.meleeTargets(u)) == 0 {
		u.AttacksLeft = 0
		pool.complete()
		gs.attacked.add(u.ID)
		f.afterActivation(gs)
	} else {
		res.Targets = gs.meleeTargets(u)
	}
	return res, nil
}

// skip resolves a fight activation without a single strike.
func (f *fightState) skip(gs *GameState, a Action) (*Result, error) {
	u, err := gs.unit(a.Unit)
	if err != nil {
		return nil, err
	}
	if u.Player != f.actor(gs.Current) {
		return nil, illegal("player %d is not striking now", u.Player)
	}
	pool := f.activePool(gs)
	postponed, err := pool.skip(u.ID)
	if err != nil {
		return nil, err
	}
	if postponed != 0 {
		gs.Units[postponed].AttacksLeft = 0
		gs.event(Event{Kind: EventPostpone, Player: u.Player, Unit: postponed})
	}
	u.AttacksLeft = 0
	gs.attacked.add(u.ID)
	gs.event(Event{Kind: EventSkip, Player: u.Player, Unit: u.ID})
	f.afterActivation(gs)
	return &Result{}, nil
}

// activate explicitly selects a fight-pool unit and reports its
// targets.
func (f *fightState) activate(gs *GameState, a Action) (*Result, error) {
	u, err := gs.unit(a.Unit)
	if err != nil {
		return nil, err
	}
	if u.Player != f.actor(gs.Current) {
		return nil, illegal("player %d is not striking now", u.Player)
	}
	pool := f.activePool(gs)
	if err := gs.fightActivate(pool, u); err != nil {
		return nil, err
	}
	return &Result{Targets: gs.meleeTargets(u)}, nil
}

// cancel returns an uncommitted fight activation to its pool.
func (f *fightState) cancel(gs *GameState) (*Result, error) {
	pool := f.activePool(gs)
	id, err := pool.cancel()
	if err != nil {
		return nil, err
	}
	u := gs.Units[id]
	u.AttacksLeft = 0
	gs.event(Event{Kind: EventPostpone, Player: u.Player, Unit: id, Note: "cancelled"})
	return &Result{}, nil
}

func (f *fightState) legalActions(gs *GameState) []Action {
	pool := f.activePool(gs)
	if active := pool.Active(); active != 0 && pool.Committed() {
		u := gs.Units[active]
		var out []Action
		for _, t := range gs.meleeTargets(u) {
			out = append(out, Action{Kind: FightAction, Unit: active, Target: t})
		}
		return out
	}
	var out []Action
	for _, id := range pool.Members() {
		u := gs.Units[id]
		for _, t := range gs.meleeTargets(u) {
			out = append(out, Action{Kind: FightAction, Unit: id, Target: t})
		}
		out = append(out, Action{Kind: SkipAction, Unit: id})
	}
	return out
}

func (f *fightState) clone() *fightState {
	return &fightState{
		sub:      f.sub,
		chargers: f.chargers.clone(),
		pools: map[PlayerID]*ActivationPool{
			Player1: f.pools[Player1].clone(),
			Player2: f.pools[Player2].clone(),
		},
		picker:   f.picker,
		finished: f.finished,
	}
}
