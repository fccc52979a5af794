// Package game implements the battle core: a two-player, turn-based
// skirmish on a hex grid. Each turn a player moves, shoots, charges,
// and fights with per-phase activation pools; dead units leave play
// instantly and objective markers remember their holder through ties.
// All mutation funnels through Apply, which validates against the same
// rule functions that enumerate legal actions.
package game

import (
	"fmt"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"skirmish/board"
	"skirmish/dice"
)

type idSet map[UnitID]struct{}

func (s idSet) has(id UnitID) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) add(id UnitID) { s[id] = struct{}{} }

func (s idSet) sorted() []UnitID {
	ids := maps.Keys(s)
	slices.Sort(ids)
	return ids
}

// movePlan is the transient state of a move-phase activation: the step
// budget, widened by an advance roll if one was made.
type movePlan struct {
	unit     UnitID
	budget   int
	roll     int
	advanced bool
}

// Setup describes a battle to start. Roller defaults to a time-seeded
// one; pass a fixed seed or a script for reproducible battles.
type Setup struct {
	Board    *board.Board
	Units    []Unit
	MaxTurns int
	Roller   dice.Roller
}

// GameState is one battle in progress. Exported fields are read-only
// for callers; every change goes through Apply.
type GameState struct {
	Board *board.Board
	Units map[UnitID]*Unit

	Turn     int
	MaxTurns int
	Phase    Phase
	Current  PlayerID
	Over     bool
	Winner   PlayerID
	Verdict  string

	Events []Event

	pool          *ActivationPool
	fight         *fightState
	plan          *movePlan
	pendingCharge *ChargeRoll

	moved    idSet
	shot     idSet
	charged  idSet
	attacked idSet
	fled     idSet
	advanced idSet

	chargeTargets map[UnitID]UnitID

	control *ControlTracker
	dead    map[UnitID]*Unit
	roller  dice.Roller
}

// Result reports one applied action: the log entries it produced, the
// options it opened, and the state left behind.
type Result struct {
	Events       []Event       `json:"events"`
	Destinations []board.Coord `json:"destinations,omitempty"`
	Targets      []UnitID      `json:"targets,omitempty"`
	State        Snapshot      `json:"state"`
}

// NewBattle validates the setup and opens player 1's first move phase.
func NewBattle(s Setup) (*GameState, error) {
	if s.Board == nil {
		return nil, integrity("setup", "board", "missing")
	}
	if s.MaxTurns < 1 {
		return nil, integrity("setup", "max_turns", "must be at least 1")
	}
	roller := s.Roller
	if roller == nil {
		roller = dice.NewRoller(time.Now().UnixNano())
	}
	gs := &GameState{
		Board:         s.Board,
		Units:         make(map[UnitID]*Unit, len(s.Units)),
		Turn:          1,
		MaxTurns:      s.MaxTurns,
		Current:       Player1,
		moved:         idSet{},
		shot:          idSet{},
		charged:       idSet{},
		attacked:      idSet{},
		fled:          idSet{},
		advanced:      idSet{},
		chargeTargets: map[UnitID]UnitID{},
		control:       newControlTracker(),
		dead:          map[UnitID]*Unit{},
		roller:        roller,
	}
	taken := make(board.CoordSet, len(s.Units))
	sides := map[PlayerID]int{}
	for i := range s.Units {
		u := s.Units[i]
		if err := u.Validate(); err != nil {
			return nil, err
		}
		if u.HP < 1 {
			return nil, integrity(u.Label(), "hp", "must be at least 1 at setup")
		}
		if _, dup := gs.Units[u.ID]; dup {
			return nil, integrity(u.Label(), "id", "already in use")
		}
		if !gs.Board.InBounds(u.Pos) {
			return nil, integrity(u.Label(), "pos", fmt.Sprintf("hex %s is off the board", u.Pos))
		}
		if gs.Board.IsWall(u.Pos) {
			return nil, integrity(u.Label(), "pos", fmt.Sprintf("hex %s is a wall", u.Pos))
		}
		if taken.Has(u.Pos) {
			return nil, integrity(u.Label(), "pos", fmt.Sprintf("hex %s is already occupied", u.Pos))
		}
		taken.Add(u.Pos)
		sides[u.Player]++
		gs.Units[u.ID] = &u
	}
	if sides[Player1] == 0 || sides[Player2] == 0 {
		return nil, integrity("setup", "units", "both players need at least one unit")
	}
	gs.event(Event{Kind: EventTurn})
	gs.control.recompute(gs)
	gs.enterPhase(PhaseMove)
	gs.advanceIfDone()
	return gs, nil
}

// Apply executes one action. Illegal requests are rejected with
// ErrIllegalAction and no side effects; anything accepted mutates the
// battle, appends to the resolution log, and walks phases forward as
// pools drain.
func (gs *GameState) Apply(a Action) (*Result, error) {
	if gs.Over {
		return nil, illegal("battle is over")
	}
	mark := len(gs.Events)
	var res *Result
	var err error
	switch a.Kind {
	case ActivateAction:
		res, err = gs.applyActivate(a)
	case MoveAction:
		res, err = gs.applyMove(a)
	case AdvanceAction:
		res, err = gs.applyAdvance(a)
	case ShootAction:
		res, err = gs.applyShoot(a)
	case ChargeAction:
		res, err = gs.applyChargeMove(a)
	case FightAction:
		res, err = gs.applyFightStrike(a)
	case SkipAction:
		res, err = gs.applySkip(a)
	case CancelAction:
		res, err = gs.applyCancel(a)
	default:
		return nil, illegal("unknown action kind %q", a.Kind)
	}
	if err != nil {
		return nil, err
	}
	gs.control.recompute(gs)
	gs.advanceIfDone()
	res.Events = append([]Event(nil), gs.Events[mark:]...)
	res.State = gs.Snapshot()
	return res, nil
}

// ActingPlayer returns the player entitled to submit the next action.
func (gs *GameState) ActingPlayer() PlayerID {
	if gs.Phase == PhaseFight && gs.fight != nil {
		return gs.fight.actor(gs.Current)
	}
	return gs.Current
}

// SetRoller swaps the dice source, for clones and replays.
func (gs *GameState) SetRoller(r dice.Roller) { gs.roller = r }

// Fallen lists destroyed units in ID order.
func (gs *GameState) Fallen() []Unit {
	out := make([]Unit, 0, len(gs.dead))
	for _, u := range gs.dead {
		out = append(out, *u)
	}
	slices.SortFunc(out, func(a, b Unit) int { return int(a.ID - b.ID) })
	return out
}

// Objectives returns the current control map.
func (gs *GameState) Objectives() map[string]PlayerID {
	return gs.control.Holders()
}

func (gs *GameState) unit(id UnitID) (*Unit, error) {
	if u, ok := gs.Units[id]; ok {
		return u, nil
	}
	if _, fell := gs.dead[id]; fell {
		return nil, illegal("unit %d is destroyed", id)
	}
	return nil, illegal("unit %d does not exist", id)
}

func (gs *GameState) event(e Event) {
	e.Turn = gs.Turn
	e.Phase = gs.Phase
	gs.Events = append(gs.Events, e)
}

// enterPhase opens a phase for the current player: the phase's record
// sets reset, the pool is rebuilt from scratch, and leftover
// activation state is dropped.
func (gs *GameState) enterPhase(ph Phase) {
	gs.Phase = ph
	gs.plan = nil
	gs.pendingCharge = nil
	gs.pool = nil
	gs.fight = nil
	gs.event(Event{Kind: EventPhase, Player: gs.Current, Note: ph.String()})
	switch ph {
	case PhaseMove:
		gs.moved, gs.fled, gs.advanced = idSet{}, idSet{}, idSet{}
		gs.pool = newPool(gs.moveEligible())
	case PhaseShoot:
		gs.shot = idSet{}
		gs.pool = newPool(gs.shootEligible())
	case PhaseCharge:
		gs.charged = idSet{}
		gs.chargeTargets = map[UnitID]UnitID{}
		gs.pool = newPool(gs.chargeEligible())
	case PhaseFight:
		gs.attacked = idSet{}
		gs.fight = newFightState(gs)
	}
}

// advanceIfDone walks the battle past every stage with nothing left to
// do: empty pools skip their phase, a finished fight passes play
// across, and elimination or the turn limit ends the battle. Phase
// constants are declared in play order, so the next phase is the
// successor value.
func (gs *GameState) advanceIfDone() {
	for !gs.Over {
		if loser, out := gs.eliminated(); out {
			gs.endBattle(loser.Opponent(), "elimination")
			return
		}
		switch gs.Phase {
		case PhaseMove, PhaseShoot, PhaseCharge:
			if !gs.pool.Empty() {
				return
			}
			gs.enterPhase(gs.Phase + 1)
		case PhaseFight:
			if !gs.fight.done() {
				return
			}
			next := gs.Current.Opponent()
			if next == Player1 {
				if gs.Turn >= gs.MaxTurns {
					gs.endTurnLimit()
					return
				}
				gs.Turn++
				gs.Current = next
				gs.event(Event{Kind: EventTurn})
			} else {
				gs.Current = next
			}
			gs.enterPhase(PhaseMove)
		}
	}
}

func (gs *GameState) eliminated() (PlayerID, bool) {
	alive := map[PlayerID]int{}
	for _, u := range gs.Units {
		alive[u.Player]++
	}
	for _, p := range []PlayerID{Player1, Player2} {
		if alive[p] == 0 {
			return p, true
		}
	}
	return NoPlayer, false
}

func (gs *GameState) endBattle(winner PlayerID, verdict string) {
	gs.Over = true
	gs.Winner = winner
	gs.Verdict = verdict
	gs.event(Event{Kind: EventEnd, Player: winner, Note: verdict})
}

// endTurnLimit scores a battle that ran its full length: objectives
// held decide it, then the total objective-control weight of the
// survivors, otherwise a draw.
func (gs *GameState) endTurnLimit() {
	held := gs.control.counts()
	if held[Player1] != held[Player2] {
		if held[Player1] > held[Player2] {
			gs.endBattle(Player1, "objectives")
		} else {
			gs.endBattle(Player2, "objectives")
		}
		return
	}
	weight := map[PlayerID]int{}
	for _, u := range gs.Units {
		weight[u.Player] += u.OC
	}
	switch {
	case weight[Player1] > weight[Player2]:
		gs.endBattle(Player1, "weight of numbers")
	case weight[Player2] > weight[Player1]:
		gs.endBattle(Player2, "weight of numbers")
	default:
		gs.endBattle(NoPlayer, "draw")
	}
}

// ensureActive makes the unit the pool's active unit, activating it if
// needed. Activating over an uncommitted unit postpones that unit; in
// the charge phase a fresh activation triggers the charge roll.
func (gs *GameState) ensureActive(id UnitID) (*Unit, error) {
	u, err := gs.unit(id)
	if err != nil {
		return nil, err
	}
	if u.Player != gs.Current {
		return nil, illegal("unit %d belongs to player %d", id, u.Player)
	}
	if gs.pool.Active() == id {
		return u, nil
	}
	postponed, err := gs.pool.activate(id)
	if err != nil {
		return nil, err
	}
	if postponed != 0 {
		gs.clearTransient(postponed)
		gs.event(Event{Kind: EventPostpone, Player: gs.Current, Unit: postponed})
	}
	gs.event(Event{Kind: EventActivate, Player: gs.Current, Unit: id})
	switch gs.Phase {
	case PhaseMove:
		gs.plan = &movePlan{unit: id, budget: u.Move}
	case PhaseShoot:
		u.ShotsLeft = u.Ranged.Shots
	case PhaseCharge:
		gs.rollCharge(u)
	}
	return u, nil
}

// clearTransient discards a postponed unit's uncommitted state.
func (gs *GameState) clearTransient(id UnitID) {
	if gs.plan != nil && gs.plan.unit == id {
		gs.plan = nil
	}
	if gs.pendingCharge != nil && gs.pendingCharge.Unit == id {
		gs.pendingCharge = nil
	}
	if u, ok := gs.Units[id]; ok {
		u.ShotsLeft = 0
	}
}

// applyActivate selects a unit and reports what it can do. Outside the
// charge phase this commits the unit to nothing.
func (gs *GameState) applyActivate(a Action) (*Result, error) {
	if gs.Phase == PhaseFight {
		return gs.fight.activate(gs, a)
	}
	u, err := gs.ensureActive(a.Unit)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	switch gs.Phase {
	case PhaseMove:
		res.Destinations = gs.moveDestinations(u, gs.plan.budget)
	case PhaseShoot:
		res.Targets = gs.shootTargets(u)
	case PhaseCharge:
		if gs.pendingCharge != nil {
			res.Destinations = gs.pendingCharge.Destinations()
		}
	}
	return res, nil
}

// applyMove finishes a move-phase activation by walking the unit to a
// destination. A unit that starts in contact is fleeing; the
// destination search already guarantees every move ends clear of the
// enemy.
func (gs *GameState) applyMove(a Action) (*Result, error) {
	if gs.Phase != PhaseMove {
		return nil, illegal("moves only happen in the move phase")
	}
	u, err := gs.unit(a.Unit)
	if err != nil {
		return nil, err
	}
	if u.Player != gs.Current {
		return nil, illegal("unit %d belongs to player %d", a.Unit, u.Player)
	}
	if a.To == nil {
		return nil, illegal("move needs a destination")
	}
	to := *a.To
	budget := u.Move
	if gs.pool.Active() == a.Unit && gs.plan != nil {
		budget = gs.plan.budget
	}
	if !slices.Contains(gs.moveDestinations(u, budget), to) {
		return nil, illegal("unit %d cannot reach %s", u.ID, to)
	}
	if _, err := gs.ensureActive(a.Unit); err != nil {
		return nil, err
	}
	fleeing := gs.engaged(u)
	from := u.Pos
	u.Pos = to
	gs.pool.commit()
	gs.pool.complete()
	gs.moved.add(u.ID)
	kind := EventMove
	if fleeing {
		gs.fled.add(u.ID)
		kind = EventFlee
	}
	var note string
	if gs.plan.advanced {
		gs.advanced.add(u.ID)
		note = "advance"
	}
	gs.event(Event{Kind: kind, Player: u.Player, Unit: u.ID, From: &from, To: &to, Note: note})
	gs.plan = nil
	return &Result{}, nil
}

// applyAdvance rolls the advance die and widens the active unit's move
// budget. The unit gives up shooting and charging this turn once the
// move lands.
func (gs *GameState) applyAdvance(a Action) (*Result, error) {
	if gs.Phase != PhaseMove {
		return nil, illegal("advances only happen in the move phase")
	}
	u, err := gs.ensureActive(a.Unit)
	if err != nil {
		return nil, err
	}
	if gs.plan.advanced {
		return nil, illegal("unit %d has already rolled its advance", u.ID)
	}
	roll := gs.roller.D6()
	gs.plan.budget = u.Move + roll
	gs.plan.roll = roll
	gs.plan.advanced = true
	gs.event(Event{Kind: EventAdvance, Player: u.Player, Unit: u.ID, Roll: roll})
	return &Result{Destinations: gs.moveDestinations(u, gs.plan.budget)}, nil
}

// applyShoot fires one shot. The first shot commits the activation;
// the unit then fires until its counter empties or no target stands.
func (gs *GameState) applyShoot(a Action) (*Result, error) {
	if gs.Phase != PhaseShoot {
		return nil, illegal("shots only happen in the shooting phase")
	}
	u, err := gs.unit(a.Unit)
	if err != nil {
		return nil, err
	}
	if u.Player != gs.Current {
		return nil, illegal("unit %d belongs to player %d", a.Unit, u.Player)
	}
	target, err := gs.unit(a.Target)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(gs.shootTargets(u), target.ID) {
		return nil, illegal("unit %d is not a valid target for unit %d", a.Target, a.Unit)
	}
	prof, err := u.rangedAttack()
	if err != nil {
		return nil, err
	}
	if _, err := gs.ensureActive(a.Unit); err != nil {
		return nil, err
	}
	sight := gs.Board.Sight(u.Pos, target.Pos)
	d := gs.resolveAttack(prof, target, sight.InCover)
	gs.pool.commit()
	u.ShotsLeft--
	gs.event(Event{Kind: EventShot, Player: u.Player, Unit: u.ID, Target: target.ID, Dice: d})
	if target.HP <= 0 {
		gs.killUnit(target)
	}
	res := &Result{}
	if u.ShotsLeft <= 0 || len(gs.shootTargets(u)) == 0 {
		u.ShotsLeft = 0
		gs.pool.complete()
		gs.shot.add(u.ID)
	} else {
		res.Targets = gs.shootTargets(u)
	}
	return res, nil
}

// applySkip resolves a pool unit without it acting and records it as
// done for the phase.
func (gs *GameState) applySkip(a Action) (*Result, error) {
	if gs.Phase == PhaseFight {
		return gs.fight.skip(gs, a)
	}
	u, err := gs.unit(a.Unit)
	if err != nil {
		return nil, err
	}
	if u.Player != gs.Current {
		return nil, illegal("unit %d belongs to player %d", a.Unit, u.Player)
	}
	postponed, err := gs.pool.skip(a.Unit)
	if err != nil {
		return nil, err
	}
	if postponed != 0 {
		gs.clearTransient(postponed)
		gs.event(Event{Kind: EventPostpone, Player: gs.Current, Unit: postponed})
	}
	gs.clearTransient(a.Unit)
	switch gs.Phase {
	case PhaseMove:
		gs.moved.add(a.Unit)
	case PhaseShoot:
		gs.shot.add(a.Unit)
	case PhaseCharge:
		gs.charged.add(a.Unit)
	}
	gs.event(Event{Kind: EventSkip, Player: gs.Current, Unit: a.Unit})
	return &Result{}, nil
}

// applyCancel returns the active unit to its pool as if never chosen.
func (gs *GameState) applyCancel(Action) (*Result, error) {
	if gs.Phase == PhaseFight {
		return gs.fight.cancel(gs)
	}
	id, err := gs.pool.cancel()
	if err != nil {
		return nil, err
	}
	gs.clearTransient(id)
	u := gs.Units[id]
	gs.event(Event{Kind: EventPostpone, Player: u.Player, Unit: id, Note: "cancelled"})
	return &Result{}, nil
}

// killUnit removes a dead unit from play on the spot: out of the unit
// table, out of every pool, invisible to targeting from the next roll
// on. Pool members left with nothing to shoot at are pruned with it.
func (gs *GameState) killUnit(u *Unit) {
	delete(gs.Units, u.ID)
	gs.dead[u.ID] = u
	gs.event(Event{Kind: EventDeath, Player: u.Player, Unit: u.ID})
	if gs.fight != nil {
		gs.fight.removeDead(gs, u.ID)
	}
	if gs.pool == nil {
		return
	}
	gs.pool.prune(u.ID)
	if gs.Phase == PhaseShoot {
		for _, id := range gs.pool.Members() {
			if id == gs.pool.Active() {
				continue
			}
			m := gs.Units[id]
			if len(gs.shootTargets(m)) == 0 {
				gs.pool.prune(id)
				gs.event(Event{Kind: EventPrune, Player: m.Player, Unit: id})
			}
		}
	}
}

// Clone deep-copies the battle for lookahead callers. The dice roller
// is shared; give the copy its own with SetRoller when the original
// must not see the copy's rolls.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Board:         gs.Board,
		Units:         make(map[UnitID]*Unit, len(gs.Units)),
		Turn:          gs.Turn,
		MaxTurns:      gs.MaxTurns,
		Phase:         gs.Phase,
		Current:       gs.Current,
		Over:          gs.Over,
		Winner:        gs.Winner,
		Verdict:       gs.Verdict,
		Events:        append([]Event(nil), gs.Events...),
		pool:          gs.pool.clone(),
		moved:         maps.Clone(gs.moved),
		shot:          maps.Clone(gs.shot),
		charged:       maps.Clone(gs.charged),
		attacked:      maps.Clone(gs.attacked),
		fled:          maps.Clone(gs.fled),
		advanced:      maps.Clone(gs.advanced),
		chargeTargets: maps.Clone(gs.chargeTargets),
		control:       gs.control.clone(),
		dead:          make(map[UnitID]*Unit, len(gs.dead)),
		roller:        gs.roller,
	}
	for id, u := range gs.Units {
		uc := *u
		c.Units[id] = &uc
	}
	for id, u := range gs.dead {
		uc := *u
		c.dead[id] = &uc
	}
	if gs.plan != nil {
		p := *gs.plan
		c.plan = &p
	}
	if gs.pendingCharge != nil {
		cr := *gs.pendingCharge
		cr.options = maps.Clone(gs.pendingCharge.options)
		c.pendingCharge = &cr
	}
	if gs.fight != nil {
		c.fight = gs.fight.clone()
	}
	return c
}
