package game

import (
	"golang.org/x/exp/slices"

	"skirmish/board"
)

// PoolView is the read-only shape of an activation pool.
type PoolView struct {
	Members   []UnitID `json:"members"`
	Active    UnitID   `json:"active,omitempty"`
	Committed bool     `json:"committed,omitempty"`
}

func (p *ActivationPool) view() PoolView {
	if p == nil {
		return PoolView{}
	}
	return PoolView{Members: p.Members(), Active: p.active, Committed: p.committed}
}

// FightView exposes the fight machine: whose pick it is and the three
// pools it draws from.
type FightView struct {
	SubPhase string   `json:"sub_phase"`
	Actor    PlayerID `json:"actor"`
	Chargers PoolView `json:"chargers"`
	Current  PoolView `json:"current_player"`
	Opposing PoolView `json:"opposing_player"`
}

// ChargeView is a pending charge roll and where it can land.
type ChargeView struct {
	Unit         UnitID        `json:"unit"`
	Distance     int           `json:"distance"`
	Destinations []board.Coord `json:"destinations"`
}

// RecordView lists the per-turn action records by unit ID.
type RecordView struct {
	Moved    []UnitID `json:"moved,omitempty"`
	Shot     []UnitID `json:"shot,omitempty"`
	Charged  []UnitID `json:"charged,omitempty"`
	Attacked []UnitID `json:"attacked,omitempty"`
	Fled     []UnitID `json:"fled,omitempty"`
	Advanced []UnitID `json:"advanced,omitempty"`
}

// Snapshot is a self-contained view of the battle for transport and
// display. Everything is copied; holding a snapshot never observes
// later mutation.
type Snapshot struct {
	Turn       int                 `json:"turn"`
	MaxTurns   int                 `json:"max_turns"`
	Phase      Phase               `json:"phase"`
	Current    PlayerID            `json:"current"`
	Actor      PlayerID            `json:"actor"`
	Over       bool                `json:"over"`
	Winner     PlayerID            `json:"winner,omitempty"`
	Verdict    string              `json:"verdict,omitempty"`
	Units      []Unit              `json:"units"`
	Fallen     []Unit              `json:"fallen,omitempty"`
	Pool       *PoolView           `json:"pool,omitempty"`
	Fight      *FightView          `json:"fight,omitempty"`
	Charge     *ChargeView         `json:"charge,omitempty"`
	Records    RecordView          `json:"records"`
	Objectives map[string]PlayerID `json:"objectives,omitempty"`
}

// Snapshot captures the battle as it stands.
func (gs *GameState) Snapshot() Snapshot {
	s := Snapshot{
		Turn:       gs.Turn,
		MaxTurns:   gs.MaxTurns,
		Phase:      gs.Phase,
		Current:    gs.Current,
		Actor:      gs.ActingPlayer(),
		Over:       gs.Over,
		Winner:     gs.Winner,
		Verdict:    gs.Verdict,
		Units:      make([]Unit, 0, len(gs.Units)),
		Fallen:     gs.Fallen(),
		Objectives: gs.control.Holders(),
		Records: RecordView{
			Moved:    gs.moved.sorted(),
			Shot:     gs.shot.sorted(),
			Charged:  gs.charged.sorted(),
			Attacked: gs.attacked.sorted(),
			Fled:     gs.fled.sorted(),
			Advanced: gs.advanced.sorted(),
		},
	}
	for _, u := range gs.Units {
		s.Units = append(s.Units, *u)
	}
	slices.SortFunc(s.Units, func(a, b Unit) int { return int(a.ID - b.ID) })
	if gs.pool != nil {
		pv := gs.pool.view()
		s.Pool = &pv
	}
	if gs.fight != nil {
		f := gs.fight
		s.Fight = &FightView{
			SubPhase: f.sub.String(),
			Actor:    f.actor(gs.Current),
			Chargers: f.chargers.view(),
			Current:  f.pools[gs.Current].view(),
			Opposing: f.pools[gs.Current.Opponent()].view(),
		}
	}
	if gs.pendingCharge != nil {
		s.Charge = &ChargeView{
			Unit:         gs.pendingCharge.Unit,
			Distance:     gs.pendingCharge.Distance,
			Destinations: gs.pendingCharge.Destinations(),
		}
	}
	return s
}
