package game

import (
	"golang.org/x/exp/maps"

	"skirmish/board"
)

// ControlTracker remembers who holds each objective. Control only
// changes hands on a strict majority of objective-control weight
// standing on the marker's hexes; any tie, including nobody present,
// leaves the last holder in place. The memory survives for the whole
// battle and resets only when the turn counter runs backwards, which
// marks a fresh episode on reused state.
type ControlTracker struct {
	holders  map[string]PlayerID
	lastTurn int
}

func newControlTracker() *ControlTracker {
	return &ControlTracker{holders: make(map[string]PlayerID)}
}

// Holder returns the current controller of an objective, or NoPlayer.
func (t *ControlTracker) Holder(name string) PlayerID {
	return t.holders[name]
}

// Holders returns a copy of the full control map.
func (t *ControlTracker) Holders() map[string]PlayerID {
	return maps.Clone(t.holders)
}

// counts tallies objectives held per player.
func (t *ControlTracker) counts() map[PlayerID]int {
	out := make(map[PlayerID]int)
	for _, p := range t.holders {
		if p != NoPlayer {
			out[p]++
		}
	}
	return out
}

// recompute re-weighs every objective against the living units and
// logs each change of controller.
func (t *ControlTracker) recompute(gs *GameState) {
	if gs.Turn < t.lastTurn {
		maps.Clear(t.holders)
	}
	t.lastTurn = gs.Turn
	for _, name := range gs.Board.ObjectiveNames() {
		hexes, _ := gs.Board.Objective(name)
		set := board.NewCoordSet(hexes...)
		weight := map[PlayerID]int{}
		for _, u := range gs.Units {
			if set.Has(u.Pos) {
				weight[u.Player] += u.OC
			}
		}
		next := t.holders[name]
		if weight[Player1] > weight[Player2] {
			next = Player1
		} else if weight[Player2] > weight[Player1] {
			next = Player2
		}
		if next != t.holders[name] {
			t.holders[name] = next
			gs.event(Event{Kind: EventControl, Player: next, Mark: name})
		}
	}
}

func (t *ControlTracker) clone() *ControlTracker {
	return &ControlTracker{holders: maps.Clone(t.holders), lastTurn: t.lastTurn}
}
