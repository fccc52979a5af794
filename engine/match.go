package engine

import (
	"fmt"
	"skirmish/game"

	"github.com/rs/zerolog/log"
)

// Match drives one battle between two callers until it ends or the
// action cap trips. Observe, when set, sees every accepted result in
// order; the local runner prints from it and storage appends from it.
type Match struct {
	Local   *Local
	Callers map[game.PlayerID]Caller
	Observe func(a game.Action, res *game.Result)
}

func NewMatch(gs *game.GameState, p1, p2 Caller) *Match {
	return &Match{
		Local: NewLocal(gs),
		Callers: map[game.PlayerID]Caller{
			game.Player1: p1,
			game.Player2: p2,
		},
	}
}

// Run loops caller turns until the battle is over. An action outside
// the legal list aborts the match.
func (m *Match) Run() (game.Snapshot, error) {
	snap := m.Local.Snapshot()
	log.Info().
		Str("player1", m.Callers[game.Player1].Name()).
		Str("player2", m.Callers[game.Player2].Name()).
		Int("max_turns", snap.MaxTurns).
		Msg("match started")

	for i := 0; i < MaxActions; i++ {
		if snap.Over {
			log.Info().
				Int("turn", snap.Turn).
				Int("winner", int(snap.Winner)).
				Str("verdict", snap.Verdict).
				Msg("match over")
			return snap, nil
		}

		caller := m.Callers[snap.Actor]
		legal := m.Local.Legal()
		act, err := caller.Act(snap, legal)
		if err != nil {
			return snap, fmt.Errorf("caller %s: %w", caller.Name(), err)
		}

		res, err := m.Local.Execute(act)
		if err != nil {
			return snap, fmt.Errorf("caller %s played %s: %w", caller.Name(), act, err)
		}
		if m.Observe != nil {
			m.Observe(act, res)
		}
		snap = res.State
	}
	return snap, fmt.Errorf("match exceeded %d actions", MaxActions)
}
