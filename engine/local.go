package engine

import (
	"skirmish/game"
	"sync"

	"github.com/rs/zerolog/log"
)

// Local serializes access to one battle. It is the only path through
// which callers mutate state, so a websocket room and a storage writer
// can share the same Local without racing each other.
type Local struct {
	mu sync.Mutex
	gs *game.GameState
}

func NewLocal(gs *game.GameState) *Local {
	return &Local{gs: gs}
}

// Execute applies one action. Rejections return ErrIllegalAction and
// leave the battle untouched.
func (l *Local) Execute(a game.Action) (*game.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.gs.Apply(a)
	if err != nil {
		log.Debug().Stringer("action", a).Err(err).Msg("action rejected")
		return nil, err
	}
	for _, e := range res.Events {
		log.Debug().Int("turn", res.State.Turn).Str("phase", res.State.Phase.String()).Msg(e.Line())
	}
	return res, nil
}

// Snapshot returns a self-contained copy of the battle.
func (l *Local) Snapshot() game.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gs.Snapshot()
}

// Legal lists the actions the next actor may submit.
func (l *Local) Legal() []game.Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gs.LegalActions()
}

// Over reports whether the battle has ended.
func (l *Local) Over() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gs.Over
}
