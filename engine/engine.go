package engine

import (
	"skirmish/game"
)

// MaxActions caps a single match so a misbehaving caller pair cannot
// spin forever. A standard battle finishes in well under a thousand.
const MaxActions = 10000

// Caller picks actions for one side of a battle. Implementations range
// from the random bot to a websocket client relaying a human's clicks.
type Caller interface {
	// Name labels the caller in logs and battle reports.
	Name() string
	// Act chooses one of the legal actions for the snapshot's actor.
	// Returning an error aborts the match.
	Act(snap game.Snapshot, legal []game.Action) (game.Action, error)
}
