// Package bot provides the random caller: a decision source that plays
// uniformly among the legal actions. It is the standard opponent in
// tests, the local runner, and vs-bot rooms.
package bot

import (
	"fmt"
	"math/rand"

	"skirmish/game"
)

// Random picks uniformly among the legal actions offered each turn.
type Random struct {
	name string
	rng  *rand.Rand
}

// NewRandom builds a seeded random caller. The same seed against the
// same battle replays the same match.
func NewRandom(name string, seed int64) *Random {
	return &Random{name: name, rng: rand.New(rand.NewSource(seed))}
}

func (b *Random) Name() string { return b.name }

// Act returns a uniformly chosen legal action.
func (b *Random) Act(_ game.Snapshot, legal []game.Action) (game.Action, error) {
	if len(legal) == 0 {
		return game.Action{}, fmt.Errorf("bot %s: no legal actions offered", b.name)
	}
	return legal[b.rng.Intn(len(legal))], nil
}
