// Package dice provides the die rollers used by combat and charge
// resolution. Battles take a Roller at construction so tests can script
// exact sequences while normal play uses a seeded source.
package dice

import (
	"fmt"
	"math/rand"
)

// Roller yields uniform results from a six-sided die.
type Roller interface {
	// D6 returns a value in [1,6].
	D6() int
}

type prng struct {
	r *rand.Rand
}

// NewRoller returns a Roller backed by its own PRNG. The same seed
// reproduces the same battle.
func NewRoller(seed int64) Roller {
	return &prng{r: rand.New(rand.NewSource(seed))}
}

func (p *prng) D6() int {
	return p.r.Intn(6) + 1
}

// Sum2D6 rolls two dice and returns their sum (2-12).
func Sum2D6(r Roller) int {
	return r.D6() + r.D6()
}

// Script replays a fixed roll sequence and panics when it runs out.
type Script struct {
	rolls []int
	next  int
}

// NewScript builds a scripted roller from the given rolls, in order.
func NewScript(rolls ...int) *Script {
	return &Script{rolls: rolls}
}

func (s *Script) D6() int {
	if s.next >= len(s.rolls) {
		panic(fmt.Sprintf("dice: script exhausted after %d rolls", len(s.rolls)))
	}
	v := s.rolls[s.next]
	s.next++
	return v
}

// Remaining reports how many scripted rolls are left unconsumed.
func (s *Script) Remaining() int {
	return len(s.rolls) - s.next
}
