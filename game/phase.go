package game

import (
	"encoding/json"
	"fmt"
)

// Phase is one step of a player's turn cycle. Phases always run in
// declaration order; the fight phase hands play to the other player.
type Phase int

const (
	PhaseMove Phase = iota
	PhaseShoot
	PhaseCharge
	PhaseFight
)

var phaseNames = [...]string{"move", "shoot", "charge", "fight"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for i, name := range phaseNames {
		if name == s {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", s)
}

// FightSubPhase sequences the fight phase: the current player's
// successful chargers strike first, then the players alternate
// activations with the non-current player picking first, and once one
// side runs out the other cleans up.
type FightSubPhase int

const (
	SubCharging FightSubPhase = iota
	SubAlternating
	SubCleanup
)

var subPhaseNames = [...]string{"charging", "alternating", "cleanup"}

func (s FightSubPhase) String() string {
	if s < 0 || int(s) >= len(subPhaseNames) {
		return fmt.Sprintf("subphase(%d)", int(s))
	}
	return subPhaseNames[s]
}
