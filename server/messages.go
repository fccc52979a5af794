package server

import (
	"encoding/json"

	"skirmish/game"
)

// wsMsg is the outbound envelope for every websocket message.
type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// clientIn is the inbound envelope. Data is decoded per Type.
type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// welcomeData greets a joining client with its seat. Seat zero means
// the client spectates.
type welcomeData struct {
	Room     string        `json:"room"`
	Scenario string        `json:"scenario"`
	Seat     game.PlayerID `json:"seat"`
}

// stateData is sent on join and after every accepted action: the full
// snapshot, the events the action produced, and the actor's options.
type stateData struct {
	State  game.Snapshot `json:"state"`
	Events []game.Event  `json:"events,omitempty"`
	Legal  []game.Action `json:"legal,omitempty"`
}

// errorData carries a refusal back to the submitting client only.
type errorData struct {
	Reason string `json:"reason"`
}
