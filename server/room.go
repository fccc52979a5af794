package server

import (
	"skirmish/bot"
	"skirmish/engine"
	"skirmish/game"
	"skirmish/scenario"
	"skirmish/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// submission is one action from one connection.
type submission struct {
	client *Client
	action game.Action
}

// Room runs one battle for two seats plus spectators. Every state
// change flows through run, one goroutine per room, so seat checks and
// broadcast order need no further locking.
type Room struct {
	ID       string
	Scenario string

	local *engine.Local
	bots  map[game.PlayerID]engine.Caller

	clients map[*Client]bool
	seats   map[game.PlayerID]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan submission
	done       chan struct{}

	store    *storage.Store
	battleID int64

	log zerolog.Logger
}

func newRoom(id string, scn *scenario.Scenario, gs *game.GameState, vsBot bool, seed int64, store *storage.Store) *Room {
	r := &Room{
		ID:         id,
		Scenario:   scn.Name,
		local:      engine.NewLocal(gs),
		bots:       map[game.PlayerID]engine.Caller{},
		clients:    map[*Client]bool{},
		seats:      map[game.PlayerID]*Client{},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan submission),
		done:       make(chan struct{}),
		log:        log.With().Str("room", id).Logger(),
	}
	if vsBot {
		r.bots[game.Player2] = bot.NewRandom("bot", seed)
	}
	if store != nil {
		names := map[game.PlayerID]string{game.Player1: "seat1", game.Player2: "seat2"}
		if vsBot {
			names[game.Player2] = "bot"
		}
		battleID, err := store.BeginBattle(scn.Name, names[game.Player1], names[game.Player2], seed)
		if err != nil {
			r.log.Error().Err(err).Msg("battle report row failed, playing without persistence")
		} else {
			r.store = store
			r.battleID = battleID
			if err := store.AppendEvents(battleID, gs.Events); err != nil {
				r.log.Error().Err(err).Msg("event append failed")
			}
		}
	}
	return r
}

func (r *Room) run() {
	for {
		select {
		case c := <-r.register:
			r.clients[c] = true
			c.seat = r.assignSeat(c)
			c.sendMsg(wsMsg{Type: "welcome", Data: welcomeData{Room: r.ID, Scenario: r.Scenario, Seat: c.seat}})
			c.sendMsg(r.stateMsg(nil))
			r.log.Info().Int("seat", int(c.seat)).Int("clients", len(r.clients)).Msg("client joined")

		case c := <-r.unregister:
			if _, ok := r.clients[c]; !ok {
				continue
			}
			delete(r.clients, c)
			if c.seat != game.NoPlayer && r.seats[c.seat] == c {
				delete(r.seats, c.seat)
			}
			close(c.send)
			r.log.Info().Int("seat", int(c.seat)).Int("clients", len(r.clients)).Msg("client left")

		case sub := <-r.inbound:
			r.handle(sub)

		case <-r.done:
			for c := range r.clients {
				delete(r.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// close stops the run loop and disconnects every client.
func (r *Room) close() {
	close(r.done)
}

// assignSeat hands out player 1 then player 2, skipping bot seats.
// Later joiners spectate.
func (r *Room) assignSeat(c *Client) game.PlayerID {
	for _, p := range []game.PlayerID{game.Player1, game.Player2} {
		if _, isBot := r.bots[p]; isBot {
			continue
		}
		if _, taken := r.seats[p]; !taken {
			r.seats[p] = c
			return p
		}
	}
	return game.NoPlayer
}

func (r *Room) handle(sub submission) {
	snap := r.local.Snapshot()
	switch {
	case snap.Over:
		sub.client.sendMsg(wsMsg{Type: "error", Data: errorData{Reason: "battle is over"}})
		return
	case sub.client.seat == game.NoPlayer:
		sub.client.sendMsg(wsMsg{Type: "error", Data: errorData{Reason: "spectators cannot act"}})
		return
	case sub.client.seat != snap.Actor:
		sub.client.sendMsg(wsMsg{Type: "error", Data: errorData{Reason: "not your turn"}})
		return
	}
	res, err := r.local.Execute(sub.action)
	if err != nil {
		sub.client.sendMsg(wsMsg{Type: "error", Data: errorData{Reason: err.Error()}})
		return
	}
	r.afterResult(res)
	r.driveBots()
}

// driveBots plays bot-held seats until a human is up or the battle
// ends. Each bot action broadcasts like a human one.
func (r *Room) driveBots() {
	for i := 0; i < engine.MaxActions; i++ {
		snap := r.local.Snapshot()
		if snap.Over {
			return
		}
		b, ok := r.bots[snap.Actor]
		if !ok {
			return
		}
		act, err := b.Act(snap, r.local.Legal())
		if err != nil {
			r.log.Error().Err(err).Msg("bot could not act")
			return
		}
		res, err := r.local.Execute(act)
		if err != nil {
			r.log.Error().Err(err).Stringer("action", act).Msg("bot played an illegal action")
			return
		}
		r.afterResult(res)
	}
}

// afterResult persists and broadcasts one accepted action's outcome.
func (r *Room) afterResult(res *game.Result) {
	if r.store != nil {
		if err := r.store.AppendEvents(r.battleID, res.Events); err != nil {
			r.log.Error().Err(err).Msg("event append failed")
		}
		if res.State.Over {
			if err := r.store.FinishBattle(r.battleID, res.State); err != nil {
				r.log.Error().Err(err).Msg("battle report update failed")
			}
		}
	}
	msg := wsMsg{Type: "state", Data: stateData{State: res.State, Events: res.Events, Legal: r.local.Legal()}}
	for c := range r.clients {
		c.sendMsg(msg)
	}
}

func (r *Room) stateMsg(events []game.Event) wsMsg {
	return wsMsg{Type: "state", Data: stateData{State: r.local.Snapshot(), Events: events, Legal: r.local.Legal()}}
}
