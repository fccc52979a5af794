package server

import (
	"encoding/json"
	"net/http"

	"skirmish/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection in a room. Seat is the player it
// controls; spectators hold no seat. Only the room loop sends on or
// closes send; writePump drains it until closed.
type Client struct {
	room *Room
	conn *websocket.Conn
	send chan []byte
	seat game.PlayerID
}

// serveWs upgrades the request and hands the connection to the room.
func serveWs(room *Room, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &Client{room: room, conn: conn, send: make(chan []byte, 256)}
	select {
	case room.register <- c:
	case <-room.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.room.unregister <- c:
		case <-c.room.done:
		}
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var in clientIn
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Debug().Err(err).Msg("dropping unreadable frame")
			continue
		}
		switch in.Type {
		case "action":
			var a game.Action
			if err := json.Unmarshal(in.Data, &a); err != nil {
				log.Debug().Err(err).Msg("dropping unreadable action")
				continue
			}
			select {
			case c.room.inbound <- submission{client: c, action: a}:
			case <-c.room.done:
				return
			}
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// sendMsg queues a message without blocking the room loop. A client
// that stops reading loses updates, not the room.
func (c *Client) sendMsg(m wsMsg) {
	b, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Str("type", m.Type).Msg("encode message failed")
		return
	}
	select {
	case c.send <- b:
	default:
	}
}
