package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const maxMessageSize = 4096

// Client is the middleman between one websocket connection and the hub.
// The authenticated participant id is fixed at upgrade time; the client is
// only placed in its room once it announces itself with a join event.
type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	id            string
	participantID string
	joined        bool

	writeWait time.Duration
	pongWait  time.Duration
}

// readPump pumps frames from the websocket connection into the hub.
func (c *Client) readPump() {
	defer func() {
		if c.joined {
			c.hub.remove(c)
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warnw("websocket read failed", "participantId", c.participantID, "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.hub.log.Warnw("malformed frame dropped", "participantId", c.participantID)
			continue
		}

		switch env.Event {
		case EventJoin:
			// the announced id has to match the authenticated one
			if env.ParticipantID != c.participantID {
				c.hub.log.Warnw("join rejected", "claimed", env.ParticipantID, "authenticated", c.participantID)
				continue
			}
			if !c.joined {
				c.joined = true
				c.hub.add(c)
			}
		case EventSend:
			if !c.joined || env.ReceiverID == "" {
				continue
			}
			out, err := json.Marshal(Envelope{
				Event:          EventNewMessage,
				ConversationID: env.ConversationID,
				Message:        env.Message,
			})
			if err != nil {
				continue
			}
			c.hub.Relay(context.Background(), env.ReceiverID, out)
		}
	}
}

// writePump pumps frames from the hub to the websocket connection, keeping
// the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
