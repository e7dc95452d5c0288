// Package realtime is the best-effort notification channel. REST remains
// the source of truth for message delivery; everything here is a hint that
// can be dropped when the receiver is not connected.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event names on the wire.
const (
	EventJoin       = "join"
	EventSend       = "message:send"
	EventNewMessage = "message:new"
)

// Envelope is the single frame shape for both directions.
type Envelope struct {
	Event          string          `json:"event"`
	ParticipantID  string          `json:"participantId,omitempty"`
	ReceiverID     string          `json:"receiverId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	Message        json.RawMessage `json:"message,omitempty"`
}

// Hub tracks connected clients by the participant id they joined as. Each
// participant has a self-addressed room; a participant with several open
// clients gets the event on all of them.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	bridge *RedisBridge
	log    *zap.SugaredLogger
}

func NewHub(bridge *RedisBridge, log *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]bool),
		bridge: bridge,
		log:    log,
	}
}

// Run starts the cross-instance subscription when a bridge is configured.
func (h *Hub) Run(ctx context.Context) {
	if h.bridge == nil {
		return
	}
	go h.bridge.Subscribe(ctx, h.deliver)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.participantID] == nil {
		h.rooms[c.participantID] = make(map[*Client]bool)
	}
	h.rooms[c.participantID][c] = true
	h.log.Infow("client joined", "participantId", c.participantID, "clientId", c.id)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[c.participantID]
	if !ok {
		return
	}
	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
		if len(clients) == 0 {
			delete(h.rooms, c.participantID)
		}
		h.log.Infow("client left", "participantId", c.participantID, "clientId", c.id)
	}
}

// Relay pushes a payload toward a receiver's room. With a bridge the
// payload goes through redis so instances holding the receiver's
// connection deliver it; without one delivery is local-only. A receiver
// with no connected client anywhere is a silent no-op.
func (h *Hub) Relay(ctx context.Context, receiverID string, payload []byte) {
	if h.bridge != nil {
		if err := h.bridge.Publish(ctx, receiverID, payload); err != nil {
			h.log.Errorw("bridge publish failed", "receiverId", receiverID, "error", err)
			h.deliver(receiverID, payload)
		}
		return
	}
	h.deliver(receiverID, payload)
}

func (h *Hub) deliver(receiverID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[receiverID] {
		select {
		case client.send <- payload:
		default:
			// slow client; drop the frame rather than block the relay
		}
	}
}
