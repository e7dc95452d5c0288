package chat

import (
	"context"
	"sort"

	"github.com/jobdesk/messaging_backend/models"
)

// Aggregator derives a viewer's conversation list from the flat message
// log. It sits behind an interface so a materialized variant (a persisted
// conversations collection updated on send) can replace the derive-on-read
// implementation without touching the API layer.
type Aggregator interface {
	ListConversations(ctx context.Context, viewerID string) ([]models.Conversation, error)
}

type LogAggregator struct {
	store     MessageStore
	directory Directory
}

func NewLogAggregator(store MessageStore, directory Directory) *LogAggregator {
	return &LogAggregator{store: store, directory: directory}
}

// ListConversations groups the viewer's messages by conversation key,
// keeps the most recent message per group, counts unread messages
// addressed to the viewer and sorts most-recent-first. Ties on createdAt
// go to the greater message id, which follows insertion order.
func (a *LogAggregator) ListConversations(ctx context.Context, viewerID string) ([]models.Conversation, error) {
	messages, err := a.store.FindForParticipant(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*models.Conversation)
	for _, msg := range messages {
		conv, ok := groups[msg.ConversationID]
		if !ok {
			conv = &models.Conversation{ConversationID: msg.ConversationID, LastMessage: msg}
			groups[msg.ConversationID] = conv
		} else if newer(msg, conv.LastMessage) {
			conv.LastMessage = msg
		}
		if !msg.IsRead && msg.ReceiverID == viewerID {
			conv.UnreadCount++
		}
	}

	conversations := make([]models.Conversation, 0, len(groups))
	resolved := make(map[string]models.ParticipantSummary)
	for _, conv := range groups {
		otherID, otherKind := otherParty(conv.LastMessage, viewerID)
		summary, ok := resolved[otherID]
		if !ok {
			summary, err = a.directory.Lookup(ctx, otherKind, otherID)
			if err != nil {
				if !IsNotFound(err) {
					return nil, err
				}
				// participant record gone; keep the conversation visible
				summary = models.ParticipantSummary{ID: otherID, Kind: otherKind}
			}
			resolved[otherID] = summary
		}
		conv.Participant = summary
		conversations = append(conversations, *conv)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return newer(conversations[i].LastMessage, conversations[j].LastMessage)
	})
	return conversations, nil
}

func newer(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.Hex() > b.ID.Hex()
}

// otherParty picks the non-viewer side of a message. A self-conversation
// collapses to the viewer on both sides, which still resolves correctly.
func otherParty(msg models.Message, viewerID string) (string, models.ParticipantKind) {
	if msg.SenderID == viewerID {
		return msg.ReceiverID, msg.ReceiverKind
	}
	return msg.SenderID, msg.SenderKind
}
