package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/models"
	"github.com/jobdesk/messaging_backend/utils"
)

type ConversationController struct {
	Store      chat.MessageStore
	Directory  chat.Directory
	Aggregator chat.Aggregator
	Log        *zap.SugaredLogger
}

// GetConversations returns the caller's derived conversation list,
// most-recent-first. An empty list is a valid outcome, not an error.
func (cc *ConversationController) GetConversations(c *gin.Context) {
	callerID := c.GetString(utils.CtxParticipantID)

	conversations, err := cc.Aggregator.ListConversations(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, cc.Log, err, "Error fetching conversations")
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	respond(c, http.StatusOK, "Conversations fetched successfully", conversations)
}

// GetConversationMessages returns a conversation's messages ascending by
// time and, as a side effect, marks every unread message addressed to the
// caller as read. That side effect is the only way unread counts decrement.
// A conversation the caller is not part of is indistinguishable from one
// that does not exist: both are a 404.
func (cc *ConversationController) GetConversationMessages(c *gin.Context) {
	callerID := c.GetString(utils.CtxParticipantID)
	conversationID := c.Param("conversationId")
	ctx := c.Request.Context()

	member, err := cc.Store.IsParticipant(ctx, conversationID, callerID)
	if err != nil {
		respondError(c, cc.Log, err, "Error checking conversation")
		return
	}
	if !member {
		respond(c, http.StatusNotFound, "Conversation not found", nil)
		return
	}

	messages, err := cc.Store.FindByConversation(ctx, conversationID)
	if err != nil {
		respondError(c, cc.Log, err, "Error fetching messages")
		return
	}

	views := cc.populate(ctx, messages)

	updated, err := cc.Store.MarkRead(ctx, conversationID, callerID)
	if err != nil {
		respondError(c, cc.Log, err, "Error marking messages as read")
		return
	}
	if updated > 0 {
		cc.Log.Infow("messages marked read", "conversationId", conversationID, "receiverId", callerID, "count", updated)
	}

	respond(c, http.StatusOK, "Messages fetched successfully", views)
}

// populate attaches participant identities. A 1:1 conversation only has two
// parties, so lookups are cached per request; a participant whose record
// disappeared keeps the bare id.
func (cc *ConversationController) populate(ctx context.Context, messages []models.Message) []models.MessageView {
	cache := make(map[string]models.ParticipantSummary)
	lookup := func(kind models.ParticipantKind, id string) models.ParticipantSummary {
		if s, ok := cache[id]; ok {
			return s
		}
		s, err := cc.Directory.Lookup(ctx, kind, id)
		if err != nil {
			s = models.ParticipantSummary{ID: id, Kind: kind}
		}
		cache[id] = s
		return s
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, models.MessageView{
			Message:  msg,
			Sender:   lookup(msg.SenderKind, msg.SenderID),
			Receiver: lookup(msg.ReceiverKind, msg.ReceiverID),
		})
	}
	return views
}
