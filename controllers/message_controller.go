package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/events"
	"github.com/jobdesk/messaging_backend/models"
	"github.com/jobdesk/messaging_backend/utils"
)

type MessageController struct {
	Store     chat.MessageStore
	Directory chat.Directory
	Publisher events.Publisher
	Log       *zap.SugaredLogger
}

// SendMessage persists a message to a resolved receiver and returns it with
// both identities populated. The REST path does not push the socket event;
// the sender's client emits it against the gateway after this succeeds, and
// the next conversation fetch is the guaranteed-consistent path either way.
func (mc *MessageController) SendMessage(c *gin.Context) {
	callerID := c.GetString(utils.CtxParticipantID)
	callerKind := utils.CallerKind(c)
	ctx := c.Request.Context()

	var req models.SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Invalid request data", nil)
		return
	}

	receiver, err := mc.Directory.Resolve(ctx, req.ReceiverID)
	if err != nil {
		respondError(c, mc.Log, err, "Error resolving receiver")
		return
	}

	msg, err := mc.Store.Append(ctx, chat.NewMessage{
		SenderID:     callerID,
		SenderKind:   callerKind,
		ReceiverID:   receiver.ID,
		ReceiverKind: receiver.Kind,
		Content:      req.Content,
		MessageType:  req.MessageType,
	})
	if err != nil {
		respondError(c, mc.Log, err, "Failed to send message")
		return
	}

	mc.Publisher.MessageSent(ctx, msg)

	sender, err := mc.Directory.Lookup(ctx, callerKind, callerID)
	if err != nil {
		sender = models.ParticipantSummary{ID: callerID, Kind: callerKind}
	}

	respond(c, http.StatusOK, "Message sent", models.MessageView{
		Message:  *msg,
		Sender:   sender,
		Receiver: receiver,
	})
}
