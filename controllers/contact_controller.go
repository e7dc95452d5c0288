package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/models"
	"github.com/jobdesk/messaging_backend/utils"
)

type ContactController struct {
	Directory chat.Directory
	Log       *zap.SugaredLogger
}

// GetContacts lists who the caller may start a conversation with,
// partitioned by the caller's own kind. No server-side search or filter.
func (cc *ContactController) GetContacts(c *gin.Context) {
	callerKind := utils.CallerKind(c)

	contacts, err := cc.Directory.Candidates(c.Request.Context(), callerKind)
	if err != nil {
		respondError(c, cc.Log, err, "Error fetching contacts")
		return
	}
	if contacts == nil {
		contacts = []models.ParticipantSummary{}
	}
	respond(c, http.StatusOK, "Contacts fetched successfully", contacts)
}
