package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/utils"
)

// historyWindow caps how much of a conversation goes into the prompt.
const historyWindow = 20

type SuggestionController struct {
	Store  chat.MessageStore
	APIKey string
	Log    *zap.SugaredLogger
}

// GetReplySuggestions loads the tail of a conversation the caller belongs
// to and asks Gemini for three short reply candidates.
func (sc *SuggestionController) GetReplySuggestions(c *gin.Context) {
	callerID := c.GetString(utils.CtxParticipantID)
	ctx := c.Request.Context()

	var req struct {
		ConversationID string `json:"conversationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Invalid request: conversationId is required", nil)
		return
	}

	member, err := sc.Store.IsParticipant(ctx, req.ConversationID, callerID)
	if err != nil {
		respondError(c, sc.Log, err, "Error checking conversation")
		return
	}
	if !member {
		respond(c, http.StatusNotFound, "Conversation not found", nil)
		return
	}

	if sc.APIKey == "" {
		sc.Log.Error("gemini api key not configured")
		respond(c, http.StatusInternalServerError, "Missing Gemini API key", nil)
		return
	}

	messages, err := sc.Store.FindByConversation(ctx, req.ConversationID)
	if err != nil {
		respondError(c, sc.Log, err, "Error fetching messages")
		return
	}
	if len(messages) > historyWindow {
		messages = messages[len(messages)-historyWindow:]
	}

	var history strings.Builder
	for _, msg := range messages {
		role := "Them"
		if msg.SenderID == callerID {
			role = "Me"
		}
		history.WriteString(role + ": " + msg.Content + "\n")
	}
	prompt := "Based on this chat history:\n" + history.String() +
		"\n\nProvide exactly 3 short, natural reply suggestions. Format them as a numbered list (1., 2., 3.)"

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  sc.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		respondError(c, sc.Log, err, "Failed to initialize Gemini client")
		return
	}

	result, err := client.Models.GenerateContent(ctx, "gemini-2.0-flash", genai.Text(prompt), nil)
	if err != nil {
		respondError(c, sc.Log, err, "Failed to generate suggestions")
		return
	}
	if result.Text() == "" {
		respond(c, http.StatusInternalServerError, "No text content in response", nil)
		return
	}

	var suggestions []string
	for _, line := range strings.Split(result.Text(), "\n") {
		line = strings.TrimSpace(line)
		for _, prefix := range []string{"1.", "2.", "3.", "1)", "2)", "3)"} {
			line = strings.TrimPrefix(line, prefix)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			suggestions = append(suggestions, line)
		}
	}
	if len(suggestions) == 0 {
		respond(c, http.StatusInternalServerError, "No suggestions found in response", nil)
		return
	}

	respond(c, http.StatusOK, "Suggestions generated successfully", gin.H{
		"suggestions": suggestions,
	})
}
