package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jobdesk/messaging_backend/controllers"
	"github.com/jobdesk/messaging_backend/realtime"
	"github.com/jobdesk/messaging_backend/utils"
)

type Controllers struct {
	Auth          *controllers.AuthController
	Conversations *controllers.ConversationController
	Messages      *controllers.MessageController
	Contacts      *controllers.ContactController
	Suggestions   *controllers.SuggestionController
}

func SetupRouter(ctrl Controllers, gateway *realtime.Gateway, tokens *utils.TokenManager) *gin.Engine {
	r := gin.Default()

	// Public routes
	r.POST("/login", ctrl.Auth.Login)
	r.GET("/ws", gateway.ServeWS)

	// Protected routes
	api := r.Group("/api")
	api.Use(tokens.JWTAuthMiddleware())
	{
		api.GET("/conversations", ctrl.Conversations.GetConversations)
		api.GET("/conversations/:conversationId", ctrl.Conversations.GetConversationMessages)
		api.POST("/send", ctrl.Messages.SendMessage)
		api.GET("/contacts", ctrl.Contacts.GetContacts)
		api.POST("/suggestions", ctrl.Suggestions.GetReplySuggestions)
	}

	return r
}
