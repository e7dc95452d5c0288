package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/models"
	"github.com/jobdesk/messaging_backend/utils"
)

// AuthController is the credential boundary. Account creation and the rest
// of profile management belong to other services of the platform; messaging
// only needs a verified {id, kind} on every request.
type AuthController struct {
	Directory chat.Directory
	Tokens    *utils.TokenManager
	Log       *zap.SugaredLogger
}

func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Invalid request data", nil)
		return
	}

	creds, err := ac.Directory.LookupByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if chat.IsNotFound(err) {
			respond(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		respondError(c, ac.Log, err, "Error looking up account")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		respond(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token, err := ac.Tokens.Generate(creds.ID, creds.Kind)
	if err != nil {
		respondError(c, ac.Log, err, "Error generating token")
		return
	}

	respond(c, http.StatusOK, "Login successful", models.LoginResponse{
		ID:    creds.ID,
		Kind:  creds.Kind,
		Email: creds.Email,
		Name:  creds.Name,
		Token: "Bearer " + token,
	})
}
