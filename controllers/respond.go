package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/models"
)

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.Response{
		ResponseCode: code,
		Message:      message,
		Data:         data,
	})
}

// respondError maps domain errors onto the HTTP boundary: validation to
// 400, not-found to 404, anything else to a generic 500 with the cause
// logged server-side only.
func respondError(c *gin.Context, log *zap.SugaredLogger, err error, fallback string) {
	switch {
	case chat.IsValidation(err):
		respond(c, http.StatusBadRequest, err.Error(), nil)
	case chat.IsNotFound(err):
		respond(c, http.StatusNotFound, err.Error(), nil)
	default:
		log.Errorw(fallback, "error", err, "path", c.FullPath())
		respond(c, http.StatusInternalServerError, fallback, nil)
	}
}
