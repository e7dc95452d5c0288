package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jobdesk/messaging_backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway upgrades authenticated requests into hub clients.
type Gateway struct {
	hub       *Hub
	tokens    *utils.TokenManager
	writeWait time.Duration
	pongWait  time.Duration
}

func NewGateway(hub *Hub, tokens *utils.TokenManager, writeWait, pongWait time.Duration) *Gateway {
	return &Gateway{hub: hub, tokens: tokens, writeWait: writeWait, pongWait: pongWait}
}

// ServeWS authenticates with the same JWT as the REST surface, taken from
// the Authorization header or a token query param (browser websocket
// clients cannot set headers).
func (g *Gateway) ServeWS(c *gin.Context) {
	tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
		return
	}
	claims, err := g.tokens.Parse(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.hub.log.Errorw("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:           g.hub,
		conn:          conn,
		send:          make(chan []byte, 256),
		id:            uuid.NewString(),
		participantID: claims.ParticipantID,
		writeWait:     g.writeWait,
		pongWait:      g.pongWait,
	}
	go client.writePump()
	go client.readPump()
}
