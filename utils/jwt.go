package utils

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jobdesk/messaging_backend/models"
)

// Context keys set by the auth middleware.
const (
	CtxParticipantID   = "participantID"
	CtxParticipantKind = "participantKind"
)

type Claims struct {
	ParticipantID string                 `json:"participant_id"`
	Kind          models.ParticipantKind `json:"kind"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Generate(participantID string, kind models.ParticipantKind) (string, error) {
	claims := &Claims{
		ParticipantID: participantID,
		Kind:          kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || !claims.Kind.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// JWTAuthMiddleware resolves the bearer credential to {id, kind} before any
// messaging logic runs. Missing or invalid tokens fail the whole request
// with a 401, never a messaging-domain error.
func (m *TokenManager) JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.Parse(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxParticipantID, claims.ParticipantID)
		c.Set(CtxParticipantKind, string(claims.Kind))
		c.Next()
	}
}

// CallerKind reads the kind tag the middleware stored on the context.
func CallerKind(c *gin.Context) models.ParticipantKind {
	return models.ParticipantKind(c.GetString(CtxParticipantKind))
}
