package models

type Response struct {
	ResponseCode int         `json:"responseCode"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	ID    string          `json:"id"`
	Kind  ParticipantKind `json:"kind"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Token string          `json:"token"`
}
