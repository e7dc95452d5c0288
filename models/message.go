package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipantKind tags which collection a participant id belongs to.
type ParticipantKind string

const (
	KindUser     ParticipantKind = "user"
	KindCompany  ParticipantKind = "company"
	KindEmployee ParticipantKind = "employee"
)

func (k ParticipantKind) Valid() bool {
	switch k {
	case KindUser, KindCompany, KindEmployee:
		return true
	}
	return false
}

// MessageType classifies the payload. File and image are classification
// tags only; attachment handling lives elsewhere in the platform.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeFile  MessageType = "file"
	TypeImage MessageType = "image"
)

func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeFile, TypeImage:
		return true
	}
	return false
}

type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID string             `json:"conversationId" bson:"conversationId"`
	SenderID       string             `json:"senderId" bson:"senderId"`
	SenderKind     ParticipantKind    `json:"senderKind" bson:"senderKind"`
	ReceiverID     string             `json:"receiverId" bson:"receiverId"`
	ReceiverKind   ParticipantKind    `json:"receiverKind" bson:"receiverKind"`
	Content        string             `json:"content" bson:"content"`
	MessageType    MessageType        `json:"messageType" bson:"messageType"`
	IsRead         bool               `json:"isRead" bson:"isRead"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type SendMessageRequest struct {
	ReceiverID  string      `json:"receiverId" binding:"required"`
	Content     string      `json:"content" binding:"required"`
	MessageType MessageType `json:"messageType"`
}

// MessageView is a Message with both participant identities populated.
type MessageView struct {
	Message
	Sender   ParticipantSummary `json:"sender"`
	Receiver ParticipantSummary `json:"receiver"`
}

// Conversation is derived from the message log on every read; it is never
// persisted. UnreadCount is scoped to the viewer that asked for the list.
type Conversation struct {
	ConversationID string             `json:"conversationId"`
	Participant    ParticipantSummary `json:"participant"`
	LastMessage    Message            `json:"lastMessage"`
	UnreadCount    int64              `json:"unreadCount"`
}
