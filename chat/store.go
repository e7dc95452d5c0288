package chat

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobdesk/messaging_backend/models"
)

// NewMessage carries the validated inputs of an append.
type NewMessage struct {
	SenderID     string
	SenderKind   models.ParticipantKind
	ReceiverID   string
	ReceiverKind models.ParticipantKind
	Content      string
	MessageType  models.MessageType
}

// MessageStore persists the flat message log. Conversations are derived
// from it on read; nothing here is ever edited or deleted.
type MessageStore interface {
	Append(ctx context.Context, in NewMessage) (*models.Message, error)
	FindByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	FindForParticipant(ctx context.Context, participantID string) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, receiverID string) (int64, error)
	IsParticipant(ctx context.Context, conversationID, participantID string) (bool, error)
}

// validate applies the append-time rules before anything touches the store.
func (in NewMessage) validate() error {
	if in.SenderID == "" {
		return &ValidationError{Field: "senderId", Reason: "is required"}
	}
	if in.ReceiverID == "" {
		return &ValidationError{Field: "receiverId", Reason: "is required"}
	}
	if !in.SenderKind.Valid() {
		return &ValidationError{Field: "senderKind", Reason: "must be user, company or employee"}
	}
	if !in.ReceiverKind.Valid() {
		return &ValidationError{Field: "receiverKind", Reason: "must be user, company or employee"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return &ValidationError{Field: "content", Reason: "cannot be empty"}
	}
	if in.MessageType != "" && !in.MessageType.Valid() {
		return &ValidationError{Field: "messageType", Reason: "must be text, file or image"}
	}
	return nil
}

type MongoMessageStore struct {
	col *mongo.Collection
}

func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{col: db.Collection("messages")}
}

// EnsureIndexes creates the compound (conversationId, createdAt desc) index
// the per-conversation reads depend on, plus sender/receiver indexes for
// the participant scan.
func (s *MongoMessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "senderId", Value: 1}}},
		{Keys: bson.D{{Key: "receiverId", Value: 1}}},
	})
	return err
}

func (s *MongoMessageStore) Append(ctx context.Context, in NewMessage) (*models.Message, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	msgType := in.MessageType
	if msgType == "" {
		msgType = models.TypeText
	}
	now := time.Now().UTC()
	msg := &models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: ConversationKey(in.SenderID, in.ReceiverID),
		SenderID:       in.SenderID,
		SenderKind:     in.SenderKind,
		ReceiverID:     in.ReceiverID,
		ReceiverKind:   in.ReceiverKind,
		Content:        strings.TrimSpace(in.Content),
		MessageType:    msgType,
		IsRead:         false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.col.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MongoMessageStore) FindByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *MongoMessageStore) FindForParticipant(ctx context.Context, participantID string) ([]models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"senderId": participantID},
			{"receiverId": participantID},
		},
	}
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flips every unread message addressed to the receiver in one
// conversation. The isRead:false filter makes repeat calls match nothing.
func (s *MongoMessageStore) MarkRead(ctx context.Context, conversationID, receiverID string) (int64, error) {
	filter := bson.M{
		"conversationId": conversationID,
		"receiverId":     receiverID,
		"isRead":         false,
	}
	update := bson.M{"$set": bson.M{"isRead": true, "updatedAt": time.Now().UTC()}}
	result, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *MongoMessageStore) IsParticipant(ctx context.Context, conversationID, participantID string) (bool, error) {
	filter := bson.M{
		"conversationId": conversationID,
		"$or": []bson.M{
			{"senderId": participantID},
			{"receiverId": participantID},
		},
	}
	count, err := s.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
