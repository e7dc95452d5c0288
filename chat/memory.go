package chat

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobdesk/messaging_backend/models"
)

// MemoryMessageStore is the in-memory MessageStore used for local
// development and tests. Same contract as the Mongo store, no durability.
type MemoryMessageStore struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{}
}

// Put injects a pre-built message record, bypassing append validation.
// Meant for seeding fixtures with controlled ids and timestamps.
func (s *MemoryMessageStore) Put(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *MemoryMessageStore) Append(ctx context.Context, in NewMessage) (*models.Message, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	msgType := in.MessageType
	if msgType == "" {
		msgType = models.TypeText
	}
	now := time.Now().UTC()
	msg := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: ConversationKey(in.SenderID, in.ReceiverID),
		SenderID:       in.SenderID,
		SenderKind:     in.SenderKind,
		ReceiverID:     in.ReceiverID,
		ReceiverKind:   in.ReceiverKind,
		Content:        strings.TrimSpace(in.Content),
		MessageType:    msgType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return &msg, nil
}

func (s *MemoryMessageStore) FindByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Message
	for _, msg := range s.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (s *MemoryMessageStore) FindForParticipant(ctx context.Context, participantID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Message
	for _, msg := range s.messages {
		if msg.SenderID == participantID || msg.ReceiverID == participantID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (s *MemoryMessageStore) MarkRead(ctx context.Context, conversationID, receiverID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated int64
	for i := range s.messages {
		msg := &s.messages[i]
		if msg.ConversationID == conversationID && msg.ReceiverID == receiverID && !msg.IsRead {
			msg.IsRead = true
			msg.UpdatedAt = time.Now().UTC()
			updated++
		}
	}
	return updated, nil
}

func (s *MemoryMessageStore) IsParticipant(ctx context.Context, conversationID, participantID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, msg := range s.messages {
		if msg.ConversationID == conversationID && (msg.SenderID == participantID || msg.ReceiverID == participantID) {
			return true, nil
		}
	}
	return false, nil
}

// MemoryDirectory is the in-memory Directory counterpart.
type MemoryDirectory struct {
	mu        sync.RWMutex
	byKind    map[models.ParticipantKind]map[string]models.ParticipantSummary
	passwords map[string]string // email -> bcrypt hash
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byKind: map[models.ParticipantKind]map[string]models.ParticipantSummary{
			models.KindUser:     {},
			models.KindCompany:  {},
			models.KindEmployee: {},
		},
		passwords: make(map[string]string),
	}
}

func (d *MemoryDirectory) Add(p models.ParticipantSummary, passwordHash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byKind[p.Kind][p.ID] = p
	if p.Email != "" {
		d.passwords[p.Email] = passwordHash
	}
}

func (d *MemoryDirectory) Lookup(ctx context.Context, kind models.ParticipantKind, id string) (models.ParticipantSummary, error) {
	if !kind.Valid() {
		return models.ParticipantSummary{}, &ValidationError{Field: "kind", Reason: "must be user, company or employee"}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.byKind[kind][id]; ok {
		return p, nil
	}
	return models.ParticipantSummary{}, &NotFoundError{Resource: "participant", ID: id}
}

func (d *MemoryDirectory) Resolve(ctx context.Context, id string) (models.ParticipantSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, kind := range resolveOrder {
		if p, ok := d.byKind[kind][id]; ok {
			return p, nil
		}
	}
	return models.ParticipantSummary{}, &NotFoundError{Resource: "participant", ID: id}
}

func (d *MemoryDirectory) Candidates(ctx context.Context, callerKind models.ParticipantKind) ([]models.ParticipantSummary, error) {
	var kinds []models.ParticipantKind
	switch callerKind {
	case models.KindCompany:
		kinds = []models.ParticipantKind{models.KindEmployee}
	case models.KindEmployee:
		kinds = []models.ParticipantKind{models.KindCompany}
	default:
		kinds = []models.ParticipantKind{models.KindCompany, models.KindEmployee}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []models.ParticipantSummary
	for _, kind := range kinds {
		for _, p := range d.byKind[kind] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *MemoryDirectory) LookupByEmail(ctx context.Context, email string) (Credentials, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, kind := range resolveOrder {
		for _, p := range d.byKind[kind] {
			if p.Email == email {
				return Credentials{ParticipantSummary: p, PasswordHash: d.passwords[email]}, nil
			}
		}
	}
	return Credentials{}, &NotFoundError{Resource: "participant", ID: email}
}
