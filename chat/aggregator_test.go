package chat

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobdesk/messaging_backend/models"
)

func seededDirectory() *MemoryDirectory {
	dir := NewMemoryDirectory()
	dir.Add(models.ParticipantSummary{ID: "a", Kind: models.KindUser, Name: "Alice", Email: "alice@example.com"}, "")
	dir.Add(models.ParticipantSummary{ID: "b", Kind: models.KindCompany, Name: "Beta Corp", Email: "hr@beta.example"}, "")
	dir.Add(models.ParticipantSummary{ID: "c", Kind: models.KindEmployee, Name: "Carol", Email: "carol@example.com"}, "")
	return dir
}

func TestListConversations_EmptyViewer(t *testing.T) {
	agg := NewLogAggregator(NewMemoryMessageStore(), seededDirectory())
	conversations, err := agg.ListConversations(context.Background(), "a")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(conversations) != 0 {
		t.Fatalf("expected empty list, got %d", len(conversations))
	}
}

func TestListConversations_UnreadScopedToViewer(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	agg := NewLogAggregator(store, seededDirectory())

	for i := 0; i < 3; i++ {
		sendText(t, store, "a", "b", "ping")
	}

	forB, err := agg.ListConversations(ctx, "b")
	if err != nil {
		t.Fatalf("list for b failed: %v", err)
	}
	if len(forB) != 1 || forB[0].UnreadCount != 3 {
		t.Fatalf("expected one conversation with unreadCount=3 for b, got %+v", forB)
	}

	forA, err := agg.ListConversations(ctx, "a")
	if err != nil {
		t.Fatalf("list for a failed: %v", err)
	}
	if len(forA) != 1 || forA[0].UnreadCount != 0 {
		t.Fatalf("sender must see unreadCount=0, got %+v", forA)
	}

	if forA[0].LastMessage.ID != forB[0].LastMessage.ID {
		t.Fatal("both viewers must agree on lastMessage")
	}
}

func TestListConversations_ReadOnFetchZeroesUnread(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	agg := NewLogAggregator(store, seededDirectory())

	sendText(t, store, "a", "b", "one")
	sendText(t, store, "a", "b", "two")

	if _, err := store.MarkRead(ctx, ConversationKey("a", "b"), "b"); err != nil {
		t.Fatalf("markRead failed: %v", err)
	}
	forB, err := agg.ListConversations(ctx, "b")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if forB[0].UnreadCount != 0 {
		t.Fatalf("expected unreadCount=0 after mark-read, got %d", forB[0].UnreadCount)
	}
}

func TestListConversations_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	agg := NewLogAggregator(store, seededDirectory())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	putAt(store, "a", "b", base)
	putAt(store, "a", "c", base.Add(time.Minute))

	conversations, err := agg.ListConversations(ctx, "a")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}
	if conversations[0].ConversationID != ConversationKey("a", "c") {
		t.Fatalf("newest conversation must come first, got %q", conversations[0].ConversationID)
	}

	// a newer message in the older conversation reorders the list
	putAt(store, "b", "a", base.Add(2*time.Minute))
	conversations, _ = agg.ListConversations(ctx, "a")
	if conversations[0].ConversationID != ConversationKey("a", "b") {
		t.Fatalf("list must reorder on new activity, got %q first", conversations[0].ConversationID)
	}
}

func TestListConversations_TimestampTieBreaksOnID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	agg := NewLogAggregator(store, seededDirectory())

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := putAt(store, "a", "b", at)
	second := putAt(store, "a", "b", at)

	winner := first
	if second.ID.Hex() > first.ID.Hex() {
		winner = second
	}
	conversations, err := agg.ListConversations(ctx, "b")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if conversations[0].LastMessage.ID != winner.ID {
		t.Fatalf("tie on createdAt must resolve to the greater id, got %s want %s",
			conversations[0].LastMessage.ID.Hex(), winner.ID.Hex())
	}
}

func TestListConversations_ResolvesOtherParty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	agg := NewLogAggregator(store, seededDirectory())

	store.Put(models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: ConversationKey("a", "b"),
		SenderID:       "a",
		SenderKind:     models.KindUser,
		ReceiverID:     "b",
		ReceiverKind:   models.KindCompany,
		Content:        "hello",
		MessageType:    models.TypeText,
		CreatedAt:      time.Now().UTC(),
	})

	forA, _ := agg.ListConversations(ctx, "a")
	if forA[0].Participant.Name != "Beta Corp" || forA[0].Participant.Kind != models.KindCompany {
		t.Fatalf("viewer a must see the company as the other party, got %+v", forA[0].Participant)
	}
	forB, _ := agg.ListConversations(ctx, "b")
	if forB[0].Participant.Name != "Alice" {
		t.Fatalf("viewer b must see the user as the other party, got %+v", forB[0].Participant)
	}
}

// putAt injects a message with a controlled timestamp.
func putAt(store *MemoryMessageStore, sender, receiver string, at time.Time) models.Message {
	msg := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: ConversationKey(sender, receiver),
		SenderID:       sender,
		SenderKind:     models.KindUser,
		ReceiverID:     receiver,
		ReceiverKind:   models.KindUser,
		Content:        "at " + at.String(),
		MessageType:    models.TypeText,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	store.Put(msg)
	return msg
}
