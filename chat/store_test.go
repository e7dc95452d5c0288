package chat

import (
	"context"
	"testing"

	"github.com/jobdesk/messaging_backend/models"
)

func validNewMessage() NewMessage {
	return NewMessage{
		SenderID:     "a",
		SenderKind:   models.KindUser,
		ReceiverID:   "b",
		ReceiverKind: models.KindCompany,
		Content:      "hello",
	}
}

func TestNewMessage_Validate_Valid(t *testing.T) {
	if err := validNewMessage().validate(); err != nil {
		t.Fatalf("expected valid input, got: %v", err)
	}
}

func TestNewMessage_Validate_EmptyContent(t *testing.T) {
	in := validNewMessage()
	in.Content = ""
	if err := in.validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError for empty content, got: %v", err)
	}
}

func TestNewMessage_Validate_WhitespaceContent(t *testing.T) {
	in := validNewMessage()
	in.Content = "   \t\n "
	if err := in.validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError for whitespace content, got: %v", err)
	}
}

func TestNewMessage_Validate_BadKind(t *testing.T) {
	in := validNewMessage()
	in.ReceiverKind = "robot"
	if err := in.validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError for out-of-enum kind, got: %v", err)
	}
}

func TestNewMessage_Validate_BadMessageType(t *testing.T) {
	in := validNewMessage()
	in.MessageType = "video"
	if err := in.validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError for out-of-enum messageType, got: %v", err)
	}
}

func TestMemoryStore_AppendDerivesKeyAndDefaults(t *testing.T) {
	store := NewMemoryMessageStore()
	msg, err := store.Append(context.Background(), validNewMessage())
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if msg.ConversationID != ConversationKey("a", "b") {
		t.Fatalf("conversationId %q does not match key", msg.ConversationID)
	}
	if msg.MessageType != models.TypeText {
		t.Fatalf("expected default messageType text, got %q", msg.MessageType)
	}
	if msg.IsRead {
		t.Fatal("new message must start unread")
	}
	if msg.CreatedAt.IsZero() || msg.ID.IsZero() {
		t.Fatal("id and timestamps must be assigned at append")
	}
}

func TestMemoryStore_AppendRejectsInvalid(t *testing.T) {
	store := NewMemoryMessageStore()
	in := validNewMessage()
	in.Content = "  "
	if _, err := store.Append(context.Background(), in); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
	msgs, _ := store.FindForParticipant(context.Background(), "a")
	if len(msgs) != 0 {
		t.Fatalf("failed append must persist nothing, found %d messages", len(msgs))
	}
}

func TestMemoryStore_ConversationIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	sendText(t, store, "a", "b", "to b")
	sendText(t, store, "a", "c", "to c")

	msgs, err := store.FindByConversation(ctx, ConversationKey("a", "b"))
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "to b" {
		t.Fatalf("conversation a_b leaked other messages: %+v", msgs)
	}
}

func TestMemoryStore_MarkReadIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	sendText(t, store, "a", "b", "one")
	sendText(t, store, "a", "b", "two")
	key := ConversationKey("a", "b")

	first, err := store.MarkRead(ctx, key, "b")
	if err != nil {
		t.Fatalf("markRead failed: %v", err)
	}
	if first != 2 {
		t.Fatalf("expected 2 updates on first call, got %d", first)
	}
	second, err := store.MarkRead(ctx, key, "b")
	if err != nil {
		t.Fatalf("markRead failed: %v", err)
	}
	if second != 0 {
		t.Fatalf("expected 0 updates on second call, got %d", second)
	}
}

func TestMemoryStore_MarkReadScopedToReceiver(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	sendText(t, store, "a", "b", "from a")
	sendText(t, store, "b", "a", "from b")
	key := ConversationKey("a", "b")

	updated, _ := store.MarkRead(ctx, key, "b")
	if updated != 1 {
		t.Fatalf("expected only b-received messages updated, got %d", updated)
	}
	msgs, _ := store.FindByConversation(ctx, key)
	for _, msg := range msgs {
		if msg.ReceiverID == "a" && msg.IsRead {
			t.Fatal("message addressed to a must stay unread")
		}
	}
}

func TestMemoryStore_IsParticipant(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMessageStore()
	sendText(t, store, "a", "b", "hi")
	key := ConversationKey("a", "b")

	for _, id := range []string{"a", "b"} {
		ok, err := store.IsParticipant(ctx, key, id)
		if err != nil || !ok {
			t.Fatalf("%s should be a participant of %s (ok=%v err=%v)", id, key, ok, err)
		}
	}
	ok, _ := store.IsParticipant(ctx, key, "c")
	if ok {
		t.Fatal("outsider must not pass the membership check")
	}
	ok, _ = store.IsParticipant(ctx, "nope", "a")
	if ok {
		t.Fatal("unknown conversation must not pass the membership check")
	}
}

func sendText(t *testing.T, store MessageStore, sender, receiver, content string) *models.Message {
	t.Helper()
	msg, err := store.Append(context.Background(), NewMessage{
		SenderID:     sender,
		SenderKind:   models.KindUser,
		ReceiverID:   receiver,
		ReceiverKind: models.KindUser,
		Content:      content,
	})
	if err != nil {
		t.Fatalf("append %q failed: %v", content, err)
	}
	return msg
}
