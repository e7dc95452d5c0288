package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/models"
	"github.com/jobdesk/messaging_backend/realtime"
)

// seedContent materializes a brand-new conversation; kept from the
// original product behavior.
const seedContent = "Hello!"

type apiEnvelope struct {
	ResponseCode int             `json:"responseCode"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
}

func (m *Messenger) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, m.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, env.Message)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// RefreshConversations refetches the conversation list from REST.
func (m *Messenger) RefreshConversations(ctx context.Context) error {
	var conversations []models.Conversation
	if err := m.do(ctx, http.MethodGet, "/api/conversations", nil, &conversations); err != nil {
		return err
	}
	m.mu.Lock()
	m.conversations = conversations
	m.mu.Unlock()
	return nil
}

// RefreshContacts refetches the contact list from REST.
func (m *Messenger) RefreshContacts(ctx context.Context) error {
	var contacts []models.ParticipantSummary
	if err := m.do(ctx, http.MethodGet, "/api/contacts", nil, &contacts); err != nil {
		return err
	}
	m.mu.Lock()
	m.contacts = contacts
	m.mu.Unlock()
	return nil
}

// OpenConversation makes a conversation current and replaces the local
// message list with the server's, which also marks the caller's unread
// messages read server-side.
func (m *Messenger) OpenConversation(ctx context.Context, conversationID string) ([]models.MessageView, error) {
	var messages []models.MessageView
	if err := m.do(ctx, http.MethodGet, "/api/conversations/"+conversationID, nil, &messages); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.openID = conversationID
	m.openMessages = messages
	m.mu.Unlock()
	return messages, nil
}

// Send posts the message, optimistically appends it when it belongs to the
// open conversation, emits the gateway notification toward the receiver
// and refetches the conversation list. A failed emit is ignored: the
// receiver reconciles through REST anyway.
func (m *Messenger) Send(ctx context.Context, receiverID, content string) (models.MessageView, error) {
	var view models.MessageView
	err := m.do(ctx, http.MethodPost, "/api/send", models.SendMessageRequest{
		ReceiverID: receiverID,
		Content:    content,
	}, &view)
	if err != nil {
		return models.MessageView{}, err
	}

	m.mu.Lock()
	if m.openID != "" && m.openID == view.ConversationID {
		m.openMessages = append(m.openMessages, view)
	}
	m.mu.Unlock()

	if m.conn != nil {
		payload, err := json.Marshal(view)
		if err == nil {
			_ = m.writeEnvelope(realtime.Envelope{
				Event:          realtime.EventSend,
				ReceiverID:     view.ReceiverID,
				ConversationID: view.ConversationID,
				Message:        payload,
			})
		}
	}

	if err := m.RefreshConversations(ctx); err != nil {
		return view, err
	}
	return view, nil
}

// StartConversation opens the existing conversation with a contact, or
// seeds a new one with a first message when none exists yet.
func (m *Messenger) StartConversation(ctx context.Context, contactID string) ([]models.MessageView, error) {
	key := chat.ConversationKey(m.cfg.ParticipantID, contactID)

	m.mu.RLock()
	for _, conv := range m.conversations {
		if conv.ConversationID == key {
			m.mu.RUnlock()
			return m.OpenConversation(ctx, key)
		}
	}
	m.mu.RUnlock()

	if _, err := m.Send(ctx, contactID, seedContent); err != nil {
		return nil, err
	}
	return m.OpenConversation(ctx, key)
}
