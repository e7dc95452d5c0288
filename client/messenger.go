// Package client is the messaging state machine consumed by UI layers: a
// connection-lifecycle object owning the websocket subscription, the
// conversation cache and its reconciliation with the REST surface. REST is
// the source of truth; gateway events are hints that trigger refetches.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jobdesk/messaging_backend/models"
	"github.com/jobdesk/messaging_backend/realtime"
)

// refreshTimeout bounds the background conversation refetch triggered by
// incoming gateway events.
const refreshTimeout = 10 * time.Second

type Config struct {
	BaseURL       string // REST origin, e.g. http://localhost:8080
	WSURL         string // gateway endpoint; derived from BaseURL when empty
	Token         string // bare JWT for both surfaces
	ParticipantID string
	HTTPClient    *http.Client
}

// Event tells the consumer what part of the state changed.
type Event struct {
	Kind           EventKind
	ConversationID string
}

type EventKind string

const (
	EventMessageReceived    EventKind = "message_received"
	EventConversationsReset EventKind = "conversations_reset"
)

type Messenger struct {
	cfg  Config
	http *http.Client

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu            sync.RWMutex
	conversations []models.Conversation
	contacts      []models.ParticipantSummary
	openID        string
	openMessages  []models.MessageView

	// OnEvent, when set before Connect, is invoked from the read loop.
	OnEvent func(Event)

	done      chan struct{}
	closeOnce sync.Once
}

func New(cfg Config) *Messenger {
	if cfg.WSURL == "" {
		ws := strings.Replace(cfg.BaseURL, "http", "ws", 1)
		cfg.WSURL = ws + "/ws"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Messenger{
		cfg:  cfg,
		http: httpClient,
		done: make(chan struct{}),
	}
}

// Connect dials the gateway, announces identity, starts the read loop and
// primes the conversation and contact caches.
func (m *Messenger) Connect(ctx context.Context) error {
	header := http.Header{}
	header.Add("Authorization", "Bearer "+m.cfg.Token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, m.cfg.WSURL, header)
	if err != nil {
		return err
	}
	m.conn = conn

	if err := m.writeEnvelope(realtime.Envelope{
		Event:         realtime.EventJoin,
		ParticipantID: m.cfg.ParticipantID,
	}); err != nil {
		conn.Close()
		return err
	}

	go m.readLoop()

	if err := m.RefreshConversations(ctx); err != nil {
		return err
	}
	return m.RefreshContacts(ctx)
}

// Close tears the connection down. Safe to call more than once.
func (m *Messenger) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.done)
		if m.conn != nil {
			err = m.conn.Close()
		}
	})
	return err
}

func (m *Messenger) writeEnvelope(env realtime.Envelope) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.conn.WriteJSON(env)
}

// readLoop applies incoming gateway events: a matching message is appended
// to the open conversation, and the conversation list is unconditionally
// refetched so ordering and unread badges stay current for the rest.
func (m *Messenger) readLoop() {
	for {
		var env realtime.Envelope
		if err := m.conn.ReadJSON(&env); err != nil {
			select {
			case <-m.done:
			default:
				m.Close()
			}
			return
		}
		if env.Event != realtime.EventNewMessage {
			continue
		}

		var view models.MessageView
		if err := json.Unmarshal(env.Message, &view); err != nil {
			continue
		}

		m.mu.Lock()
		if m.openID != "" && m.openID == env.ConversationID {
			m.openMessages = append(m.openMessages, view)
		}
		m.mu.Unlock()
		m.emit(Event{Kind: EventMessageReceived, ConversationID: env.ConversationID})

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		if err := m.RefreshConversations(ctx); err == nil {
			m.emit(Event{Kind: EventConversationsReset})
		}
		cancel()
	}
}

func (m *Messenger) emit(e Event) {
	if m.OnEvent != nil {
		m.OnEvent(e)
	}
}

// Conversations returns a copy of the cached conversation list.
func (m *Messenger) Conversations() []models.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Conversation, len(m.conversations))
	copy(out, m.conversations)
	return out
}

// Contacts returns a copy of the cached contact list.
func (m *Messenger) Contacts() []models.ParticipantSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ParticipantSummary, len(m.contacts))
	copy(out, m.contacts)
	return out
}

// OpenMessages returns the currently open conversation id and a copy of
// its message list.
func (m *Messenger) OpenMessages() (string, []models.MessageView) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.MessageView, len(m.openMessages))
	copy(out, m.openMessages)
	return m.openID, out
}

// TotalUnread sums unread counts across the cached conversation list.
func (m *Messenger) TotalUnread() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, conv := range m.conversations {
		total += conv.UnreadCount
	}
	return total
}
