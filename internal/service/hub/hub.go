package hub

import (
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
)

var ErrDuplicateUser = errors.New("user already connected")

// Envelope is one JSON frame delivered to a participant. Data is marshaled
// as-is by the connection's writer.
type Envelope struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewEnvelope stamps an envelope with the current time.
func NewEnvelope(msgType, sessionID string, data any) Envelope {
	return Envelope{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

// Client is one registered participant's outbound queue. The transport layer
// drains Outbound with a single writer, which gives per-connection FIFO
// delivery.
type Client struct {
	user string
	send chan Envelope
}

// User returns the normalized participant identity.
func (c *Client) User() string { return c.user }

// Outbound is the channel the connection writer must drain until closed.
func (c *Client) Outbound() <-chan Envelope { return c.send }

const sendBuffer = 64

// Hub maps participant identities to live outbound queues and stores shares
// addressed to participants that are not connected yet. Identities are
// case-insensitive; they are lowercased on every entry point.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
	pending map[string][]Envelope
}

func New() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		pending: make(map[string][]Envelope),
	}
}

// Register claims an identity and returns its outbound queue. Any envelopes
// queued while the participant was offline are placed on the queue first, so
// they are observed before anything sent after this call. A second
// registration under the same identity fails with ErrDuplicateUser.
func (h *Hub) Register(user string) (*Client, error) {
	user = normalize(user)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[user]; ok {
		return nil, ErrDuplicateUser
	}

	backlog := h.pending[user]
	delete(h.pending, user)

	client := &Client{
		user: user,
		send: make(chan Envelope, len(backlog)+sendBuffer),
	}
	for _, env := range backlog {
		client.send <- env
	}
	h.clients[user] = client

	log.Printf("[hub] user connected: %s (pending=%d, online=%d)", user, len(backlog), len(h.clients))
	return client, nil
}

// Unregister removes the identity and closes its queue. Safe to call for an
// identity that was never registered.
func (h *Hub) Unregister(user string) {
	user = normalize(user)

	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[user]
	if !ok {
		return
	}
	delete(h.clients, user)
	close(client.send)

	log.Printf("[hub] user disconnected: %s (online=%d)", user, len(h.clients))
}

// Unicast delivers an envelope to one participant. An offline participant
// gets the envelope queued for its next registration.
func (h *Hub) Unicast(user string, env Envelope) {
	user = normalize(user)

	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[user]
	if !ok {
		h.pending[user] = append(h.pending[user], env)
		return
	}
	h.push(client, env)
}

// Broadcast delivers an envelope to every named participant that is
// currently connected. Disconnected or unknown participants are skipped;
// delivery is best-effort by contract.
func (h *Hub) Broadcast(users []string, env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, user := range users {
		if client, ok := h.clients[normalize(user)]; ok {
			h.push(client, env)
		}
	}
}

// Active returns the sorted identities of connected participants.
func (h *Hub) Active() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	users := make([]string, 0, len(h.clients))
	for user := range h.clients {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// push enqueues without blocking; a full queue means the connection writer
// has stalled, and best-effort delivery allows the drop.
func (h *Hub) push(client *Client, env Envelope) {
	select {
	case client.send <- env:
	default:
		log.Printf("[hub] dropping %s message for slow consumer %s", env.Type, client.user)
	}
}

func normalize(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}
