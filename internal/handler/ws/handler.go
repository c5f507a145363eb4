package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/nsxzhou/secretshare/backend/internal/model/secret"
	"github.com/nsxzhou/secretshare/backend/internal/service/hub"
	sessionservice "github.com/nsxzhou/secretshare/backend/internal/service/session"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

// Handler owns the participant websocket endpoint.
type Handler struct {
	hub        *hub.Hub
	sessionSvc *sessionservice.Service
	upgrader   websocket.Upgrader
}

func New(h *hub.Hub, sessionSvc *sessionservice.Service) *Handler {
	return &Handler{
		hub:        h,
		sessionSvc: sessionSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{username}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	ShareData json.RawMessage `json:"share_data"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	client, err := h.hub.Register(username)
	if err != nil {
		if errors.Is(err, hub.ErrDuplicateUser) {
			http.Error(w, "duplicated username", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	user := client.User()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Unregister(user)
		log.Printf("[websocket] upgrade failed for %s: %v", user, err)
		return
	}
	defer conn.Close()
	defer h.hub.Unregister(user)

	log.Printf("[websocket] new connection for user: %s", user)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.writeLoop(ctx, conn, client)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error for %s: %v", user, err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(readTimeout))
			h.handleMessage(user, &msg)
		}
	}
}

// writeLoop is the connection's single writer: it drains the hub queue,
// which preserves the send order the coordinator produced, and keeps the
// connection alive with pings.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, client *hub.Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-client.Outbound():
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(env); err != nil {
				log.Printf("[websocket] write failed for %s: %v", client.User(), err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) handleMessage(user string, msg *inboundMessage) {
	switch msg.Type {
	case "join_session":
		if msg.SessionID == "" {
			h.sendError(user, "session_id is required")
			return
		}
		h.sessionSvc.Join(msg.SessionID, user)

	case "submit_share":
		if msg.SessionID == "" {
			h.sendError(user, "session_id is required")
			return
		}
		var share secret.Share
		if err := json.Unmarshal(msg.ShareData, &share); err != nil {
			h.sendError(user, "invalid share_data payload")
			return
		}
		if _, err := h.sessionSvc.Submit(msg.SessionID, user, share); err != nil {
			h.sendError(user, err.Error())
		}

	default:
		h.sendError(user, "unsupported message type: "+msg.Type)
	}
}

// sendError reports a protocol violation back to the offender only; the
// session and everyone else's view stay untouched.
func (h *Handler) sendError(user, message string) {
	h.hub.Unicast(user, hub.NewEnvelope("error", "", map[string]string{"message": message}))
}
