package signal

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	signalservice "github.com/azadmehtiyev/darkai/backend/internal/service/signal"
)

const (
	readDeadline = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler upgrades screen-share signaling connections and bridges them into
// the relay.
type Handler struct {
	relay    *signalservice.Relay
	upgrader websocket.Upgrader
}

// New creates the signaling WebSocket handler.
func New(relay *signalservice.Relay) *Handler {
	return &Handler{
		relay: relay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the signaling WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/screen-share/{sessionID}", h.handleScreenShare)
}

// envelope is the minimal shape a signaling frame must parse into. The
// relay never interprets type or data; they belong to the peers.
type envelope struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// wsConn serializes writes: broadcasts from different senders may target
// the same recipient concurrently, and gorilla allows one writer at a time.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// handleScreenShare joins the connection to the relay for the lifetime of
// the socket. Join happens before the first read, so no message can arrive
// for an unregistered connection.
func (h *Handler) handleScreenShare(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[signal] upgrade failed: %v", err)
		return
	}

	peer := &wsConn{conn: conn}
	if err := h.relay.Join(peer, sessionID); err != nil {
		log.Printf("[signal] join failed session=%s: %v", sessionID, err)
		conn.Close()
		return
	}
	defer func() {
		h.relay.Leave(peer)
		conn.Close()
	}()

	log.Printf("[signal] connection joined session=%s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	go h.pingLoop(ctx, conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[signal] read error session=%s: %v", sessionID, err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readDeadline))

		// Malformed frames are logged and dropped; the connection stays up.
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Type == "" {
			log.Printf("[signal] dropping malformed payload session=%s", sessionID)
			continue
		}

		h.relay.Broadcast(peer, raw)
	}
}

// pingLoop keeps the connection alive under the read deadline.
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
