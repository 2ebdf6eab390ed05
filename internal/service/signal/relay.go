package signal

import (
	"errors"
	"log"
	"sync"
)

// ErrAlreadyJoined rejects a second join under a live handle; a connection
// must leave before its handle can be reused.
var ErrAlreadyJoined = errors.New("connection already joined")

// Conn is the outbound half of a signaling connection. Implementations must
// tolerate concurrent Send calls from different broadcasts.
type Conn interface {
	Send(payload []byte) error
}

// Relay routes signaling payloads between connections sharing a session id.
// The registry is indexed by session so a broadcast only touches peers of
// that session; payloads are opaque and delivered verbatim.
type Relay struct {
	mu       sync.Mutex
	sessions map[string]map[Conn]struct{}
	members  map[Conn]string
}

// NewRelay returns an empty relay.
func NewRelay() *Relay {
	return &Relay{
		sessions: make(map[string]map[Conn]struct{}),
		members:  make(map[Conn]string),
	}
}

// Join registers a connection under a session id.
func (r *Relay) Join(conn Conn, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[conn]; ok {
		return ErrAlreadyJoined
	}

	peers, ok := r.sessions[sessionID]
	if !ok {
		peers = make(map[Conn]struct{})
		r.sessions[sessionID] = peers
	}
	peers[conn] = struct{}{}
	r.members[conn] = sessionID
	return nil
}

// Leave removes a connection from the registry. Safe to call repeatedly and
// concurrently with broadcasts that still reference the handle.
func (r *Relay) Leave(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID, ok := r.members[conn]
	if !ok {
		return
	}
	delete(r.members, conn)

	peers := r.sessions[sessionID]
	delete(peers, conn)
	if len(peers) == 0 {
		delete(r.sessions, sessionID)
	}
}

// Broadcast delivers payload to every other connection in the sender's
// session. Delivery is best-effort: a failed send evicts that peer and the
// remaining peers still receive the payload. The sender never sees an error.
func (r *Relay) Broadcast(sender Conn, payload []byte) {
	r.mu.Lock()
	sessionID, ok := r.members[sender]
	if !ok {
		r.mu.Unlock()
		return
	}
	peers := make([]Conn, 0, len(r.sessions[sessionID]))
	for peer := range r.sessions[sessionID] {
		if peer != sender {
			peers = append(peers, peer)
		}
	}
	r.mu.Unlock()

	for _, peer := range peers {
		if err := peer.Send(payload); err != nil {
			log.Printf("[signal] send failed, dropping peer session=%s: %v", sessionID, err)
			r.Leave(peer)
		}
	}
}

// SessionSize reports how many connections a session currently has.
func (r *Relay) SessionSize(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions[sessionID])
}
