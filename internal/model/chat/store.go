package chat

import (
	"context"
	"errors"
	"sync"
)

// ErrTurnNotFound covers both an unknown turn id and a turn whose audio
// fields were already set; callers treat the two alike.
var ErrTurnNotFound = errors.New("turn not found")

// Store is the append-only record of chat turns.
type Store interface {
	// Insert appends one turn.
	Insert(ctx context.Context, turn Turn) error
	// Recent returns up to limit turns, newest first. An empty sessionID
	// spans all sessions.
	Recent(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	// MarkAudio flips a turn's audio fields exactly once.
	MarkAudio(ctx context.Context, id, audioURL string) error
}

// MemoryStore implements Store with an in-memory slice, used when no
// MongoDB is configured and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends a turn to the log.
func (s *MemoryStore) Insert(_ context.Context, turn Turn) error {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
	return nil
}

// Recent walks the log backwards so insertion order becomes newest-first.
func (s *MemoryStore) Recent(_ context.Context, sessionID string, limit int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Turn, 0, limit)
	for i := len(s.turns) - 1; i >= 0 && len(result) < limit; i-- {
		if sessionID != "" && s.turns[i].SessionID != sessionID {
			continue
		}
		result = append(result, s.turns[i])
	}
	return result, nil
}

// MarkAudio sets the audio fields of a turn that has none yet.
func (s *MemoryStore) MarkAudio(_ context.Context, id, audioURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.turns {
		if s.turns[i].ID != id || s.turns[i].HasAudio {
			continue
		}
		s.turns[i].HasAudio = true
		s.turns[i].AudioURL = audioURL
		return nil
	}
	return ErrTurnNotFound
}
