package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Turn persists one message of a conversation. Immutable after creation
// except for the audio fields, which are set once when synthesis happens.
type Turn struct {
	ID        string    `json:"id" bson:"_id"`
	SessionID string    `json:"sessionId" bson:"session_id"`
	Sender    Sender    `json:"sender" bson:"sender"`
	Text      string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	HasAudio  bool      `json:"hasAudio" bson:"has_audio"`
	AudioURL  string    `json:"audioUrl,omitempty" bson:"audio_url,omitempty"`
}

// NewTurn builds a turn with a fresh id and the current instant.
func NewTurn(sessionID string, sender Sender, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}
