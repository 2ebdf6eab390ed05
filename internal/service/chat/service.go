package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/azadmehtiyev/darkai/backend/internal/analysis/identity"
	chatmodel "github.com/azadmehtiyev/darkai/backend/internal/model/chat"
)

var (
	ErrEmptyMessage     = errors.New("message text is required")
	ErrModelUnavailable = errors.New("model gateway unavailable")
)

// historyCap bounds how many turns a history query may return.
const historyCap = 50

// ModelGateway generates an assistant reply within a session's context.
type ModelGateway interface {
	SendMessage(ctx context.Context, sessionID, userText string) (string, error)
}

// Service orchestrates one chat turn: persist the user message, resolve the
// reply (identity override or model call), persist the assistant message.
type Service struct {
	store   chatmodel.Store
	gateway ModelGateway
}

// NewService wires the orchestrator. gateway may be nil when no model
// credentials are configured; identity overrides still work then.
func NewService(store chatmodel.Store, gateway ModelGateway) *Service {
	return &Service{store: store, gateway: gateway}
}

// HandleUserMessage runs one full turn. The user turn is written before any
// model call so persisted history always matches conversation order; on a
// gateway failure no assistant turn is written.
func (s *Service) HandleUserMessage(ctx context.Context, sessionID, text string) (chatmodel.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chatmodel.Turn{}, ErrEmptyMessage
	}

	userTurn := chatmodel.NewTurn(sessionID, chatmodel.SenderUser, text)
	if err := s.store.Insert(ctx, userTurn); err != nil {
		return chatmodel.Turn{}, fmt.Errorf("persist user turn: %w", err)
	}

	reply, overridden := identity.Respond(text)
	if !overridden {
		if s.gateway == nil {
			return chatmodel.Turn{}, ErrModelUnavailable
		}

		generated, err := s.gateway.SendMessage(ctx, sessionID, text)
		if err != nil {
			return chatmodel.Turn{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		reply = generated
	}

	assistantTurn := chatmodel.NewTurn(sessionID, chatmodel.SenderAssistant, reply)
	if err := s.store.Insert(ctx, assistantTurn); err != nil {
		return chatmodel.Turn{}, fmt.Errorf("persist assistant turn: %w", err)
	}

	return assistantTurn, nil
}

// History returns recent turns, newest first, capped at 50.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]chatmodel.Turn, error) {
	if limit <= 0 || limit > historyCap {
		limit = historyCap
	}
	return s.store.Recent(ctx, sessionID, limit)
}
