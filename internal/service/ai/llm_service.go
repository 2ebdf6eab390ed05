package ai

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/azadmehtiyev/darkai/backend/internal/config"
)

// systemPrompt fixes the assistant's identity and tone.
const systemPrompt = "Sen DARK AI'sın. Azad Mehtiyev ve Emergent tarafından tasarlandın. " +
	"Türkçe konuş ve kullanıcıyla doğal bir sohbet et. Kalın erkek ses tonu ile cevap vermeye odaklan."

// historyWindow bounds the per-session context sent with each request.
const historyWindow = 10

// Service is the gateway to the chat model. It owns the per-session
// conversational context keyed by session id.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]

	mu      sync.Mutex
	history map[string][]*schema.Message
}

// NewService compiles the prompt/model chain from the configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		chain:     runnable,
		history:   make(map[string][]*schema.Message),
	}, nil
}

// SendMessage runs one conversational turn for the session. The session's
// context is only extended after a successful model call, so a failed
// request leaves no trace.
func (s *Service) SendMessage(ctx context.Context, sessionID, userText string) (string, error) {
	input := map[string]any{
		"system":  systemPrompt,
		"history": s.snapshot(sessionID),
		"query":   userText,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	s.remember(sessionID, schema.UserMessage(userText), schema.AssistantMessage(response.Content, nil))

	log.Printf("[ai] generated response session=%s length=%d", sessionID, len(response.Content))
	return response.Content, nil
}

// snapshot copies the session's rolling context for a chain invocation.
func (s *Service) snapshot(sessionID string) []*schema.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.history[sessionID]
	if len(messages) == 0 {
		return nil
	}
	return append([]*schema.Message(nil), messages...)
}

// remember appends messages to the session context, trimming to the window.
func (s *Service) remember(sessionID string, messages ...*schema.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	combined := append(s.history[sessionID], messages...)
	if len(combined) > historyWindow {
		combined = combined[len(combined)-historyWindow:]
	}
	s.history[sessionID] = combined
}
