package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/azadmehtiyev/darkai/backend/internal/config"
)

var (
	ErrNotConfigured = errors.New("elevenlabs api key not configured")
	ErrUpstream      = errors.New("speech synthesis failed upstream")
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	ttsModelID     = "eleven_multilingual_v2"
)

// Service is the gateway to the ElevenLabs TTS API. The credential can be
// supplied at construction or later through Configure; it is the only
// mutable state.
type Service struct {
	mu     sync.RWMutex
	apiKey string

	defaultVoice string
	baseURL      string
	client       *http.Client
}

// NewService builds the gateway from configuration. A missing API key is
// not an error; synthesis fails with ErrNotConfigured until one is set.
func NewService(cfg config.SpeechConfig) *Service {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	voice := strings.TrimSpace(cfg.VoiceID)
	if voice == "" {
		voice = FallbackVoiceID
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	return &Service{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		defaultVoice: voice,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		client:       &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Configure replaces the API credential.
func (s *Service) Configure(apiKey string) error {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return errors.New("api key is empty")
	}

	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()
	return nil
}

// Configured reports whether a credential is present.
func (s *Service) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey != ""
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text to audio bytes via the provider. No retries; the
// caller decides how to encode and whether to attach the audio to a turn.
func (s *Service) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	s.mu.RLock()
	key := s.apiKey
	s.mu.RUnlock()
	if key == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(synthesizeRequest{Text: text, ModelID: ttsModelID})
	if err != nil {
		return nil, fmt.Errorf("encode tts request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, s.ResolveVoice(voiceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("xi-api-key", key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %v", ErrUpstream, err)
	}
	return audio, nil
}
