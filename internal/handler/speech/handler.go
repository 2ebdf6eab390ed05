package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/azadmehtiyev/darkai/backend/internal/model/chat"
	speechservice "github.com/azadmehtiyev/darkai/backend/internal/service/speech"
	"github.com/azadmehtiyev/darkai/backend/pkg/utils"
)

// SpeechService abstracts the synthesis gateway for testing.
type SpeechService interface {
	Configure(apiKey string) error
	Configured() bool
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Handler serves the TTS and credential-configuration endpoints.
type Handler struct {
	speechSvc SpeechService
	store     chatmodel.Store
}

// New creates the speech handler. store lets a synthesis request mark the
// originating chat turn as voiced.
func New(speechSvc SpeechService, store chatmodel.Store) *Handler {
	return &Handler{speechSvc: speechSvc, store: store}
}

// RegisterRoutes mounts the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/tts", h.handleSynthesize)
	r.Post("/config/elevenlabs", h.handleConfigure)
}

type ttsRequest struct {
	Text      string `json:"text"`
	VoiceID   string `json:"voiceId"`
	MessageID string `json:"messageId"`
}

type ttsResponse struct {
	AudioURL string `json:"audioUrl"`
	Text     string `json:"text"`
}

// handleSynthesize converts text to a base64 data URI.
func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := h.speechSvc.Synthesize(r.Context(), req.Text, req.VoiceID)
	if err != nil {
		if errors.Is(err, speechservice.ErrNotConfigured) {
			utils.RespondError(w, http.StatusBadRequest, "ElevenLabs API key not configured. Please provide API key first.")
			return
		}
		log.Printf("[speech] TTS error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "TTS error: "+err.Error())
		return
	}

	audioURL := "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio)

	// Attach the audio to the originating turn when the caller names one.
	// Best-effort: a stale or already-voiced id doesn't fail the request.
	if req.MessageID != "" && h.store != nil {
		if err := h.store.MarkAudio(r.Context(), req.MessageID, audioURL); err != nil {
			log.Printf("[speech] mark audio failed message=%s: %v", req.MessageID, err)
		}
	}

	utils.RespondJSON(w, http.StatusOK, ttsResponse{AudioURL: audioURL, Text: req.Text})
}

type configureRequest struct {
	APIKey string `json:"apiKey"`
}

// handleConfigure sets the ElevenLabs credential at runtime. The key may
// arrive in the JSON body or as an apiKey query parameter.
func (h *Handler) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var req configureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.APIKey == "" {
		req.APIKey = r.URL.Query().Get("apiKey")
	}

	if err := h.speechSvc.Configure(req.APIKey); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid ElevenLabs API key: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "ElevenLabs configured successfully"})
}
