package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/azadmehtiyev/darkai/backend/internal/service/chat"
	"github.com/azadmehtiyev/darkai/backend/pkg/utils"
)

// defaultSessionID groups messages from clients that don't supply one.
const defaultSessionID = "main_session"

const historyLimit = 50

// Handler serves the chat endpoints.
type Handler struct {
	chatSvc *chatservice.Service
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/history", h.handleHistory)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Message   string    `json:"message"`
	HasAudio  bool      `json:"hasAudio"`
	AudioURL  string    `json:"audioUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// handleChat runs one conversational turn.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.SessionID == "" {
		payload.SessionID = defaultSessionID
	}

	turn, err := h.chatSvc.HandleUserMessage(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		if errors.Is(err, chatservice.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, "message is required")
			return
		}
		log.Printf("[chat] turn failed session=%s: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "chat error: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Message:   turn.Text,
		HasAudio:  turn.HasAudio,
		AudioURL:  turn.AudioURL,
		Timestamp: turn.Timestamp,
	})
}

// handleHistory returns recent turns, newest first.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	turns, err := h.chatSvc.History(r.Context(), sessionID, historyLimit)
	if err != nil {
		log.Printf("[chat] history query failed session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "history error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, turns)
}
