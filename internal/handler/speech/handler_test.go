package speech_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	speechhandler "github.com/azadmehtiyev/darkai/backend/internal/handler/speech"
	chatmodel "github.com/azadmehtiyev/darkai/backend/internal/model/chat"
	speechservice "github.com/azadmehtiyev/darkai/backend/internal/service/speech"
)

type fakeSpeechService struct {
	apiKey string
	audio  []byte
	err    error
}

func (f *fakeSpeechService) Configure(apiKey string) error {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return errors.New("api key is empty")
	}
	f.apiKey = key
	return nil
}

func (f *fakeSpeechService) Configured() bool { return f.apiKey != "" }

func (f *fakeSpeechService) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	if f.apiKey == "" {
		return nil, speechservice.ErrNotConfigured
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func newTestRouter(svc speechhandler.SpeechService, store chatmodel.Store) http.Handler {
	r := chi.NewRouter()
	speechhandler.New(svc, store).RegisterRoutes(r)
	return r
}

func TestSynthesizeUnconfiguredReturns400(t *testing.T) {
	router := newTestRouter(&fakeSpeechService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(`{"text":"merhaba"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSynthesizeReturnsDataURI(t *testing.T) {
	svc := &fakeSpeechService{apiKey: "key", audio: []byte("mp3")}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(`{"text":"merhaba"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AudioURL string `json:"audioUrl"`
		Text     string `json:"text"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.AudioURL, "data:audio/mpeg;base64,") {
		t.Fatalf("expected data URI, got %q", resp.AudioURL)
	}
	if resp.Text != "merhaba" {
		t.Fatalf("expected original text echoed, got %q", resp.Text)
	}
}

func TestSynthesizeUpstreamFailureReturns500(t *testing.T) {
	svc := &fakeSpeechService{apiKey: "key", err: speechservice.ErrUpstream}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(`{"text":"merhaba"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSynthesizeMarksOriginatingTurn(t *testing.T) {
	store := chatmodel.NewMemoryStore()
	turn := chatmodel.NewTurn("s1", chatmodel.SenderAssistant, "merhaba")
	if err := store.Insert(context.Background(), turn); err != nil {
		t.Fatalf("Insert err: %v", err)
	}

	svc := &fakeSpeechService{apiKey: "key", audio: []byte("mp3")}
	router := newTestRouter(svc, store)

	body := `{"text":"merhaba","messageId":"` + turn.ID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	turns, _ := store.Recent(context.Background(), "s1", 1)
	if !turns[0].HasAudio || !strings.HasPrefix(turns[0].AudioURL, "data:audio/mpeg;base64,") {
		t.Fatalf("expected turn marked with audio, got %+v", turns[0])
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	router := newTestRouter(&fakeSpeechService{apiKey: "key"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(`{"text":" "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConfigureEndpoint(t *testing.T) {
	svc := &fakeSpeechService{}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/config/elevenlabs", strings.NewReader(`{"apiKey":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/config/elevenlabs", strings.NewReader(`{"apiKey":"xi-123"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.Configured() {
		t.Fatal("service should be configured after the call")
	}
}

func TestConfigureAcceptsQueryParam(t *testing.T) {
	svc := &fakeSpeechService{}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/config/elevenlabs?apiKey=xi-456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.apiKey != "xi-456" {
		t.Fatalf("expected key from query param, got %q", svc.apiKey)
	}
}
