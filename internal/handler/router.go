package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/azadmehtiyev/darkai/backend/internal/handler/chat"
	signalhandler "github.com/azadmehtiyev/darkai/backend/internal/handler/signal"
	speechhandler "github.com/azadmehtiyev/darkai/backend/internal/handler/speech"
	middlewarePkg "github.com/azadmehtiyev/darkai/backend/internal/middleware"
	chatmodel "github.com/azadmehtiyev/darkai/backend/internal/model/chat"
	chatservice "github.com/azadmehtiyev/darkai/backend/internal/service/chat"
	signalservice "github.com/azadmehtiyev/darkai/backend/internal/service/signal"
	"github.com/azadmehtiyev/darkai/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	chatSvc *chatservice.Service,
	speechSvc speechhandler.SpeechService,
	relay *signalservice.Relay,
	store chatmodel.Store,
	corsOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(corsOrigins))

	chatHandler := chathandler.New(chatSvc)
	speechHandler := speechhandler.New(speechSvc, store)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		speechHandler.RegisterRoutes(api)

		api.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "DARK AI Backend is running"})
		})
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "DARK AI"})
		})
	})

	signalhandler.New(relay).RegisterRoutes(r)

	return r
}
