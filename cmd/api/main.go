package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/azadmehtiyev/darkai/backend/internal/config"
	"github.com/azadmehtiyev/darkai/backend/internal/handler"
	chatmodel "github.com/azadmehtiyev/darkai/backend/internal/model/chat"
	"github.com/azadmehtiyev/darkai/backend/internal/service/ai"
	chatservice "github.com/azadmehtiyev/darkai/backend/internal/service/chat"
	signalservice "github.com/azadmehtiyev/darkai/backend/internal/service/signal"
	speechservice "github.com/azadmehtiyev/darkai/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, closeStore := newStore(ctx, cfg.Mongo)
	defer closeStore()

	// Initialize the model gateway when credentials are present; identity
	// overrides keep working without it.
	var gateway chatservice.ModelGateway
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without model-backed chat")
		} else {
			gateway = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("model credentials not configured, chat limited to identity replies")
	}

	chatService := chatservice.NewService(store, gateway)

	speechService := speechservice.NewService(cfg.Speech)
	if speechService.Configured() {
		log.Println("ElevenLabs TTS configured from environment")
	} else {
		log.Println("ElevenLabs key not set, TTS available after POST /api/config/elevenlabs")
	}

	relay := signalservice.NewRelay()

	router := handler.NewRouter(chatService, speechService, relay, store, cfg.Server.CORSOrigins)

	startServer(ctx, cfg.Server, router)
}

// newStore connects to MongoDB when configured, otherwise falls back to the
// in-memory store so the service still runs in development.
func newStore(ctx context.Context, cfg config.MongoConfig) (chatmodel.Store, func()) {
	if cfg.URI == "" {
		log.Println("MONGO_URL not set, chat history kept in memory only")
		return chatmodel.NewMemoryStore(), func() {}
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Fatalf("failed to reach MongoDB: %v", err)
	}

	log.Printf("connected to MongoDB database %s", cfg.Database)

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}
	return chatmodel.NewMongoStore(client.Database(cfg.Database)), closeFn
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("DARK AI backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
