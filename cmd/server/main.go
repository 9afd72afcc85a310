// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mkarimi-dev/go-askweb/internal/config"
	"github.com/mkarimi-dev/go-askweb/internal/domain"
	"github.com/mkarimi-dev/go-askweb/internal/handlers"
	"github.com/mkarimi-dev/go-askweb/internal/middleware"
	"github.com/mkarimi-dev/go-askweb/internal/ratelimit"
	"github.com/mkarimi-dev/go-askweb/internal/repository/conversation"
	"github.com/mkarimi-dev/go-askweb/internal/services"
	"github.com/mkarimi-dev/go-askweb/internal/services/ai"
	"github.com/mkarimi-dev/go-askweb/internal/services/chat"
	"github.com/mkarimi-dev/go-askweb/internal/services/scrape"
	"github.com/mkarimi-dev/go-askweb/internal/services/search"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("go_askweb")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	conversationRepo := conversation.NewConversationRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiProvider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	searchConfig := search.DefaultConfig()
	searchConfig.APIKey = cfg.SerperAPIKey
	searchConfig.BaseURL = cfg.SerperBaseURL
	searchProvider, err := search.NewSerperProvider(searchConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize search provider: %v", err)
	}

	scrapeProvider, err := scrape.NewHTTPProvider(scrape.DefaultConfig())
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize scrape provider: %v", err)
	}

	chatConfig := chat.DefaultConfig()
	chatConfig.StreamModel = cfg.ChatModel
	chatConfig.MaxToolSteps = cfg.MaxToolSteps
	chatConfig.SearchResultCount = cfg.SearchResultCount

	toolExecutor := chat.NewToolExecutor(chatConfig, searchProvider, scrapeProvider, logger)
	sourceExtractor := chat.NewSourceExtractor(chatConfig, logger)

	chatService, err := chat.NewStreamingService(chatConfig, conversationRepo, aiProvider, toolExecutor, sourceExtractor, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize chat service: %v", err)
	}

	// --- Handlers ---
	chatHandler := handlers.NewChatHandler(chatService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware([]byte(cfg.JWTSecretKey))
	chatLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultChatConfig())
	defer chatLimiter.Close()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := aiProvider.HealthCheck(r.Context()); err != nil {
			log.Printf("Health check failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("DEGRADED"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.Handle("/chat", middleware.RateLimitMiddleware(chatLimiter, "chat")(http.HandlerFunc(chatHandler.HandleChat))).Methods("POST")
	api.HandleFunc("/chats", chatHandler.GetUserChats).Methods("GET")
	api.HandleFunc("/chats/{id}", chatHandler.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id}", chatHandler.DeleteChat).Methods("DELETE")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Server starting on port %s", cfg.ServerPort)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped.")
}
