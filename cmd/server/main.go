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

	"github.com/arkovia/go-chatgate/internal/config"
	"github.com/arkovia/go-chatgate/internal/domain"
	"github.com/arkovia/go-chatgate/internal/handlers"
	"github.com/arkovia/go-chatgate/internal/middleware"
	conversationrepo "github.com/arkovia/go-chatgate/internal/repository/conversation"
	messagerepo "github.com/arkovia/go-chatgate/internal/repository/message"
	userrepo "github.com/arkovia/go-chatgate/internal/repository/user"
	"github.com/arkovia/go-chatgate/internal/services"
	"github.com/arkovia/go-chatgate/internal/services/ai"
	"github.com/arkovia/go-chatgate/internal/services/chat"
	"github.com/arkovia/go-chatgate/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("chatgate")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewUserRepository(db)
	conversationRepo := conversationrepo.NewConversationRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.BaseURL = cfg.OpenAIBaseURL
	aiConfig.Model = cfg.ChatModel
	aiConfig.MaxTokens = cfg.MaxTokens

	provider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize completion provider: %v", err)
	}

	chatService, err := chat.NewService(chat.DefaultConfig(), conversationRepo, messageRepo, provider, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize chat service: %v", err)
	}
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, logger)
	chatHandler := handlers.NewChatHandler(chatService, logger)

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.RequestLogging(logger))

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.Login).Methods("POST")
	authRoutes.HandleFunc("/verify-token", authHandler.VerifyToken).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewAuthMiddleware([]byte(cfg.JWTSecretKey)))
	api.HandleFunc("/conversations", chatHandler.GetConversations).Methods("GET")
	api.HandleFunc("/conversations", chatHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id}/messages", chatHandler.GetConversationMessages).Methods("GET")
	api.HandleFunc("/conversations/{id}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}/messages/stream", chatHandler.StreamMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}", chatHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id}/clear", chatHandler.ClearConversation).Methods("PUT")

	// --- Server Configuration ---
	// No write timeout: streamed turns hold the connection open for as
	// long as the provider takes.
	srv := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
