// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arkovia/go-chatgate/internal/middleware"
	"github.com/arkovia/go-chatgate/internal/services"
	"github.com/arkovia/go-chatgate/internal/services/chat"
)

type ChatHandler struct {
	chatService *chat.Service
	logger      services.Logger
}

func NewChatHandler(chatService *chat.Service, logger services.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// GetConversations handles the request to list all conversations for the
// authenticated user, newest activity first.
func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	convs, err := h.chatService.ListConversations(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list conversations", "error", err, "user_id", userID)
		writeError(w, "Could not retrieve conversations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

// CreateConversation handles the request to start a new, empty
// conversation.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		// An empty or absent body is fine; the title just defaults.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	conv, err := h.chatService.CreateConversation(r.Context(), userID, req.Title)
	if err != nil {
		h.logger.Error("failed to create conversation", "error", err, "user_id", userID)
		writeError(w, "Could not create conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// GetConversationMessages handles the request to retrieve the ordered
// message history of one conversation.
func (h *ChatHandler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := mux.Vars(r)["id"]

	messages, err := h.chatService.GetMessages(r.Context(), conversationID, userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// SendMessage handles one batch-mode turn: the reply arrives as a single
// JSON result carrying both persisted sides of the exchange.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := mux.Vars(r)["id"]

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.chatService.Turn(r.Context(), conversationID, userID, req.Message)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteConversation handles the request to remove a conversation and all
// of its messages.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := mux.Vars(r)["id"]

	if err := h.chatService.DeleteConversation(r.Context(), conversationID, userID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted successfully"})
}

// ClearConversation handles the request to reset a conversation to empty.
func (h *ChatHandler) ClearConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := mux.Vars(r)["id"]

	if err := h.chatService.ClearConversation(r.Context(), conversationID, userID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation cleared successfully"})
}

// respondServiceError maps chat service failures onto the HTTP taxonomy.
func (h *ChatHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound):
		writeError(w, "Conversation not found", http.StatusNotFound)
	case errors.Is(err, chat.ErrForbidden):
		writeError(w, "Access denied", http.StatusForbidden)
	default:
		var chatErr *chat.ChatError
		if errors.As(err, &chatErr) && chatErr.Type == chat.ErrTypeValidation {
			writeError(w, chatErr.Message, http.StatusBadRequest)
			return
		}
		h.logger.Error("chat request failed", "error", err)
		writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

func userIDFrom(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
