// File: internal/handlers/stream_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arkovia/go-chatgate/internal/services/chat"
)

// StreamMessage relays one turn as server-sent events: each relay event is
// framed as a `data:` line with a JSON payload and flushed immediately.
// Once the stream has begun the status code is fixed, so every failure,
// gate failures included, becomes a terminal error event.
func (h *ChatHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
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

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emit := func(ev chat.Event) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := h.chatService.StreamTurn(r.Context(), conversationID, userID, req.Message, emit); err != nil {
		h.logger.Error("stream turn failed",
			"error", err, "conversation_id", conversationID, "user_id", userID)
		// Best effort; the client may already be gone.
		_ = emit(chat.Event{Type: chat.EventError, Error: streamErrorText(err)})
	}
}

func streamErrorText(err error) string {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound):
		return "Conversation not found"
	case errors.Is(err, chat.ErrForbidden):
		return "Access denied"
	default:
		return err.Error()
	}
}
