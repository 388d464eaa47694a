// File: internal/handlers/auth_handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arkovia/go-chatgate/internal/services"
	"github.com/arkovia/go-chatgate/internal/services/user_services"
)

// AuthHandler holds the dependencies for the identity pass-through
// endpoints. These are deliberately thin; conversation routes only ever
// see the bearer token the middleware verifies.
type AuthHandler struct {
	authService *user_services.AuthService
	logger      services.Logger
}

func NewAuthHandler(authService *user_services.AuthService, logger services.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user_services.ErrEmailTaken) {
			writeError(w, "Email already exists", http.StatusBadRequest)
			return
		}
		h.logger.Warn("registration rejected", "error", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Registration successful",
		UserID:  u.ID,
		Email:   u.Email,
	})
}

// Login verifies credentials and hands back a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user_services.ErrInvalidCredentials) {
			writeError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, "Could not log in", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		UserID:  u.ID,
		Email:   u.Email,
		Token:   token,
	})
}

// VerifyToken checks a bearer token and reports who it belongs to.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u, err := h.authService.VerifyToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Token is valid",
		UserID:  u.ID,
		Email:   u.Email,
	})
}
