package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/homigo-app/homigo-backend/internal/api/httpx"
	"github.com/homigo-app/homigo-backend/internal/models"
	"github.com/homigo-app/homigo-backend/internal/services"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "User registered successfully", map[string]any{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Login successful", authResponse{
		User:         user,
		Token:        pair.Access,
		RefreshToken: pair.Refresh,
		ExpiresAt:    pair.ExpiresAt,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	user, pair, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Token refreshed", authResponse{
		User:         user,
		Token:        pair.Access,
		RefreshToken: pair.Refresh,
		ExpiresAt:    pair.ExpiresAt,
	})
}

// Logout is stateless: tokens simply expire. The endpoint exists so clients
// have a uniform call to clear their session against.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	httpx.WriteMessage(w, http.StatusOK, "Logged out successfully", nil)
}
