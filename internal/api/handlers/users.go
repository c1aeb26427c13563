package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homigo-app/homigo-backend/internal/api/httpx"
	"github.com/homigo-app/homigo-backend/internal/api/validate"
	"github.com/homigo-app/homigo-backend/internal/middleware"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
	"github.com/homigo-app/homigo-backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ID("user ID", chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := validate.PageQuery(q)
	p := repo.NewPage(page, limit)

	users, total, err := h.users.List(r.Context(), q.Get("role"), p)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]any{
		"users": users,
		"pagination": httpx.Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
			Pages: p.Pages(total),
		},
	})
}

type updateProfileRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ID("user ID", chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	h.updateProfile(w, r, id)
}

// Profile returns the authenticated user's own account.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())
	user, err := h.users.Get(r.Context(), actor.UserID)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())
	h.updateProfile(w, r, actor.UserID)
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	user, err := h.users.UpdateProfile(r.Context(), actor, id, services.UpdateProfileInput{
		Name:           req.Name,
		Email:          req.Email,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	if err := h.users.ChangePassword(r.Context(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ID("user ID", chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	if err := h.users.Delete(r.Context(), actor, id); err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "User deleted successfully", nil)
}
