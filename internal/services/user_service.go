package services

import (
	"context"
	"strings"
	"time"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/auth"
	"github.com/homigo-app/homigo-backend/internal/models"
	"github.com/homigo-app/homigo-backend/internal/policy"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type UserService struct {
	users repo.Users
	tm    *auth.TokenManager
	audit *Auditor
}

func NewUserService(users repo.Users, tm *auth.TokenManager, audit *Auditor) *UserService {
	return &UserService{users: users, tm: tm, audit: audit}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type TokenPair struct {
	Access    string
	Refresh   string
	ExpiresAt time.Time
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return models.User{}, apperr.Validation("Name, email, and password are required")
	}
	if len(in.Password) < 6 {
		return models.User{}, apperr.Validation("Password must be at least 6 characters long")
	}
	if in.Role == "" {
		in.Role = models.RoleGuest
	}
	if !models.ValidSignupRole(in.Role) {
		return models.User{}, apperr.Validation(`Role must be either "host" or "guest"`)
	}

	u := models.User{
		Name:  strings.TrimSpace(in.Name),
		Email: models.NormalizeEmail(in.Email),
		Role:  in.Role,
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	s.audit.record("user", created.ID, "registered", map[string]any{"email": created.Email})
	return created, nil
}

// Login verifies credentials and issues a token pair. Unknown email and bad
// password produce the same error so the response doesn't reveal which.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, TokenPair, error) {
	if email == "" || password == "" {
		return models.User{}, TokenPair{}, apperr.Validation("Email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return models.User{}, TokenPair{}, apperr.Unauthorized("Invalid email or password")
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, TokenPair{}, apperr.Unauthorized("Invalid email or password")
	}
	access, refresh, exp, err := s.tm.GeneratePair(u.ID, string(u.Role))
	if err != nil {
		return models.User{}, TokenPair{}, apperr.Internal(err)
	}
	return u, TokenPair{Access: access, Refresh: refresh, ExpiresAt: exp}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.User, TokenPair, error) {
	claims, isRefresh, err := s.tm.Parse(refreshToken)
	if err != nil || !isRefresh {
		return models.User{}, TokenPair{}, apperr.Unauthorized("Invalid refresh token")
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return models.User{}, TokenPair{}, apperr.Unauthorized("Invalid refresh token")
	}
	access, refresh, exp, err := s.tm.GeneratePair(u.ID, string(u.Role))
	if err != nil {
		return models.User{}, TokenPair{}, apperr.Internal(err)
	}
	return u, TokenPair{Access: access, Refresh: refresh, ExpiresAt: exp}, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, role string, p repo.Page) ([]models.User, int, error) {
	if role != "" && role != string(models.RoleGuest) && role != string(models.RoleHost) {
		role = ""
	}
	return s.users.List(ctx, role, p)
}

type UpdateProfileInput struct {
	Name           *string
	Email          *string
	Bio            *string
	ProfilePicture *string
}

func (s *UserService) UpdateProfile(ctx context.Context, actor policy.Actor, id int64, in UpdateProfileInput) (models.User, error) {
	if d := policy.CanMutateUser(actor, id); !d.Allowed {
		return models.User{}, apperr.Forbidden(d.Reason)
	}

	patch := repo.UserPatch{Bio: trimPtr(in.Bio), ProfilePicture: in.ProfilePicture}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if in.Email != nil {
		email := models.NormalizeEmail(*in.Email)
		if !models.ValidEmail(email) {
			return models.User{}, apperr.Validation("Invalid email format")
		}
		taken, err := s.users.EmailTaken(ctx, email, id)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			return models.User{}, apperr.Conflict("Email is already taken")
		}
		patch.Email = &email
	}

	return s.users.UpdateProfile(ctx, id, patch)
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current password and new password are required")
	}
	if len(next) < 6 {
		return apperr.Validation("Password must be at least 6 characters long")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(current, u.PasswordHash); err != nil {
		return apperr.Validation("Current password is incorrect")
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.audit.record("user", userID, "password_changed", nil)
	return nil
}

// Delete removes an account. Self-delete is not offered; only admins may
// remove users.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("Only admins can delete users")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record("user", id, "deleted", map[string]any{"by": actor.UserID})
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
