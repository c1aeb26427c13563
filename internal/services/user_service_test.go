package services

import (
	"context"
	"testing"
	"time"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/auth"
	"github.com/homigo-app/homigo-backend/internal/models"
	"github.com/homigo-app/homigo-backend/internal/policy"
)

func newUserFixture(t *testing.T) (*UserService, *mockUsers) {
	t.Helper()
	users := newMockUsers()
	tm := auth.NewTokenManager("test-secret", "homigo-test", time.Hour, 24*time.Hour)
	return NewUserService(users, tm, NewAuditor(&mockAuditLogs{}, nil)), users
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "password123",
		Role:     models.RoleGuest,
	}
}

func TestRegister_Success(t *testing.T) {
	svc, _ := newUserFixture(t)

	u, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.Email != "test@example.com" {
		t.Errorf("Expected normalized email, got %s", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "password123" {
		t.Error("Expected password to be hashed")
	}
	if u.Role != models.RoleGuest {
		t.Errorf("Expected role guest, got %s", u.Role)
	}
}

func TestRegister_DefaultsToGuest(t *testing.T) {
	svc, _ := newUserFixture(t)

	in := validRegisterInput()
	in.Role = ""
	u, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.Role != models.RoleGuest {
		t.Errorf("Expected role guest, got %s", u.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, validRegisterInput())
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		mut  func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"admin signup", func(in *RegisterInput) { in.Role = models.RoleAdmin }},
	}
	for _, tc := range cases {
		in := validRegisterInput()
		tc.mut(&in)
		if _, err := svc.Register(ctx, in); !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatal(err)
	}

	u, pair, err := svc.Login(ctx, "test@example.com", "password123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Error("Expected token pair, got empty tokens")
	}
	if u.Email != "test@example.com" {
		t.Errorf("Unexpected user: %+v", u)
	}
}

func TestLogin_UniformFailureMessage(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatal(err)
	}

	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "password123")
	_, _, badPassErr := svc.Login(ctx, "test@example.com", "wrongpassword")

	for _, err := range []error{unknownErr, badPassErr} {
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("Expected unauthorized error, got %v", err)
		}
	}
	if apperr.MessageOf(unknownErr) != apperr.MessageOf(badPassErr) {
		t.Errorf("Expected identical messages, got %q vs %q", apperr.MessageOf(unknownErr), apperr.MessageOf(badPassErr))
	}
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatal(err)
	}
	_, pair, err := svc.Login(ctx, "test@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}

	_, next, err := svc.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("Expected refresh to succeed, got %v", err)
	}
	if next.Access == "" {
		t.Error("Expected new access token")
	}

	// an access token is not accepted as a refresh token
	if _, _, err := svc.Refresh(ctx, pair.Access); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("Expected unauthorized for access-as-refresh, got %v", err)
	}
}

func TestUpdateProfile_SelfOnly(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()

	u := users.add(models.User{Name: "A", Email: "a@example.com", Role: models.RoleGuest})
	other := users.add(models.User{Name: "B", Email: "b@example.com", Role: models.RoleGuest})

	bio := "traveller"
	otherActor := policy.Actor{UserID: other.ID, Role: other.Role}
	if _, err := svc.UpdateProfile(ctx, otherActor, u.ID, UpdateProfileInput{Bio: &bio}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden for other user, got %v", err)
	}

	selfActor := policy.Actor{UserID: u.ID, Role: u.Role}
	updated, err := svc.UpdateProfile(ctx, selfActor, u.ID, UpdateProfileInput{Bio: &bio})
	if err != nil {
		t.Fatalf("Expected self update to succeed, got %v", err)
	}
	if updated.Bio == nil || *updated.Bio != "traveller" {
		t.Errorf("Expected bio set, got %+v", updated.Bio)
	}
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()

	u := users.add(models.User{Name: "A", Email: "a@example.com", Role: models.RoleGuest})
	users.add(models.User{Name: "B", Email: "b@example.com", Role: models.RoleGuest})

	taken := "b@example.com"
	actor := policy.Actor{UserID: u.ID, Role: u.Role}
	if _, err := svc.UpdateProfile(ctx, actor, u.ID, UpdateProfileInput{Email: &taken}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("Expected conflict for taken email, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "wrongpassword", "newpassword"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Expected validation error for wrong current password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "password123", "short"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Expected validation error for short new password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "password123", "newpassword"); err != nil {
		t.Fatalf("Expected change to succeed, got %v", err)
	}
	if _, _, err := svc.Login(ctx, u.Email, "newpassword"); err != nil {
		t.Errorf("Expected login with new password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, u.Email, "password123"); err == nil {
		t.Error("Expected old password to be rejected")
	}
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()

	u := users.add(models.User{Name: "A", Email: "a@example.com", Role: models.RoleGuest})
	admin := users.add(models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin})

	selfActor := policy.Actor{UserID: u.ID, Role: u.Role}
	if err := svc.Delete(ctx, selfActor, u.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden for non-admin, got %v", err)
	}

	adminActor := policy.Actor{UserID: admin.ID, Role: admin.Role}
	if err := svc.Delete(ctx, adminActor, u.ID); err != nil {
		t.Fatalf("Expected admin delete to succeed, got %v", err)
	}
	if _, err := svc.Get(ctx, u.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}
