package auth_test

import (
	"context"
	"errors"
	"testing"

	"loteria-service/internal/config"
	"loteria-service/internal/model"
	"loteria-service/internal/service/auth"
	pkgAuth "loteria-service/pkg/auth"
	appErr "loteria-service/pkg/errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*gorm.DB, *auth.Service) {
	t.Helper()

	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", Expire: 1},
	}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}
	return db, auth.NewService(db, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthService(t)

	user, err := svc.Register(ctx, "Player@Example.com", "secret-password", "player")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "player@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "secret-password" {
		t.Fatal("password stored in the clear")
	}

	result, err := svc.Login(ctx, "player@example.com", "secret-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	claims, err := pkgAuth.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.SubjectID != user.ID {
		t.Fatalf("token subject mismatch: %d vs %d", claims.SubjectID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthService(t)

	if _, err := svc.Register(ctx, "player@example.com", "secret-password", "player"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := svc.Register(ctx, "player@example.com", "another-password", "other")
	if !errors.Is(err, appErr.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthService(t)

	cases := []struct {
		email    string
		password string
	}{
		{"not-an-email", "secret-password"},
		{"player@example.com", "short"},
		{"", "secret-password"},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.email, tc.password, "player")
		if !errors.Is(err, appErr.ErrInvalidCredentials) {
			t.Fatalf("email=%q: expected ErrInvalidCredentials, got %v", tc.email, err)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthService(t)

	if _, err := svc.Register(ctx, "player@example.com", "secret-password", "player"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := svc.Login(ctx, "player@example.com", "wrong-password")
	if !errors.Is(err, appErr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, err = svc.Login(ctx, "nobody@example.com", "secret-password")
	if !errors.Is(err, appErr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
