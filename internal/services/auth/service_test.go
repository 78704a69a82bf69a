package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	redrepo "github.com/olegbarkov/amora/internal/repo/redis"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
)

type stubUserStore struct {
	byEmail map[string]pgrepo.UserRecord
	byID    map[int64]pgrepo.UserRecord
	nextID  int64
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byEmail: map[string]pgrepo.UserRecord{},
		byID:    map[int64]pgrepo.UserRecord{},
		nextID:  1,
	}
}

func (s *stubUserStore) Create(_ context.Context, email, passwordHash string) (pgrepo.UserRecord, error) {
	if _, exists := s.byEmail[email]; exists {
		return pgrepo.UserRecord{}, pgrepo.ErrEmailTaken
	}

	user := pgrepo.UserRecord{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.byEmail[email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (pgrepo.UserRecord, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	user, ok := s.byID[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func TestSignupThenLogin(t *testing.T) {
	svc, users, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	signupRes, err := svc.Signup(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if signupRes.Me.Email != "ada@example.com" {
		t.Fatalf("unexpected me email: %q", signupRes.Me.Email)
	}

	if _, err := svc.Signup(ctx, "ada@example.com", "correct-horse"); !errors.Is(err, authsvc.ErrEmailTaken) {
		t.Fatalf("duplicate signup should report email taken, got err=%v", err)
	}

	loginRes, err := svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken); err != nil {
		t.Fatalf("validate access token: %v", err)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "wrong-password"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Fatalf("wrong password should report invalid credentials, got err=%v", err)
	}

	banned := users.byEmail["ada@example.com"]
	banned.Banned = true
	users.byEmail["ada@example.com"] = banned
	users.byID[banned.ID] = banned
	if _, err := svc.Login(ctx, "ada@example.com", "correct-horse"); !errors.Is(err, authsvc.ErrAccountBanned) {
		t.Fatalf("banned login should report account banned, got err=%v", err)
	}
}

func TestSignupRejectsWeakInput(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := svc.Signup(ctx, "not-an-email", "long-enough-pass"); !errors.Is(err, authsvc.ErrInvalidInput) {
		t.Fatalf("bad email should be invalid input, got err=%v", err)
	}
	if _, err := svc.Signup(ctx, "ok@example.com", "short"); !errors.Is(err, authsvc.ErrInvalidInput) {
		t.Fatalf("short password should be invalid input, got err=%v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Signup(ctx, "bob@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	refreshRes, err := svc.Refresh(ctx, loginRes.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshRes.RefreshToken == loginRes.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("old refresh token should be unauthorized, got err=%v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, refreshRes.AccessToken); err != nil {
		t.Fatalf("new access token validation failed: %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Signup(ctx, "eve@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, *stubUserStore, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	sessions := redrepo.NewSessionRepo(client)
	users := newStubUserStore()
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, sessions, users, 45*24*time.Hour)

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, users, cleanup
}
