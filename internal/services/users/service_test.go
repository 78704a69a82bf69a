package users

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type storeStub struct {
	banned    map[int64]bool
	suspended map[int64]bool
	warnings  map[int64]int
	missing   bool
}

func newStoreStub() *storeStub {
	return &storeStub{
		banned:    map[int64]bool{},
		suspended: map[int64]bool{},
		warnings:  map[int64]int{},
	}
}

func (s *storeStub) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	if s.missing {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return pgrepo.UserRecord{ID: userID, Banned: s.banned[userID]}, nil
}

func (s *storeStub) List(_ context.Context, _ string, _, _ int) ([]pgrepo.UserRecord, error) {
	return nil, nil
}

func (s *storeStub) SetBanned(_ context.Context, userID int64, banned bool) error {
	if s.missing {
		return pgrepo.ErrUserNotFound
	}
	s.banned[userID] = banned
	return nil
}

func (s *storeStub) SetSuspended(_ context.Context, userID int64, suspended bool) error {
	if s.missing {
		return pgrepo.ErrUserNotFound
	}
	s.suspended[userID] = suspended
	return nil
}

func (s *storeStub) IncrementWarnings(_ context.Context, userID int64) (int, error) {
	if s.missing {
		return 0, pgrepo.ErrUserNotFound
	}
	s.warnings[userID]++
	return s.warnings[userID], nil
}

type revokerStub struct {
	revoked []int64
}

func (s *revokerStub) DeleteAllForUser(_ context.Context, userID int64) error {
	s.revoked = append(s.revoked, userID)
	return nil
}

type notifierStub struct {
	warnings  []string
	announced int
}

func (s *notifierStub) EmitAdminWarning(_ context.Context, _ int64, message string) error {
	s.warnings = append(s.warnings, message)
	return nil
}

func (s *notifierStub) Announce(_ context.Context, _, _ string) (int64, error) {
	s.announced++
	return 42, nil
}

func TestBanRevokesSessions(t *testing.T) {
	store := newStoreStub()
	revoker := &revokerStub{}
	svc := NewService(store, revoker, nil)

	if err := svc.Ban(context.Background(), 7); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !store.banned[7] {
		t.Fatalf("user was not banned")
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != 7 {
		t.Fatalf("sessions were not revoked: %v", revoker.revoked)
	}

	if err := svc.Unban(context.Background(), 7); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if store.banned[7] {
		t.Fatalf("user is still banned")
	}
}

func TestWarnIncrementsAndNotifies(t *testing.T) {
	store := newStoreStub()
	notifier := &notifierStub{}
	svc := NewService(store, nil, notifier)

	count, err := svc.Warn(context.Background(), 3, "tone it down")
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected warning count 1, got %d", count)
	}
	if len(notifier.warnings) != 1 || notifier.warnings[0] != "tone it down" {
		t.Fatalf("warning notification missing: %v", notifier.warnings)
	}

	if _, err := svc.Warn(context.Background(), 3, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank warning should fail validation, got %v", err)
	}
}

func TestActionsOnMissingUser(t *testing.T) {
	store := newStoreStub()
	store.missing = true
	svc := NewService(store, nil, nil)

	if err := svc.Ban(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ban missing user should be not found, got %v", err)
	}
	if err := svc.Suspend(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("suspend missing user should be not found, got %v", err)
	}
	if _, err := svc.Warn(context.Background(), 1, "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("warn missing user should be not found, got %v", err)
	}
}

func TestAnnounceRequiresTitle(t *testing.T) {
	notifier := &notifierStub{}
	svc := NewService(newStoreStub(), nil, notifier)

	if _, err := svc.Announce(context.Background(), " ", "body"); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank title should fail validation, got %v", err)
	}

	count, err := svc.Announce(context.Background(), "Maintenance", "tonight")
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if count != 42 || notifier.announced != 1 {
		t.Fatalf("unexpected announce result count=%d calls=%d", count, notifier.announced)
	}
}
