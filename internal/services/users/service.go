package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("user not found")
)

type Store interface {
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	List(ctx context.Context, emailQuery string, limit, offset int) ([]pgrepo.UserRecord, error)
	SetBanned(ctx context.Context, userID int64, banned bool) error
	SetSuspended(ctx context.Context, userID int64, suspended bool) error
	IncrementWarnings(ctx context.Context, userID int64) (int, error)
}

type SessionRevoker interface {
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type Notifier interface {
	EmitAdminWarning(ctx context.Context, userID int64, message string) error
	Announce(ctx context.Context, title, message string) (int64, error)
}

type Service struct {
	store    Store
	sessions SessionRevoker
	notifier Notifier
	now      func() time.Time
}

func NewService(store Store, sessions SessionRevoker, notifier Notifier) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID int64) (pgrepo.UserRecord, error) {
	if userID <= 0 {
		return pgrepo.UserRecord{}, ErrValidation
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return pgrepo.UserRecord{}, ErrNotFound
		}
		return pgrepo.UserRecord{}, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, emailQuery string, limit, offset int) ([]pgrepo.UserRecord, error) {
	if s.store == nil {
		return []pgrepo.UserRecord{}, nil
	}
	return s.store.List(ctx, strings.TrimSpace(emailQuery), limit, offset)
}

// Ban flags the account and revokes every active session.
func (s *Service) Ban(ctx context.Context, userID int64) error {
	if err := s.setBanned(ctx, userID, true); err != nil {
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
	}
	return nil
}

func (s *Service) Unban(ctx context.Context, userID int64) error {
	return s.setBanned(ctx, userID, false)
}

func (s *Service) Suspend(ctx context.Context, userID int64) error {
	return s.setSuspended(ctx, userID, true)
}

func (s *Service) Unsuspend(ctx context.Context, userID int64) error {
	return s.setSuspended(ctx, userID, false)
}

// Warn increments the warning counter and tells the user why.
func (s *Service) Warn(ctx context.Context, userID int64, message string) (int, error) {
	if userID <= 0 {
		return 0, ErrValidation
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, ErrValidation
	}

	count, err := s.store.IncrementWarnings(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if s.notifier != nil {
		if err := s.notifier.EmitAdminWarning(ctx, userID, message); err != nil {
			return count, fmt.Errorf("emit warning notification: %w", err)
		}
	}

	return count, nil
}

func (s *Service) Announce(ctx context.Context, title, message string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, ErrValidation
	}
	if s.notifier == nil {
		return 0, fmt.Errorf("notifier is not configured")
	}
	return s.notifier.Announce(ctx, title, strings.TrimSpace(message))
}

func (s *Service) setBanned(ctx context.Context, userID int64, banned bool) error {
	if userID <= 0 {
		return ErrValidation
	}
	if err := s.store.SetBanned(ctx, userID, banned); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) setSuspended(ctx context.Context, userID int64, suspended bool) error {
	if userID <= 0 {
		return ErrValidation
	}
	if err := s.store.SetSuspended(ctx, userID, suspended); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
