package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

const (
	maxTitleLength       = 120
	maxDescriptionLength = 2000
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("event not found")
	ErrAlreadyJoined = errors.New("already joined")
	ErrNotJoined     = errors.New("not joined")
)

type Store interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	ListUpcoming(ctx context.Context, viewerID int64, city string, now time.Time, limit, offset int) ([]pgrepo.EventDetails, error)
	GetByID(ctx context.Context, viewerID, eventID int64) (*pgrepo.EventDetails, error)
	Join(ctx context.Context, eventID, userID int64) (bool, error)
	Leave(ctx context.Context, eventID, userID int64) (bool, error)
	Exists(ctx context.Context, eventID int64) (bool, error)
}

type Announcer interface {
	AnnounceEvent(ctx context.Context, eventID int64, title, message string) (int64, error)
}

type Service struct {
	store     Store
	announcer Announcer
	log       *zap.Logger
	now       func() time.Time
}

func NewService(store Store, announcer Announcer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store:     store,
		announcer: announcer,
		log:       log,
		now:       time.Now,
	}
}

// Create stores an admin-authored event and fans out an event notification
// to all active users. Fan-out failure is logged, the event stands.
func (s *Service) Create(ctx context.Context, createdBy int64, title, description, city, location string, startsAt time.Time) (*model.Event, error) {
	if s.store == nil {
		return nil, fmt.Errorf("event store is not configured")
	}
	if createdBy <= 0 {
		return nil, ErrValidation
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || len(title) > maxTitleLength || len(description) > maxDescriptionLength {
		return nil, ErrValidation
	}
	if startsAt.IsZero() || startsAt.Before(s.now().UTC()) {
		return nil, ErrValidation
	}

	event, err := s.store.Create(ctx, &model.Event{
		Title:       title,
		Description: description,
		City:        strings.TrimSpace(city),
		Location:    strings.TrimSpace(location),
		StartsAt:    startsAt.UTC(),
		CreatedBy:   createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if s.announcer != nil {
		if _, err := s.announcer.AnnounceEvent(ctx, event.ID, event.Title, event.Description); err != nil {
			s.log.Warn("event announcement failed",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
		}
	}

	return event, nil
}

func (s *Service) ListUpcoming(ctx context.Context, viewerID int64, city string, limit, offset int) ([]pgrepo.EventDetails, error) {
	if viewerID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return []pgrepo.EventDetails{}, nil
	}
	return s.store.ListUpcoming(ctx, viewerID, strings.TrimSpace(city), s.now().UTC(), limit, offset)
}

func (s *Service) Get(ctx context.Context, viewerID, eventID int64) (*pgrepo.EventDetails, error) {
	if viewerID <= 0 || eventID <= 0 {
		return nil, ErrValidation
	}

	details, err := s.store.GetByID(ctx, viewerID, eventID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrEventNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return details, nil
}

func (s *Service) Join(ctx context.Context, eventID, userID int64) error {
	if eventID <= 0 || userID <= 0 {
		return ErrValidation
	}

	exists, err := s.store.Exists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	joined, err := s.store.Join(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !joined {
		return ErrAlreadyJoined
	}
	return nil
}

func (s *Service) Leave(ctx context.Context, eventID, userID int64) error {
	if eventID <= 0 || userID <= 0 {
		return ErrValidation
	}

	left, err := s.store.Leave(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !left {
		return ErrNotJoined
	}
	return nil
}
