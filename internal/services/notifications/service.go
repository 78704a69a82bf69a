package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/olegbarkov/amora/internal/domain/enums"
	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("notification not found")
)

type Store interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	CreateForAllActiveUsers(ctx context.Context, typ enums.NotificationType, title, message string, relatedEventID *int64) (int64, error)
	ListForUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, notificationID int64) error
}

// Sink pushes a persisted notification to an external delivery channel.
type Sink interface {
	Deliver(ctx context.Context, n model.Notification) error
}

// NameLookup resolves a user's profile so notification copy can address the
// recipient by the other side's display name.
type NameLookup interface {
	GetByUser(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type Service struct {
	store Store
	sink  Sink
	names NameLookup
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, sink Sink, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store: store,
		sink:  sink,
		log:   log,
		now:   time.Now,
	}
}

// AttachNames wires an optional profile lookup used to personalize
// notification copy.
func (s *Service) AttachNames(names NameLookup) {
	s.names = names
}

// Emit persists the notification, then attempts external delivery.
// Delivery failure is logged and swallowed: the inbox row is the source
// of truth.
func (s *Service) Emit(ctx context.Context, n model.Notification) (*model.Notification, error) {
	if s.store == nil {
		return nil, fmt.Errorf("notification store is nil")
	}
	if n.UserID <= 0 || n.Type == "" {
		return nil, ErrValidation
	}

	saved, err := s.store.Create(ctx, &n)
	if err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	s.deliver(ctx, *saved)
	return saved, nil
}

func (s *Service) EmitLike(ctx context.Context, recipientID, actorID int64, kind enums.InteractionKind) error {
	typ := enums.NotificationLike
	title := "Someone liked you"
	if kind == enums.InteractionSuperLike {
		typ = enums.NotificationSuperLike
		title = "Someone super liked you"
	}

	_, err := s.Emit(ctx, model.Notification{
		UserID:        recipientID,
		Type:          typ,
		Title:         title,
		RelatedUserID: &actorID,
	})
	return err
}

func (s *Service) EmitMatch(ctx context.Context, matchID, userAID, userBID int64) error {
	pairs := [2][2]int64{{userAID, userBID}, {userBID, userAID}}
	for _, pair := range pairs {
		recipient, counterpart := pair[0], pair[1]
		other := counterpart

		message := "You have a new match"
		if name := s.displayName(ctx, counterpart); name != "" {
			message = fmt.Sprintf("You and %s matched!", name)
		}

		if _, err := s.Emit(ctx, model.Notification{
			UserID:         recipient,
			Type:           enums.NotificationMatch,
			Title:          "It's a match",
			Message:        message,
			RelatedUserID:  &other,
			RelatedMatchID: &matchID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// displayName resolves a counterpart's display name for notification copy.
// Lookup failures degrade to the impersonal wording.
func (s *Service) displayName(ctx context.Context, userID int64) string {
	if s.names == nil {
		return ""
	}
	rec, err := s.names.GetByUser(ctx, userID)
	if err != nil {
		s.log.Debug("notification name lookup failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return ""
	}
	return strings.TrimSpace(rec.DisplayName)
}

func (s *Service) EmitMessage(ctx context.Context, recipientID, senderID, matchID int64) error {
	_, err := s.Emit(ctx, model.Notification{
		UserID:         recipientID,
		Type:           enums.NotificationMessage,
		Title:          "New message",
		RelatedUserID:  &senderID,
		RelatedMatchID: &matchID,
	})
	return err
}

func (s *Service) EmitAdminWarning(ctx context.Context, userID int64, message string) error {
	_, err := s.Emit(ctx, model.Notification{
		UserID:  userID,
		Type:    enums.NotificationAdmin,
		Title:   "Moderation notice",
		Message: message,
	})
	return err
}

// Announce fans an announcement out to every active user.
func (s *Service) Announce(ctx context.Context, title, message string) (int64, error) {
	if s.store == nil {
		return 0, fmt.Errorf("notification store is nil")
	}
	if title == "" {
		return 0, ErrValidation
	}

	count, err := s.store.CreateForAllActiveUsers(ctx, enums.NotificationAnnouncement, title, message, nil)
	if err != nil {
		return 0, fmt.Errorf("fan out announcement: %w", err)
	}
	return count, nil
}

func (s *Service) AnnounceEvent(ctx context.Context, eventID int64, title, message string) (int64, error) {
	if s.store == nil {
		return 0, fmt.Errorf("notification store is nil")
	}
	if eventID <= 0 || title == "" {
		return 0, ErrValidation
	}

	count, err := s.store.CreateForAllActiveUsers(ctx, enums.NotificationEvent, title, message, &eventID)
	if err != nil {
		return 0, fmt.Errorf("fan out event notification: %w", err)
	}
	return count, nil
}

func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return []model.Notification{}, nil
	}
	return s.store.ListForUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, ErrValidation
	}
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if userID <= 0 || notificationID <= 0 {
		return ErrValidation
	}
	if err := s.store.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, pgrepo.ErrNotificationNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrValidation
	}
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, notificationID int64) error {
	if userID <= 0 || notificationID <= 0 {
		return ErrValidation
	}
	if err := s.store.Delete(ctx, userID, notificationID); err != nil {
		if errors.Is(err, pgrepo.ErrNotificationNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, n model.Notification) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Deliver(ctx, n); err != nil {
		s.log.Warn("notification delivery failed",
			zap.Int64("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err),
		)
	}
}
