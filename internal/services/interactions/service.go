package interactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/olegbarkov/amora/internal/domain/enums"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrTargetNotFound    = errors.New("target user not found")
	ErrAlreadyInteracted = errors.New("already interacted with this user")
	ErrLikeNotFound      = errors.New("like not found")
	ErrUnsupportedKind   = errors.New("unsupported interaction kind")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type InteractionStore interface {
	LockPair(ctx context.Context, tx pgx.Tx, userID, targetID int64) error
	Create(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64, kind string) (pgrepo.InteractionRecord, error)
	ReverseLikeExists(ctx context.Context, tx pgx.Tx, viewerID, targetID int64) (bool, error)
	DeleteLike(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64) (bool, error)
	ListLiked(ctx context.Context, userID int64, limit int) ([]pgrepo.LikedProfileRecord, error)
	ListIncoming(ctx context.Context, userID int64, limit int) ([]pgrepo.LikedProfileRecord, error)
}

type MatchStore interface {
	CreateForPair(ctx context.Context, tx pgx.Tx, userID, targetID int64) (int64, bool, error)
}

type UserStore interface {
	Exists(ctx context.Context, tx pgx.Tx, userID int64) (bool, error)
}

// TxRunner executes a function inside a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type NotificationCleaner interface {
	DeleteLikeNotification(ctx context.Context, tx pgx.Tx, recipientUserID, likerUserID int64) error
}

type Notifier interface {
	EmitLike(ctx context.Context, recipientID, actorID int64, kind enums.InteractionKind) error
	EmitMatch(ctx context.Context, matchID, userAID, userBID int64) error
}

type RateLimiter interface {
	AllowLike(ctx context.Context, userID int64) (int64, bool, error)
}

type Dependencies struct {
	Pool          *pgxpool.Pool
	Tx            TxRunner
	Interactions  InteractionStore
	Matches       MatchStore
	Users         UserStore
	Notifications NotificationCleaner
	Notifier      Notifier
	RateLimiter   RateLimiter
	Logger        *zap.Logger
}

type Service struct {
	tx            TxRunner
	interactions  InteractionStore
	matches       MatchStore
	users         UserStore
	notifications NotificationCleaner
	notifier      Notifier
	rateLimiter   RateLimiter
	log           *zap.Logger
	now           func() time.Time
}

type RecordResult struct {
	Kind         enums.InteractionKind
	MatchCreated bool
	MatchID      int64
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tx := deps.Tx
	if tx == nil && deps.Pool != nil {
		tx = pgrepo.PoolTxRunner{Pool: deps.Pool}
	}

	return &Service{
		tx:            tx,
		interactions:  deps.Interactions,
		matches:       deps.Matches,
		users:         deps.Users,
		notifications: deps.Notifications,
		notifier:      deps.Notifier,
		rateLimiter:   deps.RateLimiter,
		log:           log,
		now:           time.Now,
	}
}

// Record stores one directional swipe. The transaction first takes an
// advisory lock on the unordered user pair, so of two concurrent mutual
// likes one commits first and the other then sees its reciprocal row and
// creates the match exactly once.
func (s *Service) Record(ctx context.Context, actorID, targetID int64, kind string) (RecordResult, error) {
	if actorID <= 0 || targetID <= 0 || actorID == targetID {
		return RecordResult{}, ErrValidation
	}
	if s.tx == nil || s.interactions == nil || s.matches == nil || s.users == nil {
		return RecordResult{}, fmt.Errorf("interaction dependencies are not configured")
	}

	normalized, err := normalizeKind(kind)
	if err != nil {
		return RecordResult{}, err
	}

	if normalized.IsLike() && s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowLike(ctx, actorID)
		if err != nil {
			return RecordResult{}, fmt.Errorf("apply like rate limiter: %w", err)
		}
		if !allowed {
			return RecordResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	result := RecordResult{Kind: normalized}
	if err := s.tx.InTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.interactions.LockPair(txCtx, tx, actorID, targetID); err != nil {
			return err
		}

		exists, err := s.users.Exists(txCtx, tx, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTargetNotFound
		}

		if _, err := s.interactions.Create(txCtx, tx, actorID, targetID, string(normalized)); err != nil {
			if errors.Is(err, pgrepo.ErrAlreadyInteracted) {
				return ErrAlreadyInteracted
			}
			return err
		}

		if !normalized.IsLike() {
			return nil
		}

		mutual, err := s.interactions.ReverseLikeExists(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if !mutual {
			return nil
		}

		matchID, created, err := s.matches.CreateForPair(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		result.MatchCreated = created
		result.MatchID = matchID
		return nil
	}); err != nil {
		return RecordResult{}, err
	}

	s.notifyAfterRecord(ctx, actorID, targetID, result)
	return result, nil
}

// Unlike retracts a prior like and cleans up the stale like notification.
// The reciprocal like and any match the pair already formed stay in place;
// dissolving a match goes through unmatch or block.
func (s *Service) Unlike(ctx context.Context, actorID, targetID int64) error {
	if actorID <= 0 || targetID <= 0 || actorID == targetID {
		return ErrValidation
	}
	if s.tx == nil || s.interactions == nil {
		return fmt.Errorf("interaction dependencies are not configured")
	}

	return s.tx.InTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		deleted, err := s.interactions.DeleteLike(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrLikeNotFound
		}

		if s.notifications != nil {
			if err := s.notifications.DeleteLikeNotification(txCtx, tx, targetID, actorID); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *Service) ListLiked(ctx context.Context, userID int64, limit int) ([]pgrepo.LikedProfileRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.interactions == nil {
		return []pgrepo.LikedProfileRecord{}, nil
	}
	return s.interactions.ListLiked(ctx, userID, limit)
}

func (s *Service) ListIncoming(ctx context.Context, userID int64, limit int) ([]pgrepo.LikedProfileRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.interactions == nil {
		return []pgrepo.LikedProfileRecord{}, nil
	}
	return s.interactions.ListIncoming(ctx, userID, limit)
}

// notifyAfterRecord runs once the transaction has committed. Notification
// failures are logged, never surfaced: the swipe already happened.
func (s *Service) notifyAfterRecord(ctx context.Context, actorID, targetID int64, result RecordResult) {
	if s.notifier == nil || !result.Kind.IsLike() {
		return
	}

	if result.MatchCreated {
		if err := s.notifier.EmitMatch(ctx, result.MatchID, actorID, targetID); err != nil {
			s.log.Warn("emit match notification failed",
				zap.Int64("match_id", result.MatchID),
				zap.Error(err),
			)
		}
		return
	}

	if err := s.notifier.EmitLike(ctx, targetID, actorID, result.Kind); err != nil {
		s.log.Warn("emit like notification failed",
			zap.Int64("actor_id", actorID),
			zap.Int64("target_id", targetID),
			zap.Error(err),
		)
	}
}

func normalizeKind(kind string) (enums.InteractionKind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case string(enums.InteractionLike):
		return enums.InteractionLike, nil
	case string(enums.InteractionSuperLike):
		return enums.InteractionSuperLike, nil
	case string(enums.InteractionPass):
		return enums.InteractionPass, nil
	default:
		return "", ErrUnsupportedKind
	}
}
