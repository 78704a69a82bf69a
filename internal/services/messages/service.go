package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

const maxBodyLength = 2000

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("match not found")
	ErrForbidden  = errors.New("not a participant of this match")
)

type MessageStore interface {
	Create(ctx context.Context, tx pgx.Tx, matchID, senderUserID int64, body string) (*model.Message, error)
	ListByMatch(ctx context.Context, matchID int64, beforeID int64, limit int) ([]model.Message, error)
	MarkReadByMatch(ctx context.Context, tx pgx.Tx, matchID, readerUserID int64) (int64, error)
}

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (pgrepo.MatchRecord, error)
	RecordMessage(ctx context.Context, tx pgx.Tx, matchID, senderUserID int64, at time.Time) error
	ClearUnread(ctx context.Context, tx pgx.Tx, matchID, readerUserID int64) error
}

type Notifier interface {
	EmitMessage(ctx context.Context, recipientID, senderID, matchID int64) error
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Messages MessageStore
	Matches  MatchStore
	Notifier Notifier
	Logger   *zap.Logger
}

type Service struct {
	pool     *pgxpool.Pool
	messages MessageStore
	matches  MatchStore
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		pool:     deps.Pool,
		messages: deps.Messages,
		matches:  deps.Matches,
		notifier: deps.Notifier,
		log:      log,
		now:      time.Now,
	}
}

// Send appends to the thread and bumps the recipient's unread counter in the
// same transaction. The message notification goes out after commit.
func (s *Service) Send(ctx context.Context, senderID, matchID int64, body string) (*model.Message, error) {
	if senderID <= 0 || matchID <= 0 {
		return nil, ErrValidation
	}
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxBodyLength {
		return nil, ErrValidation
	}
	if s.pool == nil || s.messages == nil || s.matches == nil {
		return nil, fmt.Errorf("message dependencies are not configured")
	}

	match, err := s.loadMatchFor(ctx, senderID, matchID)
	if err != nil {
		return nil, err
	}
	recipientID := counterpart(match, senderID)

	var saved *model.Message
	if err := pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		msg, err := s.messages.Create(txCtx, tx, matchID, senderID, body)
		if err != nil {
			return err
		}
		if err := s.matches.RecordMessage(txCtx, tx, matchID, senderID, msg.CreatedAt); err != nil {
			return err
		}
		saved = msg
		return nil
	}); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.EmitMessage(ctx, recipientID, senderID, matchID); err != nil {
			s.log.Warn("emit message notification failed",
				zap.Int64("match_id", matchID),
				zap.Error(err),
			)
		}
	}

	return saved, nil
}

func (s *Service) ListThread(ctx context.Context, userID, matchID, beforeID int64, limit int) ([]model.Message, error) {
	if userID <= 0 || matchID <= 0 {
		return nil, ErrValidation
	}
	if s.messages == nil || s.matches == nil {
		return []model.Message{}, nil
	}

	if _, err := s.loadMatchFor(ctx, userID, matchID); err != nil {
		return nil, err
	}

	return s.messages.ListByMatch(ctx, matchID, beforeID, limit)
}

// MarkThreadRead marks the counterpart's messages read and zeroes the
// caller's unread counter.
func (s *Service) MarkThreadRead(ctx context.Context, userID, matchID int64) (int64, error) {
	if userID <= 0 || matchID <= 0 {
		return 0, ErrValidation
	}
	if s.pool == nil || s.messages == nil || s.matches == nil {
		return 0, fmt.Errorf("message dependencies are not configured")
	}

	if _, err := s.loadMatchFor(ctx, userID, matchID); err != nil {
		return 0, err
	}

	var marked int64
	err := pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		count, err := s.messages.MarkReadByMatch(txCtx, tx, matchID, userID)
		if err != nil {
			return err
		}
		if err := s.matches.ClearUnread(txCtx, tx, matchID, userID); err != nil {
			return err
		}
		marked = count
		return nil
	})
	return marked, err
}

func (s *Service) loadMatchFor(ctx context.Context, userID, matchID int64) (pgrepo.MatchRecord, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return pgrepo.MatchRecord{}, ErrNotFound
		}
		return pgrepo.MatchRecord{}, err
	}
	if match.UserAID != userID && match.UserBID != userID {
		return pgrepo.MatchRecord{}, ErrForbidden
	}
	return match, nil
}

func counterpart(match pgrepo.MatchRecord, userID int64) int64 {
	if match.UserAID == userID {
		return match.UserBID
	}
	return match.UserAID
}
