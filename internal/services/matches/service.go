package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("match not found")
	ErrUserGone   = errors.New("user not found")
)

type MatchStore interface {
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchListRecord, error)
	DeleteByUsers(ctx context.Context, tx pgx.Tx, userID, targetID int64) (int64, bool, error)
}

type MessageStore interface {
	DeleteByMatch(ctx context.Context, tx pgx.Tx, matchID int64) error
}

type BlockStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, reason string) error
	Delete(ctx context.Context, actorUserID, targetUserID int64) (bool, error)
}

type UserStore interface {
	Exists(ctx context.Context, tx pgx.Tx, userID int64) (bool, error)
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Matches  MatchStore
	Messages MessageStore
	Blocks   BlockStore
	Users    UserStore
}

type Service struct {
	pool     *pgxpool.Pool
	matches  MatchStore
	messages MessageStore
	blocks   BlockStore
	users    UserStore
	now      func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		pool:     deps.Pool,
		matches:  deps.Matches,
		messages: deps.Messages,
		blocks:   deps.Blocks,
		users:    deps.Users,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchListRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matches == nil {
		return []pgrepo.MatchListRecord{}, nil
	}
	return s.matches.ListForUser(ctx, userID, limit)
}

// Unmatch dissolves the pair's match and its thread. Both interaction rows
// survive, so neither side reappears in the other's feed.
func (s *Service) Unmatch(ctx context.Context, userID, targetID int64) error {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return ErrValidation
	}
	if s.pool == nil || s.matches == nil {
		return fmt.Errorf("match dependencies are not configured")
	}

	return pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		matchID, deleted, err := s.matches.DeleteByUsers(txCtx, tx, userID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		if s.messages != nil {
			if err := s.messages.DeleteByMatch(txCtx, tx, matchID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Block records the block and dissolves any match the pair had, in one
// transaction. Blocking is idempotent.
func (s *Service) Block(ctx context.Context, actorID, targetID int64, reason string) error {
	if actorID <= 0 || targetID <= 0 || actorID == targetID {
		return ErrValidation
	}
	if s.pool == nil || s.blocks == nil || s.matches == nil {
		return fmt.Errorf("match dependencies are not configured")
	}

	return pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if s.users != nil {
			exists, err := s.users.Exists(txCtx, tx, targetID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrUserGone
			}
		}

		if err := s.blocks.Upsert(txCtx, tx, actorID, targetID, reason); err != nil {
			return err
		}

		matchID, hadMatch, err := s.matches.DeleteByUsers(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if hadMatch && s.messages != nil {
			if err := s.messages.DeleteByMatch(txCtx, tx, matchID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Unblock(ctx context.Context, actorID, targetID int64) error {
	if actorID <= 0 || targetID <= 0 || actorID == targetID {
		return ErrValidation
	}
	if s.blocks == nil {
		return fmt.Errorf("block store is not configured")
	}

	deleted, err := s.blocks.Delete(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
