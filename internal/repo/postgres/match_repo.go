package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID            int64
	UserAID       int64
	UserBID       int64
	CreatedAt     time.Time
	LastMessageAt *time.Time
	UnreadA       int
	UnreadB       int
}

type MatchListRecord struct {
	ID            int64
	TargetUserID  int64
	DisplayName   string
	City          string
	CreatedAt     time.Time
	LastMessageAt *time.Time
	Unread        int
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateForPair inserts the match for the unordered pair. The ordered
// (user_a_id, user_b_id) uniqueness constraint guarantees at most one
// match per pair no matter which side's like landed second.
func (r *MatchRepo) CreateForPair(ctx context.Context, tx pgx.Tx, userID, targetID int64) (int64, bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return 0, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return 0, false, fmt.Errorf("transaction is required")
	}

	userA, userB := orderPair(userID, targetID)

	var matchID int64
	err := tx.QueryRow(ctx, `
INSERT INTO matches (user_a_id, user_b_id, created_at, unread_a, unread_b)
VALUES ($1, $2, NOW(), 0, 0)
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id
`, userA, userB).Scan(&matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("create match: %w", err)
	}

	return matchID, true, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID int64) (MatchRecord, error) {
	if r.pool == nil {
		return MatchRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 {
		return MatchRecord{}, fmt.Errorf("invalid match id")
	}

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, created_at, last_message_at, unread_a, unread_b
FROM matches
WHERE id = $1
`, matchID).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.CreatedAt,
		&rec.LastMessageAt,
		&rec.UnreadA,
		&rec.UnreadB,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match: %w", err)
	}

	return rec, nil
}

func (r *MatchRepo) GetByUsers(ctx context.Context, userID, targetID int64) (MatchRecord, error) {
	if r.pool == nil {
		return MatchRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || targetID <= 0 {
		return MatchRecord{}, fmt.Errorf("invalid match lookup payload")
	}

	userA, userB := orderPair(userID, targetID)

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, created_at, last_message_at, unread_a, unread_b
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
`, userA, userB).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.CreatedAt,
		&rec.LastMessageAt,
		&rec.UnreadA,
		&rec.UnreadB,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match by users: %w", err)
	}

	return rec, nil
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]MatchListRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []MatchListRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END AS target_user_id,
	COALESCE(p.display_name, ''),
	COALESCE(p.city, ''),
	m.created_at,
	m.last_message_at,
	CASE WHEN m.user_a_id = $1 THEN m.unread_a ELSE m.unread_b END AS unread
FROM matches m
JOIN profiles p ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE
	(m.user_a_id = $1 OR m.user_b_id = $1)
	AND NOT EXISTS (
		SELECT 1
		FROM blocks b
		WHERE b.actor_user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
			AND b.target_user_id = $1
	)
ORDER BY COALESCE(m.last_message_at, m.created_at) DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchListRecord, 0, limit)
	for rows.Next() {
		var item MatchListRecord
		if err := rows.Scan(
			&item.ID,
			&item.TargetUserID,
			&item.DisplayName,
			&item.City,
			&item.CreatedAt,
			&item.LastMessageAt,
			&item.Unread,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}

// DeleteByUsers removes the pair's match and returns the deleted match id so
// callers can clear the thread in the same transaction.
func (r *MatchRepo) DeleteByUsers(ctx context.Context, tx pgx.Tx, userID, targetID int64) (int64, bool, error) {
	if userID <= 0 || targetID <= 0 {
		return 0, false, fmt.Errorf("invalid match delete payload")
	}
	if tx == nil {
		return 0, false, fmt.Errorf("transaction is required")
	}

	userA, userB := orderPair(userID, targetID)

	var matchID int64
	err := tx.QueryRow(ctx, `
DELETE FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
RETURNING id
`, userA, userB).Scan(&matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("delete match: %w", err)
	}

	return matchID, true, nil
}

// RecordMessage bumps last_message_at and the recipient's unread counter.
func (r *MatchRepo) RecordMessage(ctx context.Context, tx pgx.Tx, matchID, senderUserID int64, at time.Time) error {
	if matchID <= 0 || senderUserID <= 0 {
		return fmt.Errorf("invalid message bookkeeping payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	result, err := tx.Exec(ctx, `
UPDATE matches
SET
	last_message_at = $3,
	unread_a = CASE WHEN user_a_id = $2 THEN unread_a ELSE unread_a + 1 END,
	unread_b = CASE WHEN user_b_id = $2 THEN unread_b ELSE unread_b + 1 END
WHERE id = $1
`, matchID, senderUserID, at.UTC())
	if err != nil {
		return fmt.Errorf("record message on match: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

// ClearUnread zeroes the reader's side of the unread counter.
func (r *MatchRepo) ClearUnread(ctx context.Context, tx pgx.Tx, matchID, readerUserID int64) error {
	if matchID <= 0 || readerUserID <= 0 {
		return fmt.Errorf("invalid unread payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE matches
SET
	unread_a = CASE WHEN user_a_id = $2 THEN 0 ELSE unread_a END,
	unread_b = CASE WHEN user_b_id = $2 THEN 0 ELSE unread_b END
WHERE id = $1
`, matchID, readerUserID); err != nil {
		return fmt.Errorf("clear unread counter: %w", err)
	}

	return nil
}

func orderPair(userID, targetID int64) (int64, int64) {
	if userID > targetID {
		return targetID, userID
	}
	return userID, targetID
}
