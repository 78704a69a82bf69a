package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrAlreadyInteracted   = errors.New("already interacted with this user")
)

type InteractionRepo struct {
	pool *pgxpool.Pool
}

type InteractionRecord struct {
	ID         int64
	FromUserID int64
	ToUserID   int64
	Kind       string
	CreatedAt  time.Time
}

type LikedProfileRecord struct {
	UserID      int64
	DisplayName string
	City        string
	Kind        string
	LikedAt     time.Time
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

// LockPair takes a transaction-scoped advisory lock on the unordered user
// pair. The uniqueness constraint on interactions is directional, so two
// concurrent mutual likes never conflict on it; the pair lock serializes
// them so the second transaction sees the first one's reciprocal like.
func (r *InteractionRepo) LockPair(ctx context.Context, tx pgx.Tx, userID, targetID int64) error {
	if userID <= 0 || targetID <= 0 {
		return fmt.Errorf("invalid pair lock payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	_, err := tx.Exec(ctx, `
SELECT pg_advisory_xact_lock(
	hashtextextended(LEAST($1::bigint, $2::bigint)::text || ':' || GREATEST($1::bigint, $2::bigint)::text, 0)
)
`, userID, targetID)
	if err != nil {
		return fmt.Errorf("lock interaction pair: %w", err)
	}
	return nil
}

// Create inserts the directional record. The (from_user_id, to_user_id)
// uniqueness constraint makes a repeated action in the same direction
// ErrAlreadyInteracted regardless of kind.
func (r *InteractionRepo) Create(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64, kind string) (InteractionRecord, error) {
	if fromUserID <= 0 || toUserID <= 0 || fromUserID == toUserID {
		return InteractionRecord{}, fmt.Errorf("invalid interaction payload")
	}
	if tx == nil {
		return InteractionRecord{}, fmt.Errorf("transaction is required")
	}

	var rec InteractionRecord
	err := tx.QueryRow(ctx, `
INSERT INTO interactions (from_user_id, to_user_id, kind, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (from_user_id, to_user_id) DO NOTHING
RETURNING id, from_user_id, to_user_id, kind, created_at
`, fromUserID, toUserID, strings.ToLower(strings.TrimSpace(kind))).Scan(
		&rec.ID,
		&rec.FromUserID,
		&rec.ToUserID,
		&rec.Kind,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InteractionRecord{}, ErrAlreadyInteracted
		}
		return InteractionRecord{}, fmt.Errorf("create interaction: %w", err)
	}

	return rec, nil
}

// ReverseLikeExists reports whether target has already liked or super-liked
// the viewer. Must run inside the same transaction as Create so the
// like->match transition is atomic.
func (r *InteractionRepo) ReverseLikeExists(ctx context.Context, tx pgx.Tx, viewerID, targetID int64) (bool, error) {
	if viewerID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid interaction lookup payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM interactions
WHERE from_user_id = $1 AND to_user_id = $2 AND kind IN ('like', 'superlike')
LIMIT 1
`, targetID, viewerID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}

// DeleteLike removes a like or superlike edge. Pass records are not
// deletable through this path.
func (r *InteractionRepo) DeleteLike(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64) (bool, error) {
	if fromUserID <= 0 || toUserID <= 0 {
		return false, fmt.Errorf("invalid interaction delete payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM interactions
WHERE from_user_id = $1 AND to_user_id = $2 AND kind IN ('like', 'superlike')
`, fromUserID, toUserID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListLiked returns profiles the user has liked or super-liked; pass
// records never appear here.
func (r *InteractionRepo) ListLiked(ctx context.Context, userID int64, limit int) ([]LikedProfileRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []LikedProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	i.to_user_id,
	COALESCE(p.display_name, ''),
	COALESCE(p.city, ''),
	i.kind,
	i.created_at
FROM interactions i
JOIN profiles p ON p.user_id = i.to_user_id
WHERE i.from_user_id = $1 AND i.kind IN ('like', 'superlike')
ORDER BY i.created_at DESC, i.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list liked profiles: %w", err)
	}
	defer rows.Close()

	items := make([]LikedProfileRecord, 0, limit)
	for rows.Next() {
		var rec LikedProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.DisplayName,
			&rec.City,
			&rec.Kind,
			&rec.LikedAt,
		); err != nil {
			return nil, fmt.Errorf("scan liked profile: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate liked profiles: %w", rows.Err())
	}

	return items, nil
}

// ListIncoming returns profiles that liked the user, excluding blocked pairs.
func (r *InteractionRepo) ListIncoming(ctx context.Context, userID int64, limit int) ([]LikedProfileRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []LikedProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	i.from_user_id,
	COALESCE(p.display_name, ''),
	COALESCE(p.city, ''),
	i.kind,
	i.created_at
FROM interactions i
JOIN profiles p ON p.user_id = i.from_user_id
WHERE
	i.to_user_id = $1
	AND i.kind IN ('like', 'superlike')
	AND NOT EXISTS (
		SELECT 1
		FROM blocks b
		WHERE (b.actor_user_id = i.from_user_id AND b.target_user_id = $1)
			OR (b.actor_user_id = $1 AND b.target_user_id = i.from_user_id)
	)
ORDER BY i.created_at DESC, i.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incoming likes: %w", err)
	}
	defer rows.Close()

	items := make([]LikedProfileRecord, 0, limit)
	for rows.Next() {
		var rec LikedProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.DisplayName,
			&rec.City,
			&rec.Kind,
			&rec.LikedAt,
		); err != nil {
			return nil, fmt.Errorf("scan incoming like: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate incoming likes: %w", rows.Err())
	}

	return items, nil
}
