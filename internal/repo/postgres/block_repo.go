package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlockRepo struct {
	pool *pgxpool.Pool
}

func NewBlockRepo(pool *pgxpool.Pool) *BlockRepo {
	return &BlockRepo{pool: pool}
}

func (r *BlockRepo) Upsert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, reason string) error {
	if actorUserID <= 0 || targetUserID <= 0 || actorUserID == targetUserID {
		return fmt.Errorf("invalid block payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO blocks (actor_user_id, target_user_id, reason, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (actor_user_id, target_user_id) DO UPDATE SET
	reason = EXCLUDED.reason
`, actorUserID, targetUserID, strings.TrimSpace(reason)); err != nil {
		return fmt.Errorf("upsert block: %w", err)
	}

	return nil
}

func (r *BlockRepo) Delete(ctx context.Context, actorUserID, targetUserID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid block delete payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM blocks
WHERE actor_user_id = $1 AND target_user_id = $2
`, actorUserID, targetUserID)
	if err != nil {
		return false, fmt.Errorf("delete block: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ExistsBetween reports a block in either direction.
func (r *BlockRepo) ExistsBetween(ctx context.Context, userID, otherID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || otherID <= 0 {
		return false, fmt.Errorf("invalid block lookup payload")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM blocks
WHERE (actor_user_id = $1 AND target_user_id = $2)
	OR (actor_user_id = $2 AND target_user_id = $1)
LIMIT 1
`, userID, otherID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup block: %w", err)
	}

	return true, nil
}
