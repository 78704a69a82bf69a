package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPrivacyNotFound = errors.New("privacy settings not found")

type PrivacyRepo struct {
	pool *pgxpool.Pool
}

type PrivacyRecord struct {
	UserID         int64
	ProfileVisible bool
	SelectiveMode  bool
	UpdatedAt      time.Time
}

func NewPrivacyRepo(pool *pgxpool.Pool) *PrivacyRepo {
	return &PrivacyRepo{pool: pool}
}

func (r *PrivacyRepo) Upsert(ctx context.Context, userID int64, profileVisible, selectiveMode bool) (PrivacyRecord, error) {
	if r.pool == nil {
		return PrivacyRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return PrivacyRecord{}, fmt.Errorf("invalid user id")
	}

	var rec PrivacyRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO privacy_settings (user_id, profile_visible, selective_mode, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	profile_visible = EXCLUDED.profile_visible,
	selective_mode = EXCLUDED.selective_mode,
	updated_at = NOW()
RETURNING user_id, profile_visible, selective_mode, updated_at
`, userID, profileVisible, selectiveMode).Scan(
		&rec.UserID,
		&rec.ProfileVisible,
		&rec.SelectiveMode,
		&rec.UpdatedAt,
	)
	if err != nil {
		return PrivacyRecord{}, fmt.Errorf("upsert privacy settings: %w", err)
	}

	return rec, nil
}

// GetByUser returns ErrPrivacyNotFound when no row exists; absence means
// visible and non-selective.
func (r *PrivacyRepo) GetByUser(ctx context.Context, userID int64) (PrivacyRecord, error) {
	if r.pool == nil {
		return PrivacyRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return PrivacyRecord{}, fmt.Errorf("invalid user id")
	}

	var rec PrivacyRecord
	err := r.pool.QueryRow(ctx, `
SELECT user_id, profile_visible, selective_mode, updated_at
FROM privacy_settings
WHERE user_id = $1
`, userID).Scan(
		&rec.UserID,
		&rec.ProfileVisible,
		&rec.SelectiveMode,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PrivacyRecord{}, ErrPrivacyNotFound
		}
		return PrivacyRecord{}, fmt.Errorf("get privacy settings: %w", err)
	}

	return rec, nil
}
