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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	UserID      int64
	DisplayName string
	Gender      string
	LookingFor  []string
	Birthdate   *time.Time
	Bio         string
	City        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Upsert(ctx context.Context, rec ProfileRecord) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if rec.UserID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid profile payload")
	}

	var out ProfileRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO profiles (user_id, display_name, gender, looking_for, birthdate, bio, city, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	gender = EXCLUDED.gender,
	looking_for = EXCLUDED.looking_for,
	birthdate = EXCLUDED.birthdate,
	bio = EXCLUDED.bio,
	city = EXCLUDED.city,
	updated_at = NOW()
RETURNING user_id, display_name, COALESCE(gender, ''), looking_for, birthdate, COALESCE(bio, ''), COALESCE(city, ''), created_at, updated_at
`,
		rec.UserID,
		strings.TrimSpace(rec.DisplayName),
		strings.ToLower(strings.TrimSpace(rec.Gender)),
		normalizeLookingFor(rec.LookingFor),
		rec.Birthdate,
		rec.Bio,
		strings.TrimSpace(rec.City),
	).Scan(
		&out.UserID,
		&out.DisplayName,
		&out.Gender,
		&out.LookingFor,
		&out.Birthdate,
		&out.Bio,
		&out.City,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("upsert profile: %w", err)
	}

	return out, nil
}

func (r *ProfileRepo) GetByUser(ctx context.Context, userID int64) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT user_id, display_name, COALESCE(gender, ''), looking_for, birthdate, COALESCE(bio, ''), COALESCE(city, ''), created_at, updated_at
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&rec.UserID,
		&rec.DisplayName,
		&rec.Gender,
		&rec.LookingFor,
		&rec.Birthdate,
		&rec.Bio,
		&rec.City,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

func normalizeLookingFor(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
