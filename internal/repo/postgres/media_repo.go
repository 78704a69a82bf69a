package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olegbarkov/amora/internal/domain/model"
)

var ErrPhotoNotFound = errors.New("photo not found")

type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

func (r *MediaRepo) Create(ctx context.Context, p *model.Photo) (*model.Photo, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if p == nil || p.UserID <= 0 || p.ObjectKey == "" {
		return nil, fmt.Errorf("invalid photo payload")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO photos (user_id, object_key, content_type, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, created_at
`, p.UserID, p.ObjectKey, p.ContentType).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}

	return p, nil
}

func (r *MediaRepo) ListByUser(ctx context.Context, userID int64) ([]model.Photo, error) {
	if r.pool == nil {
		return []model.Photo{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, object_key, content_type, created_at
FROM photos
WHERE user_id = $1
ORDER BY created_at ASC, id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	items := make([]model.Photo, 0, 8)
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.ObjectKey, &p.ContentType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}

	return items, nil
}

func (r *MediaRepo) GetByID(ctx context.Context, userID, photoID int64) (*model.Photo, error) {
	if r.pool == nil {
		return nil, ErrPhotoNotFound
	}
	if userID <= 0 || photoID <= 0 {
		return nil, fmt.Errorf("invalid photo lookup payload")
	}

	var p model.Photo
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, object_key, content_type, created_at
FROM photos
WHERE id = $1 AND user_id = $2
`, photoID, userID).Scan(&p.ID, &p.UserID, &p.ObjectKey, &p.ContentType, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}

	return &p, nil
}

func (r *MediaRepo) Delete(ctx context.Context, userID, photoID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || photoID <= 0 {
		return fmt.Errorf("invalid photo delete payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM photos
WHERE id = $1 AND user_id = $2
`, photoID, userID)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}

	return nil
}
