package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID                 int64
	Email              string
	PasswordHash       string
	Role               string
	Banned             bool
	Suspended          bool
	WarningCount       int
	OnboardingComplete bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, role, created_at, updated_at)
VALUES ($1, $2, 'user', NOW(), NOW())
RETURNING id, email, password_hash, role, banned, suspended, warning_count, onboarding_complete, created_at, updated_at
`, email, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Banned,
		&user.Suspended,
		&user.WarningCount,
		&user.OnboardingComplete,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}

	return r.scanOne(ctx, `
SELECT id, email, password_hash, role, banned, suspended, warning_count, onboarding_complete, created_at, updated_at
FROM users
WHERE email = $1
`, email)
}

func (r *UserRepo) FindByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	return r.scanOne(ctx, `
SELECT id, email, password_hash, role, banned, suspended, warning_count, onboarding_complete, created_at, updated_at
FROM users
WHERE id = $1
`, userID)
}

func (r *UserRepo) Exists(ctx context.Context, tx pgx.Tx, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM users
WHERE id = $1 AND banned = FALSE
LIMIT 1
`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}

	return true, nil
}

func (r *UserRepo) SetBanned(ctx context.Context, userID int64, banned bool) error {
	return r.setFlag(ctx, userID, "banned", banned)
}

func (r *UserRepo) SetSuspended(ctx context.Context, userID int64, suspended bool) error {
	return r.setFlag(ctx, userID, "suspended", suspended)
}

func (r *UserRepo) IncrementWarnings(ctx context.Context, userID int64) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int
	err := r.pool.QueryRow(ctx, `
UPDATE users
SET warning_count = warning_count + 1, updated_at = NOW()
WHERE id = $1
RETURNING warning_count
`, userID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("increment user warnings: %w", err)
	}

	return count, nil
}

func (r *UserRepo) SetOnboardingComplete(ctx context.Context, userID int64, complete bool) error {
	return r.setFlag(ctx, userID, "onboarding_complete", complete)
}

func (r *UserRepo) List(ctx context.Context, emailQuery string, limit, offset int) ([]UserRecord, error) {
	if r.pool == nil {
		return []UserRecord{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(emailQuery)) + "%"
	rows, err := r.pool.Query(ctx, `
SELECT id, email, password_hash, role, banned, suspended, warning_count, onboarding_complete, created_at, updated_at
FROM users
WHERE email LIKE $1
ORDER BY id
LIMIT $2 OFFSET $3
`, pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]UserRecord, 0, limit)
	for rows.Next() {
		var user UserRecord
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		items = append(items, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}

	return items, nil
}

func (r *UserRepo) setFlag(ctx context.Context, userID int64, column string, value bool) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	query := fmt.Sprintf(`
UPDATE users
SET %s = $2, updated_at = NOW()
WHERE id = $1
`, column)
	result, err := r.pool.Exec(ctx, query, userID, value)
	if err != nil {
		return fmt.Errorf("set user %s: %w", column, err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (UserRecord, error) {
	var user UserRecord
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Banned,
		&user.Suspended,
		&user.WarningCount,
		&user.OnboardingComplete,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func scanUser(rows pgx.Rows, user *UserRecord) error {
	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Banned,
		&user.Suspended,
		&user.WarningCount,
		&user.OnboardingComplete,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return fmt.Errorf("scan user: %w", err)
	}
	return nil
}
