package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olegbarkov/amora/internal/domain/enums"
	"github.com/olegbarkov/amora/internal/domain/model"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if n == nil || n.UserID <= 0 || n.Type == "" {
		return nil, fmt.Errorf("invalid notification payload")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO notifications (user_id, type, title, message, read, related_user_id, related_match_id, related_event_id, created_at)
VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, NOW())
RETURNING id, read, created_at
`, n.UserID, n.Type, n.Title, n.Message, n.RelatedUserID, n.RelatedMatchID, n.RelatedEventID).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}

	return n, nil
}

// CreateForAllActiveUsers fans one notification out to every user that is not
// banned, returning the number of rows written.
func (r *NotificationRepo) CreateForAllActiveUsers(ctx context.Context, typ enums.NotificationType, title, message string, relatedEventID *int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if typ == "" || title == "" {
		return 0, fmt.Errorf("invalid announcement payload")
	}

	result, err := r.pool.Exec(ctx, `
INSERT INTO notifications (user_id, type, title, message, read, related_event_id, created_at)
SELECT u.id, $1, $2, $3, FALSE, $4, NOW()
FROM users u
WHERE u.banned = FALSE
`, typ, title, message, relatedEventID)
	if err != nil {
		return 0, fmt.Errorf("insert announcement notifications: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	if r.pool == nil {
		return []model.Notification{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT id, user_id, type, title, message, read, related_user_id, related_match_id, related_event_id, created_at
FROM notifications
WHERE user_id = $1
`
	if unreadOnly {
		query += " AND read = FALSE"
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3"

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	items := make([]model.Notification, 0, limit)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read,
			&n.RelatedUserID, &n.RelatedMatchID, &n.RelatedEventID, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return items, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	if r.pool == nil {
		return 0, nil
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM notifications
WHERE user_id = $1 AND read = FALSE
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead flips one notification owned by userID; a foreign id reports not found.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || notificationID <= 0 {
		return fmt.Errorf("invalid mark read payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE notifications
SET read = TRUE
WHERE id = $1 AND user_id = $2
`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE notifications
SET read = TRUE
WHERE user_id = $1 AND read = FALSE
`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *NotificationRepo) Delete(ctx context.Context, userID, notificationID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || notificationID <= 0 {
		return fmt.Errorf("invalid delete payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM notifications
WHERE id = $1 AND user_id = $2
`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// DeleteLikeNotification removes the like/superlike notification a retracted
// interaction produced, keeping the recipient's inbox honest.
func (r *NotificationRepo) DeleteLikeNotification(ctx context.Context, tx pgx.Tx, recipientUserID, likerUserID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if recipientUserID <= 0 || likerUserID <= 0 {
		return fmt.Errorf("invalid like notification payload")
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM notifications
WHERE user_id = $1
	AND related_user_id = $2
	AND type IN ($3, $4)
`, recipientUserID, likerUserID, enums.NotificationLike, enums.NotificationSuperLike); err != nil {
		return fmt.Errorf("delete like notification: %w", err)
	}

	return nil
}

func (r *NotificationRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM notifications
WHERE read = TRUE AND created_at < $1
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale notifications: %w", err)
	}

	return result.RowsAffected(), nil
}
