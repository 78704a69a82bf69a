package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olegbarkov/amora/internal/domain/model"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, tx pgx.Tx, matchID, senderUserID int64, body string) (*model.Message, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is required")
	}
	if matchID <= 0 || senderUserID <= 0 || body == "" {
		return nil, fmt.Errorf("invalid message payload")
	}

	msg := &model.Message{
		MatchID:      matchID,
		SenderUserID: senderUserID,
		Body:         body,
	}
	err := tx.QueryRow(ctx, `
INSERT INTO messages (match_id, sender_user_id, body, read, created_at)
VALUES ($1, $2, $3, FALSE, NOW())
RETURNING id, read, created_at
`, matchID, senderUserID, body).Scan(&msg.ID, &msg.Read, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

// ListByMatch pages a thread newest-first with a keyset anchored on the id of
// the last message the caller has already seen.
func (r *MessageRepo) ListByMatch(ctx context.Context, matchID int64, beforeID int64, limit int) ([]model.Message, error) {
	if r.pool == nil {
		return []model.Message{}, nil
	}
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
SELECT id, match_id, sender_user_id, body, read, created_at
FROM messages
WHERE match_id = $1
`
	args := []any{matchID}
	if beforeID > 0 {
		query += " AND id < $2"
		args = append(args, beforeID)
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT %d", limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	items := make([]model.Message, 0, limit)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.MatchID, &m.SenderUserID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return items, nil
}

// MarkReadByMatch marks every message the counterpart sent in the thread,
// returning how many flipped.
func (r *MessageRepo) MarkReadByMatch(ctx context.Context, tx pgx.Tx, matchID, readerUserID int64) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if matchID <= 0 || readerUserID <= 0 {
		return 0, fmt.Errorf("invalid mark read payload")
	}

	result, err := tx.Exec(ctx, `
UPDATE messages
SET read = TRUE
WHERE match_id = $1 AND sender_user_id <> $2 AND read = FALSE
`, matchID, readerUserID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByMatch clears a thread when the match is dissolved.
func (r *MessageRepo) DeleteByMatch(ctx context.Context, tx pgx.Tx, matchID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if matchID <= 0 {
		return fmt.Errorf("invalid match id")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	return nil
}
