package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olegbarkov/amora/internal/domain/model"
)

var ErrEventNotFound = errors.New("event not found")

// EventDetails is an event together with its attendance figures for one viewer.
type EventDetails struct {
	model.Event
	AttendeeCount int  `json:"attendee_count"`
	ViewerJoined  bool `json:"viewer_joined"`
}

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if e == nil || e.Title == "" || e.StartsAt.IsZero() || e.CreatedBy <= 0 {
		return nil, fmt.Errorf("invalid event payload")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO events (title, description, city, location, starts_at, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING id, created_at
`, e.Title, e.Description, e.City, e.Location, e.StartsAt, e.CreatedBy).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return e, nil
}

// ListUpcoming returns events starting at or after now, soonest first,
// optionally narrowed to one city.
func (r *EventRepo) ListUpcoming(ctx context.Context, viewerID int64, city string, now time.Time, limit, offset int) ([]EventDetails, error) {
	if r.pool == nil {
		return []EventDetails{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT e.id, e.title, e.description, e.city, e.location, e.starts_at, e.created_by, e.created_at,
	(SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) AS attendee_count,
	EXISTS (SELECT 1 FROM event_attendees a WHERE a.event_id = e.id AND a.user_id = $1) AS viewer_joined
FROM events e
WHERE e.starts_at >= $2
`
	args := []any{viewerID, now}
	if city != "" {
		query += " AND e.city = $3"
		args = append(args, city)
	}
	query += fmt.Sprintf(" ORDER BY e.starts_at ASC, e.id ASC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	items := make([]EventDetails, 0, limit)
	for rows.Next() {
		var d EventDetails
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Description, &d.City, &d.Location, &d.StartsAt, &d.CreatedBy, &d.CreatedAt,
			&d.AttendeeCount, &d.ViewerJoined,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return items, nil
}

func (r *EventRepo) GetByID(ctx context.Context, viewerID, eventID int64) (*EventDetails, error) {
	if r.pool == nil {
		return nil, ErrEventNotFound
	}
	if eventID <= 0 {
		return nil, fmt.Errorf("invalid event id")
	}

	var d EventDetails
	err := r.pool.QueryRow(ctx, `
SELECT e.id, e.title, e.description, e.city, e.location, e.starts_at, e.created_by, e.created_at,
	(SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) AS attendee_count,
	EXISTS (SELECT 1 FROM event_attendees a WHERE a.event_id = e.id AND a.user_id = $1) AS viewer_joined
FROM events e
WHERE e.id = $2
`, viewerID, eventID).Scan(
		&d.ID, &d.Title, &d.Description, &d.City, &d.Location, &d.StartsAt, &d.CreatedBy, &d.CreatedAt,
		&d.AttendeeCount, &d.ViewerJoined,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &d, nil
}

// Join registers attendance; a repeat join reports false without erroring.
func (r *EventRepo) Join(ctx context.Context, eventID, userID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if eventID <= 0 || userID <= 0 {
		return false, fmt.Errorf("invalid join payload")
	}

	result, err := r.pool.Exec(ctx, `
INSERT INTO event_attendees (event_id, user_id, joined_at)
VALUES ($1, $2, NOW())
ON CONFLICT (event_id, user_id) DO NOTHING
`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("join event: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *EventRepo) Leave(ctx context.Context, eventID, userID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if eventID <= 0 || userID <= 0 {
		return false, fmt.Errorf("invalid leave payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM event_attendees
WHERE event_id = $1 AND user_id = $2
`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("leave event: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *EventRepo) Exists(ctx context.Context, eventID int64) (bool, error) {
	if r.pool == nil {
		return false, nil
	}
	if eventID <= 0 {
		return false, fmt.Errorf("invalid event id")
	}

	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM events WHERE id = $1`, eventID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup event: %w", err)
	}

	return true, nil
}
