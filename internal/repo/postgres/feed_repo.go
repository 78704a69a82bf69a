package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olegbarkov/amora/internal/domain/enums"
)

var ErrFeedViewerNotFound = errors.New("feed viewer profile not found")

// feedCandidatesQuery is the whole browse filter in one statement:
// the viewer and admins are excluded, candidates must be onboarded and in
// good standing, gender must match unless the viewer wants everyone,
// already-swiped and blocked pairs are removed by anti-join, hidden
// profiles by the privacy join, and selective profiles unless they already
// liked the viewer. Paging is keyset on (created_at, id).
const feedCandidatesQuery = `
SELECT
	u.id,
	p.display_name,
	COALESCE(p.gender, ''),
	COALESCE(p.city, ''),
	COALESCE(p.bio, ''),
	CASE
		WHEN p.birthdate IS NOT NULL
		THEN DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int
		ELSE NULL
	END AS age,
	u.created_at
FROM users u
JOIN profiles p ON p.user_id = u.id
LEFT JOIN privacy_settings ps ON ps.user_id = u.id
WHERE
	u.id <> $1
	AND u.onboarding_complete = TRUE
	AND u.banned = FALSE
	AND u.suspended = FALSE
	AND u.role <> 'admin'
	AND ($2::boolean = TRUE OR LOWER(COALESCE(p.gender, '')) = ANY($3::text[]))
	AND COALESCE(ps.profile_visible, TRUE) = TRUE
	AND NOT EXISTS (
		SELECT 1
		FROM interactions i
		WHERE i.from_user_id = $1
			AND i.to_user_id = u.id
	)
	AND NOT EXISTS (
		SELECT 1
		FROM blocks b
		WHERE (b.actor_user_id = $1 AND b.target_user_id = u.id)
			OR (b.actor_user_id = u.id AND b.target_user_id = $1)
	)
	AND (
		COALESCE(ps.selective_mode, FALSE) = FALSE
		OR EXISTS (
			SELECT 1
			FROM interactions rev
			WHERE rev.from_user_id = u.id
				AND rev.to_user_id = $1
				AND rev.kind IN ('like', 'superlike')
		)
	)
	AND (
		$4::boolean = FALSE
		OR u.created_at < $5::timestamptz
		OR (u.created_at = $5::timestamptz AND u.id < $6::bigint)
	)
ORDER BY u.created_at DESC, u.id DESC
LIMIT $7
`

type FeedRepo struct {
	pool *pgxpool.Pool
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

type FeedViewerContext struct {
	UserID     int64
	Gender     string
	LookingFor []string
	City       string
}

type FeedQuery struct {
	ViewerUserID     int64
	ViewerLookingFor []string
	HasCursor        bool
	CursorCreatedAt  time.Time
	CursorUserID     int64
	Limit            int
}

type FeedCandidate struct {
	UserID      int64
	DisplayName string
	Gender      string
	City        string
	Bio         string
	Age         *int
	CreatedAt   time.Time
}

func (r *FeedRepo) GetViewerContext(ctx context.Context, userID int64) (FeedViewerContext, error) {
	if userID <= 0 {
		return FeedViewerContext{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return FeedViewerContext{}, ErrFeedViewerNotFound
	}

	var viewer FeedViewerContext
	err := r.pool.QueryRow(ctx, `
SELECT user_id, COALESCE(gender, ''), looking_for, COALESCE(city, '')
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(&viewer.UserID, &viewer.Gender, &viewer.LookingFor, &viewer.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FeedViewerContext{}, ErrFeedViewerNotFound
		}
		return FeedViewerContext{}, fmt.Errorf("get feed viewer context: %w", err)
	}

	return viewer, nil
}

// ListCandidates runs feedCandidatesQuery for the viewer. A missing
// privacy row reads as visible and non-selective.
func (r *FeedRepo) ListCandidates(ctx context.Context, q FeedQuery) ([]FeedCandidate, error) {
	if q.ViewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if r.pool == nil {
		return []FeedCandidate{}, nil
	}

	wanted := normalizeGenders(q.ViewerLookingFor)
	wantsEveryone := len(wanted) == 0
	for _, g := range wanted {
		if g == string(enums.GenderEveryone) {
			wantsEveryone = true
			break
		}
	}
	cursorCreatedAt := q.CursorCreatedAt.UTC()
	if cursorCreatedAt.IsZero() {
		cursorCreatedAt = time.Unix(0, 0).UTC()
	}

	rows, err := r.pool.Query(ctx, feedCandidatesQuery,
		q.ViewerUserID,  // $1
		wantsEveryone,   // $2
		wanted,          // $3
		q.HasCursor,     // $4
		cursorCreatedAt, // $5
		q.CursorUserID,  // $6
		q.Limit,         // $7
	)
	if err != nil {
		return nil, fmt.Errorf("list feed candidates: %w", err)
	}
	defer rows.Close()

	items := make([]FeedCandidate, 0, q.Limit)
	for rows.Next() {
		var item FeedCandidate
		if err := rows.Scan(
			&item.UserID,
			&item.DisplayName,
			&item.Gender,
			&item.City,
			&item.Bio,
			&item.Age,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feed candidate: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate feed candidates: %w", rows.Err())
	}

	return items, nil
}

func normalizeGenders(values []string) []string {
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
