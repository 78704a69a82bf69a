package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrNotFound      = errors.New("not found")
)

type Repository interface {
	GetViewerContext(ctx context.Context, userID int64) (pgrepo.FeedViewerContext, error)
	ListCandidates(ctx context.Context, q pgrepo.FeedQuery) ([]pgrepo.FeedCandidate, error)
}

type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Service struct {
	repo Repository
	cfg  Config
	now  func() time.Time
}

type Item struct {
	UserID      int64
	DisplayName string
	Gender      string
	City        string
	Bio         string
	Age         *int
}

type Result struct {
	Items      []Item
	NextCursor string
}

type pageCursor struct {
	CreatedAt int64 `json:"t"`
	UserID    int64 `json:"i"`
}

func NewService(repo Repository, cfg Config) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 50
	}

	return &Service{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Get assembles one browse page for the viewer. The candidate filter runs
// entirely in the repository query; this layer only handles paging.
func (s *Service) Get(ctx context.Context, userID int64, cursor string, limit int) (Result, error) {
	if userID <= 0 {
		return Result{}, ErrValidation
	}
	if s.repo == nil {
		return Result{}, fmt.Errorf("feed repository is nil")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}

	decoded, hasCursor, err := decodeCursor(cursor)
	if err != nil {
		return Result{}, err
	}

	viewer, err := s.repo.GetViewerContext(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrFeedViewerNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}

	query := pgrepo.FeedQuery{
		ViewerUserID:     userID,
		ViewerLookingFor: viewer.LookingFor,
		HasCursor:        hasCursor,
		Limit:            limit,
	}
	if hasCursor {
		query.CursorCreatedAt = time.UnixMilli(decoded.CreatedAt).UTC()
		query.CursorUserID = decoded.UserID
	}

	candidates, err := s.repo.ListCandidates(ctx, query)
	if err != nil {
		return Result{}, err
	}

	items := make([]Item, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, Item{
			UserID:      candidate.UserID,
			DisplayName: candidate.DisplayName,
			Gender:      candidate.Gender,
			City:        candidate.City,
			Bio:         candidate.Bio,
			Age:         candidate.Age,
		})
	}

	result := Result{Items: items}
	if len(candidates) == limit {
		last := candidates[len(candidates)-1]
		next, err := encodeCursor(pageCursor{
			CreatedAt: last.CreatedAt.UTC().UnixMilli(),
			UserID:    last.UserID,
		})
		if err != nil {
			return Result{}, err
		}
		result.NextCursor = next
	}

	return result, nil
}

func decodeCursor(raw string) (pageCursor, bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return pageCursor{}, false, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return pageCursor{}, false, ErrInvalidCursor
	}

	var cursor pageCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return pageCursor{}, false, ErrInvalidCursor
	}
	if cursor.CreatedAt <= 0 || cursor.UserID <= 0 {
		return pageCursor{}, false, ErrInvalidCursor
	}

	return cursor, true, nil
}

func encodeCursor(cursor pageCursor) (string, error) {
	payload, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("marshal feed cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}
