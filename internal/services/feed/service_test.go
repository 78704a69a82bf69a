package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type stubFeedRepo struct {
	viewer     pgrepo.FeedViewerContext
	viewerErr  error
	candidates []pgrepo.FeedCandidate
	lastQuery  pgrepo.FeedQuery
}

func (s *stubFeedRepo) GetViewerContext(_ context.Context, _ int64) (pgrepo.FeedViewerContext, error) {
	if s.viewerErr != nil {
		return pgrepo.FeedViewerContext{}, s.viewerErr
	}
	return s.viewer, nil
}

func (s *stubFeedRepo) ListCandidates(_ context.Context, q pgrepo.FeedQuery) ([]pgrepo.FeedCandidate, error) {
	s.lastQuery = q
	if !q.HasCursor {
		if len(s.candidates) <= q.Limit {
			return s.candidates, nil
		}
		return s.candidates[:q.Limit], nil
	}

	out := make([]pgrepo.FeedCandidate, 0, q.Limit)
	for _, c := range s.candidates {
		if c.CreatedAt.Before(q.CursorCreatedAt) ||
			(c.CreatedAt.Equal(q.CursorCreatedAt) && c.UserID < q.CursorUserID) {
			out = append(out, c)
		}
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func candidateFixture(userID int64, createdAt time.Time) pgrepo.FeedCandidate {
	age := 27
	return pgrepo.FeedCandidate{
		UserID:      userID,
		DisplayName: "person",
		Gender:      "female",
		City:        "Lisbon",
		Age:         &age,
		CreatedAt:   createdAt,
	}
}

func TestGetPaginatesWithCursor(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubFeedRepo{
		viewer: pgrepo.FeedViewerContext{UserID: 1, Gender: "male", LookingFor: []string{"female"}},
	}
	for i := 0; i < 5; i++ {
		repo.candidates = append(repo.candidates, candidateFixture(int64(100-i), base.Add(-time.Duration(i)*time.Hour)))
	}

	svc := NewService(repo, Config{DefaultPageSize: 2, MaxPageSize: 50})

	first, err := svc.Get(context.Background(), 1, "", 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(first.Items))
	}
	if first.NextCursor == "" {
		t.Fatalf("expected next cursor on a full page")
	}

	second, err := svc.Get(context.Background(), 1, first.NextCursor, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 2 {
		t.Fatalf("expected 2 items on second page, got %d", len(second.Items))
	}
	if second.Items[0].UserID == first.Items[0].UserID || second.Items[0].UserID == first.Items[1].UserID {
		t.Fatalf("second page repeats first page item %d", second.Items[0].UserID)
	}
	if !repo.lastQuery.HasCursor {
		t.Fatalf("second query should carry the cursor")
	}
}

func TestGetBuildsQueryFromViewer(t *testing.T) {
	repo := &stubFeedRepo{
		viewer: pgrepo.FeedViewerContext{
			UserID:     42,
			Gender:     "female",
			LookingFor: []string{"male", "nonbinary"},
		},
	}
	svc := NewService(repo, Config{DefaultPageSize: 20, MaxPageSize: 50})

	if _, err := svc.Get(context.Background(), 42, "", 10); err != nil {
		t.Fatalf("get: %v", err)
	}

	q := repo.lastQuery
	if q.ViewerUserID != 42 {
		t.Fatalf("viewer id not propagated, got %d", q.ViewerUserID)
	}
	if len(q.ViewerLookingFor) != 2 || q.ViewerLookingFor[0] != "male" || q.ViewerLookingFor[1] != "nonbinary" {
		t.Fatalf("looking_for not propagated, got %v", q.ViewerLookingFor)
	}
	if q.HasCursor {
		t.Fatalf("first page must not carry a cursor")
	}
	if q.Limit != 10 {
		t.Fatalf("requested limit not propagated, got %d", q.Limit)
	}

	cursorAt := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	cursor, err := encodeCursor(pageCursor{CreatedAt: cursorAt.UnixMilli(), UserID: 99})
	if err != nil {
		t.Fatalf("encode cursor: %v", err)
	}
	if _, err := svc.Get(context.Background(), 42, cursor, 10); err != nil {
		t.Fatalf("get with cursor: %v", err)
	}

	q = repo.lastQuery
	if !q.HasCursor {
		t.Fatalf("cursor flag not set")
	}
	if !q.CursorCreatedAt.Equal(cursorAt) || q.CursorUserID != 99 {
		t.Fatalf("cursor fields not propagated, got at=%v id=%d", q.CursorCreatedAt, q.CursorUserID)
	}
}

func TestGetCapsLimit(t *testing.T) {
	repo := &stubFeedRepo{viewer: pgrepo.FeedViewerContext{UserID: 1}}
	svc := NewService(repo, Config{DefaultPageSize: 20, MaxPageSize: 50})

	if _, err := svc.Get(context.Background(), 1, "", 500); err != nil {
		t.Fatalf("get: %v", err)
	}
	if repo.lastQuery.Limit != 50 {
		t.Fatalf("limit should be capped at 50, got %d", repo.lastQuery.Limit)
	}

	if _, err := svc.Get(context.Background(), 1, "", 0); err != nil {
		t.Fatalf("get with zero limit: %v", err)
	}
	if repo.lastQuery.Limit != 20 {
		t.Fatalf("zero limit should fall back to default, got %d", repo.lastQuery.Limit)
	}
}

func TestGetRejectsBadCursor(t *testing.T) {
	repo := &stubFeedRepo{viewer: pgrepo.FeedViewerContext{UserID: 1}}
	svc := NewService(repo, Config{})

	if _, err := svc.Get(context.Background(), 1, "not-base64!!", 10); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected invalid cursor error, got %v", err)
	}
}

func TestGetViewerWithoutProfile(t *testing.T) {
	repo := &stubFeedRepo{viewerErr: pgrepo.ErrFeedViewerNotFound}
	svc := NewService(repo, Config{})

	if _, err := svc.Get(context.Background(), 1, "", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetEmptyPageHasNoCursor(t *testing.T) {
	repo := &stubFeedRepo{viewer: pgrepo.FeedViewerContext{UserID: 1}}
	svc := NewService(repo, Config{})

	res, err := svc.Get(context.Background(), 1, "", 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(res.Items) != 0 || res.NextCursor != "" {
		t.Fatalf("expected empty page without cursor, got %d items cursor=%q", len(res.Items), res.NextCursor)
	}
}
