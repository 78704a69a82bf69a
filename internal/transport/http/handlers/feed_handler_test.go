package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	feedsvc "github.com/olegbarkov/amora/internal/services/feed"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
)

type stubFeedRepo struct {
	candidates []pgrepo.FeedCandidate
}

func (s *stubFeedRepo) GetViewerContext(_ context.Context, userID int64) (pgrepo.FeedViewerContext, error) {
	return pgrepo.FeedViewerContext{UserID: userID, Gender: "female", LookingFor: []string{"everyone"}}, nil
}

func (s *stubFeedRepo) ListCandidates(_ context.Context, q pgrepo.FeedQuery) ([]pgrepo.FeedCandidate, error) {
	if len(s.candidates) > q.Limit {
		return s.candidates[:q.Limit], nil
	}
	return s.candidates, nil
}

func TestFeedHandlerReturnsPage(t *testing.T) {
	repo := &stubFeedRepo{candidates: []pgrepo.FeedCandidate{
		{UserID: 7, DisplayName: "Dana", Gender: "female", City: "Lisbon", CreatedAt: time.Now()},
	}}
	handler := NewFeedHandler(feedsvc.NewService(repo, feedsvc.Config{}))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: 1}))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp dto.FeedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].UserID != 7 {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}
}

func TestFeedHandlerRejectsBadCursor(t *testing.T) {
	handler := NewFeedHandler(feedsvc.NewService(&stubFeedRepo{}, feedsvc.Config{}))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed?cursor=%21not-base64", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: 1}))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFeedHandlerRequiresIdentity(t *testing.T) {
	handler := NewFeedHandler(feedsvc.NewService(&stubFeedRepo{}, feedsvc.Config{}))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
