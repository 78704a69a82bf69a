package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegbarkov/amora/internal/domain/enums"
	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	notifsvc "github.com/olegbarkov/amora/internal/services/notifications"
)

type stubNotificationStore struct {
	known map[int64]int64 // notification id -> owner
	read  []int64
}

func (s *stubNotificationStore) Create(_ context.Context, n *model.Notification) (*model.Notification, error) {
	return n, nil
}

func (s *stubNotificationStore) CreateForAllActiveUsers(context.Context, enums.NotificationType, string, string, *int64) (int64, error) {
	return 0, nil
}

func (s *stubNotificationStore) ListForUser(context.Context, int64, bool, int, int) ([]model.Notification, error) {
	return nil, nil
}

func (s *stubNotificationStore) CountUnread(context.Context, int64) (int, error) {
	return len(s.known), nil
}

func (s *stubNotificationStore) MarkRead(_ context.Context, userID, notificationID int64) error {
	owner, ok := s.known[notificationID]
	if !ok || owner != userID {
		return pgrepo.ErrNotificationNotFound
	}
	s.read = append(s.read, notificationID)
	return nil
}

func (s *stubNotificationStore) MarkAllRead(context.Context, int64) (int64, error) {
	return int64(len(s.known)), nil
}

func (s *stubNotificationStore) Delete(_ context.Context, userID, notificationID int64) error {
	return s.MarkRead(context.Background(), userID, notificationID)
}

func newNotificationsRouter(store *stubNotificationStore) chi.Router {
	handler := NewNotificationsHandler(notifsvc.NewService(store, nil, nil))
	r := chi.NewRouter()
	r.Post("/v1/notifications/{notification_id}/read", handler.MarkRead)
	r.Post("/v1/notifications/read_all", handler.MarkAllRead)
	return r
}

func TestNotificationsMarkReadOwnedRow(t *testing.T) {
	store := &stubNotificationStore{known: map[int64]int64{42: 1}}
	router := newNotificationsRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/42/read", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: 1}))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(store.read) != 1 || store.read[0] != 42 {
		t.Fatalf("read = %v, want [42]", store.read)
	}
}

func TestNotificationsMarkReadForeignRowIs404(t *testing.T) {
	store := &stubNotificationStore{known: map[int64]int64{42: 2}}
	router := newNotificationsRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/42/read", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: 1}))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}
