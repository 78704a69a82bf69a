package notifications

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegbarkov/amora/internal/domain/enums"
	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type stubNotificationStore struct {
	created   []model.Notification
	fanOut    int64
	markedIDs []int64
	markErr   error
}

func (s *stubNotificationStore) Create(_ context.Context, n *model.Notification) (*model.Notification, error) {
	n.ID = int64(len(s.created) + 1)
	n.CreatedAt = time.Now().UTC()
	s.created = append(s.created, *n)
	return n, nil
}

func (s *stubNotificationStore) CreateForAllActiveUsers(_ context.Context, _ enums.NotificationType, _, _ string, _ *int64) (int64, error) {
	return s.fanOut, nil
}

func (s *stubNotificationStore) ListForUser(_ context.Context, _ int64, _ bool, _, _ int) ([]model.Notification, error) {
	return s.created, nil
}

func (s *stubNotificationStore) CountUnread(_ context.Context, _ int64) (int, error) {
	return len(s.created), nil
}

func (s *stubNotificationStore) MarkRead(_ context.Context, _, notificationID int64) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.markedIDs = append(s.markedIDs, notificationID)
	return nil
}

func (s *stubNotificationStore) MarkAllRead(_ context.Context, _ int64) (int64, error) {
	return int64(len(s.created)), nil
}

func (s *stubNotificationStore) Delete(_ context.Context, _, _ int64) error {
	return nil
}

type nameLookupStub struct {
	names map[int64]string
}

func (s *nameLookupStub) GetByUser(_ context.Context, userID int64) (pgrepo.ProfileRecord, error) {
	name, ok := s.names[userID]
	if !ok {
		return pgrepo.ProfileRecord{}, errors.New("profile not found")
	}
	return pgrepo.ProfileRecord{UserID: userID, DisplayName: name}, nil
}

type failingSink struct{ calls int }

func (s *failingSink) Deliver(_ context.Context, _ model.Notification) error {
	s.calls++
	return errors.New("sink down")
}

func TestEmitMatchNotifiesBothSides(t *testing.T) {
	store := &stubNotificationStore{}
	svc := NewService(store, nil, nil)

	if err := svc.EmitMatch(context.Background(), 7, 1, 2); err != nil {
		t.Fatalf("emit match: %v", err)
	}

	if len(store.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(store.created))
	}
	for i, n := range store.created {
		if n.Type != enums.NotificationMatch {
			t.Fatalf("notification %d has type %q", i, n.Type)
		}
		if n.RelatedMatchID == nil || *n.RelatedMatchID != 7 {
			t.Fatalf("notification %d missing match reference", i)
		}
	}
	if store.created[0].UserID == store.created[1].UserID {
		t.Fatalf("both notifications went to user %d", store.created[0].UserID)
	}
}

func TestEmitMatchAddressesCounterpartByName(t *testing.T) {
	store := &stubNotificationStore{}
	svc := NewService(store, nil, nil)
	svc.AttachNames(&nameLookupStub{names: map[int64]string{1: "Ana", 2: "Bruno"}})

	if err := svc.EmitMatch(context.Background(), 7, 1, 2); err != nil {
		t.Fatalf("emit match: %v", err)
	}

	byUser := map[int64]string{}
	for _, n := range store.created {
		byUser[n.UserID] = n.Message
	}
	if byUser[1] != "You and Bruno matched!" {
		t.Fatalf("user 1 got message %q", byUser[1])
	}
	if byUser[2] != "You and Ana matched!" {
		t.Fatalf("user 2 got message %q", byUser[2])
	}
}

func TestEmitMatchFallsBackWithoutName(t *testing.T) {
	store := &stubNotificationStore{}
	svc := NewService(store, nil, nil)
	svc.AttachNames(&nameLookupStub{})

	if err := svc.EmitMatch(context.Background(), 7, 1, 2); err != nil {
		t.Fatalf("emit match: %v", err)
	}
	for _, n := range store.created {
		if n.Message != "You have a new match" {
			t.Fatalf("expected impersonal fallback, got %q", n.Message)
		}
	}
}

func TestEmitSurvivesSinkFailure(t *testing.T) {
	store := &stubNotificationStore{}
	sink := &failingSink{}
	svc := NewService(store, sink, nil)

	if err := svc.EmitLike(context.Background(), 2, 1, enums.InteractionLike); err != nil {
		t.Fatalf("emit like should not fail on sink error: %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("sink was called %d times", sink.calls)
	}
	if len(store.created) != 1 {
		t.Fatalf("notification was not persisted")
	}
}

func TestMarkReadMapsNotFound(t *testing.T) {
	store := &stubNotificationStore{markErr: pgrepo.ErrNotificationNotFound}
	svc := NewService(store, nil, nil)

	if err := svc.MarkRead(context.Background(), 1, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWebhookSinkPostsJSON(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := NewWebhookSink(server.Client(), server.URL)
	err := sink.Deliver(context.Background(), model.Notification{
		UserID: 1,
		Type:   enums.NotificationLike,
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	select {
	case contentType := <-received:
		if contentType != "application/json" {
			t.Fatalf("unexpected content type %q", contentType)
		}
	default:
		t.Fatalf("webhook endpoint was not called")
	}
}

func TestWebhookSinkReportsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewWebhookSink(server.Client(), server.URL)
	if err := sink.Deliver(context.Background(), model.Notification{UserID: 1, Type: enums.NotificationLike}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
