package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type storeStub struct {
	created     *model.Event
	exists      bool
	joinResult  bool
	leaveResult bool
}

func (s *storeStub) Create(_ context.Context, e *model.Event) (*model.Event, error) {
	e.ID = 11
	e.CreatedAt = time.Now().UTC()
	s.created = e
	return e, nil
}

func (s *storeStub) ListUpcoming(_ context.Context, _ int64, _ string, _ time.Time, _, _ int) ([]pgrepo.EventDetails, error) {
	return nil, nil
}

func (s *storeStub) GetByID(_ context.Context, _, _ int64) (*pgrepo.EventDetails, error) {
	return nil, pgrepo.ErrEventNotFound
}

func (s *storeStub) Join(_ context.Context, _, _ int64) (bool, error) {
	return s.joinResult, nil
}

func (s *storeStub) Leave(_ context.Context, _, _ int64) (bool, error) {
	return s.leaveResult, nil
}

func (s *storeStub) Exists(_ context.Context, _ int64) (bool, error) {
	return s.exists, nil
}

type announcerStub struct {
	calls int
	err   error
}

func (s *announcerStub) AnnounceEvent(_ context.Context, _ int64, _, _ string) (int64, error) {
	s.calls++
	return 5, s.err
}

func TestCreateAnnouncesEvent(t *testing.T) {
	store := &storeStub{}
	announcer := &announcerStub{}
	svc := NewService(store, announcer, nil)

	startsAt := time.Now().UTC().Add(48 * time.Hour)
	event, err := svc.Create(context.Background(), 1, "Wine night", "Bring a bottle", "Lisbon", "Cais do Sodre", startsAt)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if event.ID != 11 {
		t.Fatalf("unexpected event id %d", event.ID)
	}
	if announcer.calls != 1 {
		t.Fatalf("expected one announcement, got %d", announcer.calls)
	}
}

func TestCreateSurvivesAnnouncerFailure(t *testing.T) {
	store := &storeStub{}
	announcer := &announcerStub{err: errors.New("fan-out down")}
	svc := NewService(store, announcer, nil)

	startsAt := time.Now().UTC().Add(time.Hour)
	if _, err := svc.Create(context.Background(), 1, "Picnic", "", "", "", startsAt); err != nil {
		t.Fatalf("create should not fail on announcement error: %v", err)
	}
}

func TestCreateRejectsPastStart(t *testing.T) {
	svc := NewService(&storeStub{}, nil, nil)

	past := time.Now().UTC().Add(-time.Hour)
	if _, err := svc.Create(context.Background(), 1, "Time travel", "", "", "", past); !errors.Is(err, ErrValidation) {
		t.Fatalf("past start should fail validation, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, "", "", "", "", time.Now().UTC().Add(time.Hour)); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty title should fail validation, got %v", err)
	}
}

func TestJoinStates(t *testing.T) {
	store := &storeStub{exists: true, joinResult: true}
	svc := NewService(store, nil, nil)

	if err := svc.Join(context.Background(), 1, 2); err != nil {
		t.Fatalf("join: %v", err)
	}

	store.joinResult = false
	if err := svc.Join(context.Background(), 1, 2); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("repeat join should report already joined, got %v", err)
	}

	store.exists = false
	if err := svc.Join(context.Background(), 9, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing event should be not found, got %v", err)
	}
}

func TestLeaveWithoutJoin(t *testing.T) {
	svc := NewService(&storeStub{leaveResult: false}, nil, nil)

	if err := svc.Leave(context.Background(), 1, 2); !errors.Is(err, ErrNotJoined) {
		t.Fatalf("expected not joined, got %v", err)
	}
}

func TestGetMapsNotFound(t *testing.T) {
	svc := NewService(&storeStub{}, nil, nil)

	if _, err := svc.Get(context.Background(), 1, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
