package messages

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type matchStub struct {
	match pgrepo.MatchRecord
	err   error
}

func (s *matchStub) GetByID(_ context.Context, _ int64) (pgrepo.MatchRecord, error) {
	if s.err != nil {
		return pgrepo.MatchRecord{}, s.err
	}
	return s.match, nil
}

func (s *matchStub) RecordMessage(_ context.Context, _ pgx.Tx, _, _ int64, _ time.Time) error {
	return nil
}

func (s *matchStub) ClearUnread(_ context.Context, _ pgx.Tx, _, _ int64) error {
	return nil
}

type messageStub struct {
	listed []model.Message
}

func (s *messageStub) Create(_ context.Context, _ pgx.Tx, matchID, senderID int64, body string) (*model.Message, error) {
	return &model.Message{ID: 1, MatchID: matchID, SenderUserID: senderID, Body: body, CreatedAt: time.Now().UTC()}, nil
}

func (s *messageStub) ListByMatch(_ context.Context, _ int64, _ int64, _ int) ([]model.Message, error) {
	return s.listed, nil
}

func (s *messageStub) MarkReadByMatch(_ context.Context, _ pgx.Tx, _, _ int64) (int64, error) {
	return int64(len(s.listed)), nil
}

func TestSendValidatesBody(t *testing.T) {
	svc := NewService(Dependencies{})

	if _, err := svc.Send(context.Background(), 1, 2, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank body should fail validation, got %v", err)
	}
	if _, err := svc.Send(context.Background(), 1, 2, strings.Repeat("x", maxBodyLength+1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversized body should fail validation, got %v", err)
	}
}

func TestListThreadRequiresMembership(t *testing.T) {
	matches := &matchStub{match: pgrepo.MatchRecord{ID: 5, UserAID: 1, UserBID: 2}}
	svc := NewService(Dependencies{Messages: &messageStub{}, Matches: matches})

	if _, err := svc.ListThread(context.Background(), 3, 5, 0, 20); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider should be forbidden, got %v", err)
	}

	if _, err := svc.ListThread(context.Background(), 1, 5, 0, 20); err != nil {
		t.Fatalf("participant list: %v", err)
	}
}

func TestListThreadMapsMissingMatch(t *testing.T) {
	matches := &matchStub{err: pgrepo.ErrMatchNotFound}
	svc := NewService(Dependencies{Messages: &messageStub{}, Matches: matches})

	if _, err := svc.ListThread(context.Background(), 1, 99, 0, 20); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCounterpartPicksOtherSide(t *testing.T) {
	match := pgrepo.MatchRecord{UserAID: 10, UserBID: 20}

	if got := counterpart(match, 10); got != 20 {
		t.Fatalf("counterpart(10) = %d", got)
	}
	if got := counterpart(match, 20); got != 10 {
		t.Fatalf("counterpart(20) = %d", got)
	}
}
