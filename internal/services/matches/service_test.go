package matches

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type blockStub struct {
	deleted bool
	calls   int
}

func (s *blockStub) Upsert(_ context.Context, _ pgx.Tx, _, _ int64, _ string) error {
	return nil
}

func (s *blockStub) Delete(_ context.Context, _, _ int64) (bool, error) {
	s.calls++
	return s.deleted, nil
}

type listStub struct {
	records   []pgrepo.MatchListRecord
	lastLimit int
}

func (s *listStub) ListForUser(_ context.Context, _ int64, limit int) ([]pgrepo.MatchListRecord, error) {
	s.lastLimit = limit
	return s.records, nil
}

func (s *listStub) DeleteByUsers(_ context.Context, _ pgx.Tx, _, _ int64) (int64, bool, error) {
	return 0, false, nil
}

func TestListValidatesUser(t *testing.T) {
	svc := NewService(Dependencies{})

	if _, err := svc.List(context.Background(), 0, 10); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPassesLimitThrough(t *testing.T) {
	store := &listStub{records: []pgrepo.MatchListRecord{{ID: 1}}}
	svc := NewService(Dependencies{Matches: store})

	items, err := svc.List(context.Background(), 7, 25)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || store.lastLimit != 25 {
		t.Fatalf("unexpected list result: items=%d limit=%d", len(items), store.lastLimit)
	}
}

func TestUnmatchValidatesPair(t *testing.T) {
	svc := NewService(Dependencies{})

	if err := svc.Unmatch(context.Background(), 4, 4); !errors.Is(err, ErrValidation) {
		t.Fatalf("self unmatch should fail validation, got %v", err)
	}
	if err := svc.Block(context.Background(), 0, 2, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero actor block should fail validation, got %v", err)
	}
}

func TestUnblockNotFound(t *testing.T) {
	blocks := &blockStub{deleted: false}
	svc := NewService(Dependencies{Blocks: blocks})

	if err := svc.Unblock(context.Background(), 1, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if blocks.calls != 1 {
		t.Fatalf("expected one delete call, got %d", blocks.calls)
	}
}

func TestUnblockDeletesExistingBlock(t *testing.T) {
	blocks := &blockStub{deleted: true}
	svc := NewService(Dependencies{Blocks: blocks})

	if err := svc.Unblock(context.Background(), 1, 2); err != nil {
		t.Fatalf("unblock: %v", err)
	}
}
