package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type profileStub struct {
	saved pgrepo.ProfileRecord
	err   error
}

func (s *profileStub) Upsert(_ context.Context, rec pgrepo.ProfileRecord) (pgrepo.ProfileRecord, error) {
	if s.err != nil {
		return pgrepo.ProfileRecord{}, s.err
	}
	s.saved = rec
	return rec, nil
}

func (s *profileStub) GetByUser(_ context.Context, _ int64) (pgrepo.ProfileRecord, error) {
	if s.err != nil {
		return pgrepo.ProfileRecord{}, s.err
	}
	return s.saved, nil
}

type privacyStub struct {
	rec pgrepo.PrivacyRecord
	err error
}

func (s *privacyStub) Upsert(_ context.Context, userID int64, visible, selective bool) (pgrepo.PrivacyRecord, error) {
	s.rec = pgrepo.PrivacyRecord{UserID: userID, ProfileVisible: visible, SelectiveMode: selective}
	return s.rec, nil
}

func (s *privacyStub) GetByUser(_ context.Context, _ int64) (pgrepo.PrivacyRecord, error) {
	if s.err != nil {
		return pgrepo.PrivacyRecord{}, s.err
	}
	return s.rec, nil
}

type onboardingStub struct {
	completed map[int64]bool
}

func (s *onboardingStub) SetOnboardingComplete(_ context.Context, userID int64, complete bool) error {
	if s.completed == nil {
		s.completed = map[int64]bool{}
	}
	s.completed[userID] = complete
	return nil
}

func validInput() UpdateInput {
	birthdate := time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC)
	return UpdateInput{
		DisplayName: "Nora",
		Gender:      "female",
		LookingFor:  []string{"male", "nonbinary"},
		Birthdate:   &birthdate,
		Bio:         "hello",
		City:        "Porto",
	}
}

func TestUpdateCompletesOnboarding(t *testing.T) {
	profiles := &profileStub{}
	users := &onboardingStub{}
	svc := NewService(profiles, &privacyStub{}, users)

	saved, err := svc.Update(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if saved.DisplayName != "Nora" {
		t.Fatalf("unexpected saved name %q", saved.DisplayName)
	}
	if !users.completed[1] {
		t.Fatalf("onboarding was not marked complete")
	}
}

func TestUpdateRejectsBadGenderAndLookingFor(t *testing.T) {
	svc := NewService(&profileStub{}, &privacyStub{}, nil)

	input := validInput()
	input.Gender = "dragon"
	if _, err := svc.Update(context.Background(), 1, input); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad gender should fail, got %v", err)
	}

	input = validInput()
	input.LookingFor = nil
	if _, err := svc.Update(context.Background(), 1, input); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty looking_for should fail, got %v", err)
	}

	input = validInput()
	input.LookingFor = []string{"aliens"}
	if _, err := svc.Update(context.Background(), 1, input); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown looking_for should fail, got %v", err)
	}
}

func TestUpdateAcceptsEveryoneWildcard(t *testing.T) {
	profiles := &profileStub{}
	svc := NewService(profiles, &privacyStub{}, nil)

	input := validInput()
	input.LookingFor = []string{"Everyone"}
	saved, err := svc.Update(context.Background(), 1, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(saved.LookingFor) != 1 || saved.LookingFor[0] != "everyone" {
		t.Fatalf("wildcard was not normalized: %v", saved.LookingFor)
	}
}

func TestUpdateRejectsUnderage(t *testing.T) {
	svc := NewService(&profileStub{}, &privacyStub{}, nil)

	input := validInput()
	young := time.Now().UTC().AddDate(-17, 0, 0)
	input.Birthdate = &young
	if _, err := svc.Update(context.Background(), 1, input); !errors.Is(err, ErrUnderage) {
		t.Fatalf("underage birthdate should fail, got %v", err)
	}
}

func TestGetPrivacyDefaultsWhenMissing(t *testing.T) {
	svc := NewService(&profileStub{}, &privacyStub{err: pgrepo.ErrPrivacyNotFound}, nil)

	rec, err := svc.GetPrivacy(context.Background(), 3)
	if err != nil {
		t.Fatalf("get privacy: %v", err)
	}
	if !rec.ProfileVisible || rec.SelectiveMode {
		t.Fatalf("expected visible non-selective defaults, got %+v", rec)
	}
}

func TestYearsBetween(t *testing.T) {
	from := time.Date(2000, 8, 31, 0, 0, 0, 0, time.UTC)

	if got := yearsBetween(from, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)); got != 26 {
		t.Fatalf("exact birthday should be 26, got %d", got)
	}
	if got := yearsBetween(from, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)); got != 25 {
		t.Fatalf("day before birthday should be 25, got %d", got)
	}
}
