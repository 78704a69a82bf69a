package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegbarkov/amora/internal/domain/enums"
	"github.com/olegbarkov/amora/internal/pkg/validate"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

const (
	minAge        = 18
	maxBioLength  = 1000
	maxNameLength = 64
	maxCityLength = 64
	maxLookingFor = 4
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
	ErrUnderage   = errors.New("must be at least 18")
)

type ProfileStore interface {
	Upsert(ctx context.Context, rec pgrepo.ProfileRecord) (pgrepo.ProfileRecord, error)
	GetByUser(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type PrivacyStore interface {
	Upsert(ctx context.Context, userID int64, profileVisible, selectiveMode bool) (pgrepo.PrivacyRecord, error)
	GetByUser(ctx context.Context, userID int64) (pgrepo.PrivacyRecord, error)
}

type OnboardingStore interface {
	SetOnboardingComplete(ctx context.Context, userID int64, complete bool) error
}

type UpdateInput struct {
	DisplayName string
	Gender      string
	LookingFor  []string
	Birthdate   *time.Time
	Bio         string
	City        string
}

type Service struct {
	profiles ProfileStore
	privacy  PrivacyStore
	users    OnboardingStore
	now      func() time.Time
}

func NewService(profiles ProfileStore, privacy PrivacyStore, users OnboardingStore) *Service {
	return &Service{
		profiles: profiles,
		privacy:  privacy,
		users:    users,
		now:      time.Now,
	}
}

// Update validates and stores the profile. A profile that carries a display
// name, gender and at least one looking_for entry completes onboarding.
func (s *Service) Update(ctx context.Context, userID int64, input UpdateInput) (pgrepo.ProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.ProfileRecord{}, ErrValidation
	}
	if s.profiles == nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("profile store is not configured")
	}

	rec, err := s.buildRecord(userID, input)
	if err != nil {
		return pgrepo.ProfileRecord{}, err
	}

	saved, err := s.profiles.Upsert(ctx, rec)
	if err != nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("upsert profile: %w", err)
	}

	if s.users != nil && onboardingComplete(saved) {
		if err := s.users.SetOnboardingComplete(ctx, userID, true); err != nil {
			return pgrepo.ProfileRecord{}, fmt.Errorf("mark onboarding complete: %w", err)
		}
	}

	return saved, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.ProfileRecord{}, ErrValidation
	}

	rec, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return pgrepo.ProfileRecord{}, ErrNotFound
		}
		return pgrepo.ProfileRecord{}, err
	}
	return rec, nil
}

// GetPrivacy falls back to the visible, non-selective defaults when the user
// never touched their settings.
func (s *Service) GetPrivacy(ctx context.Context, userID int64) (pgrepo.PrivacyRecord, error) {
	if userID <= 0 {
		return pgrepo.PrivacyRecord{}, ErrValidation
	}

	rec, err := s.privacy.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPrivacyNotFound) {
			return pgrepo.PrivacyRecord{
				UserID:         userID,
				ProfileVisible: true,
				SelectiveMode:  false,
			}, nil
		}
		return pgrepo.PrivacyRecord{}, err
	}
	return rec, nil
}

func (s *Service) UpdatePrivacy(ctx context.Context, userID int64, profileVisible, selectiveMode bool) (pgrepo.PrivacyRecord, error) {
	if userID <= 0 {
		return pgrepo.PrivacyRecord{}, ErrValidation
	}
	if s.privacy == nil {
		return pgrepo.PrivacyRecord{}, fmt.Errorf("privacy store is not configured")
	}

	rec, err := s.privacy.Upsert(ctx, userID, profileVisible, selectiveMode)
	if err != nil {
		return pgrepo.PrivacyRecord{}, fmt.Errorf("upsert privacy settings: %w", err)
	}
	return rec, nil
}

func (s *Service) buildRecord(userID int64, input UpdateInput) (pgrepo.ProfileRecord, error) {
	name := strings.TrimSpace(input.DisplayName)
	if !validate.Required(name) || len(name) > maxNameLength {
		return pgrepo.ProfileRecord{}, ErrValidation
	}

	gender := strings.ToLower(strings.TrimSpace(input.Gender))
	if !validate.OneOf(gender, string(enums.GenderFemale), string(enums.GenderMale), string(enums.GenderNonBinary)) {
		return pgrepo.ProfileRecord{}, ErrValidation
	}

	lookingFor, err := validateLookingFor(input.LookingFor)
	if err != nil {
		return pgrepo.ProfileRecord{}, err
	}

	bio := strings.TrimSpace(input.Bio)
	if len(bio) > maxBioLength {
		return pgrepo.ProfileRecord{}, ErrValidation
	}
	city := strings.TrimSpace(input.City)
	if len(city) > maxCityLength {
		return pgrepo.ProfileRecord{}, ErrValidation
	}

	if input.Birthdate != nil {
		age := yearsBetween(*input.Birthdate, s.now().UTC())
		if age < minAge {
			return pgrepo.ProfileRecord{}, ErrUnderage
		}
	}

	return pgrepo.ProfileRecord{
		UserID:      userID,
		DisplayName: name,
		Gender:      gender,
		LookingFor:  lookingFor,
		Birthdate:   input.Birthdate,
		Bio:         bio,
		City:        city,
	}, nil
}

func validateLookingFor(values []string) ([]string, error) {
	if len(values) == 0 || len(values) > maxLookingFor {
		return nil, ErrValidation
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		v := strings.ToLower(strings.TrimSpace(value))
		switch v {
		case string(enums.GenderFemale), string(enums.GenderMale), string(enums.GenderNonBinary), enums.GenderEveryone:
			out = append(out, v)
		default:
			return nil, ErrValidation
		}
	}
	return out, nil
}

func onboardingComplete(rec pgrepo.ProfileRecord) bool {
	return rec.DisplayName != "" && rec.Gender != "" && len(rec.LookingFor) > 0
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	return years
}
