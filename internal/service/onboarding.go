package service

import (
	"context"
	"errors"
	"strings"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/pkg/validators"
)

// Onboarding steps accepted by Skip
const (
	StepOne   = "one"
	StepTwo   = "two"
	StepThree = "three"
	StepAll   = "all"
)

// OnboardingService walks a new user through username, phone, country and
// avatar. Every step can be skipped.
type OnboardingService struct {
	store    *store.Store
	profiles *ProfileService
}

func NewOnboardingService(s *store.Store, p *ProfileService) *OnboardingService {
	return &OnboardingService{store: s, profiles: p}
}

func (s *OnboardingService) Status(ctx context.Context, userID string) (*model.Onboarding, error) {
	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	return &u.Onboarding, nil
}

// SetUsername stores username with the platform suffix and completes step one
func (s *OnboardingService) SetUsername(ctx context.Context, userID, username string) (string, error) {
	username, err := claimUsername(ctx, s.store, userID, username, true)
	if err != nil {
		return "", err
	}

	done := true
	if err := updateUser(ctx, s.store, userID, store.UserUpdate{Username: &username, Step1: &done}); err != nil {
		return "", usernameConflict(err)
	}

	return username, nil
}

func (s *OnboardingService) SetPhone(ctx context.Context, userID, phone string) (*model.Onboarding, error) {
	phone = strings.TrimSpace(phone)
	if err := validators.PhoneValidator(phone); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	done := true
	if err := updateUser(ctx, s.store, userID, store.UserUpdate{Phone: &phone, Step2: &done}); err != nil {
		return nil, err
	}

	return s.Status(ctx, userID)
}

func (s *OnboardingService) SetCountry(ctx context.Context, userID, country string) (*model.Onboarding, error) {
	country = strings.TrimSpace(country)
	if err := validators.CountryValidator(country); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	done := true
	if err := updateUser(ctx, s.store, userID, store.UserUpdate{Country: &country, Step3: &done}); err != nil {
		return nil, err
	}

	return s.Status(ctx, userID)
}

// SetProfilePicture uploads the avatar and marks onboarding as completed
func (s *OnboardingService) SetProfilePicture(ctx context.Context, userID string, img *validators.Image) (*ProfileView, error) {
	if _, err := s.profiles.SetAvatar(ctx, userID, img); err != nil {
		return nil, err
	}

	done := true
	if err := updateUser(ctx, s.store, userID, store.UserUpdate{Completed: &done}); err != nil {
		return nil, err
	}

	return s.profiles.GetProfile(ctx, userID)
}

// Skip marks a step as done without collecting its data
func (s *OnboardingService) Skip(ctx context.Context, userID, step string) (*model.Onboarding, error) {
	done := true

	var upd store.UserUpdate
	switch step {
	case StepOne:
		upd.Step1 = &done
	case StepTwo:
		upd.Step2 = &done
	case StepThree:
		upd.Step3 = &done
	case StepAll:
		upd.Step1, upd.Step2, upd.Step3, upd.Completed = &done, &done, &done, &done
	default:
		return nil, apperr.Validation("Unknown onboarding step")
	}

	if err := updateUser(ctx, s.store, userID, upd); err != nil {
		return nil, err
	}

	return s.Status(ctx, userID)
}

// claimUsername normalizes and validates username and checks it isn't held
// by anyone but userID
func claimUsername(ctx context.Context, st *store.Store, userID, username string, suffix bool) (string, error) {
	username = validators.NormalizeUsername(username)
	if err := validators.UsernameValidator(username); err != nil {
		return "", apperr.Validation(err.Error())
	}

	if suffix {
		username = validators.WithSuffix(username)
	}

	taken, err := st.Users.UsernameTaken(ctx, username, userID)
	if err != nil {
		return "", apperr.Internal(err)
	}

	if taken {
		return "", apperr.Conflict("Username not available")
	}

	return username, nil
}

// usernameConflict rewords a unique index violation lost to a racing request
func usernameConflict(err error) error {
	if errors.Is(err, apperr.ErrConflict) {
		return apperr.Conflict("Username not available")
	}

	return err
}
