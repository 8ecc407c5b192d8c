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

const maxBioLength = 500

type ProfileService struct {
	store *store.Store
	media MediaStore
}

func NewProfileService(s *store.Store, m MediaStore) *ProfileService {
	return &ProfileService{store: s, media: m}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*ProfileView, error) {
	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	return NewProfileView(u), nil
}

func (s *ProfileService) GetPublicProfile(ctx context.Context, id string) (*PublicProfileView, error) {
	u, err := loadUser(ctx, s.store, id)
	if err != nil {
		return nil, err
	}

	return NewPublicProfileView(u), nil
}

type EditProfileInput struct {
	FirstName string
	LastName  string
	Bio       string
}

func (s *ProfileService) EditProfile(ctx context.Context, userID string, in EditProfileInput) (*ProfileView, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Bio = strings.TrimSpace(in.Bio)

	if in.FirstName == "" || in.LastName == "" {
		return nil, apperr.Validation("First name and last name are required")
	}

	if len(in.Bio) > maxBioLength {
		return nil, apperr.Validation("Bio is too long")
	}

	err := s.update(ctx, userID, store.UserUpdate{
		FirstName: &in.FirstName,
		LastName:  &in.LastName,
		Bio:       &in.Bio,
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) SetLevel(ctx context.Context, userID, level string) (*ProfileView, error) {
	level = strings.ToLower(strings.TrimSpace(level))

	switch level {
	case model.LevelBeginner, model.LevelAmateur, model.LevelExpert:
	default:
		return nil, apperr.Validation("Level must be one of beginner, amateur or expert")
	}

	if err := s.update(ctx, userID, store.UserUpdate{Level: &level}); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

// SetAvatar uploads img and points the profile at it. The previous picture
// is removed from the media store.
func (s *ProfileService) SetAvatar(ctx context.Context, userID string, img *validators.Image) (*ProfileView, error) {
	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		img.File.Close()
		return nil, err
	}

	url, err := uploadImage(ctx, s.media, "avatars", userID, img)
	if err != nil {
		return nil, err
	}

	if err := s.update(ctx, userID, store.UserUpdate{ProfilePicture: &url}); err != nil {
		discardMedia(ctx, s.media, url)
		return nil, err
	}

	discardMedia(ctx, s.media, u.ProfilePicture)

	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) DeleteAvatar(ctx context.Context, userID string) (*ProfileView, error) {
	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	empty := ""
	if err := s.update(ctx, userID, store.UserUpdate{ProfilePicture: &empty}); err != nil {
		return nil, err
	}

	discardMedia(ctx, s.media, u.ProfilePicture)

	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) update(ctx context.Context, userID string, upd store.UserUpdate) error {
	return updateUser(ctx, s.store, userID, upd)
}

// updateUser applies upd translating store errors
func updateUser(ctx context.Context, s *store.Store, userID string, upd store.UserUpdate) error {
	err := s.Users.Update(ctx, userID, upd)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("User not found")
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("Value already in use")
	}

	return apperr.Internal(err)
}
