package service

import (
	"context"
	"errors"
	"time"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/pkg/util"
)

const (
	defaultPageLimit       = 20
	maxPageLimit           = 100
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
)

// GraphService manages follow edges between users
type GraphService struct {
	clock

	store *store.Store
}

func NewGraphService(s *store.Store) *GraphService {
	return &GraphService{store: s}
}

type FollowUserView struct {
	AuthorView
	Bio        string    `json:"bio"`
	FollowedAt time.Time `json:"followedAt"`
}

type FollowPage struct {
	Users       []FollowUserView `json:"users"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	Total       int64            `json:"total"`
	HasMore     bool             `json:"hasMore"`
}

func (s *GraphService) Follow(ctx context.Context, actorID, targetID string) error {
	if targetID == "" {
		return apperr.Validation("User ID is required")
	}

	if actorID == targetID {
		return apperr.Validation("You cannot follow yourself")
	}

	if _, err := loadUser(ctx, s.store, targetID); err != nil {
		return err
	}

	id, err := util.NewID()
	if err != nil {
		return apperr.Internal(err)
	}

	err = s.store.Follows.Create(ctx, &model.Follow{
		ID:          id,
		FollowerID:  actorID,
		FollowingID: targetID,
		CreatedAt:   s.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("Already following this user")
		}

		return apperr.Internal(err)
	}

	return nil
}

// Unfollow succeeds whether or not the edge existed
func (s *GraphService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if targetID == "" {
		return apperr.Validation("User ID is required")
	}

	if _, err := loadUser(ctx, s.store, targetID); err != nil {
		return err
	}

	if _, err := s.store.Follows.Delete(ctx, actorID, targetID); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// Followers lists who follows targetID, newest first
func (s *GraphService) Followers(ctx context.Context, targetID string, page, limit int) (*FollowPage, error) {
	return s.page(ctx, page, limit, s.store.Follows.Followers, targetID, func(f model.Follow) string {
		return f.FollowerID
	})
}

// Following lists who actorID follows, newest first
func (s *GraphService) Following(ctx context.Context, actorID string, page, limit int) (*FollowPage, error) {
	return s.page(ctx, page, limit, s.store.Follows.Following, actorID, func(f model.Follow) string {
		return f.FollowingID
	})
}

type edgeLister func(ctx context.Context, userID string, offset, limit int) ([]model.Follow, int64, error)

func (s *GraphService) page(ctx context.Context, page, limit int, list edgeLister, userID string, other func(model.Follow) string) (*FollowPage, error) {
	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	edges, total, err := list(ctx, userID, offset, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = other(e)
	}

	users, err := s.store.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byID := indexUsers(users)

	views := make([]FollowUserView, 0, len(edges))
	for _, e := range edges {
		id := other(e)

		u, ok := byID[id]
		if !ok {
			continue
		}

		views = append(views, FollowUserView{
			AuthorView: newAuthorView(id, byID),
			Bio:        u.Bio,
			FollowedAt: e.CreatedAt,
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &FollowPage{
		Users:       views,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasMore:     total > int64(offset+len(edges)),
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = defaultPageLimit
	}

	return page, min(limit, maxPageLimit)
}

// FollowingStatus reports for every id whether actorID follows it
func (s *GraphService) FollowingStatus(ctx context.Context, actorID string, targetIDs []string) (map[string]bool, error) {
	status := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		status[id] = false
	}

	followed, err := s.store.Follows.Existing(ctx, actorID, targetIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	for _, id := range followed {
		status[id] = true
	}

	return status, nil
}

// Suggestions returns users actorID doesn't follow yet
func (s *GraphService) Suggestions(ctx context.Context, actorID string, limit int) ([]AuthorView, error) {
	if limit < 1 {
		limit = defaultSuggestionLimit
	}
	limit = min(limit, maxSuggestionLimit)

	followed, err := s.store.Follows.FollowingIDs(ctx, actorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	users, err := s.store.Users.ListExcluding(ctx, append(followed, actorID), limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byID := indexUsers(users)

	views := make([]AuthorView, 0, len(users))
	for _, u := range users {
		views = append(views, newAuthorView(u.ID, byID))
	}

	return views, nil
}
