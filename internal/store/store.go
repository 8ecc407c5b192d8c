// Package store defines the persistence contracts used by the services.
// Implementations live in gormstore (SQLite, PostgreSQL) and mongostore.
package store

import (
	"context"
	"errors"
	"time"

	"bitwise74/socials-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// TokenUpdate replaces a (token, expiry) pair. An empty Token clears both.
type TokenUpdate struct {
	Token     string
	ExpiresAt *time.Time
}

// UserUpdate lists the fields to change. Nil fields are left untouched.
type UserUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Username       *string
	PasswordHash   *string
	Verified       *bool
	Bio            *string
	Country        *string
	Phone          *string
	ProfilePicture *string
	Level          *string
	LastLoginAt    *time.Time

	Step1     *bool
	Step2     *bool
	Step3     *bool
	Completed *bool

	Verification *TokenUpdate
	Reset        *TokenUpdate
	EmailChange  *TokenUpdate
}

type Users interface {
	// Create returns ErrDuplicate when the email or username is taken
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByEmailOrUsername(ctx context.Context, identifier string) (*model.User, error)
	// ByVerificationCode finds the user holding code with an expiry after now
	ByVerificationCode(ctx context.Context, code string, now time.Time) (*model.User, error)
	ByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	// Update applies upd and returns ErrDuplicate on unique violations
	Update(ctx context.Context, id string, upd UserUpdate) error
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	ListExcluding(ctx context.Context, exclude []string, limit int) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.User, error)
	// ClearExpiredTokens wipes code/token pairs that expired before now and
	// reports how many pairs were cleared
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type PostFilter struct {
	AuthorID string
}

type Posts interface {
	Create(ctx context.Context, p *model.Post) error
	ByID(ctx context.Context, id string) (*model.Post, error)
	// List returns posts newest first with Likes and Comments filled
	List(ctx context.Context, f PostFilter) ([]model.Post, error)
	// Delete removes the post together with its comments and likes
	Delete(ctx context.Context, id string) error
	// ToggleLike adds userID to the liker set if absent, removes it otherwise
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, count int, err error)
	// AddComment stores c and appends its id to the post
	AddComment(ctx context.Context, c *model.Comment) error
	// Comments returns the comments of the given posts oldest first
	Comments(ctx context.Context, postIDs []string) ([]model.Comment, error)
}

type Follows interface {
	// Create returns ErrDuplicate when the pair already exists
	Create(ctx context.Context, f *model.Follow) error
	// Delete reports whether an edge was removed
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	// Followers returns edges pointing at userID newest first
	Followers(ctx context.Context, userID string, offset, limit int) ([]model.Follow, int64, error)
	// Following returns edges leaving userID newest first
	Following(ctx context.Context, userID string, offset, limit int) ([]model.Follow, int64, error)
	// Existing returns the subset of targetIDs followerID follows
	Existing(ctx context.Context, followerID string, targetIDs []string) ([]string, error)
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
}

// Store bundles every repository of one backend
type Store struct {
	Users   Users
	Posts   Posts
	Follows Follows
	// Close releases the underlying connection
	Close func(ctx context.Context) error
}
