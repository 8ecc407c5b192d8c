package service

import (
	"time"

	"bitwise74/socials-api/internal/model"
)

const profileDateLayout = "January 2, 2006"

// clock is embedded by every service so tests can pin the time
type clock struct {
	now func() time.Time
}

// SetClock replaces the time source
func (c *clock) SetClock(now func() time.Time) {
	c.now = now
}

// Now returns the current time in UTC
func (c *clock) Now() time.Time {
	if c.now == nil {
		return time.Now().UTC()
	}

	return c.now().UTC()
}

type LevelFlags struct {
	Beginner bool `json:"beginner"`
	Amateur  bool `json:"amateur"`
	Expert   bool `json:"expert"`
}

func levelFlags(level string) LevelFlags {
	switch level {
	case model.LevelBeginner:
		return LevelFlags{Beginner: true}
	case model.LevelExpert:
		return LevelFlags{Expert: true}
	}

	return LevelFlags{Amateur: true}
}

// ProfileView is what a user sees about themselves. It never carries the
// password hash or any token.
type ProfileView struct {
	ID             string           `json:"id"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	Username       string           `json:"username"`
	Phone          string           `json:"phone"`
	Country        string           `json:"country"`
	Bio            string           `json:"bio"`
	ProfilePicture string           `json:"profilePicture"`
	IsVerified     bool             `json:"isVerified"`
	CreatedAt      string           `json:"createdAt"`
	Level          LevelFlags       `json:"level"`
	Onboarding     model.Onboarding `json:"onboarding"`
}

func NewProfileView(u *model.User) *ProfileView {
	return &ProfileView{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Username:       u.UsernameOrEmpty(),
		Phone:          u.Phone,
		Country:        u.Country,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		IsVerified:     u.Verified,
		CreatedAt:      u.CreatedAt.Format(profileDateLayout),
		Level:          levelFlags(u.Level),
		Onboarding:     u.Onboarding,
	}
}

// PublicProfileView is what other users see
type PublicProfileView struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Username       string     `json:"username"`
	Bio            string     `json:"bio"`
	ProfilePicture string     `json:"profilePicture"`
	Country        string     `json:"country"`
	CreatedAt      string     `json:"createdAt"`
	Level          LevelFlags `json:"level"`
}

func NewPublicProfileView(u *model.User) *PublicProfileView {
	return &PublicProfileView{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Username:       u.UsernameOrEmpty(),
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		Country:        u.Country,
		CreatedAt:      u.CreatedAt.Format(profileDateLayout),
		Level:          levelFlags(u.Level),
	}
}

// AuthorView is the display projection embedded in posts, comments and
// follow lists
type AuthorView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
}

func newAuthorView(id string, users map[string]*model.User) AuthorView {
	u, ok := users[id]
	if !ok {
		return AuthorView{ID: id}
	}

	return AuthorView{
		ID:             u.ID,
		Username:       u.UsernameOrEmpty(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

func indexUsers(users []model.User) map[string]*model.User {
	m := make(map[string]*model.User, len(users))
	for i := range users {
		m[users[i].ID] = &users[i]
	}

	return m
}
