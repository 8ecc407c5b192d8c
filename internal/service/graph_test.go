package service

import (
	"testing"
	"time"

	"bitwise74/socials-api/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	e := newEnv(t)
	u1 := e.signUp(t, "Ann")
	u2 := e.signUp(t, "Bob")

	err := e.graph.Follow(e.ctx, u1.ID, u1.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = e.graph.Follow(e.ctx, u1.ID, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, e.graph.Follow(e.ctx, u1.ID, u2.ID))

	err = e.graph.Follow(e.ctx, u1.ID, u2.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualError(t, err, "Already following this user")

	followers, err := e.graph.Followers(e.ctx, u2.ID, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, followers.Total)
	assert.False(t, followers.HasMore)
	assert.Equal(t, 1, followers.CurrentPage)
	assert.Equal(t, 1, followers.TotalPages)
	require.Len(t, followers.Users, 1)
	assert.Equal(t, u1.ID, followers.Users[0].ID)
	assert.True(t, followers.Users[0].FollowedAt.Equal(e.clock()))

	following, err := e.graph.Following(e.ctx, u1.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, following.Users, 1)
	assert.Equal(t, u2.ID, following.Users[0].ID)

	following, err = e.graph.Following(e.ctx, u2.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, following.Users)
	assert.Zero(t, following.TotalPages)
}

func TestUnfollow(t *testing.T) {
	e := newEnv(t)
	u1 := e.signUp(t, "Ann")
	u2 := e.signUp(t, "Bob")

	require.NoError(t, e.graph.Follow(e.ctx, u1.ID, u2.ID))
	require.NoError(t, e.graph.Unfollow(e.ctx, u1.ID, u2.ID))
	require.NoError(t, e.graph.Unfollow(e.ctx, u1.ID, u2.ID))

	err := e.graph.Unfollow(e.ctx, u1.ID, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	followers, err := e.graph.Followers(e.ctx, u2.ID, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, followers.Total)

	// Following again after an unfollow works
	assert.NoError(t, e.graph.Follow(e.ctx, u1.ID, u2.ID))
}

func TestFollowersPagination(t *testing.T) {
	e := newEnv(t)
	target := e.signUp(t, "Target")

	var ids []string
	for _, name := range []string{"Ann", "Bob", "Cat"} {
		u := e.signUp(t, name)
		require.NoError(t, e.graph.Follow(e.ctx, u.ID, target.ID))
		ids = append(ids, u.ID)
		e.advance(time.Second)
	}

	page, err := e.graph.Followers(e.ctx, target.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasMore)
	require.Len(t, page.Users, 2)
	assert.Equal(t, ids[2], page.Users[0].ID)
	assert.Equal(t, ids[1], page.Users[1].ID)

	page, err = e.graph.Followers(e.ctx, target.ID, 2, 2)
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	require.Len(t, page.Users, 1)
	assert.Equal(t, ids[0], page.Users[0].ID)

	page, err = e.graph.Followers(e.ctx, target.ID, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.False(t, page.HasMore)

	page, err = e.graph.Followers(e.ctx, target.ID, 1, 1000)
	require.NoError(t, err)
	assert.Len(t, page.Users, 3)
}

func TestFollowingStatusAndSuggestions(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")
	cat := e.signUp(t, "Cat")

	require.NoError(t, e.graph.Follow(e.ctx, ann.ID, bob.ID))

	status, err := e.graph.FollowingStatus(e.ctx, ann.ID, []string{bob.ID, cat.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{bob.ID: true, cat.ID: false, "missing": false}, status)

	suggestions, err := e.graph.Suggestions(e.ctx, ann.ID, 0)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, cat.ID, suggestions[0].ID)

	suggestions, err = e.graph.Suggestions(e.ctx, cat.ID, 1)
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.NotEqual(t, cat.ID, suggestions[0].ID)
}
