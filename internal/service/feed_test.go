package service

import (
	"sync"
	"testing"
	"time"

	"bitwise74/socials-api/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListPosts(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")

	_, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	first, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "hello", Tag: "intro"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", first.Author.FirstName)
	assert.Equal(t, "now", first.Age)
	assert.Empty(t, first.Comments)

	e.advance(time.Minute)

	second, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: bob.ID, Content: "with picture", Image: testImage()})
	require.NoError(t, err)
	assert.True(t, e.media.has(second.Image))

	e.advance(2 * time.Hour)

	posts, err := e.feed.ListPosts(e.ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
	assert.Equal(t, "2 hours ago", posts[0].Age)
	assert.Equal(t, "Bob", posts[0].Author.FirstName)
}

func TestLikesAndComments(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")

	post, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "hello"})
	require.NoError(t, err)

	res, err := e.feed.ToggleLike(e.ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikesCount: 1}, *res)

	posts, err := e.feed.ListPosts(e.ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, posts[0].LikedByMe)
	assert.Equal(t, 1, posts[0].LikesCount)

	posts, err = e.feed.ListPosts(e.ctx, ann.ID)
	require.NoError(t, err)
	assert.False(t, posts[0].LikedByMe)

	res, err = e.feed.ToggleLike(e.ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, LikesCount: 0}, *res)

	_, err = e.feed.ToggleLike(e.ctx, "missing", bob.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.feed.AddComment(e.ctx, post.ID, bob.ID, "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = e.feed.AddComment(e.ctx, "missing", bob.ID, "hi")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	c, err := e.feed.AddComment(e.ctx, post.ID, bob.ID, " nice post ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", c.Text)
	assert.Equal(t, "Bob", c.Commenter.FirstName)

	posts, err = e.feed.ListPosts(e.ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, 1, posts[0].CommentsCount)
	assert.Equal(t, c.ID, posts[0].Comments[0].ID)
}

func TestConcurrentLikes(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")

	post, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "hello"})
	require.NoError(t, err)

	users := []string{e.signUp(t, "Bob").ID, e.signUp(t, "Cat").ID, e.signUp(t, "Dan").ID}

	var wg sync.WaitGroup
	for _, id := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.feed.ToggleLike(e.ctx, post.ID, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	posts, err := e.feed.ListPosts(e.ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, len(users), posts[0].LikesCount)
}

func TestPersonalPosts(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")

	_, err := e.feed.ListPersonalPosts(e.ctx, ann.ID, ann.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "No posts found")

	_, err = e.feed.ListPersonalPosts(e.ctx, "missing", ann.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	p1, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "one"})
	require.NoError(t, err)
	_, err = e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "two"})
	require.NoError(t, err)
	_, err = e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: bob.ID, Content: "other"})
	require.NoError(t, err)

	_, err = e.feed.ToggleLike(e.ctx, p1.ID, bob.ID)
	require.NoError(t, err)
	_, err = e.feed.ToggleLike(e.ctx, p1.ID, ann.ID)
	require.NoError(t, err)

	feed, err := e.feed.ListPersonalPosts(e.ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.PostCount)
	assert.Len(t, feed.Posts, 2)
	assert.Equal(t, 2, feed.BlogProfile.TotalLikes)
	assert.Equal(t, "Ann", feed.BlogProfile.FirstName)
}

func TestDeletePost(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")

	post, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "bye", Image: testImage()})
	require.NoError(t, err)

	_, err = e.feed.AddComment(e.ctx, post.ID, bob.ID, "noo")
	require.NoError(t, err)
	_, err = e.feed.ToggleLike(e.ctx, post.ID, bob.ID)
	require.NoError(t, err)

	err = e.feed.DeletePost(e.ctx, post.ID, bob.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, e.feed.DeletePost(e.ctx, post.ID, ann.ID))
	assert.False(t, e.media.has(post.Image))

	comments, err := e.store.Posts.Comments(e.ctx, []string{post.ID})
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = e.feed.DeletePost(e.ctx, post.ID, ann.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	posts, err := e.feed.ListPosts(e.ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDeletePostKeepsForeignImages(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")

	avatar, err := e.profile.SetAvatar(e.ctx, bob.ID, testImage())
	require.NoError(t, err)
	require.True(t, e.media.has(avatar.ProfilePicture))

	_, err = e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "mine now", ImageURL: avatar.ProfilePicture})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	const external = "https://elsewhere.test/cat.png"
	e.media.objects[external] = nil

	post, err := e.feed.CreatePost(e.ctx, CreatePostInput{AuthorID: ann.ID, Content: "linked", ImageURL: external})
	require.NoError(t, err)
	assert.Equal(t, external, post.Image)

	stored, err := e.store.Posts.ByID(e.ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, stored.ImageUploaded)

	require.NoError(t, e.feed.DeletePost(e.ctx, post.ID, ann.ID))
	assert.True(t, e.media.has(external))
	assert.True(t, e.media.has(avatar.ProfilePicture))
	assert.Equal(t, avatar.ProfilePicture, e.user(t, bob.ID).ProfilePicture)
}
