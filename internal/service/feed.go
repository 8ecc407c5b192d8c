package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/pkg/util"
	"bitwise74/socials-api/pkg/validators"

	"github.com/dustin/go-humanize"
)

const maxCommentLength = 2000

type FeedService struct {
	clock

	store *store.Store
	media MediaStore
}

func NewFeedService(s *store.Store, m MediaStore) *FeedService {
	return &FeedService{store: s, media: m}
}

type CommentView struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	Age       string     `json:"age"`
	Commenter AuthorView `json:"commenter"`
}

type PostView struct {
	ID            string        `json:"id"`
	Content       string        `json:"content"`
	Image         string        `json:"image,omitempty"`
	Tag           string        `json:"tag,omitempty"`
	Visibility    string        `json:"visibility,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	Age           string        `json:"age"`
	Author        AuthorView    `json:"author"`
	LikesCount    int           `json:"likesCount"`
	LikedByMe     bool          `json:"likedByMe"`
	CommentsCount int           `json:"commentsCount"`
	Comments      []CommentView `json:"comments"`
}

type BlogProfile struct {
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
	TotalLikes     int    `json:"totalLikes"`
}

type PersonalFeed struct {
	BlogProfile BlogProfile `json:"blogProfile"`
	PostCount   int         `json:"postCount"`
	Posts       []PostView  `json:"posts"`
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type CreatePostInput struct {
	AuthorID   string
	Content    string
	ImageURL   string
	Tag        string
	Visibility string
	// Image, when set, wins over ImageURL
	Image *validators.Image
}

func (s *FeedService) CreatePost(ctx context.Context, in CreatePostInput) (*PostView, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		if in.Image != nil {
			in.Image.File.Close()
		}
		return nil, apperr.Validation("Content is required")
	}

	id, err := util.NewID()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	image := strings.TrimSpace(in.ImageURL)
	if in.Image == nil && image != "" && s.media.Owns(image) {
		return nil, apperr.Validation("Stored images can't be attached by URL, upload the file instead")
	}

	if in.Image != nil {
		image, err = uploadImage(ctx, s.media, "posts", in.AuthorID, in.Image)
		if err != nil {
			return nil, err
		}
	}

	p := &model.Post{
		ID:         id,
		AuthorID:   in.AuthorID,
		Content:    in.Content,
		Image:         image,
		ImageUploaded: in.Image != nil,
		Tag:        strings.TrimSpace(in.Tag),
		Visibility: strings.TrimSpace(in.Visibility),
		CreatedAt:  s.Now(),
	}

	if err := s.store.Posts.Create(ctx, p); err != nil {
		if in.Image != nil {
			discardMedia(ctx, s.media, image)
		}
		return nil, apperr.Internal(err)
	}

	views, err := s.compose(ctx, []model.Post{*p}, in.AuthorID)
	if err != nil {
		return nil, err
	}

	return &views[0], nil
}

// ListPosts returns every post newest first as seen by viewerID
func (s *FeedService) ListPosts(ctx context.Context, viewerID string) ([]PostView, error) {
	posts, err := s.store.Posts.List(ctx, store.PostFilter{})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return s.compose(ctx, posts, viewerID)
}

// ListPersonalPosts returns the posts of authorID together with a blog
// header. An author without posts yields NotFound.
func (s *FeedService) ListPersonalPosts(ctx context.Context, authorID, viewerID string) (*PersonalFeed, error) {
	author, err := loadUser(ctx, s.store, authorID)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.Posts.List(ctx, store.PostFilter{AuthorID: authorID})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if len(posts) == 0 {
		return nil, apperr.NotFound("No posts found")
	}

	views, err := s.compose(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}

	var totalLikes int
	for _, p := range posts {
		totalLikes += len(p.Likes)
	}

	return &PersonalFeed{
		BlogProfile: BlogProfile{
			Username:       author.UsernameOrEmpty(),
			FirstName:      author.FirstName,
			LastName:       author.LastName,
			Bio:            author.Bio,
			ProfilePicture: author.ProfilePicture,
			TotalLikes:     totalLikes,
		},
		PostCount: len(posts),
		Posts:     views,
	}, nil
}

func (s *FeedService) ToggleLike(ctx context.Context, postID, actorID string) (*LikeResult, error) {
	if postID == "" {
		return nil, apperr.Validation("Post ID is required")
	}

	liked, count, err := s.store.Posts.ToggleLike(ctx, postID, actorID)
	if err != nil {
		return nil, postErr(err)
	}

	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

func (s *FeedService) AddComment(ctx context.Context, postID, actorID, text string) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if postID == "" || text == "" {
		return nil, apperr.Validation("Post ID and comment text are required")
	}

	if len(text) > maxCommentLength {
		return nil, apperr.Validation("Comment is too long")
	}

	id, err := util.NewID()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	c := &model.Comment{
		ID:          id,
		PostID:      postID,
		CommenterID: actorID,
		Text:        text,
		CreatedAt:   s.Now(),
	}

	if err := s.store.Posts.AddComment(ctx, c); err != nil {
		return nil, postErr(err)
	}

	users, err := s.store.Users.ListByIDs(ctx, []string{actorID})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &CommentView{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		Age:       s.age(c.CreatedAt),
		Commenter: newAuthorView(actorID, indexUsers(users)),
	}, nil
}

// DeletePost removes a post owned by actorID along with its comments and
// likes
func (s *FeedService) DeletePost(ctx context.Context, postID, actorID string) error {
	p, err := s.store.Posts.ByID(ctx, postID)
	if err != nil {
		return postErr(err)
	}

	if p.AuthorID != actorID {
		return apperr.Forbidden("You can only delete your own posts")
	}

	if err := s.store.Posts.Delete(ctx, postID); err != nil {
		return postErr(err)
	}

	if p.ImageUploaded {
		discardMedia(ctx, s.media, p.Image)
	}

	return nil
}

func postErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Post not found")
	}

	return apperr.Internal(err)
}

func (s *FeedService) age(t time.Time) string {
	return humanize.RelTime(t, s.Now(), "ago", "from now")
}

// compose attaches author, comment and like data to posts
func (s *FeedService) compose(ctx context.Context, posts []model.Post, viewerID string) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]string, len(posts))
	userIDs := map[string]struct{}{}
	for i, p := range posts {
		postIDs[i] = p.ID
		userIDs[p.AuthorID] = struct{}{}
	}

	comments, err := s.store.Posts.Comments(ctx, postIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byPost := map[string][]model.Comment{}
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
		userIDs[c.CommenterID] = struct{}{}
	}

	ids := make([]string, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}

	users, err := s.store.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byID := indexUsers(users)

	for _, p := range posts {
		cs := make([]CommentView, 0, len(byPost[p.ID]))
		for _, c := range byPost[p.ID] {
			cs = append(cs, CommentView{
				ID:        c.ID,
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
				Age:       s.age(c.CreatedAt),
				Commenter: newAuthorView(c.CommenterID, byID),
			})
		}

		views = append(views, PostView{
			ID:            p.ID,
			Content:       p.Content,
			Image:         p.Image,
			Tag:           p.Tag,
			Visibility:    p.Visibility,
			CreatedAt:     p.CreatedAt,
			Age:           s.age(p.CreatedAt),
			Author:        newAuthorView(p.AuthorID, byID),
			LikesCount:    len(p.Likes),
			LikedByMe:     slices.Contains(p.Likes, viewerID),
			CommentsCount: len(p.Comments),
			Comments:      cs,
		})
	}

	return views, nil
}
