// Package socials serves the feed and the follow graph
package socials

import (
	"net/http"
	"strings"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"
	"bitwise74/socials-api/internal/service"

	"github.com/gin-gonic/gin"
)

type createPostBody struct {
	Content    string `json:"content" form:"content"`
	Image      string `json:"image" form:"image"`
	Tag        string `json:"tag" form:"tag"`
	Visibility string `json:"visibility" form:"visibility"`
}

// CreatePost accepts JSON with an optional image URL, or a multipart form
// with an optional image file
func CreatePost(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data createPostBody
	in := service.CreatePostInput{AuthorID: userID}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&data); err != nil {
			reply.BadRequest(c, "Invalid request body")
			return
		}

		img, ok := reply.FormImage(c, "image", d.MaxImageSize, false)
		if !ok {
			return
		}
		in.Image = img
	} else if !reply.BindJSON(c, &data) {
		return
	}

	in.Content = data.Content
	in.Tag = data.Tag
	in.Visibility = data.Visibility
	if in.Image == nil {
		in.ImageURL = data.Image
	}

	post, err := d.Feed.CreatePost(c.Request.Context(), in)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

func ListPosts(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	posts, err := d.Feed.ListPosts(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// PersonalPosts lists the posts of :id, or of the session user on the
// personal route
func PersonalPosts(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	authorID := c.Param("id")
	if authorID == "" {
		authorID = userID
	}

	feed, err := d.Feed.ListPersonalPosts(c.Request.Context(), authorID, userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

type postIDBody struct {
	PostID string `json:"postId"`
}

func LikePost(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data postIDBody
	if !reply.BindJSON(c, &data) {
		return
	}

	res, err := d.Feed.ToggleLike(c.Request.Context(), data.PostID, userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type commentBody struct {
	PostID      string `json:"postId"`
	CommentText string `json:"commentText"`
}

func CommentPost(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data commentBody
	if !reply.BindJSON(c, &data) {
		return
	}

	comment, err := d.Feed.AddComment(c.Request.Context(), data.PostID, userID, data.CommentText)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

func DeletePost(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	if err := d.Feed.DeletePost(c.Request.Context(), c.Param("id"), userID); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
