package socials

import (
	"net/http"
	"strconv"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"

	"github.com/gin-gonic/gin"
)

type followBody struct {
	FollowingID string `json:"followingId"`
}

func Follow(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data followBody
	if !reply.BindJSON(c, &data) {
		return
	}

	if err := d.Graph.Follow(c.Request.Context(), userID, data.FollowingID); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User followed successfully"})
}

func Unfollow(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data followBody
	if !reply.BindJSON(c, &data) {
		return
	}

	if err := d.Graph.Unfollow(c.Request.Context(), userID, data.FollowingID); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed successfully"})
}

// queryInt returns 0 for a missing or malformed value, the service applies
// the defaults
func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// targetUser is ?userId when given, the session user otherwise
func targetUser(c *gin.Context) string {
	if id := c.Query("userId"); id != "" {
		return id
	}

	return c.MustGet("userID").(string)
}

func Followers(c *gin.Context, d *internal.Deps) {
	page, err := d.Graph.Followers(c.Request.Context(), targetUser(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func Following(c *gin.Context, d *internal.Deps) {
	page, err := d.Graph.Following(c.Request.Context(), targetUser(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

type statusBody struct {
	UserIDs []string `json:"userIds"`
}

func FollowingStatus(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data statusBody
	if !reply.BindJSON(c, &data) {
		return
	}

	if len(data.UserIDs) == 0 {
		reply.BadRequest(c, "userIds must be a non-empty array")
		return
	}

	status, err := d.Graph.FollowingStatus(c.Request.Context(), userID, data.UserIDs)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followingStatus": status})
}

func Suggestions(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	users, err := d.Graph.Suggestions(c.Request.Context(), userID, queryInt(c, "limit"))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": users})
}
