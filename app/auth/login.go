package auth

import (
	"net/http"

	"bitwise74/socials-api/app/cookies"
	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"
	"bitwise74/socials-api/internal/service"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

func Login(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if !reply.BindJSON(c, &data) {
		return
	}

	sess, err := d.Auth.Login(c.Request.Context(), data.EmailOrUsername, data.Password)
	if err != nil {
		reply.Error(c, err)
		return
	}

	cookies.SetSession(c, sess.Token, sess.ExpiresAt, d.SecureCookies)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User logged in successfully",
		"user":    service.NewProfileView(sess.User),
	})
}

func Logout(c *gin.Context, d *internal.Deps) {
	cookies.ClearSession(c, d.SecureCookies)
	cookies.ClearEmailChange(c, d.SecureCookies)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// CheckAuth returns the profile of the session user
func CheckAuth(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	p, err := d.Auth.CheckAuth(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": p})
}
