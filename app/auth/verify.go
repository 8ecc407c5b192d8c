package auth

import (
	"net/http"

	"bitwise74/socials-api/app/cookies"
	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"
	"bitwise74/socials-api/internal/service"

	"github.com/gin-gonic/gin"
)

type verifyBody struct {
	Code string `json:"code"`
}

func VerifyEmail(c *gin.Context, d *internal.Deps) {
	var data verifyBody
	if !reply.BindJSON(c, &data) {
		return
	}

	sess, err := d.Auth.VerifyEmail(c.Request.Context(), data.Code)
	if err != nil {
		reply.Error(c, err)
		return
	}

	cookies.SetSession(c, sess.Token, sess.ExpiresAt, d.SecureCookies)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully",
		"user":    service.NewProfileView(sess.User),
	})
}
