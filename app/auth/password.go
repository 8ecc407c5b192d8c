package auth

import (
	"net/http"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"

	"github.com/gin-gonic/gin"
)

type forgotBody struct {
	Email string `json:"email"`
}

func ForgotPassword(c *gin.Context, d *internal.Deps) {
	var data forgotBody
	if !reply.BindJSON(c, &data) {
		return
	}

	if err := d.Auth.ForgotPassword(c.Request.Context(), data.Email); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reset password email sent successfully",
	})
}

type resetBody struct {
	Password string `json:"password"`
}

func ResetPassword(c *gin.Context, d *internal.Deps) {
	var data resetBody
	if !reply.BindJSON(c, &data) {
		return
	}

	if err := d.Auth.ResetPassword(c.Request.Context(), c.Param("token"), data.Password); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}
