// Package account serves the account settings page
package account

import (
	"net/http"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"

	"github.com/gin-gonic/gin"
)

type changePasswordBody struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
}

func ChangePassword(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data changePasswordBody
	if !reply.BindJSON(c, &data) {
		return
	}

	if err := d.Account.ChangePassword(c.Request.Context(), userID, data.CurrentPassword, data.Password); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

type changeUsernameBody struct {
	NewUsername string `json:"newUsername"`
}

func ChangeUsername(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data changeUsernameBody
	if !reply.BindJSON(c, &data) {
		return
	}

	username, err := d.Account.ChangeUsername(c.Request.Context(), userID, data.NewUsername)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Username changed successfully",
		"username": username,
	})
}

// VerificationCode mails a fresh email verification code
func VerificationCode(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	if err := d.Account.RequestVerificationCode(c.Request.Context(), userID); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}
