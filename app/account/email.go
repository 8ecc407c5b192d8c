package account

import (
	"net/http"

	"bitwise74/socials-api/app/cookies"
	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"

	"github.com/gin-gonic/gin"
)

func EmailChangeCode(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	if err := d.Account.RequestEmailChangeCode(c.Request.Context(), userID); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email change code sent"})
}

type otpBody struct {
	OTP string `json:"otp"`
}

// VerifyEmailChangeCode trades a valid OTP for the short lived cookie that
// unlocks ChangeEmail
func VerifyEmailChangeCode(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data otpBody
	if !reply.BindJSON(c, &data) {
		return
	}

	grant, err := d.Account.VerifyEmailChangeCode(c.Request.Context(), userID, data.OTP)
	if err != nil {
		reply.Error(c, err)
		return
	}

	cookies.SetEmailChange(c, grant.Token, grant.ExpiresAt, d.SecureCookies)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Code verified, you can now change your email",
		"expiresAt": grant.ExpiresAt,
	})
}

type changeEmailBody struct {
	NewEmail string `json:"newEmail"`
}

func ChangeEmail(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data changeEmailBody
	if !reply.BindJSON(c, &data) {
		return
	}

	email, err := d.Account.ChangeEmail(c.Request.Context(), userID, data.NewEmail)
	if err != nil {
		reply.Error(c, err)
		return
	}

	cookies.ClearEmailChange(c, d.SecureCookies)

	c.JSON(http.StatusOK, gin.H{
		"message": "Email changed successfully",
		"email":   email,
	})
}
