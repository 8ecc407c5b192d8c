// Package auth contains the signup, login and password recovery endpoints
package auth

import (
	"net/http"

	"bitwise74/socials-api/app/cookies"
	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"
	"bitwise74/socials-api/internal/service"

	"github.com/gin-gonic/gin"
)

type signUpBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func SignUp(c *gin.Context, d *internal.Deps) {
	var data signUpBody
	if !reply.BindJSON(c, &data) {
		return
	}

	sess, err := d.Auth.SignUp(c.Request.Context(), service.SignUpInput{
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
		Password:  data.Password,
	})
	if err != nil {
		reply.Error(c, err)
		return
	}

	cookies.SetSession(c, sess.Token, sess.ExpiresAt, d.SecureCookies)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Signup successful",
		"user":    service.NewProfileView(sess.User),
	})
}
