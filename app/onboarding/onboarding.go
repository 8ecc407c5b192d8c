// Package onboarding walks new users through their first profile setup
package onboarding

import (
	"net/http"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"

	"github.com/gin-gonic/gin"
)

func Status(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	status, err := d.Onboarding.Status(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"onboarding": status})
}

type usernameBody struct {
	Username string `json:"username"`
}

func Username(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data usernameBody
	if !reply.BindJSON(c, &data) {
		return
	}

	username, err := d.Onboarding.SetUsername(c.Request.Context(), userID, data.Username)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Username saved",
		"username": username,
	})
}

type phoneBody struct {
	Phone string `json:"phone"`
}

func Phone(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data phoneBody
	if !reply.BindJSON(c, &data) {
		return
	}

	status, err := d.Onboarding.SetPhone(c.Request.Context(), userID, data.Phone)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Phone number saved",
		"onboarding": status,
	})
}

type countryBody struct {
	Country string `json:"country"`
}

func Country(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data countryBody
	if !reply.BindJSON(c, &data) {
		return
	}

	status, err := d.Onboarding.SetCountry(c.Request.Context(), userID, data.Country)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Country saved",
		"onboarding": status,
	})
}

func ProfilePicture(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	img, ok := reply.FormImage(c, "profilePicture", d.MaxImageSize, true)
	if !ok {
		return
	}

	p, err := d.Onboarding.SetProfilePicture(c.Request.Context(), userID, img)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Onboarding completed",
		"user":    p,
	})
}

// Skip marks :step (one, two, three or all) as done
func Skip(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	status, err := d.Onboarding.Skip(c.Request.Context(), userID, c.Param("step"))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"onboarding": status})
}
