// Package profile serves the home page profile endpoints
package profile

import (
	"net/http"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"
	"bitwise74/socials-api/internal/service"

	"github.com/gin-gonic/gin"
)

func Get(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	p, err := d.Profile.GetProfile(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": p})
}

// GetPublic returns what other users may see about :id
func GetPublic(c *gin.Context, d *internal.Deps) {
	p, err := d.Profile.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": p})
}

type editBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
}

func Edit(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data editBody
	if !reply.BindJSON(c, &data) {
		return
	}

	p, err := d.Profile.EditProfile(c.Request.Context(), userID, service.EditProfileInput{
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Bio:       data.Bio,
	})
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    p,
	})
}

type levelBody struct {
	Level string `json:"level"`
}

func SetLevel(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data levelBody
	if !reply.BindJSON(c, &data) {
		return
	}

	p, err := d.Profile.SetLevel(c.Request.Context(), userID, data.Level)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Level updated successfully",
		"user":    p,
	})
}
