package profile

import (
	"net/http"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal"

	"github.com/gin-gonic/gin"
)

func UploadPicture(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	img, ok := reply.FormImage(c, "profilePicture", d.MaxImageSize, true)
	if !ok {
		return
	}

	p, err := d.Profile.SetAvatar(c.Request.Context(), userID, img)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile picture updated successfully",
		"user":    p,
	})
}

func DeletePicture(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	p, err := d.Profile.DeleteAvatar(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile picture deleted successfully",
		"user":    p,
	})
}
