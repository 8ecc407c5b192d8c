package reply

import (
	"errors"
	"net/http"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/pkg/validators"

	"github.com/gin-gonic/gin"
)

func tooLarge(c *gin.Context, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}

	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
		"error":     "Request body size exceeds limit",
		"requestID": RequestID(c),
	})

	return true
}

// BindJSON decodes the request body into obj. On failure the response has
// already been written and false is returned.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if !tooLarge(c, err) {
			BadRequest(c, "Invalid request body")
		}

		return false
	}

	return true
}

// FormImage validates the image uploaded as field. A missing file is only an
// error when required is set, otherwise (nil, true) is returned.
func FormImage(c *gin.Context, field string, maxSize int64, required bool) (*validators.Image, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if tooLarge(c, err) {
			return nil, false
		}

		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, true
		}

		BadRequest(c, "No file provided")
		return nil, false
	}

	img, err := validators.ImageValidator(fh, maxSize)
	if err != nil {
		switch {
		case errors.Is(err, validators.ErrFileTooLarge),
			errors.Is(err, validators.ErrFileTypeUnsupported):
			BadRequest(c, err.Error())
		default:
			Error(c, apperr.Internal(err))
		}

		return nil, false
	}

	return img, true
}
