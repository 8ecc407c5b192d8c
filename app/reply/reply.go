// Package reply writes the JSON error bodies shared by every handler
package reply

import (
	"net/http"

	"bitwise74/socials-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestID returns the id set by the request id middleware
func RequestID(c *gin.Context) string {
	id, _ := c.Get("requestID")
	s, _ := id.(string)
	return s
}

// Error aborts the request with the status and public message of err.
// Server side failures are logged with their cause.
func Error(c *gin.Context, err error) {
	requestID := RequestID(c)
	status := apperr.Status(err)

	if status >= http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("requestID", requestID))
	} else {
		zap.L().Debug("Request rejected", zap.Error(err), zap.String("requestID", requestID))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     apperr.PublicMessage(err),
		"requestID": requestID,
	})
}

// BadRequest answers 400 with msg
func BadRequest(c *gin.Context, msg string) {
	Error(c, apperr.Validation(msg))
}
