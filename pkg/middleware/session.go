package middleware

import (
	"strings"

	"bitwise74/socials-api/app/cookies"
	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/pkg/security"

	"github.com/gin-gonic/gin"
)

// NewSessionMiddleware rejects requests without a valid session token and
// sets userID for the handlers. The token is read from the session cookie or
// an Authorization: Bearer header.
func NewSessionMiddleware(s *security.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.Verify(sessionToken(c), security.KindSession)
		if err != nil {
			reply.Error(c, err)
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(cookies.Session); err == nil && token != "" {
		return token
	}

	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

// NewEmailChangeMiddleware must run after the session middleware. It only lets
// through users holding an email change token minted for their own account.
func NewEmailChangeMiddleware(s *security.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(string)

		token, _ := c.Cookie(cookies.EmailChange)
		if token == "" {
			reply.Error(c, apperr.Unauthorized("Email change not verified, request a new code"))
			return
		}

		claims, err := s.Verify(token, security.KindEmailChange)
		if err != nil {
			reply.Error(c, err)
			return
		}

		if !claims.Verified || claims.UserID != userID {
			reply.Error(c, apperr.Forbidden("Email change token doesn't belong to this account"))
			return
		}

		c.Next()
	}
}
