// Package cookies sets and clears the auth cookies
package cookies

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	Session     = "token"
	EmailChange = "emailVerifyToken"
)

func set(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

func maxAge(exp time.Time) int {
	return max(int(time.Until(exp).Seconds()), 1)
}

func SetSession(c *gin.Context, token string, exp time.Time, secure bool) {
	set(c, Session, token, maxAge(exp), secure)
}

func ClearSession(c *gin.Context, secure bool) {
	set(c, Session, "", -1, secure)
}

func SetEmailChange(c *gin.Context, token string, exp time.Time, secure bool) {
	set(c, EmailChange, token, maxAge(exp), secure)
}

func ClearEmailChange(c *gin.Context, secure bool) {
	set(c, EmailChange, "", -1, secure)
}
