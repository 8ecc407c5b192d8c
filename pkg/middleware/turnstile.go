package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bitwise74/socials-api/app/reply"
	"bitwise74/socials-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type turnstileResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

type TurnstileConfig struct {
	Secret string
	// VerifyURL is only overridden in tests
	VerifyURL string
	Client    *http.Client
}

// NewTurnstileMiddleware guards public endpoints against bots by checking the
// TurnstileToken header with Cloudflare
func NewTurnstileMiddleware(cfg TurnstileConfig) gin.HandlerFunc {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = turnstileVerifyURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}

	return func(c *gin.Context) {
		token := c.GetHeader("TurnstileToken")
		if token == "" {
			reply.BadRequest(c, "Missing or invalid turnstile token")
			return
		}

		ok, err := verifyTurnstile(c, cfg, token)
		if err != nil {
			reply.Error(c, apperr.Upstream(err))
			return
		}

		if !ok {
			reply.Error(c, apperr.Unauthorized("Unauthorized"))
			return
		}

		c.Next()
	}
}

func verifyTurnstile(c *gin.Context, cfg TurnstileConfig, token string) (bool, error) {
	body, err := json.Marshal(gin.H{
		"secret":   cfg.Secret,
		"response": token,
		"remoteip": c.ClientIP(),
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, cfg.VerifyURL, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cfg.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach turnstile, %w", err)
	}
	defer resp.Body.Close()

	var res turnstileResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return false, fmt.Errorf("failed to decode turnstile response, %w", err)
	}

	if !res.Success {
		zap.L().Debug("Turnstile challenge failed", zap.Strings("codes", res.ErrorCodes))
	}

	return res.Success, nil
}
