package service

import (
	"context"
	"time"

	"bitwise74/socials-api/internal/store"

	"go.uber.org/zap"
)

// TokenCleanup periodically wipes expired verification codes and reset
// tokens until ctx is cancelled
func TokenCleanup(ctx context.Context, t time.Duration, users store.Users) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				SweepExpiredTokens(ctx, users, time.Now().UTC())
			}
		}
	}()
}

// SweepExpiredTokens runs a single cleanup pass
func SweepExpiredTokens(ctx context.Context, users store.Users, now time.Time) {
	n, err := users.ClearExpiredTokens(ctx, now)
	if err != nil {
		zap.L().Error("Failed to cleanup expired tokens", zap.Error(err))
		return
	}

	if n > 0 {
		zap.L().Debug("Cleaned up expired tokens", zap.Int64("cleared", n))
	}
}
