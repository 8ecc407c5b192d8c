package service

import (
	"context"
	"fmt"
	"io"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/pkg/util"
	"bitwise74/socials-api/pkg/validators"

	"go.uber.org/zap"
)

// MediaStore keeps binary uploads and hands back public URLs
type MediaStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (url string, err error)
	// Delete removes the object behind a URL returned by Upload. URLs the
	// store doesn't own are ignored.
	Delete(ctx context.Context, url string) error
	// Owns reports whether url points into the store
	Owns(url string) bool
}

// uploadImage stores img under prefix/owner and closes it
func uploadImage(ctx context.Context, m MediaStore, prefix, owner string, img *validators.Image) (string, error) {
	defer img.File.Close()

	id, err := util.NewID()
	if err != nil {
		return "", apperr.Internal(err)
	}

	key := fmt.Sprintf("%s/%s/%s%s", prefix, owner, id, img.Ext)

	url, err := m.Upload(ctx, key, img.File, img.Size, img.ContentType)
	if err != nil {
		return "", apperr.Upstream(fmt.Errorf("failed to upload %s, %w", key, err))
	}

	return url, nil
}

// discardMedia removes an old upload, failures are only logged
func discardMedia(ctx context.Context, m MediaStore, url string) {
	if url == "" {
		return
	}

	if err := m.Delete(ctx, url); err != nil {
		zap.L().Warn("Failed to delete media", zap.Error(err), zap.String("url", url))
	}
}
