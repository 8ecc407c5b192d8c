// Package cloudflare provides a client for interacting with the Cloudflare API.
package cloudflare

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/socials-api/aws"
)

type R2Options struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicURL is the r2.dev or custom domain bound to the bucket. R2 has
	// no public endpoint by default so this is required.
	PublicURL string
}

// Endpoint returns the S3 API endpoint of an R2 account
func Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// NewR2 returns an S3 client talking to Cloudflare R2
func NewR2(ctx context.Context, opts R2Options) (*aws.S3Client, error) {
	if opts.AccountID == "" {
		return nil, errors.New("no cloudflare account id configured")
	}

	if opts.PublicURL == "" {
		return nil, errors.New("no public url configured for the R2 bucket")
	}

	return aws.NewS3(ctx, aws.S3Options{
		AccessKey: opts.AccessKey,
		SecretKey: opts.SecretKey,
		Region:    "auto",
		Bucket:    opts.Bucket,
		Endpoint:  Endpoint(opts.AccountID),
		PublicURL: opts.PublicURL,
	})
}
