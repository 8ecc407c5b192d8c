// Package minio stores media in a MinIO (or any S3 compatible) bucket through
// the MinIO client
package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const cacheControl = "public, max-age=31536000, immutable"

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL defaults to <scheme>://<endpoint>/<bucket>
	PublicURL string
}

type Store struct {
	client    *miniogo.Client
	bucket    string
	publicURL string
}

// New connects to MinIO and creates the bucket if it doesn't exist yet
func New(ctx context.Context, opts Options) (*Store, error) {
	client, err := miniogo.New(opts.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client, %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket, %w", err)
		}

		zap.L().Info("Created minio bucket", zap.String("bucket", opts.Bucket))
	}

	return &Store{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: PublicBase(opts),
	}, nil
}

func PublicBase(opts Options) string {
	if opts.PublicURL != "" {
		return strings.TrimRight(opts.PublicURL, "/")
	}

	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(opts.Endpoint, "/"), opts.Bucket)
}

func (s *Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, miniogo.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to minio, %w", err)
	}

	return s.publicURL + "/" + key, nil
}

func (s *Store) key(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	return key, ok && key != ""
}

func (s *Store) Owns(url string) bool {
	_, ok := s.key(url)
	return ok
}

// Delete ignores URLs that don't belong to the bucket
func (s *Store) Delete(ctx context.Context, url string) error {
	key, ok := s.key(url)
	if !ok {
		return nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object from minio, %w", err)
	}

	return nil
}
