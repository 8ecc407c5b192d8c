// Package aws defines functions used to interact with the AWS API
package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Objects above this size go through the multipart uploader
const minMultipartSize = 12 << 20

const cacheControl = "public, max-age=31536000, immutable"

type S3Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	// Endpoint overrides the AWS endpoint for S3 compatible providers
	Endpoint string
	// PublicURL is the base objects are served from. Defaults to the
	// virtual-hosted bucket URL.
	PublicURL string
}

// S3Client stores media in an S3 bucket
type S3Client struct {
	C      *s3.Client
	Bucket *string

	publicURL string
}

func NewS3(ctx context.Context, opts S3Options) (*S3Client, error) {
	if opts.Bucket == "" {
		return nil, errors.New("no bucket configured")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(opts.Bucket)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = opts.Region
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Client{
		C:         client,
		Bucket:    bucket,
		publicURL: PublicBase(opts),
	}, nil
}

// PublicBase returns the URL prefix uploaded objects are reachable under
func PublicBase(opts S3Options) string {
	if opts.PublicURL != "" {
		return strings.TrimRight(opts.PublicURL, "/")
	}

	if opts.Endpoint != "" {
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
}

// URL returns the public URL of key
func (c *S3Client) URL(key string) string {
	return c.publicURL + "/" + key
}

// Owns reports whether url was served from this bucket
func (c *S3Client) Owns(url string) bool {
	_, ok := c.Key(url)
	return ok
}

// Key extracts the object key from a URL returned by Upload. ok is false for
// URLs that point somewhere else.
func (c *S3Client) Key(url string) (key string, ok bool) {
	key, ok = strings.CutPrefix(url, c.publicURL+"/")
	return key, ok && key != ""
}

func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:        c.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(cacheControl),
	}

	var err error
	if size > minMultipartSize {
		u := manager.NewUploader(c.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 5 << 20
		})

		_, err = u.Upload(ctx, in)
	} else {
		_, err = c.C.PutObject(ctx, in)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload object to S3, %w", err)
	}

	zap.L().Debug("Object uploaded", zap.String("key", key), zap.Int64("size", size))

	return c.URL(key), nil
}

func (c *S3Client) Delete(ctx context.Context, url string) error {
	key, ok := c.Key(url)
	if !ok {
		return nil
	}

	_, err := c.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: c.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3, %w", err)
	}

	return nil
}
