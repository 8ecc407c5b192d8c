package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com",
		PublicBase(S3Options{Bucket: "media", Region: "eu-west-1"}))

	assert.Equal(t, "https://cdn.example.com",
		PublicBase(S3Options{Bucket: "media", PublicURL: "https://cdn.example.com/"}))

	assert.Equal(t, "http://localhost:9000/media",
		PublicBase(S3Options{Bucket: "media", Endpoint: "http://localhost:9000"}))
}

func TestKey(t *testing.T) {
	c := &S3Client{publicURL: "https://cdn.example.com"}

	assert.Equal(t, "https://cdn.example.com/avatars/u1/a.png", c.URL("avatars/u1/a.png"))

	key, ok := c.Key("https://cdn.example.com/avatars/u1/a.png")
	assert.True(t, ok)
	assert.Equal(t, "avatars/u1/a.png", key)

	_, ok = c.Key("https://elsewhere.example.com/a.png")
	assert.False(t, ok)

	_, ok = c.Key("https://cdn.example.com/")
	assert.False(t, ok)

	assert.True(t, c.Owns("https://cdn.example.com/posts/u1/b.png"))
	assert.False(t, c.Owns("https://cdn.example.com.evil.test/posts/u1/b.png"))
	assert.False(t, c.Owns("https://elsewhere.example.com/a.png"))
}
