// Package util contains helpers used across the application that don't
// belong to any other package
package util

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength  = 16
)

// NewID returns a random 16 character identifier
func NewID() (string, error) {
	return gonanoid.Generate(idCharset, idLength)
}
