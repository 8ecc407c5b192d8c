package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	seen := map[string]bool{}

	for range 100 {
		id, err := NewID()
		require.NoError(t, err)
		assert.Regexp(t, `^[a-zA-Z0-9]{16}$`, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
