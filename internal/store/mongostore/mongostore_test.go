package mongostore

import (
	"errors"
	"testing"

	"bitwise74/socials-api/internal/store"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestMapErr(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	assert.ErrorIs(t, mapErr(dup), store.ErrDuplicate)
	assert.ErrorIs(t, mapErr(mongo.ErrNoDocuments), store.ErrNotFound)
	assert.NoError(t, mapErr(nil))

	other := errors.New("socket closed")
	assert.Equal(t, other, mapErr(other))
}
