// Package mongostore implements the store contracts on MongoDB
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/socials-api/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	userCollection    = "users"
	postCollection    = "posts"
	commentCollection = "comments"
	followCollection  = "follows"
)

// New creates the indexes every collection relies on and returns the store
func New(ctx context.Context, db *mongo.Database) (*store.Store, error) {
	indexes := map[string][]mongo.IndexModel{
		userCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				// Users without a username omit the field entirely
				Keys: bson.D{{Key: "username", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"username": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "verification_code", Value: 1}}},
			{Keys: bson.D{{Key: "reset_token", Value: 1}}},
		},
		postCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		commentCollection: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		followCollection: {
			{
				Keys:    bson.D{{Key: "follower", Value: 1}, {Key: "following", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "following", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "follower", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return nil, fmt.Errorf("failed to create %s indexes, %w", coll, err)
		}
	}

	return &store.Store{
		Users:   &userRepo{c: db.Collection(userCollection)},
		Posts:   &postRepo{posts: db.Collection(postCollection), comments: db.Collection(commentCollection)},
		Follows: &followRepo{c: db.Collection(followCollection)},
		Close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	}

	return err
}
