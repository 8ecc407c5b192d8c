package mongostore

import (
	"context"

	"bitwise74/socials-api/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type followRepo struct {
	c *mongo.Collection
}

func (r *followRepo) Create(ctx context.Context, f *model.Follow) error {
	_, err := r.c.InsertOne(ctx, f)
	return mapErr(err)
}

func (r *followRepo) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res, err := r.c.DeleteOne(ctx, bson.M{"follower": followerID, "following": followingID})
	if err != nil {
		return false, err
	}

	return res.DeletedCount > 0, nil
}

func (r *followRepo) Followers(ctx context.Context, userID string, offset, limit int) ([]model.Follow, int64, error) {
	return r.page(ctx, bson.M{"following": userID}, offset, limit)
}

func (r *followRepo) Following(ctx context.Context, userID string, offset, limit int) ([]model.Follow, int64, error) {
	return r.page(ctx, bson.M{"follower": userID}, offset, limit)
}

func (r *followRepo) page(ctx context.Context, filter bson.M, offset, limit int) ([]model.Follow, int64, error) {
	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	edges, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	return edges, total, nil
}

func (r *followRepo) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]model.Follow, error) {
	cur, err := r.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var edges []model.Follow
	if err := cur.All(ctx, &edges); err != nil {
		return nil, err
	}

	return edges, nil
}

func followingOf(edges []model.Follow) []string {
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.FollowingID
	}

	return ids
}

func (r *followRepo) Existing(ctx context.Context, followerID string, targetIDs []string) ([]string, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}

	edges, err := r.find(ctx, bson.M{"follower": followerID, "following": bson.M{"$in": targetIDs}})
	if err != nil {
		return nil, err
	}

	return followingOf(edges), nil
}

func (r *followRepo) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	edges, err := r.find(ctx, bson.M{"follower": followerID})
	if err != nil {
		return nil, err
	}

	return followingOf(edges), nil
}
