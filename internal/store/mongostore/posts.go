package mongostore

import (
	"context"
	"slices"

	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type postRepo struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

func (r *postRepo) Create(ctx context.Context, p *model.Post) error {
	// $addToSet and $push fail on null arrays
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}

	_, err := r.posts.InsertOne(ctx, p)
	return mapErr(err)
}

func (r *postRepo) ByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}

	normalize(&p)
	return &p, nil
}

func (r *postRepo) List(ctx context.Context, f store.PostFilter) ([]model.Post, error) {
	filter := bson.M{}
	if f.AuthorID != "" {
		filter["author"] = f.AuthorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []model.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}

	for i := range posts {
		normalize(&posts[i])
	}

	return posts, nil
}

func normalize(p *model.Post) {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}
}

// Delete is not transactional, a standalone server has no multi-document
// transactions. Comments are removed after the post so a failure leaves
// orphans rather than a post with dangling comment ids.
func (r *postRepo) Delete(ctx context.Context, id string) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}

	_, err = r.comments.DeleteMany(ctx, bson.M{"post_id": id})
	return err
}

type likesOnly struct {
	Likes []string `bson:"likes"`
}

// ToggleLike flips userID's like in one pipeline update so concurrent
// toggles by the same user always see each other's result
func (r *postRepo) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})

	likes := bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}

	toggle := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"likes": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, likes}},
				bson.M{"$filter": bson.M{
					"input": likes,
					"cond":  bson.M{"$ne": bson.A{"$$this", userID}},
				}},
				bson.M{"$concatArrays": bson.A{likes, bson.A{userID}}},
			}},
		}}},
	}

	var doc likesOnly

	err := r.posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, toggle, opts).Decode(&doc)
	if err != nil {
		return false, 0, mapErr(err)
	}

	return slices.Contains(doc.Likes, userID), len(doc.Likes), nil
}

func (r *postRepo) AddComment(ctx context.Context, c *model.Comment) error {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": c.PostID},
		bson.M{"$push": bson.M{"comments": c.ID}},
	)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}

	if _, err := r.comments.InsertOne(ctx, c); err != nil {
		_, perr := r.posts.UpdateOne(ctx,
			bson.M{"_id": c.PostID},
			bson.M{"$pull": bson.M{"comments": c.ID}},
		)
		if perr != nil {
			zap.L().Error("Failed to roll back comment id", zap.Error(perr), zap.String("comment_id", c.ID))
		}

		return mapErr(err)
	}

	return nil
}

func (r *postRepo) Comments(ctx context.Context, postIDs []string) ([]model.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.comments.Find(ctx, bson.M{"post_id": bson.M{"$in": postIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var comments []model.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}
