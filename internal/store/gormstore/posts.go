package gormstore

import (
	"context"

	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postRepo struct {
	db *gorm.DB
}

func (r *postRepo) Create(ctx context.Context, p *model.Post) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return mapErr(err)
	}

	p.Likes = []string{}
	p.Comments = []string{}

	return nil
}

func (r *postRepo) ByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).
		Error
	if err != nil {
		return nil, mapErr(err)
	}

	posts := []model.Post{p}
	if err := r.fill(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

func (r *postRepo) List(ctx context.Context, f store.PostFilter) ([]model.Post, error) {
	q := r.db.WithContext(ctx).Order("created_at desc, id desc")
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}

	var posts []model.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}

	if err := r.fill(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// fill loads liker and comment ids for posts in two queries
func (r *postRepo) fill(ctx context.Context, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	idx := make(map[string]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		idx[posts[i].ID] = i
		posts[i].Likes = []string{}
		posts[i].Comments = []string{}
	}

	var likes []model.PostLike
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("created_at asc").
		Find(&likes).
		Error
	if err != nil {
		return err
	}

	for _, l := range likes {
		p := &posts[idx[l.PostID]]
		p.Likes = append(p.Likes, l.UserID)
	}

	var comments []model.Comment
	err = r.db.WithContext(ctx).
		Select("id", "post_id").
		Where("post_id IN ?", ids).
		Order("created_at asc, id asc").
		Find(&comments).
		Error
	if err != nil {
		return err
	}

	for _, c := range comments {
		p := &posts[idx[c.PostID]]
		p.Comments = append(p.Comments, c.ID)
	}

	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}

		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		return tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error
	})
}

func (r *postRepo) ToggleLike(ctx context.Context, postID, userID string) (liked bool, count int, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.PostLike{PostID: postID, UserID: userID}).
				Error
			if err != nil {
				return err
			}

			liked = true
		}

		var n int64
		if err := tx.Model(&model.PostLike{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
			return err
		}

		count = int(n)
		return nil
	})

	return liked, count, err
}

func (r *postRepo) AddComment(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, c.PostID); err != nil {
			return err
		}

		return tx.Create(c).Error
	})
}

func (r *postRepo) Comments(ctx context.Context, postIDs []string) ([]model.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	var comments []model.Comment

	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at asc, id asc").
		Find(&comments).
		Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func postExists(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&model.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}

	if n == 0 {
		return store.ErrNotFound
	}

	return nil
}
