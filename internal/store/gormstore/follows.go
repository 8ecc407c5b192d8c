package gormstore

import (
	"context"

	"bitwise74/socials-api/internal/model"

	"gorm.io/gorm"
)

type followRepo struct {
	db *gorm.DB
}

func (r *followRepo) Create(ctx context.Context, f *model.Follow) error {
	return mapErr(r.db.WithContext(ctx).Create(f).Error)
}

func (r *followRepo) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *followRepo) Followers(ctx context.Context, userID string, offset, limit int) ([]model.Follow, int64, error) {
	return r.page(ctx, "following_id = ?", userID, offset, limit)
}

func (r *followRepo) Following(ctx context.Context, userID string, offset, limit int) ([]model.Follow, int64, error) {
	return r.page(ctx, "follower_id = ?", userID, offset, limit)
}

func (r *followRepo) page(ctx context.Context, cond, userID string, offset, limit int) ([]model.Follow, int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where(cond, userID).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}

	var edges []model.Follow

	err = r.db.WithContext(ctx).
		Where(cond, userID).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&edges).
		Error
	if err != nil {
		return nil, 0, err
	}

	return edges, total, nil
}

func (r *followRepo) Existing(ctx context.Context, followerID string, targetIDs []string) ([]string, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}

	var ids []string

	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, targetIDs).
		Pluck("following_id", &ids).
		Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *followRepo) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).
		Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
