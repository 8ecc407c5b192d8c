package model

import "time"

// Follow is a directed edge from FollowerID to FollowingID. The pair is unique.
type Follow struct {
	ID          string    `gorm:"primaryKey;size:16" bson:"_id"`
	FollowerID  string    `gorm:"not null;uniqueIndex:idx_follow_pair;index:idx_follower_created,priority:1" bson:"follower"`
	FollowingID string    `gorm:"not null;uniqueIndex:idx_follow_pair;index:idx_following_created,priority:1" bson:"following"`
	CreatedAt   time.Time `gorm:"index:idx_follower_created,priority:2;index:idx_following_created,priority:2" bson:"created_at"`
}
