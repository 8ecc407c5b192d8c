package model

import "time"

type Post struct {
	ID         string `gorm:"primaryKey;size:16" bson:"_id"`
	AuthorID   string `gorm:"not null;index" bson:"author"`
	Content    string `gorm:"not null" bson:"content"`
	Image      string `bson:"image"`
	Tag        string `bson:"tag"`
	Visibility string `bson:"visibility"`

	// ImageUploaded is set when Image was stored through the media store for
	// this post. Only then does deleting the post remove the object.
	ImageUploaded bool `gorm:"default:false" bson:"image_uploaded"`

	// Likes holds liker IDs in like order. The SQL backend keeps them in
	// post_likes and fills this on read.
	Likes []string `gorm:"-" bson:"likes"`
	// Comments holds comment IDs in creation order. Filled on read by the
	// SQL backend.
	Comments []string `gorm:"-" bson:"comments"`

	CreatedAt time.Time `gorm:"index" bson:"created_at"`
}

// PostLike is the SQL representation of a single entry in a post's liker
// set. The composite key makes a like unique per (post, user).
type PostLike struct {
	PostID    string    `gorm:"primaryKey;size:16"`
	UserID    string    `gorm:"primaryKey;size:16;index"`
	CreatedAt time.Time `gorm:"index"`
}

type Comment struct {
	ID          string    `gorm:"primaryKey;size:16" bson:"_id"`
	PostID      string    `gorm:"not null;index" bson:"post_id"`
	CommenterID string    `gorm:"not null" bson:"commenter_id"`
	Text        string    `gorm:"not null" bson:"text"`
	CreatedAt   time.Time `gorm:"index" bson:"created_at"`
}
