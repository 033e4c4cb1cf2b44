package models

import "time"

// Comment is either a top-level comment on a post (ParentCommentID nil) or a
// one-level reply to another comment. A user may leave at most one top-level
// comment per post and at most one reply per parent comment; both rules are
// enforced by a unique index on (user_id, post_id, COALESCE(parent_comment_id, 0))
// created by the SQL migrations. Comments are hard-deleted with their whole
// reply subtree.
type Comment struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Content         string   `gorm:"type:text;not null" json:"content"`
	UserID          uint     `gorm:"not null;index" json:"user_id"`
	PostID          uint     `gorm:"not null;index" json:"post_id"`
	ParentCommentID *uint    `gorm:"index" json:"parent_comment_id,omitempty"`
	ParentComment   *Comment `gorm:"foreignKey:ParentCommentID" json:"-"`
	// LikeCount is a denormalized counter kept in sync with the
	// comment_likes table inside the like transaction.
	LikeCount int       `gorm:"not null;default:0" json:"like_count"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post      Post      `gorm:"foreignKey:PostID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentThread is a top-level comment together with its ordered replies,
// as reconstructed from the flat comment/reply join.
type CommentThread struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"user_id"`
	Content   string         `json:"content"`
	LikeCount int            `json:"like_count"`
	CreatedAt time.Time      `json:"created_at"`
	Replies   []CommentReply `json:"replies"`
}

// CommentReply is a single reply entry inside a CommentThread.
type CommentReply struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}
