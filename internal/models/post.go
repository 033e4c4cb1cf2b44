package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a discussion post. Posts are soft-deleted; their tags are
// hard-deleted and their image reference released on delete.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ImageID *uint  `gorm:"index" json:"image_id,omitempty"`
	Image   *Image `gorm:"foreignKey:ImageID" json:"image,omitempty"`
	// LikeCount is a denormalized counter kept in sync with the post_likes
	// table inside the like transaction.
	LikeCount int   `gorm:"not null;default:0" json:"like_count"`
	Tags      []Tag `gorm:"foreignKey:PostID" json:"tags,omitempty"`
	// TagLabels and ImageViewLink are not persisted; populated on enriched reads.
	TagLabels     []string       `gorm:"-" json:"tag_labels,omitempty"`
	ImageViewLink string         `gorm:"-" json:"image_view_link,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
