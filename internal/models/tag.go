package models

import "time"

// Tag is a free-form label attached to a post. Duplicate labels are allowed.
// Tags are hard-replaced on post update (delete-all then insert-all) and
// hard-deleted on post delete, so there is no soft-delete column.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"not null;index" json:"label"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
