// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered member of the discussion board.
// MobileNumber and Email must be unique among active (non-deleted) users;
// the uniqueness checks live in the user service because a soft-deleted
// user's mobile number or email may be reused.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	MobileNumber string         `gorm:"not null;index" json:"mobile_number"`
	Email        string         `gorm:"not null;index" json:"email"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Posts        []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
