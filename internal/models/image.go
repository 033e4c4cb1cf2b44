package models

import "time"

// Image is the relational record of a blob uploaded to the external store.
// ExternalID is the provider's file handle; ViewLink and DownloadLink are
// durable public URLs returned at upload time. The row is hard-deleted when
// the blob is released.
type Image struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExternalID   string    `gorm:"not null" json:"external_id"`
	ViewLink     string    `gorm:"not null" json:"view_link"`
	DownloadLink string    `gorm:"not null" json:"download_link"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
