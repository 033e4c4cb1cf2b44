package database

import "parley/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Image{},
		&models.Post{},
		&models.Tag{},
		&models.PostLike{},
		&models.Comment{},
		&models.CommentLike{},
	}
}
