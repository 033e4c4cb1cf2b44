// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// exists runs a COUNT for the given model and condition. Soft-deleted rows
// are excluded by GORM's default scope for models that carry DeletedAt.
func exists(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
