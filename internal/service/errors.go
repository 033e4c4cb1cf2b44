// Package service implements the application's business operations on top of
// the repository layer.
package service

import (
	"errors"

	"parley/internal/models"

	"gorm.io/gorm"
)

// notFoundOr maps a record-not-found lookup failure to a NOT_FOUND
// application error; other failures pass through unchanged.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

// isDuplicate reports whether err is a unique-constraint violation surfaced
// by the store.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
