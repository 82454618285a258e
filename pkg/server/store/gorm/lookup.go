package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/saltstack/porch/pkg/server/store"
)

// first loads the first matching record into dest. It reports whether a
// record was found; a missing record is not an error.
func first(tx *gorm.DB, dest interface{}) (bool, error) {
	err := tx.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// affected turns a delete or update touching no rows into store.ErrNotFound
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
