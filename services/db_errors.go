package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/facade-admin/store"
	"github.com/facade-admin/store/gormstore"
)

// isReferenced reports whether err is a foreign key rejection
func isReferenced(err error) bool {
	return errors.Is(gormstore.TranslateError(err), store.ErrReferenced)
}

// isDuplicate reports whether err is a unique constraint rejection
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
