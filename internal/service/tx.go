package service

import (
	"errors"

	"opina/internal/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const maxTxRetries = 3

// isConflict reports whether err is a transient concurrency collision that is
// safe to retry from scratch (MySQL deadlock or lock wait timeout).
func isConflict(err error) bool {
	if errors.Is(err, domain.ErrStorageConflict) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// runInTx executes fn in a database transaction, retrying the whole unit a
// bounded number of times on transient conflicts. A failed attempt leaves no
// partial effects; exhausted retries surface as ErrStorageConflict.
func runInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isConflict(err) {
			return err
		}
	}
	return domain.ErrStorageConflict
}
