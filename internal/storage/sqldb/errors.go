package sqldb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/restaurante/backend/internal/storage"
)

// PostgreSQL SQLSTATE codes, class 23 (integrity constraint violation).
const (
	pgErrForeignKeyViolation = "23503"
	pgErrUniqueViolation     = "23505"
)

// classify wraps constraint violations of either driver with the matching
// storage sentinel. Other errors are returned as is.
func classify(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, code == sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
		case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", storage.ErrReference, err)
		case code&0xff == sqlite3.SQLITE_CONSTRAINT:
			// Primary code only: fall back to the message.
			msg := sqliteErr.Error()
			if strings.Contains(msg, "FOREIGN KEY") {
				return fmt.Errorf("%w: %v", storage.ErrReference, err)
			}
			if strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "PRIMARY KEY") {
				return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
			}
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgErrUniqueViolation:
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, pqErr.Message)
		case pgErrForeignKeyViolation:
			return fmt.Errorf("%w: %s", storage.ErrReference, pqErr.Message)
		}
	}
	return err
}
