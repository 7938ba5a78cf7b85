package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrDuplicate is returned when an insert violates a uniqueness invariant.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned when a lookup matches no rows.
	ErrNotFound = errors.New("record not found")
)

// isDuplicateEntry reports whether err is a MySQL unique key violation (error 1062)
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
