package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised by unique indexes. The
// optimistic existence checks in the services give the friendly error; the
// index is what actually prevents the check-then-insert race.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether the error is a Postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
