package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// pgCode returns the SQLSTATE of a postgres error, "" for anything else
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isPgDuplicateError(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isPgForeignKeyError(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isPgSerializationError reports whether a serializable transaction lost
// a conflict and may succeed when retried
func isPgSerializationError(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}
