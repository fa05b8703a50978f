package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	return isPgError(err, uniqueViolation)
}

// IsForeignKeyViolation reports whether err is a Postgres foreign-key
// violation.
func IsForeignKeyViolation(err error) bool {
	return isPgError(err, foreignKeyViolation)
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
