package repositories

import (
	stderrors "errors"

	"itms-api/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes we translate into API errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgCheckViolation
}

// conflictOn maps a unique violation to a 409 with the given message,
// otherwise wraps as an internal error.
func conflictOn(err error, message, fallback string) error {
	if isUniqueViolation(err) {
		return errors.WrapError(err, errors.ErrConflict.Code, message, errors.ErrConflict.Status)
	}
	return errors.WrapError(err, errors.ErrInternalServer.Code, fallback, errors.ErrInternalServer.Status)
}
