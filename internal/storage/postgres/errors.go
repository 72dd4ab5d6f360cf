package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// mapError translates a driver error. notFound is returned for sql.ErrNoRows.
func mapError(err error, notFound *domain.DomainError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	if pgErr, ok := pgError(err); ok && pgErr.Code == codeCheckViolation {
		return domain.ErrValidation.WithCause(err)
	}
	return domain.ErrDatabase.WithCause(err)
}

// pgError returns the PostgreSQL error in err's chain, if any.
func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == codeUniqueViolation
}

func isForeignKeyViolation(err error) (constraint string, ok bool) {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != codeForeignKeyViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// rowsAffected maps a zero-row mutation to notFound.
func rowsAffected(res sql.Result, notFound *domain.DomainError) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDatabase.WithCause(err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
