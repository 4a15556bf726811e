// Package persistence provides database implementations for the live-class
// repositories.
package persistence

import (
	"errors"
	"strings"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrClassNotFound aliases the domain sentinel so callers can match it
// without importing this package.
var ErrClassNotFound = domain.ErrClassNotFound

// mapPostgresError converts a unique-violation (23505) into the domain's
// duplicate sentinel so application code can treat racing inserts uniformly.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicate
	}
	return err
}

// mapSQLiteError converts a SQLite unique-constraint failure into the
// domain's duplicate sentinel. modernc.org/sqlite surfaces constraint
// violations as plain errors, so the message is the only signal.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrDuplicate
	}
	return err
}
