package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reactivities-app/backend/internal/repository"
)

const uniqueViolation = "23505"

// mapConstraintError translates constraint violations into repository
// sentinels so services stay store-agnostic.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return repository.ErrDuplicate
		}
	}
	return err
}
