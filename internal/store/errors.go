package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateSlug is returned when a blog post save collides with an
// existing slug. The caller reports a conflict instead of overwriting.
var ErrDuplicateSlug = errors.New("slug already in use")

// uniqueViolation detects a Postgres unique constraint error (23505).
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
