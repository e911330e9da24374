// Package repository holds the PostgreSQL persistence layer. Methods with a
// Tx suffix run inside a caller-owned transaction; everything else executes a
// single statement against the pool.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
