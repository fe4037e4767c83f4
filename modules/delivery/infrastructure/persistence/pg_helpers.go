package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
	fkViolation     = "23503"
)

func pgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool { return pgCode(err, uniqueViolation) }
func isCheckViolation(err error) bool  { return pgCode(err, checkViolation) }
func isFKViolation(err error) bool     { return pgCode(err, fkViolation) }

type rowScanner interface {
	Scan(dest ...any) error
}
