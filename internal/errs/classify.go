package errs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// postgres SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Classify maps a storage-layer failure to the taxonomy. Every repository
// call funnels its error through here, so gorm and driver error shapes never
// leak to the service layer. Anything not consciously classified is internal.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// already classified, keep the original message
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(ConstraintUnique, "duplicate value violates a unique constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Conflict(ConstraintForeignKey, "operation references a missing record")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Internal(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Conflict(ConstraintUnique, "duplicate value violates a unique constraint")
		case pgForeignKeyViolation:
			return Conflict(ConstraintForeignKey, "operation references a missing record")
		}
		return Internal(err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
				return Conflict(ConstraintUnique, "duplicate value violates a unique constraint")
			case sqlite3.ErrConstraintForeignKey:
				return Conflict(ConstraintForeignKey, "operation references a missing record")
			}
		}
		return Internal(err)
	}

	return Internal(err)
}
