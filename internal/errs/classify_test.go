package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       Kind
		constraint Constraint
	}{
		{
			name: "nil stays nil",
		},
		{
			name: "gorm record not found",
			err:  gorm.ErrRecordNotFound,
			kind: KindNotFound,
		},
		{
			name:       "gorm duplicated key",
			err:        gorm.ErrDuplicatedKey,
			kind:       KindConflict,
			constraint: ConstraintUnique,
		},
		{
			name:       "gorm foreign key violated",
			err:        gorm.ErrForeignKeyViolated,
			kind:       KindConflict,
			constraint: ConstraintForeignKey,
		},
		{
			name: "wrapped record not found",
			err:  fmt.Errorf("get glossary: %w", gorm.ErrRecordNotFound),
			kind: KindNotFound,
		},
		{
			name:       "postgres unique violation",
			err:        &pgconn.PgError{Code: "23505"},
			kind:       KindConflict,
			constraint: ConstraintUnique,
		},
		{
			name:       "postgres foreign key violation",
			err:        &pgconn.PgError{Code: "23503"},
			kind:       KindConflict,
			constraint: ConstraintForeignKey,
		},
		{
			name: "postgres not null violation is internal",
			err:  &pgconn.PgError{Code: "23502"},
			kind: KindInternal,
		},
		{
			name:       "sqlite unique constraint",
			err:        sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			kind:       KindConflict,
			constraint: ConstraintUnique,
		},
		{
			name:       "sqlite foreign key constraint",
			err:        sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey},
			kind:       KindConflict,
			constraint: ConstraintForeignKey,
		},
		{
			name: "deadline exceeded is internal",
			err:  context.DeadlineExceeded,
			kind: KindInternal,
		},
		{
			name: "unknown error is internal",
			err:  errors.New("connection reset by peer"),
			kind: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}

			assert.Equal(t, tt.kind, KindOf(got))
			assert.Equal(t, tt.constraint, ConstraintOf(got))
		})
	}
}

func TestClassifyKeepsClassifiedErrors(t *testing.T) {
	orig := NotFound("glossary %s not found", "abc")
	got := Classify(fmt.Errorf("wrapped: %w", orig))

	assert.Equal(t, KindNotFound, KindOf(got))
	assert.Equal(t, orig.Message, got.Error())
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: password authentication failed for user")
	err := Internal(cause)

	assert.Equal(t, "internal error", err.Error())
	assert.ErrorIs(t, err, cause)
}
