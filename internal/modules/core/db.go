package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	notNullViolation          = "23502"
	checkViolation            = "23514"
	invalidTextRepresentation = "22P02"
	numericValueOutOfRange    = "22003"
)

type TransactionOption func(*sql.TxOptions)

func WithIsolationLevel(isolationLevel sql.IsolationLevel) TransactionOption {
	return func(opts *sql.TxOptions) {
		opts.Isolation = isolationLevel
	}
}

func Tx(
	ctx context.Context,
	db *sqlx.DB,
	transaction func(context.Context, *sqlx.Tx) error,
	opts ...TransactionOption,
) (err error) {
	options := sql.TxOptions{}

	for _, opt := range opts {
		opt(&options)
	}

	tx, err := db.BeginTxx(ctx, &options)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Wrapf(rollbackErr, "transaction panicked with: %v", r)
			} else {
				err = fmt.Errorf("transaction panicked with: %v", r)
			}
		}
	}()

	err = transaction(ctx, tx)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%s: %w", rollbackErr.Error(), err)
		}

		return err
	}

	return tx.Commit()
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation, optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	pqErr, ok := asPQError(err)
	if !ok || pqErr.Code != uniqueViolation {
		return false
	}

	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether err is postgres refusing to remove
// or point at a row another row references.
func IsForeignKeyViolation(err error) bool {
	pqErr, ok := asPQError(err)
	return ok && pqErr.Code == foreignKeyViolation
}

// IsInvalidValue reports whether postgres rejected a value for a column:
// bad format, out of range, null or a failed check constraint.
func IsInvalidValue(err error) bool {
	pqErr, ok := asPQError(err)
	if !ok {
		return false
	}

	switch pqErr.Code {
	case notNullViolation, checkViolation, invalidTextRepresentation, numericValueOutOfRange:
		return true
	}
	return false
}

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil, false
	}
	return pqErr, true
}
