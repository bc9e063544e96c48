package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/portersclub/members-api/internal/models"
)

func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return models.ErrConflict
		case "23503": // foreign_key_violation
			return models.ErrBadRequest
		case "23502": // not_null_violation
			return models.ErrBadRequest
		}
	}

	return err
}

// txCloser is the subset of pgx.Tx needed to finish a transaction.
type txCloser interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WithTransaction runs fn inside a transaction. Any error or panic rolls the
// transaction back; the connection is always returned to the pool.
func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	return runTx(ctx, tx, func() error {
		return fn(tx)
	})
}

// runTx executes fn and completes the transaction. The result must be named:
// the deferred commit assigns into it, so a failed commit reaches the caller
// instead of being reported as success.
func runTx(ctx context.Context, tx txCloser, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn()
	return err
}
