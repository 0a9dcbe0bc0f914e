package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxSerializationRetries bounds how often a serializable transaction is
// retried after a 40001 before the conflict is surfaced to the caller.
const maxSerializationRetries = 3

// TxManager runs functions inside database transactions.
// Check-then-write sequences (availability check + insert) must go through
// Serializable so two concurrent requests for the same slot cannot both
// observe "free" before either one writes.
type TxManager interface {
	Serializable(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a TxManager backed by the given pool.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

// Serializable runs fn inside a SERIALIZABLE transaction, retrying a bounded
// number of times when Postgres aborts with a serialization failure.
func (m *pgxTxManager) Serializable(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error

	for attempt := 0; attempt < maxSerializationRetries; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("serializable transaction gave up after %d attempts: %w", maxSerializationRetries, lastErr)
}

func (m *pgxTxManager) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin serializable tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.SerializationFailure
}
