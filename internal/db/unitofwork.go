package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Task repositories
// are written against it so the same code runs in and out of a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// TxFunc is the body of a transaction. Returning an error rolls it back.
type TxFunc func(ctx context.Context, tx DBTX) error

// UnitOfWork runs a TxFunc so that all of its writes land together or not
// at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SQLiteUnitOfWork opens one database/sql transaction per WithinTx call.
type SQLiteUnitOfWork struct {
	conn *sql.DB
	wrap func(DBTX) DBTX
}

// UoWOption configures a SQLiteUnitOfWork.
type UoWOption func(*SQLiteUnitOfWork)

// WithTxWrapper decorates the handle each TxFunc receives. Tests use it to
// inject write failures part-way through a transaction.
func WithTxWrapper(wrap func(DBTX) DBTX) UoWOption {
	return func(u *SQLiteUnitOfWork) { u.wrap = wrap }
}

// NewSQLiteUnitOfWork creates a UnitOfWork over conn.
func NewSQLiteUnitOfWork(conn *sql.DB, opts ...UoWOption) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{conn: conn}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WithinTx commits when fn returns nil. On error or panic the transaction
// is rolled back; a panic is re-raised afterwards.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) (err error) {
	tx, err := u.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		rbErr := tx.Rollback()
		if err != nil && rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
	}()

	var handle DBTX = tx
	if u.wrap != nil {
		handle = u.wrap(tx)
	}
	if err := fn(ctx, handle); err != nil {
		return err
	}

	done = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
