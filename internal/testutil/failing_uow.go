package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/charstack/internal/db"
)

// NewFailOnNthExecUoW returns a unit of work whose transactions fail the
// Nth ExecContext call (counting from 1, per transaction) with err. Reads
// are never counted, so the failure lands on a precise write of a
// multi-task operation such as a rollover.
func NewFailOnNthExecUoW(database *sql.DB, n int32, err error) *db.SQLiteUnitOfWork {
	return db.NewSQLiteUnitOfWork(database, db.WithTxWrapper(func(tx db.DBTX) db.DBTX {
		return &failingExec{DBTX: tx, failOn: n, err: err}
	}))
}

type failingExec struct {
	db.DBTX
	calls  atomic.Int32
	failOn int32
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.calls.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
