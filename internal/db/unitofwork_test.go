package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/charstack/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openConn(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

const insertTask = `INSERT INTO tasks
	(id, title, region, bucket, bucket_rank, status, planned_date, sort_order, created_at, updated_at)
	VALUES (?, ?, 'backlog', 'none', 3, 'todo', '2025-06-15', 0, '2025-06-15', '2025-06-15')`

func countTasks(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n))
	return n
}

func insertTwo(ctx context.Context, tx db.DBTX) error {
	if _, err := tx.ExecContext(ctx, insertTask, "t1", "first"); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, insertTask, "t2", "second")
	return err
}

func TestWithinTx_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		fn      db.TxFunc
		wantErr string
		want    int
	}{
		{
			name: "commit",
			fn:   insertTwo,
			want: 2,
		},
		{
			name: "error rolls back every write",
			fn: func(ctx context.Context, tx db.DBTX) error {
				if err := insertTwo(ctx, tx); err != nil {
					return err
				}
				return errors.New("validation failed")
			},
			wantErr: "validation failed",
		},
		{
			name: "failing statement rolls back earlier writes",
			fn: func(ctx context.Context, tx db.DBTX) error {
				if _, err := tx.ExecContext(ctx, insertTask, "t1", "first"); err != nil {
					return err
				}
				_, err := tx.ExecContext(ctx, insertTask, "t1", "duplicate")
				return err
			},
			wantErr: "UNIQUE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := openConn(t)
			err := db.NewSQLiteUnitOfWork(conn).WithinTx(context.Background(), tt.fn)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, countTasks(t, conn))
		})
	}
}

func TestWithinTx_PanicRollsBackAndPropagates(t *testing.T) {
	conn := openConn(t)
	uow := db.NewSQLiteUnitOfWork(conn)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertTask, "t1", "first")
			panic("boom")
		})
	})
	assert.Zero(t, countTasks(t, conn))

	// The single pooled connection must be usable again.
	require.NoError(t, uow.WithinTx(context.Background(), insertTwo))
	assert.Equal(t, 2, countTasks(t, conn))
}

func TestWithinTx_CanceledContextNeverRunsCallback(t *testing.T) {
	uow := db.NewSQLiteUnitOfWork(openConn(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

type countingTx struct {
	db.DBTX
	execs *int
}

func (c countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	*c.execs++
	return c.DBTX.ExecContext(ctx, query, args...)
}

func TestWithTxWrapper_DecoratesHandle(t *testing.T) {
	conn := openConn(t)
	execs := 0
	uow := db.NewSQLiteUnitOfWork(conn, db.WithTxWrapper(func(tx db.DBTX) db.DBTX {
		return countingTx{DBTX: tx, execs: &execs}
	}))

	require.NoError(t, uow.WithinTx(context.Background(), insertTwo))
	assert.Equal(t, 2, execs)
	assert.Equal(t, 2, countTasks(t, conn))
}
