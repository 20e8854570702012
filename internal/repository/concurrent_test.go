package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/charstack/internal/db"
	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/repository"
	"github.com/alexanderramin/charstack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that readers never observe a
// half-written row while a writer inserts tasks.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	store := repository.NewSQLiteTaskStore(newConcurrentTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			task := testutil.NewTestTask(fmt.Sprintf("Task-%d", i),
				testutil.InRegion(domain.RegionAfternoon, domain.BucketUnassigned))
			if err := store.Insert(ctx, task); err != nil {
				t.Errorf("writer: insert task %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				tasks, err := store.Query(ctx, repository.TaskQuery{
					Regions: []domain.Region{domain.RegionAfternoon},
				})
				if err != nil {
					t.Errorf("reader %d: query: %v", reader, err)
					return
				}
				for _, task := range tasks {
					if task.ID == "" || task.Title == "" {
						t.Errorf("reader %d: got task with empty fields", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	tasks, err := store.Query(ctx, repository.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, tasks, 20)
}

// TestConcurrentAccess_CheckThenInsertIsSerialized runs many transactions that
// each count a slot and insert only while it has room. Serialised
// transactions must leave the slot exactly full.
func TestConcurrentAccess_CheckThenInsertIsSerialized(t *testing.T) {
	stores := map[string]repository.TaskStore{
		"sqlite": repository.NewSQLiteTaskStore(newConcurrentTestDB(t)),
		"memory": repository.NewMemoryTaskStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			limit := domain.BucketComplementary.MaxCount()
			slot := repository.TaskQuery{
				Regions:  []domain.Region{domain.RegionMorning},
				Buckets:  []domain.TaskBucket{domain.BucketComplementary},
				Statuses: domain.ActiveStatuses,
			}

			retryTx := func(fn func() error) error {
				const maxRetries = 10
				var err error
				for attempt := 0; attempt < maxRetries; attempt++ {
					if err = fn(); err == nil {
						return nil
					}
					time.Sleep(time.Millisecond * time.Duration(1<<attempt))
				}
				return err
			}

			const workers = 12
			var wg sync.WaitGroup
			errCh := make(chan error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					err := retryTx(func() error {
						return store.WithinTx(ctx, func(ctx context.Context, repo repository.TaskRepo) error {
							existing, err := repo.Query(ctx, slot)
							if err != nil {
								return err
							}
							if len(existing) >= limit {
								return nil
							}
							task := testutil.NewTestTask(fmt.Sprintf("Worker-%d", i),
								testutil.InRegion(domain.RegionMorning, domain.BucketComplementary))
							return repo.Insert(ctx, task)
						})
					})
					if err != nil {
						errCh <- err
					}
				}(i)
			}

			wg.Wait()
			close(errCh)
			for err := range errCh {
				require.NoError(t, err)
			}

			tasks, err := store.Query(ctx, slot)
			require.NoError(t, err)
			assert.Len(t, tasks, limit)
		})
	}
}
