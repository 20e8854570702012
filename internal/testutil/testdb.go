package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/charstack/internal/db"
	"github.com/alexanderramin/charstack/internal/repository"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestStore creates a SQLite-backed task store over a fresh test database.
func NewTestStore(t *testing.T) *repository.SQLiteTaskStore {
	t.Helper()
	return repository.NewSQLiteTaskStore(NewTestDB(t))
}

// StoreFactory builds an empty task store for a test.
type StoreFactory func(t *testing.T) repository.TaskStore

// StoreFactories lists every store adapter so behaviour tests can run against each.
func StoreFactories() map[string]StoreFactory {
	return map[string]StoreFactory{
		"sqlite": func(t *testing.T) repository.TaskStore { return NewTestStore(t) },
		"memory": func(t *testing.T) repository.TaskStore { return repository.NewMemoryTaskStore() },
	}
}

// RawTask is a tasks row written without going through a store, for rows
// left behind by older builds or edited by hand.
type RawTask struct {
	ID, Title              string
	Region, Bucket, Status string
	Planned                time.Time
}

// InsertRawTasks writes rows verbatim, including tags the domain does not know.
func InsertRawTasks(t *testing.T, database *sql.DB, rows ...RawTask) {
	t.Helper()
	const layout = "2006-01-02T15:04:05.000000000Z"
	for _, r := range rows {
		ts := r.Planned.UTC().Format(layout)
		_, err := database.Exec(`INSERT INTO tasks
			(id, title, region, bucket, status, planned_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Title, r.Region, r.Bucket, r.Status, ts, ts, ts)
		if err != nil {
			t.Fatalf("inserting raw task %s: %v", r.ID, err)
		}
	}
}
