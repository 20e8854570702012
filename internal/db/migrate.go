package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SchemaVersion is recorded in schema_meta after a successful migration.
const SchemaVersion = 3

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateNormalizeTags(db); err != nil {
		return fmt.Errorf("normalizing enumeration tags: %w", err)
	}
	if err := migrateBackfillBucketRank(db); err != nil {
		return fmt.Errorf("backfilling bucket_rank values: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_meta (key, value) VALUES ('version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, SchemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// Enumeration columns carry no CHECK constraint: unknown tags written by newer
// or older builds must load and decode to a safe default.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schema_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		notes        TEXT,
		region       TEXT NOT NULL DEFAULT 'backlog',
		bucket       TEXT NOT NULL DEFAULT 'none',
		status       TEXT NOT NULL DEFAULT 'todo',
		planned_date TEXT NOT NULL,
		sort_order   INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		completed_at TEXT
	)`,

	// v2: bucket_rank keeps ORDER BY in domain order (must, complementary, misc, none)
	// instead of the alphabetical order of the tags.
	`ALTER TABLE tasks ADD COLUMN bucket_rank INTEGER NOT NULL DEFAULT 3`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_planned ON tasks(planned_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_slot ON tasks(region, bucket, planned_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_region_created ON tasks(region, created_at)`,
}

// migrateNormalizeTags rewrites legacy and unknown enumeration tags to the
// canonical tag they decode to, so indexes on the raw columns stay useful.
// Only rows whose tag differs from its decoded form are touched.
func migrateNormalizeTags(db *sql.DB) error {
	ctx := context.Background()
	for _, c := range []struct{ col, expr string }{
		{"region", RegionTagExpr},
		{"bucket", BucketTagExpr},
		{"status", StatusTagExpr},
	} {
		stmt := `UPDATE tasks SET ` + c.col + ` = ` + c.expr + ` WHERE ` + c.col + ` != ` + c.expr
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("updating %s: %w", c.col, err)
		}
	}
	return nil
}

// migrateBackfillBucketRank derives bucket_rank from the bucket tag for rows
// written before the column existed. Idempotent: only mismatched rows change.
func migrateBackfillBucketRank(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE tasks SET bucket_rank = CASE bucket
			WHEN 'must' THEN 0
			WHEN 'complementary' THEN 1
			WHEN 'misc' THEN 2
			ELSE 3 END
		WHERE bucket_rank != CASE bucket
			WHEN 'must' THEN 0
			WHEN 'complementary' THEN 1
			WHEN 'misc' THEN 2
			ELSE 3 END`)
	if err != nil {
		return fmt.Errorf("updating bucket_rank: %w", err)
	}
	return nil
}
