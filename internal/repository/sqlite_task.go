package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/charstack/internal/db"
	"github.com/alexanderramin/charstack/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, title, notes, region, bucket, status, planned_date,
		sort_order, created_at, updated_at, completed_at`

var sortColumns = map[SortField]string{
	SortByBucket:      "bucket_rank",
	SortBySortOrder:   "sort_order",
	SortByCreatedAt:   "created_at",
	SortByPlannedDate: "planned_date",
}

// SQLiteTaskRepo implements TaskRepo over any DBTX, so the same code runs
// against the pool or inside a transaction.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Insert(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, title, notes, region, bucket, bucket_rank, status,
		planned_date, sort_order, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		nullableString(t.Notes),
		string(t.Region),
		string(t.Bucket),
		t.Bucket.Rank(),
		string(t.Status),
		formatTimestamp(t.PlannedDate),
		t.SortOrder,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
		nullableTimestamp(t.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, notes = ?, region = ?, bucket = ?, bucket_rank = ?,
		status = ?, planned_date = ?, sort_order = ?, created_at = ?, updated_at = ?,
		completed_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		nullableString(t.Notes),
		string(t.Region),
		string(t.Bucket),
		t.Bucket.Rank(),
		string(t.Status),
		formatTimestamp(t.PlannedDate),
		t.SortOrder,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
		nullableTimestamp(t.CompletedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) Query(ctx context.Context, q TaskQuery) ([]*domain.Task, error) {
	where, args := buildTaskWhere(q)
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY ` + buildTaskOrder(q.Sort)
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// buildTaskWhere filters enumeration columns on their decoded value, so a
// row matches exactly when the task scanned from it would satisfy
// TaskQuery.Matches.
func buildTaskWhere(q TaskQuery) (string, []any) {
	var clauses []string
	var args []any

	if q.ID != "" {
		clauses = append(clauses, "id = ?")
		args = append(args, q.ID)
	}
	if len(q.Regions) > 0 {
		clauses = append(clauses, db.RegionTagExpr+" IN ("+placeholders(len(q.Regions))+")")
		for _, v := range q.Regions {
			args = append(args, string(v))
		}
	}
	if len(q.Buckets) > 0 {
		clauses = append(clauses, db.BucketTagExpr+" IN ("+placeholders(len(q.Buckets))+")")
		for _, v := range q.Buckets {
			args = append(args, string(v))
		}
	}
	if len(q.Statuses) > 0 {
		clauses = append(clauses, db.StatusTagExpr+" IN ("+placeholders(len(q.Statuses))+")")
		for _, v := range q.Statuses {
			args = append(args, string(v))
		}
	}
	if q.PlannedFrom != nil {
		clauses = append(clauses, "planned_date >= ?")
		args = append(args, formatTimestamp(*q.PlannedFrom))
	}
	if q.PlannedTo != nil {
		clauses = append(clauses, "planned_date <= ?")
		args = append(args, formatTimestamp(*q.PlannedTo))
	}
	if q.PlannedBefore != nil {
		clauses = append(clauses, "planned_date < ?")
		args = append(args, formatTimestamp(*q.PlannedBefore))
	}
	return strings.Join(clauses, " AND "), args
}

func buildTaskOrder(keys []SortKey) string {
	terms := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		col, ok := sortColumns[k.Field]
		if !ok {
			continue
		}
		if k.Desc {
			col += " DESC"
		}
		terms = append(terms, col)
	}
	return strings.Join(append(terms, "id"), ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(rows *sql.Rows) (*domain.Task, error) {
	var t domain.Task
	var notes, completedAt sql.NullString
	var regionStr, bucketStr, statusStr string
	var plannedStr, createdStr, updatedStr string

	err := rows.Scan(
		&t.ID, &t.Title, &notes, &regionStr, &bucketStr, &statusStr, &plannedStr,
		&t.SortOrder, &createdStr, &updatedStr, &completedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Notes = stringPtr(notes)
	t.Region = domain.ParseRegion(regionStr)
	t.Bucket = domain.ParseBucket(bucketStr)
	t.Status = domain.ParseStatus(statusStr)
	t.CompletedAt = parseNullableTimestamp(completedAt)

	if t.PlannedDate, err = parseTimestamp(plannedStr); err != nil {
		return nil, fmt.Errorf("task %s planned_date: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", t.ID, err)
	}
	if t.UpdatedAt, err = parseTimestamp(updatedStr); err != nil {
		return nil, fmt.Errorf("task %s updated_at: %w", t.ID, err)
	}
	return &t, nil
}

// SQLiteTaskStore is the durable TaskStore. Reads and single writes go through
// the pool; WithinTx hands fn a repo bound to one transaction.
type SQLiteTaskStore struct {
	*SQLiteTaskRepo
	uow db.UnitOfWork
}

// NewSQLiteTaskStore creates a store over an open, migrated database.
func NewSQLiteTaskStore(conn *sql.DB) *SQLiteTaskStore {
	return NewSQLiteTaskStoreWithUoW(conn, db.NewSQLiteUnitOfWork(conn))
}

// NewSQLiteTaskStoreWithUoW lets tests substitute the unit of work.
func NewSQLiteTaskStoreWithUoW(conn *sql.DB, uow db.UnitOfWork) *SQLiteTaskStore {
	return &SQLiteTaskStore{SQLiteTaskRepo: NewSQLiteTaskRepo(conn), uow: uow}
}

func (s *SQLiteTaskStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo TaskRepo) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteTaskRepo(tx))
	})
}

var (
	_ TaskRepo  = (*SQLiteTaskRepo)(nil)
	_ TaskStore = (*SQLiteTaskStore)(nil)
)
