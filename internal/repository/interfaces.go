package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
)

// TaskRepo is the record store the task engine reads and writes through.
// Query results are snapshots: mutating a returned task changes nothing
// until it is passed back to Update.
type TaskRepo interface {
	Insert(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, q TaskQuery) ([]*domain.Task, error)
}

// TaskStore is a TaskRepo that can group writes into one commit.
// Writes made through the repo passed to fn are committed together when fn
// returns nil and discarded otherwise. fn must not use the outer store.
type TaskStore interface {
	TaskRepo
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo TaskRepo) error) error
}

// SortField names a sortable task attribute.
type SortField string

const (
	SortByBucket      SortField = "bucket"
	SortBySortOrder   SortField = "sort_order"
	SortByCreatedAt   SortField = "created_at"
	SortByPlannedDate SortField = "planned_date"
)

// SortKey is one ordering term. Bucket sorts by domain rank, not by tag.
type SortKey struct {
	Field SortField
	Desc  bool
}

func Asc(f SortField) SortKey  { return SortKey{Field: f} }
func Desc(f SortField) SortKey { return SortKey{Field: f, Desc: true} }

// TaskQuery is a conjunction of predicates. Zero-valued fields do not filter.
// Slice fields match any of their values.
type TaskQuery struct {
	ID            string
	Regions       []domain.Region
	Buckets       []domain.TaskBucket
	Statuses      []domain.TaskStatus
	PlannedFrom   *time.Time // planned_date >= PlannedFrom
	PlannedTo     *time.Time // planned_date <= PlannedTo
	PlannedBefore *time.Time // planned_date <  PlannedBefore
	Sort          []SortKey
	Limit         int
}
