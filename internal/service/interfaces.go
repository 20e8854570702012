package service

import (
	"context"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
)

// TaskService allocates tasks into day regions under the 1-3-5 rule and
// rolls unfinished work over to the backlog.
type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	FetchByDay(ctx context.Context, date time.Time, region *domain.Region) ([]*domain.Task, error)
	FetchBacklog(ctx context.Context) ([]*domain.Task, error)
	FetchGroupedBacklog(ctx context.Context) ([]domain.BacklogGroup, error)
	FetchByID(ctx context.Context, id string) (*domain.Task, error)
	UpdateContent(ctx context.Context, id, title string, notes *string) error
	Move(ctx context.Context, id string, region domain.Region, bucket domain.TaskBucket) error
	ToggleCompletion(ctx context.Context, id string) error
	SetSortOrder(ctx context.Context, id string, order int) error
	Delete(ctx context.Context, id string) error

	CountActive(ctx context.Context, region domain.Region, bucket domain.TaskBucket, day time.Time, excludingID string) (int, error)
	RemainingCapacity(ctx context.Context, region domain.Region, bucket domain.TaskBucket, day time.Time) (int, error)
	PerformDayRollover(ctx context.Context) (int, error)

	DayOverview(ctx context.Context, date time.Time) (*DayOverview, error)
	RegionCapacity(ctx context.Context, region domain.Region, date time.Time) (*CapacityReport, error)
	SeedSampleData(ctx context.Context) (int, error)

	// Now is the engine's clock reading.
	Now() time.Time
	WeekStart() time.Weekday
}

// RegionTasks is one active region's share of a day.
type RegionTasks struct {
	Region domain.Region
	Tasks  []*domain.Task
}

// DayOverview summarises one day across the active regions.
type DayOverview struct {
	Date      time.Time
	Regions   []RegionTasks
	Total     int
	Completed int
}

// CompletionFraction is Completed/Total in [0,1], or 0 for an empty day.
func (o *DayOverview) CompletionFraction() float64 {
	if o == nil || o.Total == 0 {
		return 0
	}
	return float64(o.Completed) / float64(o.Total)
}

// TasksIn returns the tasks of region, or nil when the region is not listed.
func (o *DayOverview) TasksIn(region domain.Region) []*domain.Task {
	for _, rt := range o.Regions {
		if rt.Region == region {
			return rt.Tasks
		}
	}
	return nil
}

// BucketCapacity is the occupancy of one constrained bucket.
type BucketCapacity struct {
	Bucket    domain.TaskBucket
	Max       int
	Active    int
	Remaining int
}

// CapacityReport lists bucket occupancy for a region on a day. It is empty
// for the backlog.
type CapacityReport struct {
	Region  domain.Region
	Date    time.Time
	Buckets []BucketCapacity
}
