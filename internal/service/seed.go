package service

import (
	"context"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/repository"
)

type sampleTask struct {
	title   string
	notes   string
	region  domain.Region
	bucket  domain.TaskBucket
	status  domain.TaskStatus
	dayDiff int
	order   int
}

// sampleTasks spans every region and bucket without exceeding any limit.
var sampleTasks = []sampleTask{
	{title: "Review quarterly report", region: domain.RegionMorning, bucket: domain.BucketMust},
	{title: "Reply to team emails", region: domain.RegionMorning, bucket: domain.BucketComplementary},
	{title: "Update project board", region: domain.RegionMorning, bucket: domain.BucketComplementary, order: 1},
	{title: "Water office plants", region: domain.RegionMorning, bucket: domain.BucketMisc},
	{title: "Organize desk", notes: "Clear out old papers and file important documents",
		region: domain.RegionMorning, bucket: domain.BucketMisc, order: 1},

	{title: "Finish API integration", notes: "Complete the REST endpoints for the user service",
		region: domain.RegionAfternoon, bucket: domain.BucketMust},
	{title: "Write unit tests", region: domain.RegionAfternoon, bucket: domain.BucketComplementary},
	{title: "Code review PR #42", region: domain.RegionAfternoon, bucket: domain.BucketMisc},

	{title: "Plan tomorrow's tasks", region: domain.RegionEvening, bucket: domain.BucketMust},
	{title: "Read architecture chapter", region: domain.RegionEvening, bucket: domain.BucketComplementary},

	{title: "Morning standup", region: domain.RegionMorning, bucket: domain.BucketMisc,
		status: domain.StatusDone, order: 2},

	{title: "Research CI/CD options", notes: "Compare GitHub Actions, Buildkite, and GitLab CI",
		region: domain.RegionBacklog, bucket: domain.BucketUnassigned, status: domain.StatusDeferred, dayDiff: -1},
	{title: "Update app icons", region: domain.RegionBacklog, bucket: domain.BucketUnassigned,
		status: domain.StatusDeferred, dayDiff: -2, order: 1},
}

// SeedSampleData inserts the demo task set for today. Either every task is
// stored or none is: a full bucket aborts the whole seed.
func (s *taskService) SeedSampleData(ctx context.Context) (created int, err error) {
	fields := map[string]any{}
	done := s.track(ctx, "seed-sample-data", fields)
	defer func() {
		fields["created"] = created
		done(err)
	}()

	now := s.clock()
	tasks := make([]*domain.Task, 0, len(sampleTasks))
	for i, st := range sampleTasks {
		status := st.status
		if status == "" {
			status = domain.StatusTodo
		}
		// Stagger creation so that list order is stable and matches the table.
		createdAt := now.Add(time.Duration(i-len(sampleTasks)) * time.Second)
		opts := []domain.TaskOption{
			domain.WithPlacement(st.region, st.bucket),
			domain.WithStatus(status),
			domain.WithPlannedDate(domain.AddDays(now, st.dayDiff)),
			domain.WithSortOrder(st.order),
		}
		if st.notes != "" {
			opts = append(opts, domain.WithNotes(st.notes))
		}
		tasks = append(tasks, domain.NewTask(st.title, createdAt, opts...))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.store.WithinTx(ctx, func(ctx context.Context, repo repository.TaskRepo) error {
		for _, t := range tasks {
			if err := s.insertChecked(ctx, repo, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}
