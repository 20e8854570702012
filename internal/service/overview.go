package service

import (
	"context"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
)

// DayOverview collects the day's tasks per active region. Backlog tasks
// planned for the day are not part of the overview.
func (s *taskService) DayOverview(ctx context.Context, date time.Time) (*DayOverview, error) {
	tasks, err := s.FetchByDay(ctx, date, nil)
	if err != nil {
		return nil, err
	}

	start, _ := s.dayWindow(date)
	overview := &DayOverview{Date: start}
	byRegion := make(map[domain.Region][]*domain.Task, len(domain.ActiveRegions))
	for _, t := range tasks {
		if !t.Region.IsConstrained() {
			continue
		}
		byRegion[t.Region] = append(byRegion[t.Region], t)
		overview.Total++
		if t.Status == domain.StatusDone {
			overview.Completed++
		}
	}
	for _, region := range domain.ActiveRegions {
		overview.Regions = append(overview.Regions, RegionTasks{Region: region, Tasks: byRegion[region]})
	}
	return overview, nil
}

func (s *taskService) RegionCapacity(ctx context.Context, region domain.Region, date time.Time) (*CapacityReport, error) {
	start, _ := s.dayWindow(date)
	report := &CapacityReport{Region: region, Date: start}
	if !region.IsConstrained() {
		return report, nil
	}
	for _, bucket := range domain.ConstrainedBuckets {
		active, err := s.CountActive(ctx, region, bucket, date, "")
		if err != nil {
			return nil, err
		}
		report.Buckets = append(report.Buckets, BucketCapacity{
			Bucket:    bucket,
			Max:       bucket.MaxCount(),
			Active:    active,
			Remaining: max(0, bucket.MaxCount()-active),
		})
	}
	return report, nil
}
