package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOverview(t *testing.T) {
	forEachStore(t, func(t *testing.T, f serviceFixture) {
		ctx := context.Background()
		must := mustCreate(t, f.svc, placed("must", domain.RegionMorning, domain.BucketMust))
		mustCreate(t, f.svc, placed("misc", domain.RegionMorning, domain.BucketMisc))
		evening := mustCreate(t, f.svc, placed("evening", domain.RegionEvening, domain.BucketComplementary))
		mustCreate(t, f.svc, testutil.NewTestTask("backlog is excluded"))
		require.NoError(t, f.svc.ToggleCompletion(ctx, evening.ID))

		overview, err := f.svc.DayOverview(ctx, testutil.FixedNow)
		require.NoError(t, err)

		assert.True(t, overview.Date.Equal(domain.StartOfDay(testutil.FixedNow)))
		require.Len(t, overview.Regions, 3)
		assert.Equal(t, domain.ActiveRegions, []domain.Region{
			overview.Regions[0].Region, overview.Regions[1].Region, overview.Regions[2].Region,
		})
		assert.Len(t, overview.TasksIn(domain.RegionMorning), 2)
		assert.Equal(t, must.ID, overview.TasksIn(domain.RegionMorning)[0].ID)
		assert.Empty(t, overview.TasksIn(domain.RegionAfternoon))
		assert.Nil(t, overview.TasksIn(domain.RegionBacklog))
		assert.Equal(t, 3, overview.Total)
		assert.Equal(t, 1, overview.Completed)
		assert.InDelta(t, 1.0/3.0, overview.CompletionFraction(), 1e-9)
	})
}

func TestDayOverview_EmptyDay(t *testing.T) {
	forEachStore(t, func(t *testing.T, f serviceFixture) {
		overview, err := f.svc.DayOverview(context.Background(), testutil.FixedNow)
		require.NoError(t, err)
		assert.Zero(t, overview.Total)
		assert.Zero(t, overview.CompletionFraction())
	})
}

func TestRegionCapacity(t *testing.T) {
	forEachStore(t, func(t *testing.T, f serviceFixture) {
		ctx := context.Background()
		mustCreate(t, f.svc, placed("must", domain.RegionAfternoon, domain.BucketMust))
		mustCreate(t, f.svc, placed("comp 1", domain.RegionAfternoon, domain.BucketComplementary))
		mustCreate(t, f.svc, placed("comp done", domain.RegionAfternoon, domain.BucketComplementary,
			testutil.WithTaskStatus(domain.StatusDone)))

		report, err := f.svc.RegionCapacity(ctx, domain.RegionAfternoon, testutil.FixedNow)
		require.NoError(t, err)
		assert.Equal(t, []BucketCapacity{
			{Bucket: domain.BucketMust, Max: 1, Active: 1, Remaining: 0},
			{Bucket: domain.BucketComplementary, Max: 3, Active: 1, Remaining: 2},
			{Bucket: domain.BucketMisc, Max: 5, Active: 0, Remaining: 5},
		}, report.Buckets)

		backlog, err := f.svc.RegionCapacity(ctx, domain.RegionBacklog, testutil.FixedNow)
		require.NoError(t, err)
		assert.Empty(t, backlog.Buckets)
	})
}

func TestSeedSampleData(t *testing.T) {
	forEachStore(t, func(t *testing.T, f serviceFixture) {
		ctx := context.Background()
		created, err := f.svc.SeedSampleData(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(sampleTasks), created)

		overview, err := f.svc.DayOverview(ctx, testutil.FixedNow)
		require.NoError(t, err)
		assert.Equal(t, 11, overview.Total)
		assert.Equal(t, 1, overview.Completed)
		assert.Len(t, overview.TasksIn(domain.RegionMorning), 6)

		groups, err := f.svc.FetchGroupedBacklog(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, domain.GroupYesterday, groups[0].Group)
		assert.Equal(t, domain.GroupThisWeek, groups[1].Group)

		// The morning must slot is taken, so seeding again fails as a whole.
		_, err = f.svc.SeedSampleData(ctx)
		assert.ErrorIs(t, err, domain.ErrBucketFull)
		backlog, err := f.svc.FetchBacklog(ctx)
		require.NoError(t, err)
		assert.Len(t, backlog, 2)
	})
}
