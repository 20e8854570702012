package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/repository"
	"github.com/alexanderramin/charstack/internal/testutil"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc   TaskService
	store repository.TaskStore
	clock *testutil.Clock
}

// forEachStore runs fn against a service over every store adapter.
func forEachStore(t *testing.T, fn func(t *testing.T, f serviceFixture)) {
	for name, factory := range testutil.StoreFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			clock := testutil.NewClock(testutil.FixedNow)
			fn(t, serviceFixture{
				svc:   NewTaskService(store, WithClock(clock.Now)),
				store: store,
				clock: clock,
			})
		})
	}
}

func mustCreate(t *testing.T, svc TaskService, task *domain.Task) *domain.Task {
	t.Helper()
	require.NoError(t, svc.Create(context.Background(), task))
	return task
}

func mustFetch(t *testing.T, svc TaskService, id string) *domain.Task {
	t.Helper()
	task, err := svc.FetchByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, task, "task %s should exist", id)
	return task
}

func taskIDs(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}

func placed(title string, region domain.Region, bucket domain.TaskBucket, opts ...testutil.TaskOption) *domain.Task {
	return testutil.NewTestTask(title, append([]testutil.TaskOption{testutil.InRegion(region, bucket)}, opts...)...)
}
