package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/repository"
	"github.com/google/uuid"
)

// daySort is the display order inside a day: bucket rank, manual order, age.
var daySort = []repository.SortKey{
	repository.Asc(repository.SortByBucket),
	repository.Asc(repository.SortBySortOrder),
	repository.Asc(repository.SortByCreatedAt),
}

type taskService struct {
	store     repository.TaskStore
	clock     func() time.Time
	weekStart time.Weekday
	observer  UseCaseObserver

	// mu serialises writers so each read-validate-write runs alone.
	mu sync.Mutex
}

// Option configures a TaskService.
type Option func(*taskService)

// WithClock replaces time.Now as the engine's notion of the current instant.
// Calendar days are evaluated in the location of the returned times.
func WithClock(now func() time.Time) Option {
	return func(s *taskService) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithWeekStart sets the first day of the week used by backlog grouping.
func WithWeekStart(day time.Weekday) Option {
	return func(s *taskService) {
		s.weekStart = day
	}
}

// WithObserver reports every mutating use case to obs.
func WithObserver(obs UseCaseObserver) Option {
	return func(s *taskService) {
		s.observer = useCaseObserverOrNoop([]UseCaseObserver{obs})
	}
}

func NewTaskService(store repository.TaskStore, opts ...Option) TaskService {
	s := &taskService{
		store:     store,
		clock:     time.Now,
		weekStart: time.Monday,
		observer:  NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *taskService) Now() time.Time          { return s.clock() }
func (s *taskService) WeekStart() time.Weekday { return s.weekStart }

// track starts timing a use case; the returned func reports its outcome.
func (s *taskService) track(ctx context.Context, name string, fields map[string]any) func(error) {
	startedAt := time.Now().UTC()
	return func(err error) {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}
}

// dayWindow returns the first and last instant of day's calendar day in the
// engine clock's location.
func (s *taskService) dayWindow(day time.Time) (time.Time, time.Time) {
	local := day.In(s.clock().Location())
	return domain.StartOfDay(local), domain.EndOfDay(local)
}

func (s *taskService) dayQuery(day time.Time, region *domain.Region) repository.TaskQuery {
	from, to := s.dayWindow(day)
	q := repository.TaskQuery{PlannedFrom: &from, PlannedTo: &to, Sort: daySort}
	if region != nil {
		q.Regions = []domain.Region{*region}
	}
	return q
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	if t == nil {
		return domain.InvalidOperation("cannot create a nil task")
	}
	fields := map[string]any{"region": string(t.Region), "bucket": string(t.Bucket)}
	done := s.track(ctx, "create-task", fields)
	defer func() { done(err) }()

	if err = domain.ValidateTitle(t.Title); err != nil {
		return err
	}
	// Defaults land on a copy; the caller's task is only updated once stored.
	task := t.Clone()
	s.fillDefaults(task)
	fields["task_id"] = task.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.store.WithinTx(ctx, func(ctx context.Context, repo repository.TaskRepo) error {
		return s.insertChecked(ctx, repo, task)
	})
	if err != nil {
		return err
	}
	*t = *task
	return nil
}

// fillDefaults completes a caller-built task: ID, timestamps and zero enum values.
func (s *taskService) fillDefaults(t *domain.Task) {
	now := s.clock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Region == "" {
		t.Region = domain.RegionBacklog
	}
	if t.Bucket == "" {
		t.Bucket = domain.BucketUnassigned
	}
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}
	if t.PlannedDate.IsZero() {
		t.PlannedDate = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == domain.StatusDone && t.CompletedAt == nil {
		completed := now
		t.CompletedAt = &completed
	}
}

func (s *taskService) insertChecked(ctx context.Context, repo repository.TaskRepo, t *domain.Task) error {
	if err := domain.ValidatePlacement(t.Region, t.Bucket); err != nil {
		return err
	}
	if err := s.validateCapacity(ctx, repo, t.Region, t.Bucket, t.PlannedDate, ""); err != nil {
		return err
	}
	return repo.Insert(ctx, t)
}

func (s *taskService) FetchByDay(ctx context.Context, date time.Time, region *domain.Region) ([]*domain.Task, error) {
	return s.store.Query(ctx, s.dayQuery(date, region))
}

func (s *taskService) FetchBacklog(ctx context.Context) ([]*domain.Task, error) {
	return s.store.Query(ctx, repository.TaskQuery{
		Regions: []domain.Region{domain.RegionBacklog},
		Sort:    []repository.SortKey{repository.Desc(repository.SortByCreatedAt)},
	})
}

func (s *taskService) FetchGroupedBacklog(ctx context.Context) ([]domain.BacklogGroup, error) {
	tasks, err := s.FetchBacklog(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GroupBacklog(tasks, s.clock(), s.weekStart), nil
}

// FetchByID returns (nil, nil) when no task has the given ID.
func (s *taskService) FetchByID(ctx context.Context, id string) (*domain.Task, error) {
	return fetchOne(ctx, s.store, id)
}

func fetchOne(ctx context.Context, repo repository.TaskRepo, id string) (*domain.Task, error) {
	tasks, err := repo.Query(ctx, repository.TaskQuery{ID: id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return tasks[0], nil
}

func requireTask(ctx context.Context, repo repository.TaskRepo, id string) (*domain.Task, error) {
	t, err := fetchOne(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &domain.TaskNotFoundError{ID: id}
	}
	return t, nil
}

// mutate loads the task inside a transaction, applies fn and writes it back.
func (s *taskService) mutate(ctx context.Context, id string, fn func(ctx context.Context, repo repository.TaskRepo, t *domain.Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.WithinTx(ctx, func(ctx context.Context, repo repository.TaskRepo) error {
		t, err := requireTask(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, repo, t); err != nil {
			return err
		}
		return repo.Update(ctx, t)
	})
}

func (s *taskService) UpdateContent(ctx context.Context, id, title string, notes *string) (err error) {
	done := s.track(ctx, "update-task-content", map[string]any{"task_id": id})
	defer func() { done(err) }()

	return s.mutate(ctx, id, func(_ context.Context, _ repository.TaskRepo, t *domain.Task) error {
		if err := domain.ValidateTitle(title); err != nil {
			return err
		}
		t.Title = title
		if notes != nil {
			n := *notes
			t.Notes = &n
		} else {
			t.Notes = nil
		}
		t.UpdatedAt = s.clock()
		return nil
	})
}

func (s *taskService) Move(ctx context.Context, id string, region domain.Region, bucket domain.TaskBucket) (err error) {
	done := s.track(ctx, "move-task", map[string]any{
		"task_id": id,
		"region":  string(region),
		"bucket":  string(bucket),
	})
	defer func() { done(err) }()

	return s.mutate(ctx, id, func(ctx context.Context, repo repository.TaskRepo, t *domain.Task) error {
		if err := domain.ValidatePlacement(region, bucket); err != nil {
			return err
		}
		if err := s.validateCapacity(ctx, repo, region, bucket, t.PlannedDate, t.ID); err != nil {
			return err
		}
		t.AssignToRegion(region, bucket, s.clock())
		return nil
	})
}

func (s *taskService) ToggleCompletion(ctx context.Context, id string) (err error) {
	fields := map[string]any{"task_id": id}
	done := s.track(ctx, "toggle-task-completion", fields)
	defer func() { done(err) }()

	return s.mutate(ctx, id, func(ctx context.Context, repo repository.TaskRepo, t *domain.Task) error {
		if t.Status == domain.StatusDone {
			// Reopening occupies a slot again.
			if err := s.validateCapacity(ctx, repo, t.Region, t.Bucket, t.PlannedDate, t.ID); err != nil {
				return err
			}
			t.MarkIncomplete(s.clock())
		} else {
			t.MarkCompleted(s.clock())
		}
		fields["status"] = string(t.Status)
		return nil
	})
}

func (s *taskService) SetSortOrder(ctx context.Context, id string, order int) (err error) {
	done := s.track(ctx, "set-task-sort-order", map[string]any{"task_id": id, "sort_order": order})
	defer func() { done(err) }()

	return s.mutate(ctx, id, func(_ context.Context, _ repository.TaskRepo, t *domain.Task) error {
		t.SortOrder = order
		t.UpdatedAt = s.clock()
		return nil
	})
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	done := s.track(ctx, "delete-task", map[string]any{"task_id": id})
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.WithinTx(ctx, func(ctx context.Context, repo repository.TaskRepo) error {
		if _, err := requireTask(ctx, repo, id); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &domain.TaskNotFoundError{ID: id}
			}
			return err
		}
		return nil
	})
}

func (s *taskService) CountActive(ctx context.Context, region domain.Region, bucket domain.TaskBucket, day time.Time, excludingID string) (int, error) {
	return s.countActive(ctx, s.store, region, bucket, day, excludingID)
}

func (s *taskService) countActive(ctx context.Context, repo repository.TaskRepo, region domain.Region, bucket domain.TaskBucket, day time.Time, excludingID string) (int, error) {
	q := s.dayQuery(day, &region)
	q.Buckets = []domain.TaskBucket{bucket}
	q.Statuses = domain.ActiveStatuses
	q.Sort = nil

	tasks, err := repo.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range tasks {
		if excludingID != "" && t.ID == excludingID {
			continue
		}
		count++
	}
	return count, nil
}

func (s *taskService) RemainingCapacity(ctx context.Context, region domain.Region, bucket domain.TaskBucket, day time.Time) (int, error) {
	if !region.IsConstrained() || !bucket.IsConstrained() {
		return domain.Unlimited, nil
	}
	active, err := s.CountActive(ctx, region, bucket, day, "")
	if err != nil {
		return 0, err
	}
	return max(0, bucket.MaxCount()-active), nil
}

// validateCapacity fails with *domain.BucketFullError when region/bucket is
// already at its limit for day. Unconstrained placements always pass.
func (s *taskService) validateCapacity(ctx context.Context, repo repository.TaskRepo, region domain.Region, bucket domain.TaskBucket, day time.Time, excludingID string) error {
	if !region.IsConstrained() || !bucket.IsConstrained() {
		return nil
	}
	active, err := s.countActive(ctx, repo, region, bucket, day, excludingID)
	if err != nil {
		return err
	}
	if active >= bucket.MaxCount() {
		return &domain.BucketFullError{Bucket: bucket, Region: region}
	}
	return nil
}

// PerformDayRollover defers every unfinished task planned before today in an
// active region to the backlog and returns how many moved.
func (s *taskService) PerformDayRollover(ctx context.Context) (moved int, err error) {
	fields := map[string]any{}
	done := s.track(ctx, "day-rollover", fields)
	defer func() {
		fields["moved"] = moved
		done(err)
	}()

	now := s.clock()
	today := domain.StartOfDay(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.store.WithinTx(ctx, func(ctx context.Context, repo repository.TaskRepo) error {
		overdue, err := repo.Query(ctx, repository.TaskQuery{
			Regions:       domain.ActiveRegions,
			Statuses:      domain.ActiveStatuses,
			PlannedBefore: &today,
			Sort:          []repository.SortKey{repository.Asc(repository.SortByCreatedAt)},
		})
		if err != nil {
			return err
		}
		for _, t := range overdue {
			t.DeferToBacklog(now)
			if err := repo.Update(ctx, t); err != nil {
				return err
			}
		}
		moved = len(overdue)
		return nil
	})
	if err != nil {
		moved = 0
		return 0, err
	}
	return moved, nil
}
