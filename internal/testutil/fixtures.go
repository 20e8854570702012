package testutil

import (
	"sync"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
)

// FixedNow is the reference instant used across tests: Sunday 2025-06-15 10:00 UTC.
var FixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

// Clock is a settable time source for services under test.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// AdvanceDays moves the clock forward by n calendar days.
func (c *Clock) AdvanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = domain.AddDays(c.now, n)
}

// Task options
type TaskOption func(*domain.Task)

func InRegion(r domain.Region, b domain.TaskBucket) TaskOption {
	return func(t *domain.Task) {
		t.Region = r
		t.Bucket = b
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
		if s == domain.StatusDone && t.CompletedAt == nil {
			completed := t.UpdatedAt
			t.CompletedAt = &completed
		}
	}
}

func PlannedOn(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.PlannedDate = d
	}
}

func CreatedAt(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.CreatedAt = d
		t.UpdatedAt = d
	}
}

func WithTaskNotes(n string) TaskOption {
	return func(t *domain.Task) {
		t.Notes = &n
	}
}

func WithTaskSortOrder(i int) TaskOption {
	return func(t *domain.Task) {
		t.SortOrder = i
	}
}

// NewTestTask builds a backlog todo task planned and created at FixedNow.
func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	t := domain.NewTask(title, FixedNow)
	for _, opt := range opts {
		opt(t)
	}
	return t
}
