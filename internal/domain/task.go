package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single item on the day plan.
//
// Region, Bucket and Status are typed values; their persisted tags are decoded
// with ParseRegion, ParseBucket and ParseStatus at the storage boundary.
type Task struct {
	ID          string
	Title       string
	Notes       *string
	Region      Region
	Bucket      TaskBucket
	Status      TaskStatus
	PlannedDate time.Time
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// TaskOption customises a task built by NewTask.
type TaskOption func(*Task)

func WithNotes(notes string) TaskOption {
	return func(t *Task) {
		t.Notes = &notes
	}
}

// WithPlacement sets the region and bucket of a new task.
func WithPlacement(region Region, bucket TaskBucket) TaskOption {
	return func(t *Task) {
		t.Region = region
		t.Bucket = bucket
	}
}

func WithStatus(status TaskStatus) TaskOption {
	return func(t *Task) {
		t.Status = status
	}
}

func WithPlannedDate(d time.Time) TaskOption {
	return func(t *Task) {
		t.PlannedDate = d
	}
}

func WithSortOrder(order int) TaskOption {
	return func(t *Task) {
		t.SortOrder = order
	}
}

// NewTask builds a backlog task planned for now. Options override the defaults.
func NewTask(title string, now time.Time, opts ...TaskOption) *Task {
	t := &Task{
		ID:          uuid.New().String(),
		Title:       title,
		Region:      RegionBacklog,
		Bucket:      BucketUnassigned,
		Status:      StatusTodo,
		PlannedDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.Status == StatusDone && t.CompletedAt == nil {
		completed := now
		t.CompletedAt = &completed
	}
	return t
}

// ValidateTitle rejects titles that are blank after trimming whitespace.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidatePlacement rejects a constrained region without a constrained
// bucket: the unassigned bucket belongs to the backlog.
func ValidatePlacement(region Region, bucket TaskBucket) error {
	if region.IsConstrained() && !bucket.IsConstrained() {
		return InvalidOperation("%s tasks need a bucket: must, complementary or misc", region.DisplayName())
	}
	return nil
}

// MarkCompleted moves the task to done. Repeated calls refresh CompletedAt.
func (t *Task) MarkCompleted(now time.Time) {
	t.Status = StatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// MarkIncomplete moves the task back to todo and clears CompletedAt.
func (t *Task) MarkIncomplete(now time.Time) {
	t.Status = StatusTodo
	t.CompletedAt = nil
	t.UpdatedAt = now
}

// DeferToBacklog parks the task in the backlog with deferred status.
func (t *Task) DeferToBacklog(now time.Time) {
	t.Region = RegionBacklog
	t.Bucket = BucketUnassigned
	t.Status = StatusDeferred
	t.UpdatedAt = now
}

// AssignToRegion places the task in region/bucket. A deferred task becomes todo again.
func (t *Task) AssignToRegion(region Region, bucket TaskBucket, now time.Time) {
	t.Region = region
	t.Bucket = bucket
	if t.Status == StatusDeferred {
		t.Status = StatusTodo
	}
	t.UpdatedAt = now
}

// IsOverdue reports whether an incomplete task was planned for a day before now's day.
func (t *Task) IsOverdue(now time.Time) bool {
	if !t.Status.IsIncomplete() {
		return false
	}
	return StartOfDay(t.PlannedDate.In(now.Location())).Before(StartOfDay(now))
}

// NotesOrEmpty returns the notes text, or "" when there are none.
func (t *Task) NotesOrEmpty() string {
	if t.Notes == nil {
		return ""
	}
	return *t.Notes
}

// Clone returns a deep copy that shares no pointers with t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Notes != nil {
		notes := *t.Notes
		c.Notes = &notes
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		c.CompletedAt = &completed
	}
	return &c
}
