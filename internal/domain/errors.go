package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTitle indicates a title that is blank after trimming whitespace.
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrBucketFull matches any *BucketFullError.
	ErrBucketFull = errors.New("bucket full")

	// ErrTaskNotFound matches any *TaskNotFoundError.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidOperation matches any *InvalidOperationError.
	ErrInvalidOperation = errors.New("invalid operation")
)

// BucketFullError reports that a region's bucket is already at capacity for the day.
type BucketFullError struct {
	Bucket TaskBucket
	Region Region
}

func (e *BucketFullError) Error() string {
	return fmt.Sprintf("%s already has the maximum %d %s task(s)",
		e.Region.DisplayName(), e.Bucket.MaxCount(), e.Bucket.DisplayName())
}

func (e *BucketFullError) Is(target error) bool { return target == ErrBucketFull }

// TaskNotFoundError reports a reference to a task that does not exist.
type TaskNotFoundError struct {
	ID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

func (e *TaskNotFoundError) Is(target error) bool { return target == ErrTaskNotFound }

// InvalidOperationError is a generic precondition failure.
type InvalidOperationError struct {
	Message string
}

func (e *InvalidOperationError) Error() string { return e.Message }

func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }

// InvalidOperation builds an *InvalidOperationError from a format string.
func InvalidOperation(format string, args ...any) error {
	return &InvalidOperationError{Message: fmt.Sprintf(format, args...)}
}
