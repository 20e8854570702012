package repository

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/alexanderramin/charstack/internal/domain"
)

// ErrDuplicateID is returned when inserting a task whose ID is already stored.
var ErrDuplicateID = errors.New("duplicate id")

// taskTable is an unsynchronised map of tasks keyed by ID. Stored values are
// private copies; callers only ever see clones.
type taskTable map[string]*domain.Task

func (tt taskTable) insert(t *domain.Task) error {
	if t == nil {
		return nil
	}
	if _, ok := tt[t.ID]; ok {
		return fmt.Errorf("task %s: %w", t.ID, ErrDuplicateID)
	}
	tt[t.ID] = t.Clone()
	return nil
}

func (tt taskTable) update(t *domain.Task) error {
	if _, ok := tt[t.ID]; !ok {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	tt[t.ID] = t.Clone()
	return nil
}

func (tt taskTable) delete(id string) error {
	if _, ok := tt[id]; !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	delete(tt, id)
	return nil
}

func (tt taskTable) query(q TaskQuery) []*domain.Task {
	out := make([]*domain.Task, 0)
	for _, t := range tt {
		if q.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	SortTasks(out, q.Sort)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// MemoryTaskStore is a volatile TaskStore used for previews and tests.
type MemoryTaskStore struct {
	mu      sync.RWMutex
	records taskTable
}

// NewMemoryTaskStore creates an empty in-memory store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{records: make(taskTable)}
}

func (s *MemoryTaskStore) Insert(ctx context.Context, t *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.insert(t)
}

func (s *MemoryTaskStore) Update(ctx context.Context, t *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.update(t)
}

func (s *MemoryTaskStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.delete(id)
}

func (s *MemoryTaskStore) Query(ctx context.Context, q TaskQuery) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.query(q), nil
}

// WithinTx runs fn against a staged copy of the table and swaps it in only
// when fn succeeds. The store stays write-locked for the duration of fn.
func (s *MemoryTaskStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo TaskRepo) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &memoryTxRepo{records: maps.Clone(s.records)}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	s.records = staged.records
	return nil
}

// memoryTxRepo operates on a staged table owned by a single WithinTx call.
type memoryTxRepo struct {
	records taskTable
}

func (r *memoryTxRepo) Insert(ctx context.Context, t *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.records.insert(t)
}

func (r *memoryTxRepo) Update(ctx context.Context, t *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.records.update(t)
}

func (r *memoryTxRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.records.delete(id)
}

func (r *memoryTxRepo) Query(ctx context.Context, q TaskQuery) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.records.query(q), nil
}

var (
	_ TaskStore = (*MemoryTaskStore)(nil)
	_ TaskRepo  = (*memoryTxRepo)(nil)
)
