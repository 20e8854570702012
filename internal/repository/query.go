package repository

import (
	"sort"
	"strings"

	"github.com/alexanderramin/charstack/internal/domain"
)

// Matches reports whether t satisfies every predicate in q.
func (q TaskQuery) Matches(t *domain.Task) bool {
	if q.ID != "" && t.ID != q.ID {
		return false
	}
	if len(q.Regions) > 0 && !containsValue(q.Regions, t.Region) {
		return false
	}
	if len(q.Buckets) > 0 && !containsValue(q.Buckets, t.Bucket) {
		return false
	}
	if len(q.Statuses) > 0 && !containsValue(q.Statuses, t.Status) {
		return false
	}
	if q.PlannedFrom != nil && t.PlannedDate.Before(*q.PlannedFrom) {
		return false
	}
	if q.PlannedTo != nil && t.PlannedDate.After(*q.PlannedTo) {
		return false
	}
	if q.PlannedBefore != nil && !t.PlannedDate.Before(*q.PlannedBefore) {
		return false
	}
	return true
}

// SortTasks orders tasks by keys. Ties left by every key fall back to ID so
// that both store adapters return identical sequences.
func SortTasks(tasks []*domain.Task, keys []SortKey) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		for _, k := range keys {
			c := compareField(a, b, k.Field)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareField(a, b *domain.Task, f SortField) int {
	switch f {
	case SortByBucket:
		return a.Bucket.Rank() - b.Bucket.Rank()
	case SortBySortOrder:
		return a.SortOrder - b.SortOrder
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortByPlannedDate:
		return a.PlannedDate.Compare(b.PlannedDate)
	default:
		return strings.Compare(a.ID, b.ID)
	}
}

func containsValue[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
