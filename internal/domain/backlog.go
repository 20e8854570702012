package domain

import (
	"sort"
	"time"
)

// BacklogDateGroup classifies a backlog task's planned date relative to now.
type BacklogDateGroup int

const (
	GroupToday BacklogDateGroup = iota
	GroupYesterday
	GroupThisWeek
	GroupOlder
)

// AllBacklogDateGroups lists the groups in display order.
var AllBacklogDateGroups = []BacklogDateGroup{GroupToday, GroupYesterday, GroupThisWeek, GroupOlder}

func (g BacklogDateGroup) String() string {
	switch g {
	case GroupToday:
		return "today"
	case GroupYesterday:
		return "yesterday"
	case GroupThisWeek:
		return "thisWeek"
	default:
		return "older"
	}
}

func (g BacklogDateGroup) DisplayName() string {
	switch g {
	case GroupToday:
		return "Today"
	case GroupYesterday:
		return "Yesterday"
	case GroupThisWeek:
		return "This Week"
	default:
		return "Older"
	}
}

func (g BacklogDateGroup) Glyph() string {
	switch g {
	case GroupToday:
		return "◷"
	case GroupYesterday:
		return "↺"
	case GroupThisWeek:
		return "▦"
	default:
		return "▣"
	}
}

// ClassifyBacklogDate maps date to a relative group, evaluated in now's location.
func ClassifyBacklogDate(date, now time.Time, weekStart time.Weekday) BacklogDateGroup {
	date = date.In(now.Location())
	switch {
	case SameDay(now, date):
		return GroupToday
	case SameDay(AddDays(StartOfDay(now), -1), date):
		return GroupYesterday
	case !date.Before(StartOfWeek(now, weekStart)):
		return GroupThisWeek
	default:
		return GroupOlder
	}
}

// BacklogGroup is one non-empty section of the grouped backlog.
type BacklogGroup struct {
	Group BacklogDateGroup
	Tasks []*Task
}

// GroupBacklog partitions tasks by ClassifyBacklogDate. Empty groups are omitted,
// groups follow display order, and tasks within a group are newest-created first.
func GroupBacklog(tasks []*Task, now time.Time, weekStart time.Weekday) []BacklogGroup {
	buckets := make(map[BacklogDateGroup][]*Task, len(AllBacklogDateGroups))
	for _, t := range tasks {
		g := ClassifyBacklogDate(t.PlannedDate, now, weekStart)
		buckets[g] = append(buckets[g], t)
	}

	groups := make([]BacklogGroup, 0, len(buckets))
	for _, g := range AllBacklogDateGroups {
		members := buckets[g]
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].CreatedAt.After(members[j].CreatedAt)
		})
		groups = append(groups, BacklogGroup{Group: g, Tasks: members})
	}
	return groups
}
