package domain

import "math"

// Unlimited is the capacity reported for buckets without an occupancy limit.
const Unlimited = math.MaxInt

// Region is a time-of-day partition of the day plan.
type Region string

const (
	RegionMorning   Region = "morning"
	RegionAfternoon Region = "afternoon"
	RegionEvening   Region = "evening"
	RegionBacklog   Region = "backlog"
)

// AllRegions lists every region in display order.
var AllRegions = []Region{RegionMorning, RegionAfternoon, RegionEvening, RegionBacklog}

// ActiveRegions lists the three constrained regions in display order.
var ActiveRegions = []Region{RegionMorning, RegionAfternoon, RegionEvening}

// LookupRegion returns the region for a stored tag, or false if the tag is unknown.
func LookupRegion(tag string) (Region, bool) {
	switch r := Region(tag); r {
	case RegionMorning, RegionAfternoon, RegionEvening, RegionBacklog:
		return r, true
	}
	return "", false
}

// ParseRegion decodes a stored tag, falling back to the backlog for unknown values.
func ParseRegion(tag string) Region {
	if r, ok := LookupRegion(tag); ok {
		return r
	}
	return RegionBacklog
}

// IsConstrained reports whether the 1-3-5 rule applies to the region.
func (r Region) IsConstrained() bool {
	return r != RegionBacklog
}

// Rank is the region's display position, morning first.
func (r Region) Rank() int {
	switch r {
	case RegionMorning:
		return 0
	case RegionAfternoon:
		return 1
	case RegionEvening:
		return 2
	default:
		return 3
	}
}

// Less orders regions for display.
func (r Region) Less(other Region) bool { return r.Rank() < other.Rank() }

func (r Region) DisplayName() string {
	switch r {
	case RegionMorning:
		return "Morning"
	case RegionAfternoon:
		return "Afternoon"
	case RegionEvening:
		return "Evening"
	default:
		return "Backlog"
	}
}

// Glyph is a single-character icon used in terminal output.
func (r Region) Glyph() string {
	switch r {
	case RegionMorning:
		return "☼"
	case RegionAfternoon:
		return "◐"
	case RegionEvening:
		return "☾"
	default:
		return "▤"
	}
}

// TaskBucket is the priority class of a task within its region.
type TaskBucket string

const (
	BucketMust          TaskBucket = "must"
	BucketComplementary TaskBucket = "complementary"
	BucketMisc          TaskBucket = "misc"
	// BucketUnassigned is persisted as "none" for compatibility with existing data.
	BucketUnassigned TaskBucket = "none"
)

// AllBuckets lists every bucket in display order.
var AllBuckets = []TaskBucket{BucketMust, BucketComplementary, BucketMisc, BucketUnassigned}

// ConstrainedBuckets lists the buckets that carry an occupancy limit.
var ConstrainedBuckets = []TaskBucket{BucketMust, BucketComplementary, BucketMisc}

// LegacyBucketTags maps tags written by older builds to their bucket.
var LegacyBucketTags = map[string]TaskBucket{
	"unassigned": BucketUnassigned,
}

// LookupBucket returns the bucket for a stored tag, or false if the tag is unknown.
func LookupBucket(tag string) (TaskBucket, bool) {
	switch b := TaskBucket(tag); b {
	case BucketMust, BucketComplementary, BucketMisc, BucketUnassigned:
		return b, true
	}
	if b, ok := LegacyBucketTags[tag]; ok {
		return b, true
	}
	return "", false
}

// ParseBucket decodes a stored tag, falling back to unassigned for unknown values.
func ParseBucket(tag string) TaskBucket {
	if b, ok := LookupBucket(tag); ok {
		return b
	}
	return BucketUnassigned
}

// MaxCount is the bucket's per-region, per-day occupancy limit.
func (b TaskBucket) MaxCount() int {
	switch b {
	case BucketMust:
		return 1
	case BucketComplementary:
		return 3
	case BucketMisc:
		return 5
	default:
		return Unlimited
	}
}

// IsConstrained reports whether the bucket has an occupancy limit.
func (b TaskBucket) IsConstrained() bool {
	return b != BucketUnassigned
}

// Rank is the bucket's display position, must first.
func (b TaskBucket) Rank() int {
	switch b {
	case BucketMust:
		return 0
	case BucketComplementary:
		return 1
	case BucketMisc:
		return 2
	default:
		return 3
	}
}

// Less orders buckets for display.
func (b TaskBucket) Less(other TaskBucket) bool { return b.Rank() < other.Rank() }

func (b TaskBucket) DisplayName() string {
	switch b {
	case BucketMust:
		return "Must Do"
	case BucketComplementary:
		return "Complementary"
	case BucketMisc:
		return "Misc"
	default:
		return "Unassigned"
	}
}

// ShortLabel is the compact form used in badges and tables.
func (b TaskBucket) ShortLabel() string {
	switch b {
	case BucketMust:
		return "Must"
	case BucketComplementary:
		return "Comp"
	case BucketMisc:
		return "Misc"
	default:
		return "—"
	}
}

// TotalMaxPerRegion is the number of active tasks a region can hold (1 + 3 + 5).
func TotalMaxPerRegion() int {
	total := 0
	for _, b := range ConstrainedBuckets {
		total += b.MaxCount()
	}
	return total
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inProgress"
	StatusDone       TaskStatus = "done"
	StatusDeferred   TaskStatus = "deferred"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusDeferred}

// ActiveStatuses are the statuses that occupy bucket capacity.
var ActiveStatuses = []TaskStatus{StatusTodo, StatusInProgress}

// LegacyStatusTags maps tags written by older builds to their status.
var LegacyStatusTags = map[string]TaskStatus{
	"in_progress": StatusInProgress,
}

// LookupStatus returns the status for a stored tag, or false if the tag is unknown.
func LookupStatus(tag string) (TaskStatus, bool) {
	switch s := TaskStatus(tag); s {
	case StatusTodo, StatusInProgress, StatusDone, StatusDeferred:
		return s, true
	}
	if s, ok := LegacyStatusTags[tag]; ok {
		return s, true
	}
	return "", false
}

// ParseStatus decodes a stored tag, falling back to todo for unknown values.
func ParseStatus(tag string) TaskStatus {
	if s, ok := LookupStatus(tag); ok {
		return s
	}
	return StatusTodo
}

// IsIncomplete reports whether the task still needs work and is eligible for rollover.
func (s TaskStatus) IsIncomplete() bool {
	return s == StatusTodo || s == StatusInProgress
}

// CountsTowardBucketLimit reports whether a task in this status occupies capacity.
func (s TaskStatus) CountsTowardBucketLimit() bool {
	return s == StatusTodo || s == StatusInProgress
}

func (s TaskStatus) DisplayName() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusDeferred:
		return "Deferred"
	default:
		return "To Do"
	}
}
