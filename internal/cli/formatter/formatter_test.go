package formatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/service"
	"github.com/alexanderramin/charstack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// lineWith returns the first line of s containing sub.
func lineWith(s, sub string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, sub) {
			return line
		}
	}
	return ""
}

func TestRelativeDateFrom(t *testing.T) {
	now := testutil.FixedNow

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"same instant", now, "Today"},
		{"late same day", time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC), "Today"},
		{"early next day", time.Date(2025, 6, 16, 0, 1, 0, 0, time.UTC), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.AddDate(0, 0, 3), "In 3d"},
		{"3 days past", now.AddDate(0, 0, -3), "3d ago"},
		{"3 weeks future", now.AddDate(0, 0, 21), "In 3w"},
		{"3 months future", now.AddDate(0, 0, 90), "In 3mo"},
		{"2 weeks past", now.AddDate(0, 0, -14), "2w ago"},
		{"3 months past", now.AddDate(0, 0, -90), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanDate(t *testing.T) {
	now := testutil.FixedNow

	assert.Equal(t, "Today", HumanDate(now, now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Tomorrow", HumanDate(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "Tue Jun 10, 2025", HumanDate(now.AddDate(0, 0, -5), now))
}

func TestStatusPill(t *testing.T) {
	tests := []struct {
		status   domain.TaskStatus
		contains string
	}{
		{domain.StatusTodo, "To Do"},
		{domain.StatusInProgress, "In Progress"},
		{domain.StatusDone, "Done"},
		{domain.StatusDeferred, "Deferred"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Contains(t, stripANSI(StatusPill(tt.status)), tt.contains)
		})
	}
}

func TestBucketPill(t *testing.T) {
	assert.Equal(t, "● Must", stripANSI(BucketPill(domain.BucketMust)))
	assert.Equal(t, "● Comp", stripANSI(BucketPill(domain.BucketComplementary)))
	assert.Equal(t, "● Misc", stripANSI(BucketPill(domain.BucketMisc)))
	assert.Equal(t, "○ Unassigned", stripANSI(BucketPill(domain.BucketUnassigned)))
}

func TestRegionHeader(t *testing.T) {
	got := stripANSI(RegionHeader(domain.RegionMorning))
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "☼ MORNING", lines[0])
	assert.NotEmpty(t, lines[1])
	assert.Empty(t, strings.Trim(lines[1], "─"))
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want string
	}{
		{"empty", 0, "[░░░░░░░░░░]   0%"},
		{"half", 0.5, "[█████░░░░░]  50%"},
		{"full", 1, "[██████████] 100%"},
		{"over 100% clamps", 1.5, "[██████████] 100%"},
		{"negative clamps", -0.5, "[░░░░░░░░░░]   0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.pct, 10)))
		})
	}
}

func TestRenderCapacityMeter(t *testing.T) {
	assert.Equal(t, "□□□ 0/3", stripANSI(RenderCapacityMeter(0, 3)))
	assert.Equal(t, "■■□ 2/3", stripANSI(RenderCapacityMeter(2, 3)))
	assert.Equal(t, "■ 1/1", stripANSI(RenderCapacityMeter(1, 1)))
	assert.Equal(t, "■■■ 4/3", stripANSI(RenderCapacityMeter(4, 3)), "overfull stays within the slot count")
	assert.Equal(t, "2/∞", stripANSI(RenderCapacityMeter(2, domain.Unlimited)))
}

func TestRenderTable(t *testing.T) {
	got := stripANSI(RenderTable(
		[]string{"ID", "TITLE"},
		[][]string{{"abc", "Write report"}, {"a", "Call"}},
	))

	want := "" +
		"ID   TITLE\n" +
		"───  ────────────\n" +
		"abc  Write report\n" +
		"a    Call\n"
	assert.Equal(t, want, got)
	assert.Empty(t, RenderTable(nil, nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a long…", Truncate("a long title", 7))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestFormatDayOverview(t *testing.T) {
	now := testutil.FixedNow
	must := testutil.NewTestTask("Finish the report", testutil.InRegion(domain.RegionMorning, domain.BucketMust))
	done := testutil.NewTestTask("Stretch", testutil.InRegion(domain.RegionMorning, domain.BucketMisc),
		testutil.WithTaskStatus(domain.StatusDone))

	overview := &service.DayOverview{
		Date: now,
		Regions: []service.RegionTasks{
			{Region: domain.RegionMorning, Tasks: []*domain.Task{must, done}},
			{Region: domain.RegionAfternoon},
			{Region: domain.RegionEvening},
		},
		Total:     2,
		Completed: 1,
	}

	got := stripANSI(FormatDayOverview(overview, now))

	assert.Contains(t, got, "TODAY · JUN 15")
	assert.Contains(t, got, "50%")
	assert.Contains(t, got, "1/2 done")
	assert.Contains(t, got, "☼ MORNING")
	assert.Contains(t, got, "◐ AFTERNOON")
	assert.Contains(t, got, "☾ EVENING")
	assert.Contains(t, lineWith(got, "Finish the report"), "● Must")
	assert.Contains(t, lineWith(got, "Stretch"), "✓ "+done.ID[:8])
	assert.Equal(t, 2, strings.Count(got, "Nothing planned."))
	assert.Less(t, strings.Index(got, "MORNING"), strings.Index(got, "AFTERNOON"))
}

func TestFormatBacklog(t *testing.T) {
	now := testutil.FixedNow
	recent := testutil.NewTestTask("Recent", testutil.PlannedOn(now.AddDate(0, 0, -1)),
		testutil.WithTaskStatus(domain.StatusDeferred))
	old := testutil.NewTestTask("Old", testutil.PlannedOn(now.AddDate(0, 0, -30)),
		testutil.WithTaskStatus(domain.StatusDeferred))

	groups := domain.GroupBacklog([]*domain.Task{recent, old}, now, time.Monday)
	got := stripANSI(FormatBacklog(groups, now))

	assert.Contains(t, got, "▤ BACKLOG")
	assert.Contains(t, got, "Yesterday (1)")
	assert.Contains(t, got, "Older (1)")
	assert.Contains(t, got, "4w ago")
	assert.Less(t, strings.Index(got, "Recent"), strings.Index(got, "Old\n"))

	assert.Equal(t, "Backlog is empty.\n", stripANSI(FormatBacklog(nil, now)))
}

func TestFormatTaskTable(t *testing.T) {
	task := testutil.NewTestTask("Plan sprint",
		testutil.InRegion(domain.RegionAfternoon, domain.BucketComplementary),
		testutil.WithTaskSortOrder(3))

	got := stripANSI(FormatTaskTable([]*domain.Task{task}))
	assert.Contains(t, got, "BUCKET")
	assert.Contains(t, got, "● Comp")
	assert.Contains(t, got, "○ To Do")
	assert.Contains(t, got, "Plan sprint")

	assert.Equal(t, "No tasks.\n", stripANSI(FormatTaskTable(nil)))
}

func TestFormatTaskDetail(t *testing.T) {
	now := testutil.FixedNow
	task := testutil.NewTestTask("Review PR",
		testutil.InRegion(domain.RegionEvening, domain.BucketMust),
		testutil.WithTaskNotes("check the migration"),
		testutil.PlannedOn(now.AddDate(0, 0, -2)))

	got := stripANSI(FormatTaskDetail(task, now))

	assert.Contains(t, got, "TASK")
	assert.Contains(t, got, "Review PR")
	assert.Contains(t, got, task.ID)
	assert.Contains(t, got, "☾ Evening")
	assert.Contains(t, got, "Fri Jun 13, 2025")
	assert.Contains(t, got, "(2d ago)")
	assert.Contains(t, got, "overdue")
	assert.Contains(t, got, "check the migration")
}

func TestFormatCapacity(t *testing.T) {
	report := &service.CapacityReport{
		Region: domain.RegionMorning,
		Buckets: []service.BucketCapacity{
			{Bucket: domain.BucketMust, Max: 1, Active: 1, Remaining: 0},
			{Bucket: domain.BucketComplementary, Max: 3, Active: 1, Remaining: 2},
		},
	}
	got := stripANSI(FormatCapacity(report))
	assert.Contains(t, got, "■ 1/1")
	assert.Contains(t, got, "0 left")
	assert.Contains(t, got, "■□□ 1/3")

	empty := stripANSI(FormatCapacity(&service.CapacityReport{Region: domain.RegionBacklog}))
	assert.Contains(t, empty, "No limits apply.")
}

func TestErrorMessage(t *testing.T) {
	full := &domain.BucketFullError{Region: domain.RegionMorning, Bucket: domain.BucketMust}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"bucket full", fmt.Errorf("create: %w", full), "Morning already has the maximum 1 Must Do task(s)"},
		{"not found", &domain.TaskNotFoundError{ID: "abc"}, "task not found: abc"},
		{"empty title", domain.ErrEmptyTitle, "Task title cannot be empty."},
		{"invalid", domain.InvalidOperation("prefix %q is ambiguous", "ab"), `prefix "ab" is ambiguous`},
		{"other", errors.New("disk on fire"), "Error: disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, stripANSI(ErrorMessage(tt.err)), tt.want)
		})
	}
	assert.Empty(t, ErrorMessage(nil))
}
