package formatter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// pillWidth fits the widest bucket pill ("○ Unassigned") plus a space.
const pillWidth = 13

// TaskLine renders one task as "· 1a2b3c4d  ● Must        Title".
func TaskLine(t *domain.Task) string {
	return fmt.Sprintf("%s %s  %s%s",
		Checkbox(t.Status),
		TruncID(t.ID),
		padRight(BucketPill(t.Bucket), pillWidth),
		TaskTitle(t),
	)
}

// FormatRegion renders a region header followed by its tasks.
func FormatRegion(region domain.Region, tasks []*domain.Task) string {
	var b strings.Builder
	b.WriteString(RegionHeader(region))
	b.WriteString("\n")
	if len(tasks) == 0 {
		b.WriteString("  " + Dim("Nothing planned.") + "\n")
		return b.String()
	}
	for _, t := range tasks {
		b.WriteString("  " + TaskLine(t) + "\n")
	}
	return b.String()
}

// FormatDayOverview renders a day: title line, completion bar and one section
// per active region.
func FormatDayOverview(o *service.DayOverview, now time.Time) string {
	var b strings.Builder

	b.WriteString(Header(HumanDate(o.Date, now) + " · " + o.Date.Format("Jan 2")))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n\n",
		RenderProgress(o.CompletionFraction(), 20),
		Dim(fmt.Sprintf("%d/%d done", o.Completed, o.Total)),
	)

	for i, rt := range o.Regions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatRegion(rt.Region, rt.Tasks))
	}
	return b.String()
}

// FormatBacklog renders backlog groups with each task's original planned date.
func FormatBacklog(groups []domain.BacklogGroup, now time.Time) string {
	if len(groups) == 0 {
		return Dim("Backlog is empty.") + "\n"
	}

	var b strings.Builder
	b.WriteString(RegionHeader(domain.RegionBacklog))
	b.WriteString("\n")
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			StyleYellow.Render(g.Group.Glyph()),
			Bold(g.Group.DisplayName()),
			Dim(fmt.Sprintf("(%d)", len(g.Tasks))),
		)
		for _, t := range g.Tasks {
			fmt.Fprintf(&b, "  %s %s  %s  %s\n",
				Checkbox(t.Status),
				TruncID(t.ID),
				padRight(Dim(RelativeDateFrom(t.PlannedDate, now)), 8),
				TaskTitle(t),
			)
		}
	}
	return b.String()
}

// FormatTaskTable renders tasks as a table, used by `today --region`.
func FormatTaskTable(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	headers := []string{"ID", "BUCKET", "STATUS", "ORDER", "TITLE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			BucketPill(t.Bucket),
			StatusPill(t.Status),
			Dim(fmt.Sprintf("%d", t.SortOrder)),
			TaskTitle(t),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskDetail renders a boxed view of a single task.
func FormatTaskDetail(t *domain.Task, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(padRight(label, 10)), value)
	}

	b.WriteString(Bold(t.Title) + "\n\n")
	field("ID", StyleFg.Render(t.ID))
	field("Status", StatusPill(t.Status))
	field("Region", RegionColor(t.Region).Render(t.Region.Glyph()+" "+t.Region.DisplayName()))
	field("Bucket", BucketPill(t.Bucket))
	field("Planned", fmt.Sprintf("%s %s",
		StyleFg.Render(t.PlannedDate.In(now.Location()).Format("Mon Jan 2, 2006")),
		Dim("("+RelativeDateFrom(t.PlannedDate, now)+")")))
	field("Order", StyleFg.Render(fmt.Sprintf("%d", t.SortOrder)))
	field("Created", Dim(t.CreatedAt.In(now.Location()).Format("2006-01-02 15:04")))
	if t.CompletedAt != nil {
		field("Completed", Dim(t.CompletedAt.In(now.Location()).Format("2006-01-02 15:04")))
	}
	if t.IsOverdue(now) {
		field("", StyleRed.Render("overdue"))
	}
	if notes := t.NotesOrEmpty(); notes != "" {
		b.WriteString("\n" + StyleFg.Render(notes) + "\n")
	}

	return RenderBox("Task", strings.TrimRight(b.String(), "\n")) + "\n"
}

// FormatCapacity renders bucket occupancy for one region.
func FormatCapacity(r *service.CapacityReport) string {
	var b strings.Builder
	b.WriteString(RegionHeader(r.Region))
	b.WriteString("\n")
	if len(r.Buckets) == 0 {
		b.WriteString("  " + Dim("No limits apply.") + "\n")
		return b.String()
	}
	for _, bc := range r.Buckets {
		label := padRight(BucketColor(bc.Bucket).Render(bc.Bucket.DisplayName()), 14)
		fmt.Fprintf(&b, "  %s %s  %s\n", label,
			RenderCapacityMeter(bc.Active, bc.Max),
			Dim(fmt.Sprintf("%d left", bc.Remaining)))
	}
	return b.String()
}

// FormatRollover is the notice printed after a rollover moved tasks.
func FormatRollover(moved int) string {
	return fmt.Sprintf("Moved %d unfinished task(s) to the backlog.", moved)
}

// ErrorMessage maps engine errors to short user-facing text.
func ErrorMessage(err error) string {
	var full *domain.BucketFullError
	var missing *domain.TaskNotFoundError
	var invalid *domain.InvalidOperationError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &full):
		return StyleRed.Render("✖ "+full.Error()) + "\n" +
			Dim("  Complete or move a task first, or pick another bucket.")
	case errors.As(err, &missing):
		return StyleRed.Render("✖ " + missing.Error())
	case errors.Is(err, domain.ErrEmptyTitle):
		return StyleRed.Render("✖ Task title cannot be empty.")
	case errors.As(err, &invalid):
		return StyleYellow.Render("! " + invalid.Error())
	default:
		return StyleRed.Render("Error: " + err.Error())
	}
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
