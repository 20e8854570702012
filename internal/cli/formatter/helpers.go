package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a calendar-relative label for t as seen from now:
// "Today", "Yesterday", "In 3d", "2w ago" and so on.
func RelativeDateFrom(t time.Time, now time.Time) string {
	t = t.In(now.Location())
	diff := domain.StartOfDay(t).Sub(domain.StartOfDay(now))
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// HumanDate formats a day as "Today", "Yesterday" or "Mon Jan 2, 2006".
func HumanDate(t time.Time, now time.Time) string {
	t = t.In(now.Location())
	switch {
	case domain.SameDay(t, now):
		return "Today"
	case domain.SameDay(t, domain.AddDays(now, -1)):
		return "Yesterday"
	case domain.SameDay(t, domain.AddDays(now, 1)):
		return "Tomorrow"
	}
	return t.Format("Mon Jan 2, 2006")
}

// StatusPill returns a colored status indicator for a task status.
func StatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.StatusTodo:
		return StyleBlue.Render("○ To Do")
	case domain.StatusInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.StatusDone:
		return StyleDim.Render("✔ Done")
	case domain.StatusDeferred:
		return StyleYellow.Render("↷ Deferred")
	default:
		return StyleDim.Render(string(status))
	}
}

// Checkbox renders the one-cell completion marker used in task lists.
func Checkbox(status domain.TaskStatus) string {
	switch status {
	case domain.StatusDone:
		return StyleGreen.Render("✓")
	case domain.StatusInProgress:
		return StyleYellow.Render("▶")
	case domain.StatusDeferred:
		return StyleDim.Render("↷")
	default:
		return StyleDim.Render("·")
	}
}

// TaskTitle renders a title, struck through and dimmed once done.
func TaskTitle(t *domain.Task) string {
	if t.Status == domain.StatusDone {
		return StyleDim.Strikethrough(true).Render(t.Title)
	}
	return StyleFg.Render(t.Title)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to at most width cells, ending in "…".
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
