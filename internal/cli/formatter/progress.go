package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/charstack/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clampFraction(pct)
	if width < 2 {
		width = 2
	}

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar(pct, width)), pct*100)
}

// RenderCapacityMeter renders one block per slot of a bucket, filled for
// occupied slots: "■■□ 2/3". A full bucket is red, a bucket with one free
// slot yellow, anything roomier green.
func RenderCapacityMeter(active, max int) string {
	if max <= 0 || max == domain.Unlimited {
		return Dim(fmt.Sprintf("%d/∞", active))
	}
	used := active
	if used > max {
		used = max
	}

	style := StyleGreen
	switch remaining := max - active; {
	case remaining <= 0:
		style = StyleRed
	case remaining == 1:
		style = StyleYellow
	}

	slots := style.Render(strings.Repeat("■", used)) + StyleDim.Render(strings.Repeat("□", max-used))
	return fmt.Sprintf("%s %d/%d", slots, active, max)
}

func bar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

func clampFraction(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}
