package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua   = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RegionColor returns the style used for a region's header and badges.
func RegionColor(r domain.Region) lipgloss.Style {
	switch r {
	case domain.RegionMorning:
		return StyleYellow
	case domain.RegionAfternoon:
		return StyleHeader
	case domain.RegionEvening:
		return StylePurple
	default:
		return StyleDim
	}
}

// RegionHeader renders "☼ MORNING" style headings followed by an underline.
func RegionHeader(r domain.Region) string {
	label := r.Glyph() + " " + strings.ToUpper(r.DisplayName())
	line := strings.Repeat("─", lipgloss.Width(label))
	return fmt.Sprintf("%s\n%s", RegionColor(r).Bold(true).Render(label), StyleDim.Render(line))
}

// BucketColor returns the style for a bucket: red for must, blue for
// complementary, aqua for misc and dim otherwise.
func BucketColor(b domain.TaskBucket) lipgloss.Style {
	switch b {
	case domain.BucketMust:
		return StyleRed
	case domain.BucketComplementary:
		return StyleBlue
	case domain.BucketMisc:
		return StyleAqua
	default:
		return StyleDim
	}
}

// BucketPill returns a compact colored bucket label such as "● Must".
func BucketPill(b domain.TaskBucket) string {
	if !b.IsConstrained() {
		return StyleDim.Render("○ " + b.DisplayName())
	}
	return BucketColor(b).Render("● " + b.ShortLabel())
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
