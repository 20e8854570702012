package cli

import (
	"strconv"

	"github.com/alexanderramin/charstack/internal/cli/formatter"
	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// charstackHuhTheme returns a huh theme using the Gruvbox palette.
func charstackHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// quickAddInput collects the fields of the quick-add form.
type quickAddInput struct {
	Title  string
	Region domain.Region
	Bucket domain.TaskBucket
	Notes  string
}

// quickAddForm asks for a title, a region and (outside the backlog) a bucket.
func quickAddForm(in *quickAddInput) *huh.Form {
	if in.Region == "" {
		in.Region = domain.RegionBacklog
	}
	if in.Bucket == "" {
		in.Bucket = domain.BucketUnassigned
	}

	regionOpts := make([]huh.Option[domain.Region], 0, len(domain.AllRegions))
	for _, r := range domain.AllRegions {
		regionOpts = append(regionOpts, huh.NewOption(r.Glyph()+" "+r.DisplayName(), r))
	}
	bucketOpts := make([]huh.Option[domain.TaskBucket], 0, len(domain.AllBuckets))
	for _, b := range domain.AllBuckets {
		bucketOpts = append(bucketOpts, huh.NewOption(bucketOptionLabel(b), b))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("What needs doing?").
				Value(&in.Title).
				Validate(domain.ValidateTitle),
			huh.NewSelect[domain.Region]().
				Title("Region").
				Options(regionOpts...).
				Value(&in.Region),
		),
		huh.NewGroup(
			huh.NewSelect[domain.TaskBucket]().
				Title("Bucket").
				Options(bucketOpts...).
				Value(&in.Bucket),
		).WithHideFunc(func() bool { return in.Region == domain.RegionBacklog }),
		huh.NewGroup(
			huh.NewText().
				Title("Notes (optional)").
				Value(&in.Notes),
		),
	).WithTheme(charstackHuhTheme()).WithShowHelp(false)
}

func bucketOptionLabel(b domain.TaskBucket) string {
	if !b.IsConstrained() {
		return b.DisplayName() + " (no limit)"
	}
	return b.DisplayName() + " (max " + strconv.Itoa(b.MaxCount()) + ")"
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(charstackHuhTheme()).WithShowHelp(false)
}
