package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/charstack/internal/cli/formatter"
	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var date dateFlag

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Interactive day board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newBoardModel(cmd.Context(), app.Tasks, date.resolve(app.Tasks.Now()))
			return app.runProgram(m)
		},
	}

	cmd.Flags().VarP(&date, "date", "d", "day to open: YYYY-MM-DD, today, tomorrow or +N")

	return cmd
}

// boardKeyMap implements help.KeyMap for the board.
type boardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Defer   key.Binding
	Delete  key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle done")),
		Defer:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "to backlog")),
		Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		PrevDay: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		NextDay: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Delete, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevDay, k.NextDay, k.Today},
		{k.Toggle, k.Defer, k.Delete, k.Refresh},
		{k.Help, k.Quit},
	}
}

// boardLoadedMsg carries a freshly loaded day.
type boardLoadedMsg struct {
	overview *service.DayOverview
	err      error
}

// boardActionMsg reports the outcome of a mutation; a reload follows.
type boardActionMsg struct {
	notice string
	err    error
}

// boardModel is a navigable view of one day's regions.
type boardModel struct {
	ctx   context.Context
	tasks service.TaskService
	day   time.Time

	overview *service.DayOverview
	rows     []*domain.Task // overview tasks in display order
	cursor   int

	// pendingDelete holds the ID awaiting a second delete press.
	pendingDelete string

	keys     boardKeyMap
	help     help.Model
	notice   string
	err      error
	loading  bool
	width    int
	quitting bool
}

func newBoardModel(ctx context.Context, tasks service.TaskService, day time.Time) boardModel {
	if ctx == nil {
		ctx = context.Background()
	}
	return boardModel{
		ctx:     ctx,
		tasks:   tasks,
		day:     day,
		keys:    defaultBoardKeys(),
		help:    help.New(),
		loading: true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.load()
}

func (m boardModel) load() tea.Cmd {
	ctx, tasks, day := m.ctx, m.tasks, m.day
	return func() tea.Msg {
		o, err := tasks.DayOverview(ctx, day)
		return boardLoadedMsg{overview: o, err: err}
	}
}

// act runs a mutation and reports a notice on success.
func (m boardModel) act(notice string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return boardActionMsg{err: err}
		}
		return boardActionMsg{notice: notice}
	}
}

func (m boardModel) selected() *domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.overview = msg.overview
		m.rows = make([]*domain.Task, 0, msg.overview.Total)
		for _, rt := range msg.overview.Regions {
			m.rows = append(m.rows, rt.Tasks...)
		}
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case boardActionMsg:
		if msg.err != nil {
			m.notice = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = msg.notice
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.pendingDelete
	m.pendingDelete = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevDay):
		return m.gotoDay(domain.AddDays(m.day, -1))
	case key.Matches(msg, m.keys.NextDay):
		return m.gotoDay(domain.AddDays(m.day, 1))
	case key.Matches(msg, m.keys.Today):
		return m.gotoDay(m.tasks.Now())
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()
	case key.Matches(msg, m.keys.Toggle):
		t := m.selected()
		if t == nil {
			return m, nil
		}
		notice := "Completed " + t.Title
		if t.Status == domain.StatusDone {
			notice = "Reopened " + t.Title
		}
		id := t.ID
		return m, m.act(notice, func(ctx context.Context) error {
			return m.tasks.ToggleCompletion(ctx, id)
		})
	case key.Matches(msg, m.keys.Defer):
		t := m.selected()
		if t == nil {
			return m, nil
		}
		id := t.ID
		return m, m.act("Moved "+t.Title+" to the backlog", func(ctx context.Context) error {
			return m.tasks.Move(ctx, id, domain.RegionBacklog, domain.BucketUnassigned)
		})
	case key.Matches(msg, m.keys.Delete):
		t := m.selected()
		if t == nil {
			return m, nil
		}
		if pending != t.ID {
			m.pendingDelete = t.ID
			m.notice = fmt.Sprintf("Press x again to delete %q", t.Title)
			return m, nil
		}
		id := t.ID
		return m, m.act("Deleted "+t.Title, func(ctx context.Context) error {
			return m.tasks.Delete(ctx, id)
		})
	}
	return m, nil
}

func (m boardModel) gotoDay(day time.Time) (tea.Model, tea.Cmd) {
	m.day = day
	m.cursor = 0
	m.notice = ""
	m.loading = true
	return m, m.load()
}

func (m boardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	now := m.tasks.Now()

	switch {
	case m.overview == nil && m.err != nil:
		b.WriteString("\n  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.overview == nil && m.loading:
		b.WriteString("\n  " + formatter.Dim("Loading...") + "\n")
	case m.overview == nil:
		b.WriteString("\n  " + formatter.Dim("Nothing to show.") + "\n")
	default:
		b.WriteString(m.renderDay(now))
	}

	b.WriteString("\n")
	if m.err != nil && m.overview != nil {
		b.WriteString(formatter.ErrorMessage(m.err) + "\n")
	} else if m.notice != "" {
		b.WriteString(formatter.StyleGreen.Render(m.notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m boardModel) renderDay(now time.Time) string {
	o := m.overview
	var b strings.Builder

	title := formatter.HumanDate(o.Date, now) + " · " + o.Date.Format("Mon Jan 2")
	b.WriteString(formatter.Header(title) + "\n")
	fmt.Fprintf(&b, "%s  %s\n",
		formatter.RenderProgress(o.CompletionFraction(), 20),
		formatter.Dim(fmt.Sprintf("%d/%d done", o.Completed, o.Total)))

	idx := 0
	for _, rt := range o.Regions {
		b.WriteString("\n" + formatter.RegionHeader(rt.Region) + "\n")
		if len(rt.Tasks) == 0 {
			b.WriteString("    " + formatter.Dim("Nothing planned.") + "\n")
			continue
		}
		for _, t := range rt.Tasks {
			cursor := "  "
			if idx == m.cursor {
				cursor = formatter.StyleGreen.Render("▸ ")
			}
			line := cursor + formatter.TaskLine(t)
			if m.width > 0 {
				line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
			}
			b.WriteString("  " + line + "\n")
			idx++
		}
	}
	return b.String()
}
