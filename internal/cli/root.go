package cli

import (
	"fmt"

	"github.com/alexanderramin/charstack/internal/cli/formatter"
	"github.com/alexanderramin/charstack/internal/config"
	"github.com/alexanderramin/charstack/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// App holds the engine and the terminal hooks used by CLI commands.
type App struct {
	Tasks  service.TaskService
	Config config.Config

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool

	// RunForm and RunProgram default to running against the real terminal;
	// tests swap them out.
	RunForm    func(*huh.Form) error
	RunProgram func(tea.Model) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}

func (a *App) runProgram(m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// skipRollover lists commands that must not trigger the start-up rollover.
var skipRollover = map[string]bool{
	"version":    true,
	"rollover":   true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the top-level "charstack" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "charstack",
		Short: "Plan each day with the 1-3-5 rule",
		Long: "charstack splits the day into morning, afternoon and evening. Each region\n" +
			"holds 1 must-do, 3 complementary and 5 misc tasks; unfinished work from\n" +
			"earlier days rolls over to the backlog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !app.Config.RolloverOnStart || skipRollover[cmd.Name()] {
				return nil
			}
			moved, err := app.Tasks.PerformDayRollover(cmd.Context())
			if err != nil {
				return fmt.Errorf("day rollover: %w", err)
			}
			if moved > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(formatter.FormatRollover(moved)))
			}
			return nil
		},
	}

	root.AddCommand(
		newAddCmd(app),
		newTodayCmd(app),
		newBacklogCmd(app),
		newShowCmd(app),
		newEditCmd(app),
		newMoveCmd(app),
		newDoneCmd(app),
		newToggleCmd(app),
		newReorderCmd(app),
		newRemoveCmd(app),
		newCapacityCmd(app),
		newRolloverCmd(app),
		newBoardCmd(app),
		newSeedCmd(app),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the charstack version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "charstack %s\n", Version)
		},
	}
}
