package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/charstack/internal/cli"
	"github.com/alexanderramin/charstack/internal/cli/formatter"
	"github.com/alexanderramin/charstack/internal/config"
	"github.com/alexanderramin/charstack/internal/db"
	"github.com/alexanderramin/charstack/internal/repository"
	"github.com/alexanderramin/charstack/internal/service"
	"github.com/alexanderramin/charstack/internal/tracing"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.ErrorMessage(err))
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.NoColor || !isTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Observers: stderr log lines and/or exported spans
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	if cfg.TraceFile != "" {
		shutdown, err := tracing.Init("charstack", cli.Version, cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("initialising tracing: %w", err)
		}
		defer shutdown(context.Background())
		observers = append(observers, service.NewTraceUseCaseObserver(nil))
	}

	tasks := service.NewTaskService(
		repository.NewSQLiteTaskStore(database),
		service.WithWeekStart(cfg.WeekStart),
		service.WithObserver(service.MultiObserver(observers...)),
	)

	app := &cli.App{
		Tasks:  tasks,
		Config: cfg,
	}

	// Forms and confirmations only run on an interactive terminal.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin.Fd())
	}

	ctx, span := tracing.StartSpan(context.Background(), "charstack.cli")
	span.WithAttributes(map[string]any{"args": len(os.Args) - 1})
	defer func() { tracing.EndSpan(span, err) }()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
