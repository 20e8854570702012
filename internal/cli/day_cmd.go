package cli

import (
	"fmt"

	"github.com/alexanderramin/charstack/internal/cli/formatter"
	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/spf13/cobra"
)

func newTodayCmd(app *App) *cobra.Command {
	var (
		date   dateFlag
		region regionFlag
	)

	cmd := &cobra.Command{
		Use:     "today",
		Aliases: []string{"day", "ls"},
		Short:   "Show a day's tasks by region",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := app.Tasks.Now()
			day := date.resolve(now)
			out := cmd.OutOrStdout()

			if region.set {
				if region.value == domain.RegionBacklog {
					return domain.InvalidOperation("the backlog has no days; use `charstack backlog`")
				}
				r := region.value
				tasks, err := app.Tasks.FetchByDay(ctx, day, &r)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.RegionHeader(r))
				fmt.Fprint(out, formatter.FormatTaskTable(tasks))
				return nil
			}

			overview, err := app.Tasks.DayOverview(ctx, day)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatDayOverview(overview, now))
			return nil
		},
	}

	cmd.Flags().VarP(&date, "date", "d", "day to show: YYYY-MM-DD, today, tomorrow or +N")
	cmd.Flags().VarP(&region, "region", "r", "only this region")

	return cmd
}

func newBacklogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backlog",
		Short: "Show deferred and unplanned tasks grouped by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app.Tasks.FetchGroupedBacklog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBacklog(groups, app.Tasks.Now()))
			return nil
		},
	}
}

func newCapacityCmd(app *App) *cobra.Command {
	var (
		date   dateFlag
		region regionFlag
		bucket bucketFlag
	)

	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show free slots per region and bucket",
		Long: "Show how many must, complementary and misc slots are still free.\n" +
			"With --region and --bucket only the remaining count is printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day := date.resolve(app.Tasks.Now())
			out := cmd.OutOrStdout()

			if bucket.set {
				if !region.set {
					return domain.InvalidOperation("--bucket requires --region")
				}
				remaining, err := app.Tasks.RemainingCapacity(ctx, region.value, bucket.value, day)
				if err != nil {
					return err
				}
				if remaining == domain.Unlimited {
					fmt.Fprintf(out, "%s: unlimited\n", placement(region.value, bucket.value))
					return nil
				}
				fmt.Fprintf(out, "%s: %d of %d slot(s) left\n",
					placement(region.value, bucket.value), remaining, bucket.value.MaxCount())
				return nil
			}

			regions := domain.ActiveRegions
			if region.set {
				regions = []domain.Region{region.value}
			}
			for i, r := range regions {
				report, err := app.Tasks.RegionCapacity(ctx, r, day)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatCapacity(report))
			}
			return nil
		},
	}

	cmd.Flags().VarP(&date, "date", "d", "day to inspect: YYYY-MM-DD, today, tomorrow or +N")
	cmd.Flags().VarP(&region, "region", "r", "only this region")
	cmd.Flags().VarP(&bucket, "bucket", "b", "print the remaining count for one bucket")

	return cmd
}

func newRolloverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Move unfinished tasks from earlier days to the backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			moved, err := app.Tasks.PerformDayRollover(cmd.Context())
			if err != nil {
				return err
			}
			if moved == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Nothing to roll over."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRollover(moved))
			return nil
		},
	}
}

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a sample day of tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Tasks.SeedSampleData(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Seeded %d sample task(s).\n", formatter.StyleGreen.Render("✔"), n)
			return nil
		},
	}
}
