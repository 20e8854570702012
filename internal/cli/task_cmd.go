package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/charstack/internal/cli/formatter"
	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/spf13/cobra"
)

// placement renders "Morning · Must Do", or just "Backlog".
func placement(region domain.Region, bucket domain.TaskBucket) string {
	label := formatter.RegionColor(region).Render(region.Glyph() + " " + region.DisplayName())
	if !region.IsConstrained() {
		return label
	}
	return label + formatter.Dim(" · ") + formatter.BucketColor(bucket).Render(bucket.DisplayName())
}

// placementBucket resolves the bucket for a target region. The backlog
// ignores --bucket; the day regions need a constrained one.
func placementBucket(region domain.Region, bucket domain.TaskBucket) (domain.TaskBucket, error) {
	if !region.IsConstrained() {
		return domain.BucketUnassigned, nil
	}
	if !bucket.IsConstrained() {
		return "", domain.InvalidOperation("--bucket is required for %s tasks: must, complementary or misc",
			strings.ToLower(region.DisplayName()))
	}
	return bucket, nil
}

func taskRef(t *domain.Task) string {
	return fmt.Sprintf("%s %q", formatter.TruncID(t.ID), t.Title)
}

func newAddCmd(app *App) *cobra.Command {
	var (
		region regionFlag
		bucket bucketFlag
		date   dateFlag
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "add [TITLE...]",
		Short: "Add a task to a region or the backlog",
		Long: "Add a task. Without --region the task goes to the backlog. Inside a\n" +
			"region --bucket is required and the day's bucket limits apply.\n\n" +
			"With no TITLE on an interactive terminal a quick-add form is shown.",
		Example: "  charstack add \"Write the quarterly report\" --region morning --bucket must\n" +
			"  charstack add Buy groceries -r evening -b misc --date tomorrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))

			if title == "" && app.interactive() {
				in := quickAddInput{Region: region.value, Bucket: bucket.value, Notes: notes}
				if err := app.runForm(quickAddForm(&in)); err != nil {
					return err
				}
				title = strings.TrimSpace(in.Title)
				region.value, bucket.value, notes = in.Region, in.Bucket, in.Notes
			}

			now := app.Tasks.Now()
			r := region.value
			if r == "" {
				r = domain.RegionBacklog
			}
			b, err := placementBucket(r, bucket.value)
			if err != nil {
				return err
			}

			opts := []domain.TaskOption{
				domain.WithPlacement(r, b),
				domain.WithPlannedDate(date.resolve(now)),
			}
			if strings.TrimSpace(notes) != "" {
				opts = append(opts, domain.WithNotes(notes))
			}
			task := domain.NewTask(title, now, opts...)

			if err := app.Tasks.Create(cmd.Context(), task); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s to %s\n",
				formatter.StyleGreen.Render("✔"), taskRef(task), placement(task.Region, task.Bucket))
			return nil
		},
	}

	cmd.Flags().VarP(&region, "region", "r", "morning, afternoon, evening or backlog")
	cmd.Flags().VarP(&bucket, "bucket", "b", "must, complementary, misc or none")
	cmd.Flags().VarP(&date, "date", "d", "planned day: YYYY-MM-DD, today, tomorrow or +N")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := fetchTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskDetail(t, app.Tasks.Now()))
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var title, notes string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task's title or notes",
		Long:  "Change a task's title or notes. Pass --notes \"\" to clear the notes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titleSet := cmd.Flags().Changed("title")
			notesSet := cmd.Flags().Changed("notes")
			if !titleSet && !notesSet {
				return domain.InvalidOperation("nothing to change: pass --title and/or --notes")
			}

			ctx := cmd.Context()
			t, err := fetchTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			id := t.ID

			newTitle := t.Title
			if titleSet {
				newTitle = title
			}
			newNotes := t.Notes
			if notesSet {
				newNotes = nil
				if strings.TrimSpace(notes) != "" {
					newNotes = &notes
				}
			}

			if err := app.Tasks.UpdateContent(ctx, id, newTitle, newNotes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s\n",
				formatter.StyleGreen.Render("✔"), formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "new notes")

	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var (
		region regionFlag
		bucket bucketFlag
	)

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a task to another region or bucket",
		Long: "Move a task to another region or bucket on its planned day. The target\n" +
			"bucket's limit applies; the task itself does not count against it.",
		Example: "  charstack move 1a2b --region afternoon --bucket complementary\n" +
			"  charstack move 1a2b --region backlog",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !region.set {
				return domain.InvalidOperation("--region is required")
			}
			b, err := placementBucket(region.value, bucket.value)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Move(ctx, id, region.value, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Moved %s to %s\n",
				formatter.StyleGreen.Render("✔"), formatter.TruncID(id), placement(region.value, b))
			return nil
		},
	}

	cmd.Flags().VarP(&region, "region", "r", "morning, afternoon, evening or backlog")
	cmd.Flags().VarP(&bucket, "bucket", "b", "must, complementary, misc or none")

	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := fetchTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			id := t.ID
			if t.Status == domain.StatusDone {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already done.\n", taskRef(t))
				return nil
			}
			if err := app.Tasks.ToggleCompletion(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Completed %s\n", formatter.StyleGreen.Render("✔"), taskRef(t))
			return nil
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Toggle a task between done and to do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.ToggleCompletion(ctx, id); err != nil {
				return err
			}
			t, err := fetchTask(ctx, app, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", taskRef(t), formatter.StatusPill(t.Status))
			return nil
		},
	}
}

func newReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder ID ORDER",
		Short: "Set a task's position within its bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := strconv.Atoi(args[1])
			if err != nil {
				return domain.InvalidOperation("invalid order %q: must be an integer", args[1])
			}

			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.SetSortOrder(ctx, id, order); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Set order of %s to %d\n",
				formatter.StyleGreen.Render("✔"), formatter.TruncID(id), order)
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := fetchTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			id := t.ID

			if !yes && app.interactive() {
				confirmed := false
				if err := app.runForm(confirmForm(fmt.Sprintf("Delete %q?", t.Title), &confirmed)); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			if err := app.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", formatter.StyleGreen.Render("✔"), taskRef(t))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
