package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/charstack/internal/domain"
)

// minPrefixLen is the shortest ID prefix accepted on the command line.
const minPrefixLen = 4

// resolveTaskID resolves a task identifier which can be:
//   - A full task ID (passed through after a lookup)
//   - A unique prefix of at least four characters, matched against today's
//     tasks and the backlog
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", domain.InvalidOperation("task ID is required")
	}

	// 1. Exact ID
	t, err := app.Tasks.FetchByID(ctx, input)
	if err != nil {
		return "", err
	}
	if t != nil {
		return t.ID, nil
	}
	if len(input) < minPrefixLen {
		return "", domain.InvalidOperation("task ID prefix %q is too short (use at least %d characters)", input, minPrefixLen)
	}

	// 2. Prefix over the visible listings
	candidates, err := listResolvable(ctx, app)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", &domain.TaskNotFoundError{ID: input}
	case 1:
		return matches[0], nil
	default:
		return "", domain.InvalidOperation("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// listResolvable returns today's tasks in every region plus the backlog,
// without duplicates.
func listResolvable(ctx context.Context, app *App) ([]*domain.Task, error) {
	today, err := app.Tasks.FetchByDay(ctx, app.Tasks.Now(), nil)
	if err != nil {
		return nil, err
	}
	backlog, err := app.Tasks.FetchBacklog(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(today)+len(backlog))
	out := make([]*domain.Task, 0, len(today)+len(backlog))
	for _, t := range append(today, backlog...) {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

// fetchTask resolves input and loads the task it names.
func fetchTask(ctx context.Context, app *App, input string) (*domain.Task, error) {
	id, err := resolveTaskID(ctx, app, input)
	if err != nil {
		return nil, err
	}
	t, err := app.Tasks.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &domain.TaskNotFoundError{ID: id}
	}
	return t, nil
}
