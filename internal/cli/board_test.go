package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/teatest"
	"github.com/alexanderramin/charstack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boardFixture seeds one task per constrained bucket of the morning plus an
// evening task, so cursor order is deterministic: must, comp, misc, evening.
func boardFixture(t *testing.T) (*App, *teatest.Driver, []*domain.Task) {
	t.Helper()
	app, _ := testApp(t)
	tasks := []*domain.Task{
		seedTask(t, app, "Ship release", testutil.InRegion(domain.RegionMorning, domain.BucketMust)),
		seedTask(t, app, "Answer mail", testutil.InRegion(domain.RegionMorning, domain.BucketComplementary)),
		seedTask(t, app, "Tidy desk", testutil.InRegion(domain.RegionMorning, domain.BucketMisc)),
		seedTask(t, app, "Read", testutil.InRegion(domain.RegionEvening, domain.BucketMisc)),
	}

	m := newBoardModel(context.Background(), app.Tasks, app.Tasks.Now())
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()
	return app, d, tasks
}

func board(d *teatest.Driver) boardModel {
	return d.Model.(boardModel)
}

func TestBoard_RendersDay(t *testing.T) {
	_, d, _ := boardFixture(t)

	d.RequireViewContains(
		"TODAY",
		"0/4 done",
		"MORNING", "AFTERNOON", "EVENING",
		"Ship release", "Answer mail", "Tidy desk", "Read",
		"Nothing planned.",
		"toggle done",
	)
	assert.Len(t, board(d).rows, 4)
	assert.Equal(t, 0, board(d).cursor)
}

func TestBoard_CursorNavigation(t *testing.T) {
	_, d, tasks := boardFixture(t)

	d.PressDown()
	d.Press("j")
	assert.Equal(t, tasks[2].ID, board(d).selected().ID)

	d.Press("down", "down", "down")
	assert.Equal(t, 3, board(d).cursor, "cursor stops at the last row")

	d.PressUp()
	d.Press("k", "k", "k", "k")
	assert.Equal(t, 0, board(d).cursor, "cursor stops at the first row")
}

func TestBoard_ToggleCompletion(t *testing.T) {
	app, d, tasks := boardFixture(t)

	loads := teatest.CountMsgs[boardLoadedMsg](d)
	d.PressDown()
	d.PressEnter()

	assert.Equal(t, domain.StatusDone, fetch(t, app, tasks[1].ID).Status)
	d.RequireViewContains("1/4 done", "Completed Answer mail")
	assert.Equal(t, loads+1, teatest.CountMsgs[boardLoadedMsg](d), "a completed action reloads the day")

	d.PressBinding(board(d).keys.Toggle)
	assert.Equal(t, domain.StatusTodo, fetch(t, app, tasks[1].ID).Status)
	d.RequireViewContains("0/4 done", "Reopened Answer mail")
}

func TestBoard_DeferToBacklog(t *testing.T) {
	app, d, tasks := boardFixture(t)

	d.Press("b")

	got := fetch(t, app, tasks[0].ID)
	assert.Equal(t, domain.RegionBacklog, got.Region)
	assert.Len(t, board(d).rows, 3)
	d.RequireViewContains("Moved Ship release to the backlog")
}

func TestBoard_DeleteNeedsConfirmation(t *testing.T) {
	app, d, tasks := boardFixture(t)

	d.Press("down", "down", "down", "x")
	d.RequireViewContains(`Press x again to delete "Read"`)
	require.NotNil(t, fetch(t, app, tasks[3].ID))

	// Any other key cancels the pending delete.
	d.Press("k", "x")
	require.NotNil(t, fetch(t, app, tasks[2].ID))

	d.PressBinding(board(d).keys.Delete)
	assertGone(t, app, tasks[2].ID)
	assert.Len(t, board(d).rows, 3)
	assert.Equal(t, 2, board(d).cursor)
	d.RequireViewLacks("Press x again")
}

func TestBoard_ReopenIntoFullBucketFails(t *testing.T) {
	app, d, tasks := boardFixture(t)

	d.PressBinding(board(d).keys.Toggle)
	require.Equal(t, domain.StatusDone, fetch(t, app, tasks[0].ID).Status)
	seedTask(t, app, "Hotfix", testutil.InRegion(domain.RegionMorning, domain.BucketMust))
	d.PressBinding(board(d).keys.Refresh)
	for board(d).selected().ID != tasks[0].ID {
		require.Less(t, board(d).cursor, len(board(d).rows)-1, "completed task not on the board")
		d.PressDown()
	}

	loads := teatest.CountMsgs[boardLoadedMsg](d)
	d.PressBinding(board(d).keys.Toggle)
	d.RequireViewContains("Morning already has the maximum 1 Must Do task(s)")
	assert.Equal(t, domain.StatusDone, fetch(t, app, tasks[0].ID).Status)
	assert.Equal(t, loads, teatest.CountMsgs[boardLoadedMsg](d), "a failed action keeps the loaded day")
}

func TestBoard_DayNavigation(t *testing.T) {
	_, d, _ := boardFixture(t)

	d.Press("l")
	d.RequireViewContains("TOMORROW", "0/0 done")
	assert.Empty(t, board(d).rows)

	d.Press("h", "h")
	d.RequireViewContains("YESTERDAY")

	d.Press("t")
	d.RequireViewContains("TODAY", "Ship release")
}

func TestBoard_HelpAndQuit(t *testing.T) {
	_, d, _ := boardFixture(t)

	d.Press("?")
	d.RequireViewContains("next day", "to backlog", "refresh")

	d.PressBinding(board(d).keys.Quit)
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}

func TestBoard_ShowsEngineErrors(t *testing.T) {
	app, d, tasks := boardFixture(t)

	// Remove the selected task behind the board's back.
	require.NoError(t, app.Tasks.Delete(context.Background(), tasks[0].ID))

	d.PressEnter()
	d.RequireViewContains("task not found: " + tasks[0].ID)
}
