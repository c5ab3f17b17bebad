package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
)

func titles(tasks []*models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now.Add(26 * time.Hour)
	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "  Ship feature ", Priority: 2, DueDate: &due})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Ship feature", task.Title)
	assert.Equal(t, 2, task.Priority)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
	assert.False(t, task.Reminder.Enabled)
	assert.Equal(t, models.RecurrenceNone, task.Recurrence.Type)
	assert.Equal(t, f.clock.now, task.CreatedAt)

	got, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.True(t, due.Equal(*got.DueDate))
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	_, err := f.tasks.CreateTask(ctx, NewTask{Title: "   "})
	assert.ErrorIs(t, err, apperr.ErrEmptyTitle)

	_, err = f.tasks.CreateTask(ctx, NewTask{Title: strings.Repeat("x", 201)})
	assert.ErrorIs(t, err, apperr.ErrTitleTooLong)

	// title is checked first
	_, err = f.tasks.CreateTask(ctx, NewTask{Title: "", Priority: 9})
	assert.ErrorIs(t, err, apperr.ErrEmptyTitle)

	_, err = f.tasks.CreateTask(ctx, NewTask{Title: "ok", Priority: 4})
	assert.ErrorIs(t, err, apperr.ErrInvalidPriority)

	all, err := f.tasks.FetchAllTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.False(t, f.session.HasChanges())
}

func TestCreateTaskTwiceMakesTwoTasks(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	a, err := f.tasks.CreateTask(ctx, NewTask{Title: "same"})
	require.NoError(t, err)
	b, err := f.tasks.CreateTask(ctx, NewTask{Title: "same"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Greater(t, b.SortOrder, a.SortOrder, "sort order must increase even within the same millisecond")
}

func TestSortOrderSeedsFromStore(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	first, err := f.tasks.CreateTask(ctx, NewTask{Title: "first"})
	require.NoError(t, err)

	// a fresh repository over the same store with a clock in the past
	f.clock.now = f.clock.now.Add(-time.Hour)
	other := NewTaskRepository(f.session, WithClock(f.clock.Now))
	second, err := other.CreateTask(ctx, NewTask{Title: "second"})
	require.NoError(t, err)

	assert.Greater(t, second.SortOrder, first.SortOrder)
}

func TestCreateTaskPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	missing := uuid.New()
	_, err := f.tasks.CreateTask(ctx, NewTask{Title: "orphan", ProjectID: &missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindCreation, Entity: apperr.EntityTask})
	assert.False(t, f.session.HasChanges(), "failed create must not stay staged")
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	project, err := f.projects.CreateProject(ctx, NewProject{Name: "Work"})
	require.NoError(t, err)
	area, err := f.areas.CreateArea(ctx, NewArea{Name: "Home"})
	require.NoError(t, err)

	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "draft", Notes: "n", ProjectID: &project.ID, AreaID: &area.ID})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	_, err = f.tasks.UpdateTask(ctx, task, TaskUpdate{Title: ptr(" final ")})
	require.NoError(t, err)
	assert.Equal(t, "final", task.Title)
	assert.Equal(t, "n", task.Notes)
	require.NotNil(t, task.ProjectID, "unset fields are kept")
	assert.Equal(t, project.ID, *task.ProjectID)
	assert.Equal(t, f.clock.now, task.UpdatedAt)

	_, err = f.tasks.UpdateTask(ctx, task, TaskUpdate{ProjectID: Clear[uuid.UUID]()})
	require.NoError(t, err)
	assert.Nil(t, task.ProjectID)
	require.NotNil(t, task.AreaID)

	got, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Nil(t, got.ProjectID)
	assert.Equal(t, area.ID, *got.AreaID)

	_, err = f.tasks.UpdateTask(ctx, task, TaskUpdate{ProjectID: Set(project.ID), AreaID: Clear[uuid.UUID]()})
	require.NoError(t, err)
	assert.Equal(t, project.ID, *task.ProjectID)
	assert.Nil(t, task.AreaID)
}

func TestUpdateTaskValidationLeavesTaskUntouched(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "keep"})
	require.NoError(t, err)

	_, err = f.tasks.UpdateTask(ctx, task, TaskUpdate{Title: ptr(""), Notes: ptr("changed")})
	assert.ErrorIs(t, err, apperr.ErrEmptyTitle)
	assert.Equal(t, "keep", task.Title)
	assert.Empty(t, task.Notes)
	assert.False(t, f.session.HasChanges())
}

func TestUpdateFailureRestoresTask(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "keep"})
	require.NoError(t, err)

	_, err = f.tasks.UpdateTask(ctx, task, TaskUpdate{Title: ptr("new"), ProjectID: Set(uuid.New())})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindUpdate})
	assert.Equal(t, "keep", task.Title)
	assert.Nil(t, task.ProjectID)
}

func TestCompletionRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "toggle"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.MarkCompleted(ctx, task))
	assert.True(t, task.IsCompleted)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, f.clock.now, *task.CompletedAt)

	require.NoError(t, f.tasks.MarkIncomplete(ctx, task))
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)

	got, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
	assert.Nil(t, got.CompletedAt)
}

func TestDailyRollover(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now.Add(2 * time.Hour)
	tag, err := f.tags.CreateTag(ctx, "habit", "")
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, NewTask{
		Title:      "Water plants",
		Priority:   1,
		DueDate:    &due,
		Recurrence: models.Recurrence{Type: models.RecurrenceDaily, Interval: 1},
		TagIDs:     []uuid.UUID{tag.ID},
	})
	require.NoError(t, err)

	require.NoError(t, f.tasks.MarkCompleted(ctx, task))

	active, err := f.tasks.FetchActiveTasks(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	next := active[0]
	assert.NotEqual(t, task.ID, next.ID)
	assert.Equal(t, "Water plants", next.Title)
	assert.Equal(t, 1, next.Priority)
	assert.True(t, due.AddDate(0, 0, 1).Equal(*next.DueDate))
	assert.Equal(t, task.Recurrence.Type, next.Recurrence.Type)
	assert.Equal(t, task.Recurrence.Interval, next.Recurrence.Interval)
	assert.Equal(t, []uuid.UUID{tag.ID}, next.TagIDs)

	// reopening does not remove the rollover
	require.NoError(t, f.tasks.MarkIncomplete(ctx, task))
	active, err = f.tasks.FetchActiveTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestRolloverStopsAtEndDate(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now
	end := due.Add(12 * time.Hour)
	task, err := f.tasks.CreateTask(ctx, NewTask{
		Title:      "last time",
		DueDate:    &due,
		Recurrence: models.Recurrence{Type: models.RecurrenceDaily, Interval: 1, EndDate: &end},
	})
	require.NoError(t, err)

	require.NoError(t, f.tasks.MarkCompleted(ctx, task))

	active, err := f.tasks.FetchActiveTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMarkCompletedTwiceDoesNotRollOverTwice(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now
	task, err := f.tasks.CreateTask(ctx, NewTask{
		Title:      "weekly",
		DueDate:    &due,
		Recurrence: models.Recurrence{Type: models.RecurrenceWeekly, Interval: 1},
	})
	require.NoError(t, err)

	require.NoError(t, f.tasks.MarkCompleted(ctx, task))
	require.NoError(t, f.tasks.MarkCompleted(ctx, task))

	active, err := f.tasks.FetchActiveTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestRolloverFailureDoesNotFailCompletion(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now
	task, err := f.tasks.CreateTask(ctx, NewTask{
		Title:      "bins",
		DueDate:    &due,
		Recurrence: models.Recurrence{Type: models.RecurrenceDaily, Interval: 1},
	})
	require.NoError(t, err)

	// the next occurrence can no longer be inserted
	_, err = f.store.DB(ctx).ExecContext(ctx, `
		CREATE TRIGGER reject_inserts BEFORE INSERT ON tasks
		BEGIN SELECT RAISE(ABORT, 'inserts disabled'); END
	`)
	require.NoError(t, err)

	require.NoError(t, f.tasks.MarkCompleted(ctx, task))
	assert.True(t, task.IsCompleted)

	completed, err := f.tasks.FetchCompletedTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
	active, err := f.tasks.FetchActiveTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSmartLists(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)
	now := f.clock.now

	project, err := f.projects.CreateProject(ctx, NewProject{Name: "Work", Color: "blue"})
	require.NoError(t, err)

	f.mustCreateTask(t, NewTask{Title: "today", DueDate: ptr(now.Add(3 * time.Hour)), ProjectID: &project.ID})
	f.mustCreateTask(t, NewTask{Title: "tomorrow", DueDate: ptr(now.Add(24 * time.Hour)), ProjectID: &project.ID})
	f.mustCreateTask(t, NewTask{Title: "in a week", DueDate: ptr(now.AddDate(0, 0, 7))})
	f.mustCreateTask(t, NewTask{Title: "later", DueDate: ptr(now.AddDate(0, 0, 9))})
	f.mustCreateTask(t, NewTask{Title: "overdue", DueDate: ptr(now.AddDate(0, 0, -2))})
	f.mustCreateTask(t, NewTask{Title: "someday"})

	today, err := f.tasks.FetchTodayTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"today"}, titles(today))

	upcoming, err := f.tasks.FetchUpcomingTasks(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"tomorrow", "in a week"}, titles(upcoming))

	overdue, err := f.tasks.FetchOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"overdue"}, titles(overdue))

	inbox, err := f.tasks.FetchInboxTasks(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"in a week", "later", "overdue", "someday"}, titles(inbox))

	active, err := f.tasks.FetchActiveTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 6)

	projectTasks, err := f.tasks.FetchProjectTasks(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"today", "tomorrow"}, titles(projectTasks))
}

func TestUpcomingScenario(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	work, err := f.projects.CreateProject(ctx, NewProject{Name: "Work", Color: "blue"})
	require.NoError(t, err)
	tomorrow := f.clock.now.AddDate(0, 0, 1)
	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "Ship feature", ProjectID: &work.ID, Priority: 2, DueDate: &tomorrow})
	require.NoError(t, err)

	upcoming, err := f.tasks.FetchUpcomingTasks(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ship feature"}, titles(upcoming))

	f.clock.Advance(time.Minute)
	require.NoError(t, f.tasks.MarkCompleted(ctx, task))

	completed, err := f.tasks.FetchCompletedTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ship feature"}, titles(completed))

	upcoming, err = f.tasks.FetchUpcomingTasks(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestCompletedSortedByCompletionTime(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	first, err := f.tasks.CreateTask(ctx, NewTask{Title: "first"})
	require.NoError(t, err)
	second, err := f.tasks.CreateTask(ctx, NewTask{Title: "second"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.MarkCompleted(ctx, second))
	f.clock.Advance(time.Hour)
	require.NoError(t, f.tasks.MarkCompleted(ctx, first))

	completed, err := f.tasks.FetchCompletedTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, titles(completed))
}

func TestSoftDeleteRestoreAndPurge(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	keep, err := f.tasks.CreateTask(ctx, NewTask{Title: "keep"})
	require.NoError(t, err)
	drop, err := f.tasks.CreateTask(ctx, NewTask{Title: "drop"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.DeleteTask(ctx, drop))
	assert.True(t, drop.IsDeleted)

	all, err := f.tasks.FetchAllTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, titles(all))
	inbox, err := f.tasks.FetchInboxTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, titles(inbox))

	require.NoError(t, f.tasks.RestoreTask(ctx, drop))
	all, err = f.tasks.FetchAllTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, f.tasks.DeleteTask(ctx, drop))
	n, err := f.tasks.PurgeDeletedTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	trashed, err := f.tasks.FetchDeletedTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, trashed)
	_, err = f.tasks.GetTask(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.tasks.GetTask(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestTagging(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	tag, err := f.tags.CreateTag(ctx, "errand", "green")
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "groceries"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.AddTag(ctx, task, tag.ID))
	require.NoError(t, f.tasks.AddTag(ctx, task, tag.ID))
	assert.Equal(t, []uuid.UUID{tag.ID}, task.TagIDs)

	got, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tag.ID}, got.TagIDs)

	require.NoError(t, f.tasks.RemoveTag(ctx, task, tag.ID))
	assert.Empty(t, task.TagIDs)
	got, err = f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.TagIDs)
}

func TestReorderTasks(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	a, err := f.tasks.CreateTask(ctx, NewTask{Title: "a"})
	require.NoError(t, err)
	b, err := f.tasks.CreateTask(ctx, NewTask{Title: "b"})
	require.NoError(t, err)
	c, err := f.tasks.CreateTask(ctx, NewTask{Title: "c"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.ReorderTasks(ctx, []uuid.UUID{c.ID, a.ID, b.ID}))

	active, err := f.tasks.FetchActiveTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, titles(active))
}

func TestReminderScheduling(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now.Add(3 * time.Hour)
	task, err := f.tasks.CreateTask(ctx, NewTask{
		Title:    "call mom",
		DueDate:  &due,
		Reminder: models.Reminder{Enabled: true, OffsetMinutes: 30},
	})
	require.NoError(t, err)

	pending, ok := f.reminders.Pending(task.ID)
	require.True(t, ok)
	assert.True(t, due.Add(-30*time.Minute).Equal(pending.FireAt))

	require.NoError(t, f.tasks.MarkCompleted(ctx, task))
	_, ok = f.reminders.Pending(task.ID)
	assert.False(t, ok, "completing cancels the reminder")

	require.NoError(t, f.tasks.MarkIncomplete(ctx, task))
	_, ok = f.reminders.Pending(task.ID)
	assert.True(t, ok, "reopening reschedules a future reminder")

	require.NoError(t, f.tasks.DeleteTask(ctx, task))
	_, ok = f.reminders.Pending(task.ID)
	assert.False(t, ok, "deleting cancels the reminder")
}

func TestPastReminderIsNotScheduled(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now.Add(10 * time.Minute)
	task, err := f.tasks.CreateTask(ctx, NewTask{
		Title:    "too late",
		DueDate:  &due,
		Reminder: models.Reminder{Enabled: true, OffsetMinutes: 60},
	})
	require.NoError(t, err)

	_, ok := f.reminders.Pending(task.ID)
	assert.False(t, ok)
}

func TestBaseSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	require.NoError(t, f.tasks.Save(ctx), "save without changes succeeds")

	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "hard delete"})
	require.NoError(t, err)
	require.NoError(t, f.tasks.Delete(ctx, task))

	rows, err := f.tasks.Fetch(ctx, db.Where("id = ?", task.ID.String()))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBaseSaveFailureKeepsPending(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	now := f.clock.now
	bad := &models.Task{ID: uuid.New(), Title: "bad", ProjectID: ptr(uuid.New()), CreatedAt: now, UpdatedAt: now}
	db.Insert(f.session, db.Tasks, bad)

	err := f.tasks.Save(ctx)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindSave, Entity: apperr.EntityTask})
	assert.True(t, f.session.HasChanges())

	bad.ProjectID = nil
	require.NoError(t, f.tasks.Save(ctx))
	assert.False(t, f.session.HasChanges())
}

func TestRetryAfterFailedSaveWritesFreshCopy(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "Write report"})
	require.NoError(t, err)

	db.Edit(f.session, db.Tasks, task)
	task.Title = "stale"
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, f.tasks.Save(canceled))
	require.True(t, f.session.HasChanges())

	fresh, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotSame(t, task, fresh)

	notes := "fresh notes"
	_, err = f.tasks.UpdateTask(ctx, fresh, TaskUpdate{Notes: &notes})
	require.NoError(t, err)

	stored, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", stored.Title)
	assert.Equal(t, "fresh notes", stored.Notes)
	assert.False(t, f.session.HasChanges())
}

func TestFailedDeleteKeepsReminder(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	due := f.clock.now.Add(3 * time.Hour)
	task, err := f.tasks.CreateTask(ctx, NewTask{
		Title:    "renew passport",
		DueDate:  &due,
		Reminder: models.Reminder{Enabled: true},
	})
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err = f.tasks.DeleteTask(canceled, task)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindDeletion, Entity: apperr.EntityTask})
	assert.False(t, task.IsDeleted)

	_, ok := f.reminders.Pending(task.ID)
	assert.True(t, ok)
}
