package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
)

func setupProjectWithTasks(t *testing.T, f *fixture) (*models.Project, []*models.Task) {
	t.Helper()
	ctx := context.Background()

	project, err := f.projects.CreateProject(ctx, NewProject{Name: "Launch", Color: "blue"})
	require.NoError(t, err)

	var tasks []*models.Task
	for _, title := range []string{"design", "build", "announce"} {
		task, err := f.tasks.CreateTask(ctx, NewTask{Title: title, ProjectID: &project.ID})
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	require.NoError(t, f.tasks.MarkCompleted(ctx, tasks[0]))
	return project, tasks
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	_, err := f.projects.CreateProject(ctx, NewProject{Name: "  "})
	assert.ErrorIs(t, err, apperr.ErrEmptyName)

	p, err := f.projects.CreateProject(ctx, NewProject{Name: " Work ", Color: "blue", Icon: "briefcase"})
	require.NoError(t, err)
	assert.Equal(t, "Work", p.Name)
	assert.False(t, p.IsCompleted)

	got, err := f.projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue", got.Color)
	assert.Equal(t, "briefcase", got.Icon)
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	area, err := f.areas.CreateArea(ctx, NewArea{Name: "Job"})
	require.NoError(t, err)
	p, err := f.projects.CreateProject(ctx, NewProject{Name: "Work"})
	require.NoError(t, err)

	_, err = f.projects.UpdateProject(ctx, p, ProjectUpdate{Name: ptr("")})
	assert.ErrorIs(t, err, apperr.ErrEmptyName)
	assert.Equal(t, "Work", p.Name)

	_, err = f.projects.UpdateProject(ctx, p, ProjectUpdate{Notes: ptr("q3"), AreaID: Set(area.ID)})
	require.NoError(t, err)

	got, err := f.projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Name)
	assert.Equal(t, "q3", got.Notes)
	assert.Equal(t, area.ID, *got.AreaID)

	inArea, err := f.projects.FetchAreaProjects(ctx, area.ID)
	require.NoError(t, err)
	assert.Len(t, inArea, 1)
}

func TestDeleteProjectMoveToInbox(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)
	project, tasks := setupProjectWithTasks(t, f)

	var changes []db.ChangeSet
	f.store.Feed().Subscribe(func(cs db.ChangeSet) { changes = append(changes, cs) })

	require.NoError(t, f.projects.DeleteProject(ctx, project, DeletionPolicy{Action: MoveTasksToInbox}))

	require.Len(t, changes, 1, "reassignment and deletion commit together")
	assert.Len(t, changes[0].Updated[db.KindTask], 3)
	assert.Equal(t, []uuid.UUID{project.ID}, changes[0].Deleted[db.KindProject])

	rows, err := f.tasks.Fetch(ctx, db.Where("project_id = ?", project.ID.String()))
	require.NoError(t, err)
	assert.Empty(t, rows)

	for _, task := range tasks {
		got, err := f.tasks.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ProjectID)
	}
	inbox, err := f.tasks.FetchInboxTasks(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"build", "announce"}, titles(inbox))

	_, err = f.projects.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProjectMoveToProject(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)
	project, _ := setupProjectWithTasks(t, f)

	target, err := f.projects.CreateProject(ctx, NewProject{Name: "Next"})
	require.NoError(t, err)

	err = f.projects.DeleteProject(ctx, project, DeletionPolicy{Action: MoveTasksToProject, Target: project.ID})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindDeletion, Entity: apperr.EntityProject})

	err = f.projects.DeleteProject(ctx, project, DeletionPolicy{Action: MoveTasksToProject, Target: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.projects.DeleteProject(ctx, project, DeletionPolicy{Action: MoveTasksToProject, Target: target.ID}))

	moved, err := f.tasks.FetchProjectTasks(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"design", "build", "announce"}, titles(moved))
}

func TestDeleteProjectDeleteTasks(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)
	project, tasks := setupProjectWithTasks(t, f)

	due := f.clock.now.Add(time.Hour)
	_, err := f.tasks.UpdateTask(ctx, tasks[1], TaskUpdate{
		DueDate:  Set(due),
		Reminder: &models.Reminder{Enabled: true},
	})
	require.NoError(t, err)
	_, ok := f.reminders.Pending(tasks[1].ID)
	require.True(t, ok)

	require.NoError(t, f.projects.DeleteProject(ctx, project, DeletionPolicy{Action: DeleteTasks}))

	all, err := f.tasks.Fetch(ctx, db.All())
	require.NoError(t, err)
	assert.Empty(t, all)
	_, ok = f.reminders.Pending(tasks[1].ID)
	assert.False(t, ok)
}

func TestCompleteProject(t *testing.T) {
	tests := []struct {
		name          string
		action        CompletionAction
		wantCompleted []string
		wantInbox     []string
	}{
		{"complete all", CompleteAllTasks, []string{"design", "build", "announce"}, nil},
		{"complete active", CompleteActiveTasks, []string{"design", "build", "announce"}, nil},
		{"move incomplete to inbox", MoveIncompleteToInbox, []string{"design"}, []string{"build", "announce"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := setupTestRepos(t)
			project, _ := setupProjectWithTasks(t, f)
			firstDone := f.clock.now

			f.clock.Advance(time.Hour)
			require.NoError(t, f.projects.CompleteProject(ctx, project, tt.action, "  shipped v1 "))

			assert.True(t, project.IsCompleted)
			require.NotNil(t, project.CompletedAt)
			assert.Equal(t, "shipped v1", project.Notes)

			completed, err := f.tasks.FetchCompletedTasks(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.wantCompleted, titles(completed))

			inbox, err := f.tasks.FetchInboxTasks(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.wantInbox, titles(inbox))

			design, err := f.tasks.GetTask(ctx, completed[len(completed)-1].ID)
			require.NoError(t, err)
			if tt.action == CompleteAllTasks {
				assert.Equal(t, f.clock.now, *design.CompletedAt)
			} else {
				assert.Equal(t, "design", design.Title)
				assert.Equal(t, firstDone, *design.CompletedAt)
			}

			active, err := f.projects.FetchActiveProjects(ctx)
			require.NoError(t, err)
			assert.Empty(t, active)
		})
	}
}

func TestCompleteProjectAppendsNote(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	p, err := f.projects.CreateProject(ctx, NewProject{Name: "Move", Notes: "boxes"})
	require.NoError(t, err)
	require.NoError(t, f.projects.CompleteProject(ctx, p, CompleteAllTasks, "done"))
	assert.Equal(t, "boxes\n\ndone", p.Notes)

	require.NoError(t, f.projects.ReopenProject(ctx, p))
	assert.False(t, p.IsCompleted)
	assert.Nil(t, p.CompletedAt)

	got, err := f.projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, "boxes\n\ndone", got.Notes)
}
