package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/gtd/internal/apperr"
)

func TestAreasSortedByName(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	for _, name := range []string{"work", "Health", "finance"} {
		_, err := f.areas.CreateArea(ctx, NewArea{Name: name})
		require.NoError(t, err)
	}
	_, err := f.areas.CreateArea(ctx, NewArea{Name: ""})
	assert.ErrorIs(t, err, apperr.ErrEmptyName)

	areas, err := f.areas.FetchAreas(ctx)
	require.NoError(t, err)
	var names []string
	for _, a := range areas {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"finance", "Health", "work"}, names)
}

func TestUpdateArea(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	a, err := f.areas.CreateArea(ctx, NewArea{Name: "Home"})
	require.NoError(t, err)
	_, err = f.areas.UpdateArea(ctx, a, AreaUpdate{Name: ptr("House"), Color: ptr("red")})
	require.NoError(t, err)

	got, err := f.areas.GetArea(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "House", got.Name)
	assert.Equal(t, "red", got.Color)
}

func TestDeleteAreaClearsReferences(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	area, err := f.areas.CreateArea(ctx, NewArea{Name: "Home"})
	require.NoError(t, err)
	project, err := f.projects.CreateProject(ctx, NewProject{Name: "Garden", AreaID: &area.ID})
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "mow", AreaID: &area.ID})
	require.NoError(t, err)

	areaTasks, err := f.tasks.FetchAreaTasks(ctx, area.ID)
	require.NoError(t, err)
	assert.Len(t, areaTasks, 1)

	require.NoError(t, f.areas.DeleteArea(ctx, area))

	gotTask, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, gotTask.AreaID)
	gotProject, err := f.projects.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, gotProject.AreaID)

	areas, err := f.areas.FetchAreas(ctx)
	require.NoError(t, err)
	assert.Empty(t, areas)
}
