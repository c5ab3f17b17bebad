package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
)

func TestFindOrCreateTag(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	first, err := f.tags.FindOrCreateTag(ctx, "urgent")
	require.NoError(t, err)
	again, err := f.tags.FindOrCreateTag(ctx, " urgent ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := f.tags.FindOrCreateTag(ctx, "Urgent")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID, "lookup is by exact name")

	_, err = f.tags.FindOrCreateTag(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrEmptyName)

	tags, err := f.tags.FetchTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestDeleteTagUntagsTasks(t *testing.T) {
	ctx := context.Background()
	f := setupTestRepos(t)

	keep, err := f.tags.CreateTag(ctx, "keep", "")
	require.NoError(t, err)
	drop, err := f.tags.CreateTag(ctx, "drop", "")
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, NewTask{Title: "tagged", TagIDs: []uuid.UUID{keep.ID, drop.ID}})
	require.NoError(t, err)

	var changes []db.ChangeSet
	f.store.Feed().Subscribe(func(cs db.ChangeSet) { changes = append(changes, cs) })

	require.NoError(t, f.tags.DeleteTag(ctx, drop))

	require.Len(t, changes, 1)
	assert.Equal(t, []uuid.UUID{task.ID}, changes[0].Updated[db.KindTask])
	assert.Equal(t, []uuid.UUID{drop.ID}, changes[0].Deleted[db.KindTag])

	got, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keep.ID}, got.TagIDs)

	_, err = f.tags.GetTag(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
