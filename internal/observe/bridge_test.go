package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/testutil"
)

func newTask(title string) *models.Task {
	now := time.Now()
	return &models.Task{ID: uuid.New(), Title: title, SortOrder: now.UnixNano(), CreatedAt: now, UpdatedAt: now}
}

func newProject(name string) *models.Project {
	now := time.Now()
	return &models.Project{ID: uuid.New(), Name: name, CreatedAt: now, UpdatedAt: now}
}

func TestRequeriesOnlyDependentQueries(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	bridge := NewBridge(store)
	defer bridge.Close()

	taskRuns, projectRuns := 0, 0
	tasks := Track(bridge, "tasks", []db.Kind{db.KindTask, db.KindTag}, func(ctx context.Context) ([]*models.Task, error) {
		taskRuns++
		return db.Fetch(ctx, store, db.Tasks, db.All())
	})
	projects := Track(bridge, "projects", []db.Kind{db.KindProject}, func(ctx context.Context) ([]*models.Project, error) {
		projectRuns++
		return db.Fetch(ctx, store, db.Projects, db.All())
	})
	assert.Equal(t, 1, taskRuns, "tracking loads once")
	assert.Equal(t, 1, projectRuns)

	sess := store.NewSession()
	db.Insert(sess, db.Tasks, newTask("one"))
	require.NoError(t, sess.Save(ctx))

	assert.Equal(t, 2, taskRuns)
	assert.Equal(t, 1, projectRuns, "unrelated query is not rerun")
	assert.Len(t, tasks.Results(), 1)
	assert.Equal(t, uint64(2), tasks.Version())

	db.Insert(sess, db.Projects, newProject("p"))
	require.NoError(t, sess.Save(ctx))

	assert.Equal(t, 2, taskRuns)
	assert.Equal(t, 2, projectRuns)
	assert.Len(t, projects.Results(), 1)
	assert.Equal(t, Idle, projects.State())
}

func TestNoCommitNoRequery(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	bridge := NewBridge(store)

	runs := 0
	Track(bridge, "tasks", []db.Kind{db.KindTask}, func(context.Context) ([]*models.Task, error) {
		runs++
		return nil, nil
	})

	require.NoError(t, store.NewSession().Save(ctx))
	assert.Equal(t, 1, runs)
}

func TestFailedRequeryPublishesEmptyAndReports(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	var reported []string
	bridge := NewBridge(store, WithErrorHandler(func(query string, err error) {
		reported = append(reported, query+": "+err.Error())
	}))

	fail := false
	tasks := Track(bridge, "tasks", []db.Kind{db.KindTask}, func(ctx context.Context) ([]*models.Task, error) {
		if fail {
			return nil, errors.New("disk gone")
		}
		return db.Fetch(ctx, store, db.Tasks, db.All())
	})

	var published [][]*models.Task
	tasks.Observe(func(rows []*models.Task) { published = append(published, rows) })

	sess := store.NewSession()
	db.Insert(sess, db.Tasks, newTask("one"))
	require.NoError(t, sess.Save(ctx))
	require.Len(t, tasks.Results(), 1)

	fail = true
	db.Insert(sess, db.Tasks, newTask("two"))
	require.NoError(t, sess.Save(ctx))

	assert.NotNil(t, tasks.Results())
	assert.Empty(t, tasks.Results())
	assert.EqualError(t, tasks.Err(), "disk gone")
	assert.Equal(t, []string{"tasks: disk gone"}, reported)
	require.Len(t, published, 2)
	assert.Empty(t, published[1])

	fail = false
	db.Insert(sess, db.Tasks, newTask("three"))
	require.NoError(t, sess.Save(ctx))
	assert.NoError(t, tasks.Err())
	assert.Len(t, tasks.Results(), 3)
	assert.Len(t, reported, 1)
}

func TestQueueDefersUntilDrained(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	queue := NewQueue()
	bridge := NewBridge(store, WithDispatcher(queue))

	tasks := TrackQuery(bridge, store, "tasks", db.Tasks, db.All())
	assert.Empty(t, tasks.Results())

	sess := store.NewSession()
	db.Insert(sess, db.Tasks, newTask("one"))
	require.NoError(t, sess.Save(ctx))
	db.Insert(sess, db.Tasks, newTask("two"))
	require.NoError(t, sess.Save(ctx))

	assert.Empty(t, tasks.Results(), "nothing changes before the owner drains")
	assert.Equal(t, 2, queue.Len())

	select {
	case <-queue.Ready():
	default:
		t.Fatal("queue did not signal readiness")
	}

	assert.Equal(t, 2, queue.Drain())
	assert.Len(t, tasks.Results(), 2)
	assert.Zero(t, queue.Drain())
}

func TestObserveCancel(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	bridge := NewBridge(store)
	tasks := TrackQuery(bridge, store, "tasks", db.Tasks, db.All())

	calls := 0
	cancel := tasks.Observe(func([]*models.Task) { calls++ })

	sess := store.NewSession()
	db.Insert(sess, db.Tasks, newTask("one"))
	require.NoError(t, sess.Save(ctx))
	cancel()
	db.Insert(sess, db.Tasks, newTask("two"))
	require.NoError(t, sess.Save(ctx))

	assert.Equal(t, 1, calls)
}

func TestCloseStopsUpdates(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	bridge := NewBridge(store)
	tasks := TrackQuery(bridge, store, "tasks", db.Tasks, db.All())
	bridge.Close()

	sess := store.NewSession()
	db.Insert(sess, db.Tasks, newTask("one"))
	require.NoError(t, sess.Save(ctx))

	assert.Empty(t, tasks.Results())
}
