package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/reminder"
	"github.com/tgienger/gtd/internal/testutil"
)

type fixture struct {
	store     *db.Store
	session   *db.Session
	clock     *clock
	reminders *fakeScheduler
	tasks     *TaskRepository
	projects  *ProjectRepository
	areas     *AreaRepository
	tags      *TagRepository
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestRepos(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore(t)
	session := store.NewSession()
	c := &clock{now: time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)}
	reminders := &fakeScheduler{pending: map[uuid.UUID]reminder.Reminder{}}
	opts := []Option{WithClock(c.Now), WithScheduler(reminders)}

	return &fixture{
		store:     store,
		session:   session,
		clock:     c,
		reminders: reminders,
		tasks:     NewTaskRepository(session, opts...),
		projects:  NewProjectRepository(session, opts...),
		areas:     NewAreaRepository(session, opts...),
		tags:      NewTagRepository(session, opts...),
	}
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) mustCreateTask(t *testing.T, in NewTask) {
	t.Helper()
	_, err := f.tasks.CreateTask(context.Background(), in)
	require.NoError(t, err)
}

// fakeScheduler records requests without any timers
type fakeScheduler struct {
	mu      sync.Mutex
	pending map[uuid.UUID]reminder.Reminder
}

func (s *fakeScheduler) Schedule(_ context.Context, r reminder.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[r.TaskID] = r
	return nil
}

func (s *fakeScheduler) Cancel(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	return nil
}

func (s *fakeScheduler) Pending(id uuid.UUID) (reminder.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.pending[id]
	return r, ok
}
