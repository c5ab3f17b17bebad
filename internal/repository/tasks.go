package repository

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/reminder"
	"github.com/tgienger/gtd/internal/validation"
)

// NewTask holds the fields of a task to create. Priority defaults to 0 and
// the reminder to disabled.
type NewTask struct {
	Title      string
	Notes      string
	AreaID     *uuid.UUID
	ProjectID  *uuid.UUID
	Priority   int
	DueDate    *time.Time
	StartDate  *time.Time
	Recurrence models.Recurrence
	Reminder   models.Reminder
	TagIDs     []uuid.UUID
}

// TaskUpdate lists the changes to apply to a task. Nil pointers and unset
// fields are left alone.
type TaskUpdate struct {
	Title      *string
	Notes      *string
	Priority   *int
	ProjectID  Field[uuid.UUID]
	AreaID     Field[uuid.UUID]
	DueDate    Field[time.Time]
	StartDate  Field[time.Time]
	Recurrence *models.Recurrence
	Reminder   *models.Reminder
}

type TaskRepository struct {
	*Base[models.Task]
	opts options

	lastOrder int64
	seeded    bool
}

func NewTaskRepository(session *db.Session, opts ...Option) *TaskRepository {
	return &TaskRepository{
		Base: NewBase(session, db.Tasks, apperr.EntityTask),
		opts: newOptions(opts),
	}
}

// CreateTask validates and stores a new task, then schedules its reminder
func (r *TaskRepository) CreateTask(ctx context.Context, in NewTask) (*models.Task, error) {
	title, err := validation.TaskTitle(in.Title)
	if err != nil {
		return nil, err
	}
	priority, err := validation.Priority(in.Priority)
	if err != nil {
		return nil, err
	}

	order, err := r.nextSortOrder(ctx)
	if err != nil {
		return nil, apperr.CreationFailed(apperr.EntityTask, err)
	}

	now := r.opts.timestamp()
	task := &models.Task{
		ID:         uuid.New(),
		Title:      title,
		Notes:      in.Notes,
		Priority:   priority,
		DueDate:    millisPtr(in.DueDate),
		StartDate:  millisPtr(in.StartDate),
		SortOrder:  order,
		Recurrence: normalizeRecurrence(in.Recurrence),
		Reminder:   normalizeReminder(in.Reminder),
		ProjectID:  in.ProjectID,
		AreaID:     in.AreaID,
		TagIDs:     slices.Clone(in.TagIDs),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	db.Insert(r.session, db.Tasks, task)
	if err := r.commit(ctx, apperr.CreationFailed); err != nil {
		return nil, err
	}
	r.opts.logger.Debug("created task", "id", task.ID, "sort_order", task.SortOrder)

	if task.Reminder.Enabled {
		r.reschedule(ctx, task)
	}
	return task, nil
}

// UpdateTask applies u to task. The title and priority are only validated
// when supplied.
func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task, u TaskUpdate) (*models.Task, error) {
	var (
		title    string
		priority int
		err      error
	)
	if u.Title != nil {
		if title, err = validation.TaskTitle(*u.Title); err != nil {
			return nil, err
		}
	}
	if u.Priority != nil {
		if priority, err = validation.Priority(*u.Priority); err != nil {
			return nil, err
		}
	}

	db.Edit(r.session, db.Tasks, task)
	if u.Title != nil {
		task.Title = title
	}
	if u.Notes != nil {
		task.Notes = *u.Notes
	}
	if u.Priority != nil {
		task.Priority = priority
	}
	u.ProjectID.apply(&task.ProjectID)
	u.AreaID.apply(&task.AreaID)
	u.DueDate.apply(&task.DueDate)
	u.StartDate.apply(&task.StartDate)
	task.DueDate = millisPtr(task.DueDate)
	task.StartDate = millisPtr(task.StartDate)
	if u.Recurrence != nil {
		task.Recurrence = normalizeRecurrence(*u.Recurrence)
	}
	if u.Reminder != nil {
		task.Reminder = normalizeReminder(*u.Reminder)
	}
	task.UpdatedAt = r.opts.timestamp()

	if err := r.commit(ctx, apperr.UpdateFailed); err != nil {
		return nil, err
	}

	if u.Reminder != nil || u.DueDate.IsSet() {
		r.reschedule(ctx, task)
	}
	return task, nil
}

// MarkCompleted completes task, cancels its reminder and, for recurring
// tasks, creates the next occurrence. A failed rollover is logged and does
// not fail the completion.
func (r *TaskRepository) MarkCompleted(ctx context.Context, task *models.Task) error {
	if task.IsCompleted {
		return nil
	}

	now := r.opts.timestamp()
	db.Edit(r.session, db.Tasks, task)
	task.IsCompleted = true
	task.CompletedAt = &now
	task.UpdatedAt = now
	if err := r.commit(ctx, apperr.UpdateFailed); err != nil {
		return err
	}

	r.cancelReminder(ctx, task.ID)

	if next, ok := rolloverDue(task, now); ok {
		if _, err := r.CreateTask(ctx, r.nextOccurrence(task, next)); err != nil {
			r.opts.logger.Warn("failed recurrence rollover", "task", task.ID, "due", next, "error", err)
		}
	}
	return nil
}

// MarkIncomplete reopens task. Occurrences created by an earlier rollover
// are kept.
func (r *TaskRepository) MarkIncomplete(ctx context.Context, task *models.Task) error {
	if !task.IsCompleted {
		return nil
	}

	db.Edit(r.session, db.Tasks, task)
	task.IsCompleted = false
	task.CompletedAt = nil
	task.UpdatedAt = r.opts.timestamp()
	if err := r.commit(ctx, apperr.UpdateFailed); err != nil {
		return err
	}

	r.reschedule(ctx, task)
	return nil
}

// DeleteTask cancels the task's reminder and moves it to the trash
func (r *TaskRepository) DeleteTask(ctx context.Context, task *models.Task) error {
	db.Edit(r.session, db.Tasks, task)
	task.IsDeleted = true
	task.UpdatedAt = r.opts.timestamp()
	if err := r.commit(ctx, apperr.DeletionFailed); err != nil {
		return err
	}

	r.cancelReminder(ctx, task.ID)
	return nil
}

// RestoreTask takes a task back out of the trash
func (r *TaskRepository) RestoreTask(ctx context.Context, task *models.Task) error {
	if !task.IsDeleted {
		return nil
	}

	db.Edit(r.session, db.Tasks, task)
	task.IsDeleted = false
	task.UpdatedAt = r.opts.timestamp()
	if err := r.commit(ctx, apperr.UpdateFailed); err != nil {
		return err
	}

	r.reschedule(ctx, task)
	return nil
}

// PurgeDeletedTasks physically removes every trashed task
func (r *TaskRepository) PurgeDeletedTasks(ctx context.Context) (int, error) {
	trashed, err := r.FetchDeletedTasks(ctx)
	if err != nil {
		return 0, err
	}
	if len(trashed) == 0 {
		return 0, nil
	}

	for _, t := range trashed {
		db.Remove(r.session, db.Tasks, t)
	}
	if err := r.commit(ctx, apperr.DeletionFailed); err != nil {
		return 0, err
	}
	r.opts.logger.Info("purged deleted tasks", "count", len(trashed))
	return len(trashed), nil
}

func (r *TaskRepository) AddTag(ctx context.Context, task *models.Task, tagID uuid.UUID) error {
	if task.HasTag(tagID) {
		return nil
	}

	db.Edit(r.session, db.Tasks, task)
	task.TagIDs = append(slices.Clone(task.TagIDs), tagID)
	task.UpdatedAt = r.opts.timestamp()
	return r.commit(ctx, apperr.UpdateFailed)
}

func (r *TaskRepository) RemoveTag(ctx context.Context, task *models.Task, tagID uuid.UUID) error {
	if !task.HasTag(tagID) {
		return nil
	}

	db.Edit(r.session, db.Tasks, task)
	task.TagIDs = slices.DeleteFunc(slices.Clone(task.TagIDs), func(id uuid.UUID) bool { return id == tagID })
	task.UpdatedAt = r.opts.timestamp()
	return r.commit(ctx, apperr.UpdateFailed)
}

// ReorderTasks puts the given tasks in the given order. The tasks keep the
// set of sort order values they already had, so positions relative to
// tasks outside the list do not move.
func (r *TaskRepository) ReorderTasks(ctx context.Context, ids []uuid.UUID) error {
	tasks, err := r.FetchTasks(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*models.Task, len(tasks))
	orders := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		orders = append(orders, t.SortOrder)
	}
	slices.Sort(orders)

	now := r.opts.timestamp()
	i := 0
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		if t.SortOrder != orders[i] {
			db.Edit(r.session, db.Tasks, t)
			t.SortOrder = orders[i]
			t.UpdatedAt = now
		}
		i++
	}
	return r.commit(ctx, apperr.UpdateFailed)
}

func (r *TaskRepository) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return r.get(ctx, byID(id))
}

func (r *TaskRepository) FetchTasks(ctx context.Context, ids []uuid.UUID) ([]*models.Task, error) {
	pred, args := db.In("id", ids)
	return r.Fetch(ctx, db.Where(pred, args...))
}

func (r *TaskRepository) FetchAllTasks(ctx context.Context) ([]*models.Task, error) {
	return r.Fetch(ctx, TasksQuery())
}

func (r *TaskRepository) FetchTodayTasks(ctx context.Context) ([]*models.Task, error) {
	return r.Fetch(ctx, TodayQuery(r.opts.now()))
}

// FetchUpcomingTasks returns active tasks due after today and within days
func (r *TaskRepository) FetchUpcomingTasks(ctx context.Context, days int) ([]*models.Task, error) {
	return r.Fetch(ctx, UpcomingQuery(r.opts.now(), days))
}

func (r *TaskRepository) FetchOverdueTasks(ctx context.Context) ([]*models.Task, error) {
	return r.Fetch(ctx, OverdueQuery(r.opts.now()))
}

func (r *TaskRepository) FetchInboxTasks(ctx context.Context) ([]*models.Task, error) {
	return r.Fetch(ctx, InboxQuery())
}

// FetchCompletedTasks returns completed tasks, most recently completed first
func (r *TaskRepository) FetchCompletedTasks(ctx context.Context) ([]*models.Task, error) {
	return r.Fetch(ctx, CompletedQuery())
}

func (r *TaskRepository) FetchActiveTasks(ctx context.Context) ([]*models.Task, error) {
	return r.Fetch(ctx, ActiveQuery())
}

func (r *TaskRepository) FetchDeletedTasks(ctx context.Context) ([]*models.Task, error) {
	return r.Fetch(ctx, db.Where("is_deleted = 1").Order("updated_at DESC"))
}

func (r *TaskRepository) FetchProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	return r.Fetch(ctx, db.Where(notDeleted).And("project_id = ?", projectID.String()).Order("sort_order"))
}

func (r *TaskRepository) FetchAreaTasks(ctx context.Context, areaID uuid.UUID) ([]*models.Task, error) {
	return r.Fetch(ctx, db.Where(notDeleted).And("area_id = ?", areaID.String()).Order("sort_order"))
}

// nextSortOrder hands out strictly increasing values based on the clock in
// milliseconds, bumped past the last value issued or stored
func (r *TaskRepository) nextSortOrder(ctx context.Context) (int64, error) {
	if !r.seeded {
		last, err := db.MaxSortOrder(ctx, r.session.Store().DB(ctx))
		if err != nil {
			return 0, err
		}
		r.lastOrder = max(r.lastOrder, last)
		r.seeded = true
	}
	r.lastOrder = max(r.opts.now().UnixMilli(), r.lastOrder+1)
	return r.lastOrder, nil
}

// nextOccurrence builds the rollover of a completed recurring task
func (r *TaskRepository) nextOccurrence(task *models.Task, due time.Time) NewTask {
	next := NewTask{
		Title:      task.Title,
		Notes:      task.Notes,
		AreaID:     task.AreaID,
		ProjectID:  task.ProjectID,
		Priority:   task.Priority,
		DueDate:    &due,
		Recurrence: task.Recurrence,
		Reminder:   task.Reminder,
		TagIDs:     task.TagIDs,
	}

	var shift time.Duration
	if task.DueDate != nil {
		shift = due.Sub(*task.DueDate)
	}
	if task.StartDate != nil && task.DueDate != nil {
		start := task.StartDate.Add(shift)
		next.StartDate = &start
	}
	if task.Reminder.Time != nil {
		if task.DueDate != nil {
			at := task.Reminder.Time.Add(shift)
			next.Reminder.Time = &at
		} else {
			next.Reminder.Time = nil
		}
	}
	return next
}

func (r *TaskRepository) reschedule(ctx context.Context, task *models.Task) {
	rem, ok := reminder.For(task, r.opts.now())
	if !ok {
		r.cancelReminder(ctx, task.ID)
		return
	}
	if err := r.opts.scheduler.Schedule(ctx, rem); err != nil {
		r.opts.logger.Warn("failed to schedule reminder", "task", task.ID, "at", rem.FireAt, "error", err)
	}
}

func (r *TaskRepository) cancelReminder(ctx context.Context, id uuid.UUID) {
	if err := r.opts.scheduler.Cancel(ctx, id); err != nil {
		r.opts.logger.Warn("failed to cancel reminder", "task", id, "error", err)
	}
}

func normalizeRecurrence(rec models.Recurrence) models.Recurrence {
	if rec.Type == "" {
		rec.Type = models.RecurrenceNone
	}
	if rec.Interval < 1 {
		rec.Interval = 1
	}
	rec.EndDate = millisPtr(rec.EndDate)
	return rec
}

func normalizeReminder(rem models.Reminder) models.Reminder {
	rem.Time = millisPtr(rem.Time)
	if rem.OffsetMinutes < 0 {
		rem.OffsetMinutes = 0
	}
	return rem
}
