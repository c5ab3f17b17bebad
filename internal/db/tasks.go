package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
)

const selectTasks = `SELECT id, title, notes, is_completed, completed_at, priority, due_date, start_date,
	sort_order, is_deleted, recurrence_type, recurrence_interval, recurrence_end_date,
	reminder_enabled, reminder_time, reminder_offset, project_id, area_id, created_at, updated_at,
	(SELECT GROUP_CONCAT(tt.tag_id) FROM task_tags tt WHERE tt.task_id = tasks.id)
	FROM tasks`

// Tasks maps models.Task to the tasks table and its task_tags links
var Tasks Mapper[models.Task] = taskMapper{}

type taskMapper struct{}

func (taskMapper) Kind() Kind                         { return KindTask }
func (taskMapper) ID(t *models.Task) uuid.UUID        { return t.ID }
func (taskMapper) Clone(t *models.Task) *models.Task { return t.Clone() }

func (taskMapper) Select(ctx context.Context, db Executor, q Query) ([]*models.Task, error) {
	rows, err := db.QueryContext(ctx, q.sql(selectTasks), q.Args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, extractTask)
}

func (taskMapper) Insert(ctx context.Context, db Executor, t *models.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, notes, is_completed, completed_at, priority, due_date, start_date,
			sort_order, is_deleted, recurrence_type, recurrence_interval, recurrence_end_date,
			reminder_enabled, reminder_time, reminder_offset, project_id, area_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID.String(), t.Title, t.Notes, t.IsCompleted, toNullMillis(t.CompletedAt), t.Priority,
		toNullMillis(t.DueDate), toNullMillis(t.StartDate), t.SortOrder, t.IsDeleted,
		recurrenceType(t.Recurrence), t.Recurrence.Interval, toNullMillis(t.Recurrence.EndDate),
		t.Reminder.Enabled, toNullMillis(t.Reminder.Time), t.Reminder.OffsetMinutes,
		toNullID(t.ProjectID), toNullID(t.AreaID), toMillis(t.CreatedAt), toMillis(t.UpdatedAt))
	if err != nil {
		return err
	}
	return insertTaskTags(ctx, db, t)
}

func (taskMapper) Update(ctx context.Context, db Executor, t *models.Task) error {
	_, err := db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, notes = ?, is_completed = ?, completed_at = ?, priority = ?,
			due_date = ?, start_date = ?, sort_order = ?, is_deleted = ?, recurrence_type = ?,
			recurrence_interval = ?, recurrence_end_date = ?, reminder_enabled = ?, reminder_time = ?,
			reminder_offset = ?, project_id = ?, area_id = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, t.Notes, t.IsCompleted, toNullMillis(t.CompletedAt), t.Priority,
		toNullMillis(t.DueDate), toNullMillis(t.StartDate), t.SortOrder, t.IsDeleted,
		recurrenceType(t.Recurrence), t.Recurrence.Interval, toNullMillis(t.Recurrence.EndDate),
		t.Reminder.Enabled, toNullMillis(t.Reminder.Time), t.Reminder.OffsetMinutes,
		toNullID(t.ProjectID), toNullID(t.AreaID), toMillis(t.UpdatedAt), t.ID.String())
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", t.ID.String()); err != nil {
		return err
	}
	return insertTaskTags(ctx, db, t)
}

// Delete removes the task row for good; soft deletion is an Update
func (taskMapper) Delete(ctx context.Context, db Executor, t *models.Task) error {
	_, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", t.ID.String())
	return err
}

func insertTaskTags(ctx context.Context, db Executor, t *models.Task) error {
	for _, tagID := range t.TagIDs {
		_, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
		`, t.ID.String(), tagID.String())
		if err != nil {
			return err
		}
	}
	return nil
}

// MaxSortOrder returns the largest sort order stored, 0 for an empty table
func MaxSortOrder(ctx context.Context, db Executor) (int64, error) {
	var last sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(sort_order) FROM tasks").Scan(&last); err != nil {
		return 0, err
	}
	return last.Int64, nil
}

func recurrenceType(r models.Recurrence) string {
	if r.Type == "" {
		return string(models.RecurrenceNone)
	}
	return string(r.Type)
}

func extractTask(row scannable) (*models.Task, error) {
	var (
		t                           models.Task
		id, recurrence              string
		completedAt, dueDate, start sql.NullInt64
		recurrenceEnd, reminderTime sql.NullInt64
		projectID, areaID, tagIDs   sql.NullString
		createdAt, updatedAt        int64
	)
	err := row.Scan(&id, &t.Title, &t.Notes, &t.IsCompleted, &completedAt, &t.Priority, &dueDate, &start,
		&t.SortOrder, &t.IsDeleted, &recurrence, &t.Recurrence.Interval, &recurrenceEnd,
		&t.Reminder.Enabled, &reminderTime, &t.Reminder.OffsetMinutes, &projectID, &areaID,
		&createdAt, &updatedAt, &tagIDs)
	if err != nil {
		return nil, err
	}

	if t.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if t.ProjectID, err = fromNullID(projectID); err != nil {
		return nil, err
	}
	if t.AreaID, err = fromNullID(areaID); err != nil {
		return nil, err
	}
	if tagIDs.Valid && tagIDs.String != "" {
		for _, s := range strings.Split(tagIDs.String, ",") {
			tagID, err := uuid.Parse(s)
			if err != nil {
				return nil, err
			}
			t.TagIDs = append(t.TagIDs, tagID)
		}
	}

	t.CompletedAt = fromNullMillis(completedAt)
	t.DueDate = fromNullMillis(dueDate)
	t.StartDate = fromNullMillis(start)
	t.Recurrence.Type = models.RecurrenceType(recurrence)
	t.Recurrence.EndDate = fromNullMillis(recurrenceEnd)
	t.Reminder.Time = fromNullMillis(reminderTime)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return &t, nil
}
