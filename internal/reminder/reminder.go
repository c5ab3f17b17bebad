// Package reminder schedules local task reminders.
package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
)

// Reminder is one scheduled notification
type Reminder struct {
	TaskID uuid.UUID
	Title  string
	FireAt time.Time
}

// Scheduler delivers each reminder at most once. Scheduling a task that is
// already scheduled replaces the earlier request.
type Scheduler interface {
	Schedule(ctx context.Context, r Reminder) error
	Cancel(ctx context.Context, taskID uuid.UUID) error
}

// Handler receives reminders as they fire
type Handler func(Reminder)

// FireTime resolves when a task's reminder should fire: the reminder time,
// or the due date when none is set, minus the lead offset.
func FireTime(t *models.Task) (time.Time, bool) {
	if !t.Reminder.Enabled {
		return time.Time{}, false
	}
	base := t.Reminder.Time
	if base == nil {
		base = t.DueDate
	}
	if base == nil {
		return time.Time{}, false
	}
	return base.Add(-time.Duration(t.Reminder.OffsetMinutes) * time.Minute), true
}

// For returns the reminder to schedule for t, if it is active and its fire
// time is still ahead of now
func For(t *models.Task, now time.Time) (Reminder, bool) {
	if !models.IsActive(t) {
		return Reminder{}, false
	}
	at, ok := FireTime(t)
	if !ok || !at.After(now) {
		return Reminder{}, false
	}
	return Reminder{TaskID: t.ID, Title: t.Title, FireAt: at}, true
}

// Nop drops every request
type Nop struct{}

func (Nop) Schedule(context.Context, Reminder) error { return nil }
func (Nop) Cancel(context.Context, uuid.UUID) error  { return nil }
