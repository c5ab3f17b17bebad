package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// RecurrenceType selects how a recurring task rolls over on completion
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceCustom  RecurrenceType = "custom"
)

// Recurrence describes the repeat rule of a task
type Recurrence struct {
	Type     RecurrenceType
	Interval int
	EndDate  *time.Time // nil means the task repeats forever
}

// IsRecurring reports whether completing the task should roll it over
func (r Recurrence) IsRecurring() bool {
	return r.Type != "" && r.Type != RecurrenceNone
}

// Reminder describes a local reminder attached to a task
type Reminder struct {
	Enabled       bool
	Time          *time.Time
	OffsetMinutes int
}

// Area represents a sphere of responsibility grouping projects and tasks
type Area struct {
	ID        uuid.UUID
	Name      string
	Notes     string
	Color     string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy of the area
func (a *Area) Clone() *Area {
	c := *a
	return &c
}

// Project represents a multi-step outcome made of tasks
type Project struct {
	ID          uuid.UUID
	Name        string
	Notes       string
	Color       string
	Icon        string
	IsCompleted bool
	CompletedAt *time.Time
	AreaID      *uuid.UUID // nil if not filed under an area
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the project
func (p *Project) Clone() *Project {
	c := *p
	c.CompletedAt = cloneTime(p.CompletedAt)
	c.AreaID = cloneID(p.AreaID)
	return &c
}

// Tag represents a label that can be applied to tasks
type Tag struct {
	ID        uuid.UUID
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy of the tag
func (t *Tag) Clone() *Tag {
	c := *t
	return &c
}

// Task represents a single task
type Task struct {
	ID          uuid.UUID
	Title       string
	Notes       string
	IsCompleted bool
	CompletedAt *time.Time
	Priority    int
	DueDate     *time.Time
	StartDate   *time.Time
	SortOrder   int64
	IsDeleted   bool
	Recurrence  Recurrence
	Reminder    Reminder
	ProjectID   *uuid.UUID
	AreaID      *uuid.UUID
	TagIDs      []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the task
func (t *Task) Clone() *Task {
	c := *t
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.DueDate = cloneTime(t.DueDate)
	c.StartDate = cloneTime(t.StartDate)
	c.Recurrence.EndDate = cloneTime(t.Recurrence.EndDate)
	c.Reminder.Time = cloneTime(t.Reminder.Time)
	c.ProjectID = cloneID(t.ProjectID)
	c.AreaID = cloneID(t.AreaID)
	c.TagIDs = slices.Clone(t.TagIDs)
	return &c
}

// HasTag reports whether the tag is applied to the task
func (t *Task) HasTag(id uuid.UUID) bool {
	return slices.Contains(t.TagIDs, id)
}

// InInbox reports whether the task is filed nowhere
func (t *Task) InInbox() bool {
	return t.ProjectID == nil && t.AreaID == nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
