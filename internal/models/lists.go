package models

import (
	"cmp"
	"slices"
	"time"
)

// DefaultUpcomingDays is the window of the upcoming list when none is given
const DefaultUpcomingDays = 7

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TodayBounds returns [start of today, start of tomorrow)
func TodayBounds(now time.Time) (time.Time, time.Time) {
	start := StartOfDay(now)
	return start, start.AddDate(0, 0, 1)
}

// UpcomingBounds returns [start of tomorrow, now+days]. The window begins
// where the today list ends so a task is never listed in both.
func UpcomingBounds(now time.Time, days int) (time.Time, time.Time) {
	if days < 1 {
		days = DefaultUpcomingDays
	}
	_, tomorrow := TodayBounds(now)
	return tomorrow, now.AddDate(0, 0, days)
}

// IsActive reports whether a task is neither completed nor deleted
func IsActive(t *Task) bool {
	return !t.IsDeleted && !t.IsCompleted
}

// IsDueToday reports whether an active task is due today
func IsDueToday(t *Task, now time.Time) bool {
	if !IsActive(t) || t.DueDate == nil {
		return false
	}
	start, end := TodayBounds(now)
	return !t.DueDate.Before(start) && t.DueDate.Before(end)
}

// IsUpcoming reports whether an active task is due within the upcoming window
func IsUpcoming(t *Task, now time.Time, days int) bool {
	if !IsActive(t) || t.DueDate == nil {
		return false
	}
	start, end := UpcomingBounds(now, days)
	return !t.DueDate.Before(start) && !t.DueDate.After(end)
}

// IsOverdue reports whether an active task was due before today
func IsOverdue(t *Task, now time.Time) bool {
	if !IsActive(t) || t.DueDate == nil {
		return false
	}
	start, _ := TodayBounds(now)
	return t.DueDate.Before(start)
}

// IsInbox reports whether an active task has neither project nor area
func IsInbox(t *Task) bool {
	return IsActive(t) && t.InInbox()
}

// IsDone reports whether a task is completed and not deleted
func IsDone(t *Task) bool {
	return !t.IsDeleted && t.IsCompleted
}

// Filter returns the tasks matching keep, preserving order
func Filter(tasks []*Task, keep func(*Task) bool) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByOrder sorts tasks by manual sort order
func SortByOrder(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
}

// SortByDue sorts tasks by due date, undated tasks last, ties by sort order
func SortByDue(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return cmp.Compare(a.SortOrder, b.SortOrder)
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
}

// SortByCompletion sorts tasks by completion time, most recent first
func SortByCompletion(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		var at, bt time.Time
		if a.CompletedAt != nil {
			at = *a.CompletedAt
		}
		if b.CompletedAt != nil {
			bt = *b.CompletedAt
		}
		return bt.Compare(at)
	})
}
