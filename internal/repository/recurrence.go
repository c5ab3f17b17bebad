package repository

import (
	"time"

	"github.com/tgienger/gtd/internal/models"
)

// NextOccurrence returns the date a recurring task comes back after one
// completed on base. Monthly steps clamp to the last day of the target
// month, so Jan 31 rolls to Feb 28. Custom rules repeat every Interval days.
func NextOccurrence(r models.Recurrence, base time.Time) (time.Time, bool) {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	switch r.Type {
	case models.RecurrenceDaily, models.RecurrenceCustom:
		return base.AddDate(0, 0, interval), true
	case models.RecurrenceWeekly:
		return base.AddDate(0, 0, 7*interval), true
	case models.RecurrenceMonthly:
		return addMonths(base, interval), true
	}
	return time.Time{}, false
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// rolloverDue picks the due date of the next occurrence of t, completed at
// completedAt. ok is false when the rule has ended.
func rolloverDue(t *models.Task, completedAt time.Time) (time.Time, bool) {
	if !t.Recurrence.IsRecurring() {
		return time.Time{}, false
	}
	base := completedAt
	if t.DueDate != nil {
		base = *t.DueDate
	}
	next, ok := NextOccurrence(t.Recurrence, base)
	if !ok {
		return time.Time{}, false
	}
	if end := t.Recurrence.EndDate; end != nil && next.After(*end) {
		return time.Time{}, false
	}
	return next, true
}
