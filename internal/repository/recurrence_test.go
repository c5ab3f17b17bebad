package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/gtd/internal/models"
)

func TestNextOccurrence(t *testing.T) {
	base := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule models.Recurrence
		want time.Time
		ok   bool
	}{
		{"daily", models.Recurrence{Type: models.RecurrenceDaily, Interval: 1}, time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC), true},
		{"every 3 days", models.Recurrence{Type: models.RecurrenceDaily, Interval: 3}, time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC), true},
		{"zero interval counts as one", models.Recurrence{Type: models.RecurrenceDaily}, time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC), true},
		{"weekly", models.Recurrence{Type: models.RecurrenceWeekly, Interval: 2}, time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC), true},
		{"monthly clamps", models.Recurrence{Type: models.RecurrenceMonthly, Interval: 1}, time.Date(2026, 2, 28, 9, 30, 0, 0, time.UTC), true},
		{"monthly across year", models.Recurrence{Type: models.RecurrenceMonthly, Interval: 13}, time.Date(2027, 2, 28, 9, 30, 0, 0, time.UTC), true},
		{"custom", models.Recurrence{Type: models.RecurrenceCustom, Interval: 10}, time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC), true},
		{"none", models.Recurrence{Type: models.RecurrenceNone, Interval: 5}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(tt.rule, base)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestMonthlyKeepsDayWhenItFits(t *testing.T) {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got, ok := NextOccurrence(models.Recurrence{Type: models.RecurrenceMonthly, Interval: 1}, base)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestRolloverDue(t *testing.T) {
	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	completed := time.Date(2026, 6, 3, 8, 0, 0, 0, time.UTC)

	task := &models.Task{DueDate: &due, Recurrence: models.Recurrence{Type: models.RecurrenceDaily, Interval: 1}}
	next, ok := rolloverDue(task, completed)
	assert.True(t, ok)
	assert.Equal(t, due.AddDate(0, 0, 1), next)

	undated := &models.Task{Recurrence: models.Recurrence{Type: models.RecurrenceWeekly, Interval: 1}}
	next, ok = rolloverDue(undated, completed)
	assert.True(t, ok)
	assert.Equal(t, completed.AddDate(0, 0, 7), next)

	end := due.Add(12 * time.Hour)
	ended := &models.Task{DueDate: &due, Recurrence: models.Recurrence{Type: models.RecurrenceDaily, Interval: 1, EndDate: &end}}
	_, ok = rolloverDue(ended, completed)
	assert.False(t, ok)

	onEnd := due.AddDate(0, 0, 1)
	lastOne := &models.Task{DueDate: &due, Recurrence: models.Recurrence{Type: models.RecurrenceDaily, Interval: 1, EndDate: &onEnd}}
	_, ok = rolloverDue(lastOne, completed)
	assert.True(t, ok, "an occurrence on the end date still happens")

	_, ok = rolloverDue(&models.Task{DueDate: &due}, completed)
	assert.False(t, ok)
}
