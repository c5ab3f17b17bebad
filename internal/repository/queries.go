package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
)

// notDeleted is the one predicate hiding soft-deleted tasks
const notDeleted = "is_deleted = 0"

const byName = "name COLLATE NOCASE, created_at"

// TasksQuery matches every task that has not been deleted
func TasksQuery() db.Query {
	return db.Where(notDeleted).Order("sort_order")
}

func activeTasks() db.Query {
	return db.Where(notDeleted).And("is_completed = 0")
}

func TodayQuery(now time.Time) db.Query {
	start, end := models.TodayBounds(now)
	return activeTasks().
		And("due_date >= ? AND due_date < ?", start.UnixMilli(), end.UnixMilli()).
		Order("due_date, sort_order")
}

func UpcomingQuery(now time.Time, days int) db.Query {
	start, end := models.UpcomingBounds(now, days)
	return activeTasks().
		And("due_date >= ? AND due_date <= ?", start.UnixMilli(), end.UnixMilli()).
		Order("due_date, sort_order")
}

func OverdueQuery(now time.Time) db.Query {
	start, _ := models.TodayBounds(now)
	return activeTasks().And("due_date < ?", start.UnixMilli()).Order("due_date, sort_order")
}

func InboxQuery() db.Query {
	return activeTasks().And("project_id IS NULL AND area_id IS NULL").Order("sort_order")
}

func CompletedQuery() db.Query {
	return db.Where(notDeleted).And("is_completed = 1").Order("completed_at DESC")
}

func ActiveQuery() db.Query {
	return activeTasks().Order("sort_order")
}

func ProjectsQuery() db.Query {
	return db.All().Order(byName)
}

func AreasQuery() db.Query {
	return db.All().Order(byName)
}

func TagsQuery() db.Query {
	return db.All().Order(byName)
}

func byID(id uuid.UUID) db.Query {
	return db.Where("id = ?", id.String())
}
