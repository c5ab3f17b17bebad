package viewmodel

import (
	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
)

// List names a smart list
type List string

const (
	ListInbox     List = "inbox"
	ListToday     List = "today"
	ListUpcoming  List = "upcoming"
	ListOverdue   List = "overdue"
	ListAnytime   List = "anytime"
	ListCompleted List = "completed"
)

// Lists is the sidebar order
var Lists = []List{ListInbox, ListToday, ListUpcoming, ListOverdue, ListAnytime, ListCompleted}

func (l List) Title() string {
	switch l {
	case ListInbox:
		return "Inbox"
	case ListToday:
		return "Today"
	case ListUpcoming:
		return "Upcoming"
	case ListOverdue:
		return "Overdue"
	case ListAnytime:
		return "Anytime"
	case ListCompleted:
		return "Completed"
	}
	return string(l)
}

// ParseList returns the list named s, or the inbox
func ParseList(s string) List {
	for _, l := range Lists {
		if string(l) == s {
			return l
		}
	}
	return ListInbox
}

// List derives a smart list from the published tasks
func (vm *ViewModel) List(l List) []*models.Task {
	switch l {
	case ListToday:
		return vm.Today()
	case ListUpcoming:
		return vm.Upcoming()
	case ListOverdue:
		return vm.Overdue()
	case ListAnytime:
		return vm.Active()
	case ListCompleted:
		return vm.Completed()
	}
	return vm.Inbox()
}

func (vm *ViewModel) Today() []*models.Task {
	now := vm.now()
	out := models.Filter(vm.Tasks(), func(t *models.Task) bool { return models.IsDueToday(t, now) })
	models.SortByDue(out)
	return out
}

func (vm *ViewModel) Upcoming() []*models.Task {
	now := vm.now()
	out := models.Filter(vm.Tasks(), func(t *models.Task) bool { return models.IsUpcoming(t, now, vm.upcomingDays) })
	models.SortByDue(out)
	return out
}

func (vm *ViewModel) Overdue() []*models.Task {
	now := vm.now()
	out := models.Filter(vm.Tasks(), func(t *models.Task) bool { return models.IsOverdue(t, now) })
	models.SortByDue(out)
	return out
}

func (vm *ViewModel) Inbox() []*models.Task {
	return models.Filter(vm.Tasks(), models.IsInbox)
}

// Active lists every open task in manual order
func (vm *ViewModel) Active() []*models.Task {
	return models.Filter(vm.Tasks(), models.IsActive)
}

func (vm *ViewModel) Completed() []*models.Task {
	out := models.Filter(vm.Tasks(), models.IsDone)
	models.SortByCompletion(out)
	return out
}

// ProjectTasks lists a project's tasks, open ones first
func (vm *ViewModel) ProjectTasks(projectID uuid.UUID) []*models.Task {
	return openFirst(models.Filter(vm.Tasks(), func(t *models.Task) bool {
		return t.ProjectID != nil && *t.ProjectID == projectID
	}))
}

// AreaTasks lists the tasks filed directly under an area, open ones first
func (vm *ViewModel) AreaTasks(areaID uuid.UUID) []*models.Task {
	return openFirst(models.Filter(vm.Tasks(), func(t *models.Task) bool {
		return t.AreaID != nil && *t.AreaID == areaID
	}))
}

// TaggedTasks lists open tasks carrying a tag
func (vm *ViewModel) TaggedTasks(tagID uuid.UUID) []*models.Task {
	return models.Filter(vm.Tasks(), func(t *models.Task) bool {
		return models.IsActive(t) && t.HasTag(tagID)
	})
}

// Counts returns the size of every smart list
func (vm *ViewModel) Counts() map[List]int {
	counts := make(map[List]int, len(Lists))
	for _, l := range Lists {
		counts[l] = len(vm.List(l))
	}
	return counts
}

func openFirst(tasks []*models.Task) []*models.Task {
	return append(models.Filter(tasks, models.IsActive), models.Filter(tasks, models.IsDone)...)
}
