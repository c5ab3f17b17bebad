package views

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/viewmodel"
)

// SourceKind says where a task list comes from
type SourceKind int

const (
	SourceList SourceKind = iota
	SourceProject
	SourceArea
	SourceTag
)

var sourcePrefixes = map[SourceKind]string{
	SourceList:    "list",
	SourceProject: "project",
	SourceArea:    "area",
	SourceTag:     "tag",
}

// Source identifies the tasks shown in the task pane
type Source struct {
	Kind SourceKind
	List viewmodel.List
	ID   uuid.UUID
}

func ListSource(l viewmodel.List) Source {
	return Source{Kind: SourceList, List: l}
}

// Key encodes the source for the settings table
func (s Source) Key() string {
	if s.Kind == SourceList {
		return sourcePrefixes[SourceList] + ":" + string(s.List)
	}
	return sourcePrefixes[s.Kind] + ":" + s.ID.String()
}

// ParseSource decodes a Key. Unknown keys give the inbox.
func ParseSource(key string) Source {
	prefix, value, ok := strings.Cut(key, ":")
	if !ok {
		return ListSource(viewmodel.ListInbox)
	}
	for kind, p := range sourcePrefixes {
		if p != prefix {
			continue
		}
		if kind == SourceList {
			return ListSource(viewmodel.ParseList(value))
		}
		id, err := uuid.Parse(value)
		if err != nil {
			break
		}
		return Source{Kind: kind, ID: id}
	}
	return ListSource(viewmodel.ListInbox)
}

// Exists reports whether the project, area or tag is still there
func (s Source) Exists(vm *viewmodel.ViewModel) bool {
	switch s.Kind {
	case SourceProject:
		return vm.Project(s.ID) != nil
	case SourceArea:
		return vm.Area(s.ID) != nil
	case SourceTag:
		return vm.Tag(s.ID) != nil
	}
	return true
}

func (s Source) Title(vm *viewmodel.ViewModel) string {
	switch s.Kind {
	case SourceProject:
		if p := vm.Project(s.ID); p != nil {
			return p.Name
		}
	case SourceArea:
		if a := vm.Area(s.ID); a != nil {
			return a.Name
		}
	case SourceTag:
		if t := vm.Tag(s.ID); t != nil {
			return "#" + t.Name
		}
	default:
		return s.List.Title()
	}
	return ""
}

func (s Source) Tasks(vm *viewmodel.ViewModel) []*models.Task {
	switch s.Kind {
	case SourceProject:
		return vm.ProjectTasks(s.ID)
	case SourceArea:
		return vm.AreaTasks(s.ID)
	case SourceTag:
		return vm.TaggedTasks(s.ID)
	}
	return vm.List(s.List)
}

// Grouped reports whether the source mixes open and completed tasks
func (s Source) Grouped() bool {
	return s.Kind == SourceProject || s.Kind == SourceArea
}
