package viewmodel

import (
	"context"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/repository"
)

// AddTask creates a task, nil on failure
func (vm *ViewModel) AddTask(ctx context.Context, in repository.NewTask) *models.Task {
	t, err := vm.repos.Tasks.CreateTask(ctx, in)
	if !vm.report(err) {
		return nil
	}
	return t
}

func (vm *ViewModel) UpdateTask(ctx context.Context, t *models.Task, u repository.TaskUpdate) bool {
	_, err := vm.repos.Tasks.UpdateTask(ctx, t, u)
	return vm.report(err)
}

// ToggleCompleted completes an open task or reopens a completed one
func (vm *ViewModel) ToggleCompleted(ctx context.Context, t *models.Task) bool {
	if t.IsCompleted {
		return vm.report(vm.repos.Tasks.MarkIncomplete(ctx, t))
	}
	return vm.report(vm.repos.Tasks.MarkCompleted(ctx, t))
}

// DeleteTask moves a task to the trash
func (vm *ViewModel) DeleteTask(ctx context.Context, t *models.Task) bool {
	return vm.report(vm.repos.Tasks.DeleteTask(ctx, t))
}

func (vm *ViewModel) RestoreTask(ctx context.Context, t *models.Task) bool {
	return vm.report(vm.repos.Tasks.RestoreTask(ctx, t))
}

// Trash lists soft-deleted tasks
func (vm *ViewModel) Trash(ctx context.Context) []*models.Task {
	tasks, err := vm.repos.Tasks.FetchDeletedTasks(ctx)
	if !vm.report(err) {
		return nil
	}
	return tasks
}

// EmptyTrash purges soft-deleted tasks and returns how many went
func (vm *ViewModel) EmptyTrash(ctx context.Context) (int, bool) {
	n, err := vm.repos.Tasks.PurgeDeletedTasks(ctx)
	return n, vm.report(err)
}

// ToggleTag adds the tag to the task or removes it
func (vm *ViewModel) ToggleTag(ctx context.Context, t *models.Task, tagID uuid.UUID) bool {
	if t.HasTag(tagID) {
		return vm.report(vm.repos.Tasks.RemoveTag(ctx, t, tagID))
	}
	return vm.report(vm.repos.Tasks.AddTag(ctx, t, tagID))
}

// TagTaskByName tags a task, creating the tag when none has that name
func (vm *ViewModel) TagTaskByName(ctx context.Context, t *models.Task, name string) bool {
	tag, err := vm.repos.Tags.FindOrCreateTag(ctx, name)
	if !vm.report(err) {
		return false
	}
	if t.HasTag(tag.ID) {
		return true
	}
	return vm.report(vm.repos.Tasks.AddTag(ctx, t, tag.ID))
}

func (vm *ViewModel) ReorderTasks(ctx context.Context, ids []uuid.UUID) bool {
	return vm.report(vm.repos.Tasks.ReorderTasks(ctx, ids))
}

func (vm *ViewModel) AddProject(ctx context.Context, in repository.NewProject) *models.Project {
	p, err := vm.repos.Projects.CreateProject(ctx, in)
	if !vm.report(err) {
		return nil
	}
	return p
}

func (vm *ViewModel) UpdateProject(ctx context.Context, p *models.Project, u repository.ProjectUpdate) bool {
	_, err := vm.repos.Projects.UpdateProject(ctx, p, u)
	return vm.report(err)
}

func (vm *ViewModel) DeleteProject(ctx context.Context, p *models.Project, policy repository.DeletionPolicy) bool {
	return vm.report(vm.repos.Projects.DeleteProject(ctx, p, policy))
}

// ToggleProject completes an open project using action, or reopens it
func (vm *ViewModel) ToggleProject(ctx context.Context, p *models.Project, action repository.CompletionAction, note string) bool {
	if p.IsCompleted {
		return vm.report(vm.repos.Projects.ReopenProject(ctx, p))
	}
	return vm.report(vm.repos.Projects.CompleteProject(ctx, p, action, note))
}

func (vm *ViewModel) AddArea(ctx context.Context, in repository.NewArea) *models.Area {
	a, err := vm.repos.Areas.CreateArea(ctx, in)
	if !vm.report(err) {
		return nil
	}
	return a
}

func (vm *ViewModel) UpdateArea(ctx context.Context, a *models.Area, u repository.AreaUpdate) bool {
	_, err := vm.repos.Areas.UpdateArea(ctx, a, u)
	return vm.report(err)
}

func (vm *ViewModel) DeleteArea(ctx context.Context, a *models.Area) bool {
	return vm.report(vm.repos.Areas.DeleteArea(ctx, a))
}

func (vm *ViewModel) AddTag(ctx context.Context, name, color string) *models.Tag {
	t, err := vm.repos.Tags.CreateTag(ctx, name, color)
	if !vm.report(err) {
		return nil
	}
	return t
}

func (vm *ViewModel) DeleteTag(ctx context.Context, t *models.Tag) bool {
	return vm.report(vm.repos.Tags.DeleteTag(ctx, t))
}
