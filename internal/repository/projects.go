package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/validation"
)

// DeletionAction says what happens to a project's tasks when it is deleted
type DeletionAction int

const (
	MoveTasksToInbox DeletionAction = iota
	MoveTasksToProject
	DeleteTasks
)

type DeletionPolicy struct {
	Action DeletionAction
	Target uuid.UUID // destination project for MoveTasksToProject
}

// CompletionAction says what happens to a project's tasks when it is completed
type CompletionAction int

const (
	CompleteAllTasks CompletionAction = iota
	CompleteActiveTasks
	MoveIncompleteToInbox
)

type NewProject struct {
	Name   string
	Notes  string
	Color  string
	Icon   string
	AreaID *uuid.UUID
}

type ProjectUpdate struct {
	Name   *string
	Notes  *string
	Color  *string
	Icon   *string
	AreaID Field[uuid.UUID]
}

type ProjectRepository struct {
	*Base[models.Project]
	opts options
}

func NewProjectRepository(session *db.Session, opts ...Option) *ProjectRepository {
	return &ProjectRepository{
		Base: NewBase(session, db.Projects, apperr.EntityProject),
		opts: newOptions(opts),
	}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, in NewProject) (*models.Project, error) {
	name, err := validation.ProjectName(in.Name)
	if err != nil {
		return nil, err
	}

	now := r.opts.timestamp()
	p := &models.Project{
		ID:        uuid.New(),
		Name:      name,
		Notes:     in.Notes,
		Color:     in.Color,
		Icon:      in.Icon,
		AreaID:    in.AreaID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	db.Insert(r.session, db.Projects, p)
	if err := r.commit(ctx, apperr.CreationFailed); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, p *models.Project, u ProjectUpdate) (*models.Project, error) {
	var name string
	if u.Name != nil {
		var err error
		if name, err = validation.ProjectName(*u.Name); err != nil {
			return nil, err
		}
	}

	db.Edit(r.session, db.Projects, p)
	if u.Name != nil {
		p.Name = name
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	if u.Color != nil {
		p.Color = *u.Color
	}
	if u.Icon != nil {
		p.Icon = *u.Icon
	}
	u.AreaID.apply(&p.AreaID)
	p.UpdatedAt = r.opts.timestamp()

	if err := r.commit(ctx, apperr.UpdateFailed); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject deals with the project's tasks as policy says and removes
// the project, all in one transaction
func (r *ProjectRepository) DeleteProject(ctx context.Context, p *models.Project, policy DeletionPolicy) error {
	if policy.Action == MoveTasksToProject {
		if policy.Target == p.ID {
			return apperr.DeletionFailed(apperr.EntityProject, fmt.Errorf("cannot move tasks into the project being deleted"))
		}
		if _, err := r.GetProject(ctx, policy.Target); err != nil {
			return apperr.DeletionFailed(apperr.EntityProject, fmt.Errorf("target project %s: %w", policy.Target, err))
		}
	}

	tasks, err := r.projectTasks(ctx, p.ID)
	if err != nil {
		return apperr.DeletionFailed(apperr.EntityProject, err)
	}

	now := r.opts.timestamp()
	for _, t := range tasks {
		switch policy.Action {
		case MoveTasksToInbox:
			db.Edit(r.session, db.Tasks, t)
			t.ProjectID = nil
			t.UpdatedAt = now
		case MoveTasksToProject:
			db.Edit(r.session, db.Tasks, t)
			target := policy.Target
			t.ProjectID = &target
			t.UpdatedAt = now
		case DeleteTasks:
			db.Remove(r.session, db.Tasks, t)
		}
	}
	db.Remove(r.session, db.Projects, p)

	if err := r.commit(ctx, apperr.DeletionFailed); err != nil {
		return err
	}

	if policy.Action == DeleteTasks {
		for _, t := range tasks {
			r.cancelReminder(ctx, t.ID)
		}
	}
	r.opts.logger.Debug("deleted project", "id", p.ID, "tasks", len(tasks), "policy", policy.Action)
	return nil
}

// CompleteProject completes the project, handles its tasks as action says
// and appends note, if any, to the project's notes
func (r *ProjectRepository) CompleteProject(ctx context.Context, p *models.Project, action CompletionAction, note string) error {
	tasks, err := r.projectTasks(ctx, p.ID)
	if err != nil {
		return apperr.UpdateFailed(apperr.EntityProject, err)
	}

	now := r.opts.timestamp()
	var completed []uuid.UUID
	for _, t := range tasks {
		if t.IsDeleted {
			continue
		}
		switch {
		case action == CompleteAllTasks,
			action == CompleteActiveTasks && !t.IsCompleted:
			db.Edit(r.session, db.Tasks, t)
			t.IsCompleted = true
			t.CompletedAt = &now
			t.UpdatedAt = now
			completed = append(completed, t.ID)
		case action == MoveIncompleteToInbox && !t.IsCompleted:
			db.Edit(r.session, db.Tasks, t)
			t.ProjectID = nil
			t.UpdatedAt = now
		}
	}

	db.Edit(r.session, db.Projects, p)
	p.IsCompleted = true
	p.CompletedAt = &now
	p.UpdatedAt = now
	if note = strings.TrimSpace(note); note != "" {
		if p.Notes == "" {
			p.Notes = note
		} else {
			p.Notes += "\n\n" + note
		}
	}

	if err := r.commit(ctx, apperr.UpdateFailed); err != nil {
		return err
	}
	for _, id := range completed {
		r.cancelReminder(ctx, id)
	}
	return nil
}

// ReopenProject marks a completed project active again. Its tasks are left
// as they are.
func (r *ProjectRepository) ReopenProject(ctx context.Context, p *models.Project) error {
	if !p.IsCompleted {
		return nil
	}

	db.Edit(r.session, db.Projects, p)
	p.IsCompleted = false
	p.CompletedAt = nil
	p.UpdatedAt = r.opts.timestamp()
	return r.commit(ctx, apperr.UpdateFailed)
}

func (r *ProjectRepository) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.get(ctx, byID(id))
}

// FetchActiveProjects returns projects not yet completed, by name
func (r *ProjectRepository) FetchActiveProjects(ctx context.Context) ([]*models.Project, error) {
	return r.Fetch(ctx, db.Where("is_completed = 0").Order(byName))
}

func (r *ProjectRepository) FetchAllProjects(ctx context.Context) ([]*models.Project, error) {
	return r.Fetch(ctx, ProjectsQuery())
}

func (r *ProjectRepository) FetchAreaProjects(ctx context.Context, areaID uuid.UUID) ([]*models.Project, error) {
	return r.Fetch(ctx, db.Where("area_id = ?", areaID.String()).Order(byName))
}

// projectTasks loads every task of the project, trashed ones included, so
// no row is left pointing at it
func (r *ProjectRepository) projectTasks(ctx context.Context, id uuid.UUID) ([]*models.Task, error) {
	return db.Fetch(ctx, r.session.Store(), db.Tasks, db.Where("project_id = ?", id.String()))
}

func (r *ProjectRepository) cancelReminder(ctx context.Context, id uuid.UUID) {
	if err := r.opts.scheduler.Cancel(ctx, id); err != nil {
		r.opts.logger.Warn("failed to cancel reminder", "task", id, "error", err)
	}
}
