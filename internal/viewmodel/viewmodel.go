// Package viewmodel aggregates the live collections the UI renders and
// forwards user actions to the repositories.
package viewmodel

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/logging"
	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/observe"
	"github.com/tgienger/gtd/internal/repository"
)

// Alerter presents failures to the user. Every failed action or query
// reaches it exactly once.
type Alerter interface {
	Alert(err error)
}

// AlertFunc adapts a function to Alerter
type AlertFunc func(err error)

func (f AlertFunc) Alert(err error) { f(err) }

type Repositories struct {
	Tasks    *repository.TaskRepository
	Projects *repository.ProjectRepository
	Areas    *repository.AreaRepository
	Tags     *repository.TagRepository
}

// NewRepositories pins a repository of each kind to session
func NewRepositories(session *db.Session, opts ...repository.Option) Repositories {
	return Repositories{
		Tasks:    repository.NewTaskRepository(session, opts...),
		Projects: repository.NewProjectRepository(session, opts...),
		Areas:    repository.NewAreaRepository(session, opts...),
		Tags:     repository.NewTagRepository(session, opts...),
	}
}

type ViewModel struct {
	repos        Repositories
	alert        Alerter
	bridge       *observe.Bridge
	now          func() time.Time
	upcomingDays int

	tasks    *observe.LiveQuery[models.Task]
	projects *observe.LiveQuery[models.Project]
	areas    *observe.LiveQuery[models.Area]
	tags     *observe.LiveQuery[models.Tag]
}

type settings struct {
	now          func() time.Time
	upcomingDays int
	dispatcher   observe.Dispatcher
	logger       logging.Logger
}

type Option func(*settings)

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithUpcomingDays sets the window of the upcoming list
func WithUpcomingDays(days int) Option {
	return func(s *settings) { s.upcomingDays = days }
}

// WithDispatcher sets where requeries run after a commit
func WithDispatcher(d observe.Dispatcher) Option {
	return func(s *settings) { s.dispatcher = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *settings) { s.logger = l }
}

var queryEntities = map[string]apperr.Entity{
	"tasks":    apperr.EntityTask,
	"projects": apperr.EntityProject,
	"areas":    apperr.EntityArea,
	"tags":     apperr.EntityTag,
}

// New tracks the four collections of store and loads them
func New(store *db.Store, repos Repositories, alert Alerter, opts ...Option) *ViewModel {
	s := settings{
		now:          time.Now,
		upcomingDays: models.DefaultUpcomingDays,
		dispatcher:   observe.Inline{},
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	vm := &ViewModel{
		repos:        repos,
		alert:        alert,
		now:          s.now,
		upcomingDays: s.upcomingDays,
	}
	vm.bridge = observe.NewBridge(store,
		observe.WithDispatcher(s.dispatcher),
		observe.WithLogger(s.logger),
		observe.WithErrorHandler(vm.queryFailed),
	)

	vm.tasks = observe.TrackQuery(vm.bridge, store, "tasks", db.Tasks, repository.TasksQuery(), db.KindTag)
	vm.projects = observe.TrackQuery(vm.bridge, store, "projects", db.Projects, repository.ProjectsQuery())
	vm.areas = observe.TrackQuery(vm.bridge, store, "areas", db.Areas, repository.AreasQuery())
	vm.tags = observe.TrackQuery(vm.bridge, store, "tags", db.Tags, repository.TagsQuery())
	return vm
}

func (vm *ViewModel) queryFailed(query string, err error) {
	vm.alert.Alert(apperr.FetchFailed(queryEntities[query], err))
}

// report alerts err and reports whether the action succeeded
func (vm *ViewModel) report(err error) bool {
	if err != nil {
		vm.alert.Alert(err)
		return false
	}
	return true
}

// Close stops following commits
func (vm *ViewModel) Close() {
	vm.bridge.Close()
}

// Reload requeries every collection
func (vm *ViewModel) Reload(ctx context.Context) {
	vm.tasks.Refresh(ctx)
	vm.projects.Refresh(ctx)
	vm.areas.Refresh(ctx)
	vm.tags.Refresh(ctx)
}

// UpcomingDays is the window of the upcoming list
func (vm *ViewModel) UpcomingDays() int {
	return vm.upcomingDays
}

func (vm *ViewModel) Tasks() []*models.Task       { return vm.tasks.Results() }
func (vm *ViewModel) Projects() []*models.Project { return vm.projects.Results() }
func (vm *ViewModel) Areas() []*models.Area       { return vm.areas.Results() }
func (vm *ViewModel) Tags() []*models.Tag         { return vm.tags.Results() }

func (vm *ViewModel) Project(id uuid.UUID) *models.Project {
	for _, p := range vm.Projects() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (vm *ViewModel) Area(id uuid.UUID) *models.Area {
	for _, a := range vm.Areas() {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (vm *ViewModel) Tag(id uuid.UUID) *models.Tag {
	for _, t := range vm.Tags() {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// ActiveProjects lists projects that are not completed
func (vm *ViewModel) ActiveProjects() []*models.Project {
	var out []*models.Project
	for _, p := range vm.Projects() {
		if !p.IsCompleted {
			out = append(out, p)
		}
	}
	return out
}

// AreaProjects lists the projects filed under an area
func (vm *ViewModel) AreaProjects(areaID uuid.UUID) []*models.Project {
	var out []*models.Project
	for _, p := range vm.Projects() {
		if p.AreaID != nil && *p.AreaID == areaID {
			out = append(out, p)
		}
	}
	return out
}
