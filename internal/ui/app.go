package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/gtd/internal/logging"
	"github.com/tgienger/gtd/internal/observe"
	"github.com/tgienger/gtd/internal/reminder"
	"github.com/tgienger/gtd/internal/ui/keys"
	"github.com/tgienger/gtd/internal/ui/styles"
	"github.com/tgienger/gtd/internal/ui/views"
	"github.com/tgienger/gtd/internal/viewmodel"
)

const lastSourceKey = "last_source"

// Currently active view
type View int

const (
	ViewMain View = iota
	ViewProjects
)

// Focus is the pane receiving keys in the main view
type Focus int

const (
	FocusSidebar Focus = iota
	FocusTasks
)

// Settings persists small UI state between runs
type Settings interface {
	Setting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// ReminderMsg delivers a fired reminder to the UI loop
type ReminderMsg reminder.Reminder

type changesMsg struct{}

type App struct {
	ctx      context.Context
	vm       *viewmodel.ViewModel
	queue    *observe.Queue
	settings Settings
	status   *Status
	styles   *styles.Styles
	keys     keys.KeyMap
	l        logging.Logger

	currentView View
	focus       Focus
	sidebar     *views.SidebarView
	taskList    *views.TaskListView
	projectList *views.ProjectListView
	width       int
	height      int
}

type Option func(*options)

type options struct {
	now func() time.Time
	l   logging.Logger
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.l = l }
}

// NewApp creates the application. queue must be the dispatcher vm's bridge
// was built with; the app drains it after every message.
func NewApp(ctx context.Context, vm *viewmodel.ViewModel, queue *observe.Queue, settings Settings, status *Status, opts ...Option) *App {
	o := options{now: time.Now, l: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	return &App{
		ctx:         ctx,
		vm:          vm,
		queue:       queue,
		settings:    settings,
		status:      status,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		l:           o.l,
		sidebar:     views.NewSidebarView(ctx, vm),
		taskList:    views.NewTaskListView(ctx, vm, o.now),
		projectList: views.NewProjectListView(ctx, vm),
	}
}

func (a *App) Init() tea.Cmd {
	last, err := a.settings.Setting(a.ctx, lastSourceKey)
	if err != nil {
		a.l.Warn("failed to read last list", "error", err)
	}
	src := views.ParseSource(last)
	if !src.Exists(a.vm) {
		src = views.ListSource(viewmodel.ListInbox)
	}
	a.open(src)
	a.setFocus(FocusSidebar)
	return a.waitForChanges()
}

// waitForChanges wakes the loop when requeries were queued from outside it
func (a *App) waitForChanges() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.queue.Ready():
		case <-a.ctx.Done():
			return nil
		}
		return changesMsg{}
	}
}

func (a *App) open(src views.Source) {
	a.currentView = ViewMain
	a.taskList.SetSource(src)
	a.sidebar.Select(src)
	a.setFocus(FocusTasks)

	if err := a.settings.SetSetting(a.ctx, lastSourceKey, src.Key()); err != nil {
		a.l.Warn("failed to save last list", "error", err)
	}
}

func (a *App) setFocus(f Focus) {
	a.focus = f
	a.sidebar.SetFocused(f == FocusSidebar)
	a.taskList.SetFocused(f == FocusTasks)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)

	// publish requeries queued by whatever the message did
	if a.queue.Drain() > 0 {
		a.refresh()
	}
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.sidebar.SetHeight(msg.Height - 2)
		a.taskList.SetSize(styles.PaneWidth(msg.Width), msg.Height-2)
		a.projectList.SetSize(styles.PaneWidth(msg.Width), msg.Height-2)
		return nil

	case changesMsg:
		return a.waitForChanges()

	case ReminderMsg:
		a.status.Info("⏰ " + msg.Title)
		return nil

	case views.StatusMsg:
		a.status.Info(msg.Text)
		return nil

	case views.SelectedSource:
		a.open(msg.Source)
		return nil

	case views.OpenProjects:
		a.currentView = ViewProjects
		return a.projectList.Refresh()

	case views.CloseProjects:
		a.currentView = ViewMain
		return nil

	case views.BackToSidebar:
		a.setFocus(FocusSidebar)
		return nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}
	return nil
}

func (a *App) updateKeys(msg tea.KeyMsg) tea.Cmd {
	a.status.Clear()

	if a.currentView == ViewProjects {
		if !a.projectList.Capturing() && key.Matches(msg, a.keys.Quit) {
			return tea.Quit
		}
		return a.projectList.Update(msg)
	}

	capturing := a.sidebar.Capturing() || a.taskList.Capturing()
	if !capturing {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return tea.Quit
		case key.Matches(msg, a.keys.Tab):
			if a.focus == FocusSidebar {
				a.setFocus(FocusTasks)
			} else {
				a.setFocus(FocusSidebar)
			}
			return nil
		}
	}

	if a.focus == FocusSidebar {
		return a.sidebar.Update(msg)
	}
	return a.taskList.Update(msg)
}

// refresh rereads every view from the view-model after a requery
func (a *App) refresh() {
	a.sidebar.Refresh()
	if src := a.taskList.Source(); !src.Exists(a.vm) {
		a.open(views.ListSource(viewmodel.ListInbox))
	} else {
		a.taskList.Refresh()
	}
	a.projectList.Refresh()
}

func (a *App) View() string {
	var body string
	if a.currentView == ViewProjects {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), " ", a.projectList.View())
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), " ", a.taskList.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatus())
}

func (a *App) renderStatus() string {
	text, isErr := a.status.Text()
	switch {
	case text == "":
		return a.styles.StatusBar.Render("tab switch pane • p projects • ? help • q quit")
	case isErr:
		return a.styles.StatusError.Render(text)
	}
	return a.styles.StatusInfo.Render(text)
}
