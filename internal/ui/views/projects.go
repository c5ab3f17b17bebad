package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/repository"
	"github.com/tgienger/gtd/internal/ui/keys"
	"github.com/tgienger/gtd/internal/ui/styles"
	"github.com/tgienger/gtd/internal/viewmodel"
)

type projectItem struct {
	project *models.Project
	open    int
	area    string
}

func (i projectItem) Title() string {
	if i.project.IsCompleted {
		return "✓ " + i.project.Name
	}
	return i.project.Name
}

func (i projectItem) Description() string {
	parts := []string{fmt.Sprintf("%d open", i.open)}
	if i.area != "" {
		parts = append(parts, i.area)
	}
	if notes := strings.SplitN(i.project.Notes, "\n", 2)[0]; notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, " · ")
}

func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	titleStyle := d.styles.ListItem
	if index == m.Index() {
		titleStyle = d.styles.ListSelected
	}
	if p.project.IsCompleted && index != m.Index() {
		titleStyle = titleStyle.Foreground(styles.Current.ForegroundDim)
	}
	descStyle := titleStyle.Foreground(styles.Current.ForegroundDim)

	fmt.Fprintf(w, "%s\n%s", titleStyle.Width(width).Render(truncate(p.Title(), width-2)), descStyle.Width(width).Render(truncate(p.Description(), width-2)))
}

// choice is one line of a policy picker
type choice struct {
	label      string
	deletion   repository.DeletionPolicy
	completion repository.CompletionAction
}

// deletionChoices lists what can happen to p's tasks when p is deleted
func deletionChoices(vm *viewmodel.ViewModel, p *models.Project) []choice {
	choices := []choice{
		{label: "Move its tasks to the Inbox", deletion: repository.DeletionPolicy{Action: repository.MoveTasksToInbox}},
		{label: "Delete its tasks", deletion: repository.DeletionPolicy{Action: repository.DeleteTasks}},
	}
	for _, other := range vm.ActiveProjects() {
		if other.ID == p.ID {
			continue
		}
		choices = append(choices, choice{
			label:    "Move its tasks to " + other.Name,
			deletion: repository.DeletionPolicy{Action: repository.MoveTasksToProject, Target: other.ID},
		})
	}
	return choices
}

// ProjectListView manages projects: create, complete, reopen, delete
type ProjectListView struct {
	ctx      context.Context
	vm       *viewmodel.ViewModel
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	creating bool
	newName  textinput.Model
	newNotes textinput.Model
	focusIdx int // 0=name, 1=notes, 2=create

	// deleting or completing a project goes through a picker
	picking   bool
	deleting  bool
	target    *models.Project
	choices   []choice
	choiceIdx int
	note      textinput.Model
}

func NewProjectListView(ctx context.Context, vm *viewmodel.ViewModel) *ProjectListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newNotes := textinput.New()
	newNotes.Placeholder = "Notes (optional)"
	newNotes.CharLimit = 500

	note := textinput.New()
	note.Placeholder = "Closing note (optional)"
	note.CharLimit = 500

	delegate := &projectDelegate{styles: s, width: styles.MaxWidth}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	v := &ProjectListView{
		ctx:      ctx,
		vm:       vm,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newNotes: newNotes,
		note:     note,
	}
	v.Refresh()
	return v
}

// Refresh reloads the items from the view-model
func (v *ProjectListView) Refresh() tea.Cmd {
	areas := map[string]string{}
	for _, a := range v.vm.Areas() {
		areas[a.ID.String()] = a.Name
	}

	projects := v.vm.Projects()
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		item := projectItem{
			project: p,
			open:    len(models.Filter(v.vm.ProjectTasks(p.ID), models.IsActive)),
		}
		if p.AreaID != nil {
			item.area = areas[p.AreaID.String()]
		}
		items[i] = item
	}
	return v.list.SetItems(items)
}

func (v *ProjectListView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.delegate.width = width
	v.list.SetSize(width, height-4)
}

// Capturing reports whether the view wants every key, e.g. while typing
func (v *ProjectListView) Capturing() bool {
	return v.creating || v.picking || v.list.FilterState() == list.Filtering
}

func (v *ProjectListView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.creating {
		return v.updateCreating(msg)
	}
	if v.picking {
		return v.updatePicking(msg)
	}
	if v.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		if v.list.FilterState() == list.FilterApplied {
			v.list.ResetFilter()
			return nil
		}
		return func() tea.Msg { return CloseProjects{} }

	case key.Matches(msg, v.keys.New):
		v.creating = true
		v.focusIdx = 0
		v.newName.Reset()
		v.newNotes.Reset()
		return v.updateFocus()

	case key.Matches(msg, v.keys.Enter):
		if p := v.selected(); p != nil {
			src := Source{Kind: SourceProject, ID: p.ID}
			return func() tea.Msg { return SelectedSource{Source: src} }
		}
		return nil

	case key.Matches(msg, v.keys.Complete):
		p := v.selected()
		if p == nil {
			return nil
		}
		if p.IsCompleted {
			if v.vm.ToggleProject(v.ctx, p, repository.CompleteAllTasks, "") {
				return v.status("Reopened " + p.Name)
			}
			return nil
		}
		return v.startPicking(p, false)

	case key.Matches(msg, v.keys.Delete):
		if p := v.selected(); p != nil {
			return v.startPicking(p, true)
		}
		return nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *ProjectListView) selected() *models.Project {
	if item, ok := v.list.SelectedItem().(projectItem); ok {
		return item.project
	}
	return nil
}

func (v *ProjectListView) status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func (v *ProjectListView) startPicking(p *models.Project, deleting bool) tea.Cmd {
	v.picking = true
	v.deleting = deleting
	v.target = p
	v.choiceIdx = 0

	if deleting {
		v.choices = deletionChoices(v.vm, p)
		return nil
	}

	v.choices = []choice{
		{label: "Complete all of its tasks", completion: repository.CompleteAllTasks},
		{label: "Complete only the open tasks", completion: repository.CompleteActiveTasks},
		{label: "Move open tasks to the Inbox", completion: repository.MoveIncompleteToInbox},
	}
	v.note.Reset()
	return v.note.Focus()
}

func (v *ProjectListView) updatePicking(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.picking = false
		v.note.Blur()
		return nil
	case "up", "ctrl+k":
		if v.choiceIdx > 0 {
			v.choiceIdx--
		}
		return nil
	case "down", "ctrl+j":
		if v.choiceIdx < len(v.choices)-1 {
			v.choiceIdx++
		}
		return nil
	case "enter":
		c := v.choices[v.choiceIdx]
		p := v.target
		v.picking = false
		v.note.Blur()
		if v.deleting {
			if v.vm.DeleteProject(v.ctx, p, c.deletion) {
				return v.status("Deleted " + p.Name)
			}
			return nil
		}
		if v.vm.ToggleProject(v.ctx, p, c.completion, v.note.Value()) {
			return v.status("Completed " + p.Name)
		}
		return nil
	}

	if v.deleting {
		return nil
	}
	var cmd tea.Cmd
	v.note, cmd = v.note.Update(msg)
	return cmd
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return nil

	case key.Matches(msg, v.keys.Save):
		return v.create()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		return v.updateFocus()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		return v.updateFocus()

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			return v.updateFocus()
		}
		return v.create()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newNotes, cmd = v.newNotes.Update(msg)
	}
	return cmd
}

func (v *ProjectListView) create() tea.Cmd {
	p := v.vm.AddProject(v.ctx, repository.NewProject{
		Name:  v.newName.Value(),
		Notes: strings.TrimSpace(v.newNotes.Value()),
	})
	if p == nil {
		return nil
	}
	v.creating = false
	src := Source{Kind: SourceProject, ID: p.ID}
	return func() tea.Msg { return SelectedSource{Source: src} }
}

func (v *ProjectListView) updateFocus() tea.Cmd {
	v.newName.Blur()
	v.newNotes.Blur()
	switch v.focusIdx {
	case 0:
		return v.newName.Focus()
	case 1:
		return v.newNotes.Focus()
	}
	return nil
}

func (v *ProjectListView) View() string {
	switch {
	case v.creating:
		return v.renderCreateForm()
	case v.picking:
		return v.renderPicker()
	case len(v.list.Items()) == 0:
		return v.renderEmpty()
	}
	return v.list.View() + "\n" + v.renderHelp()
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	nameStyle, notesStyle, btnStyle := s.Input, s.Input, s.Button
	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		notesStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}
	inputWidth := clamp(v.width-6, 20, 50)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Project"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Notes:",
		notesStyle.Width(inputWidth).Render(v.newNotes.View()),
		"",
		btnStyle.Render(" Create "),
		"",
		s.HelpLine("tab", "next", "ctrl+s", "save", "esc", "cancel"),
	)
}

func (v *ProjectListView) renderPicker() string {
	s := v.styles
	heading := "Complete " + v.target.Name
	if v.deleting {
		heading = "Delete " + v.target.Name
	}

	lines := []string{s.Title.Render(heading), ""}
	for i, c := range v.choices {
		style := s.ListItem
		if i == v.choiceIdx {
			style = s.ListSelected
		}
		lines = append(lines, style.Render(c.label))
	}
	if !v.deleting {
		lines = append(lines, "", s.InputFocused.Width(clamp(v.width-10, 20, 50)).Render(v.note.View()))
	}
	lines = append(lines, "", s.HelpLine("↑/↓", "choose", "↵", "confirm", "esc", "cancel"))
	return s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *ProjectListView) renderHelp() string {
	if v.width > 0 && v.width < 50 {
		return v.styles.HelpLine("↵", "open", "esc", "back")
	}
	return v.styles.HelpLine("↵", "open", "n", "new", "x", "complete/reopen", "d", "delete", "esc", "back")
}
