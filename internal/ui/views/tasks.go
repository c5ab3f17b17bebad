package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/repository"
	"github.com/tgienger/gtd/internal/ui/keys"
	"github.com/tgienger/gtd/internal/ui/styles"
	"github.com/tgienger/gtd/internal/viewmodel"
)

const dateLayout = "2006-01-02"

// edit form fields, in tab order
const (
	fieldTitle = iota
	fieldNotes
	fieldPriority
	fieldDue
	fieldRepeat
	fieldSave
	fieldCount
)

var repeatChoices = []models.RecurrenceType{
	models.RecurrenceNone,
	models.RecurrenceDaily,
	models.RecurrenceWeekly,
	models.RecurrenceMonthly,
}

// TaskListView shows the tasks of one source
type TaskListView struct {
	ctx    context.Context
	vm     *viewmodel.ViewModel
	now    func() time.Time
	source Source
	tasks  []*models.Task
	styles *styles.Styles
	keys   keys.KeyMap

	width   int
	height  int
	focused bool
	cursor  int
	scrollY int

	searching   bool
	searchInput textinput.Model
	tagFilter   *uuid.UUID
	pickingTag  bool
	tagCursor   int

	showCompleted bool

	editing      bool
	editTarget   *models.Task // nil while creating
	editTitle    textinput.Model
	editNotes    textarea.Model
	editPriority textinput.Model
	editDue      textinput.Model
	editRepeat   int
	editFocusIdx int

	tagging  bool
	tagInput textinput.Model

	viewingTask      bool
	confirmingDelete bool
	showHelpPopup    bool
}

func NewTaskListView(ctx context.Context, vm *viewmodel.ViewModel, now func() time.Time) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 250

	editNotes := textarea.New()
	editNotes.Placeholder = "Notes"
	editNotes.ShowLineNumbers = false
	editNotes.SetHeight(4)

	editPriority := textinput.New()
	editPriority.Placeholder = "0-3"
	editPriority.CharLimit = 2

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	tagInput := textinput.New()
	tagInput.Placeholder = "Tag name"
	tagInput.CharLimit = 50

	return &TaskListView{
		ctx:          ctx,
		vm:           vm,
		now:          now,
		source:       ListSource(viewmodel.ListInbox),
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		searchInput:  search,
		editTitle:    editTitle,
		editNotes:    editNotes,
		editPriority: editPriority,
		editDue:      editDue,
		tagInput:     tagInput,
	}
}

func (v *TaskListView) Source() Source { return v.source }

// SetSource switches the pane to another source and clears its filters
func (v *TaskListView) SetSource(src Source) {
	v.source = src
	v.cursor = 0
	v.scrollY = 0
	v.tagFilter = nil
	v.searchInput.Reset()
	v.showCompleted = false
	v.Refresh()
}

func (v *TaskListView) SetFocused(focused bool) { v.focused = focused }

func (v *TaskListView) SetSize(width, height int) {
	v.width = width
	v.height = height
	inputWidth := clamp(width-10, 20, 50)
	v.editNotes.SetWidth(inputWidth)
}

// Capturing reports whether the pane wants every key, e.g. while typing
func (v *TaskListView) Capturing() bool {
	return v.searching || v.editing || v.tagging || v.pickingTag ||
		v.viewingTask || v.confirmingDelete || v.showHelpPopup
}

// Refresh rereads the source from the view-model, keeping the cursor on the
// same task when it is still listed
func (v *TaskListView) Refresh() {
	var current uuid.UUID
	if t := v.selected(); t != nil {
		current = t.ID
	}

	search := strings.ToLower(strings.TrimSpace(v.searchInput.Value()))
	var tasks []*models.Task
	for _, t := range v.source.Tasks(v.vm) {
		if v.source.Grouped() && !v.showCompleted && t.IsCompleted {
			continue
		}
		if v.tagFilter != nil && !t.HasTag(*v.tagFilter) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		tasks = append(tasks, t)
	}
	v.tasks = tasks

	v.cursor = min(v.cursor, max(len(tasks)-1, 0))
	for i, t := range tasks {
		if t.ID == current {
			v.cursor = i
			break
		}
	}
	if v.viewingTask && v.selected() == nil {
		v.viewingTask = false
	}
	v.ensureVisible()
}

func (v *TaskListView) selected() *models.Task {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return nil
	}
	return v.tasks[v.cursor]
}

func (v *TaskListView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.showHelpPopup {
		v.showHelpPopup = false
		return nil
	}

	switch {
	case v.confirmingDelete:
		return v.updateConfirmDelete(msg)
	case v.editing:
		return v.updateEditing(msg)
	case v.tagging:
		return v.updateTagging(msg)
	case v.pickingTag:
		return v.updateTagPicker(msg)
	case v.viewingTask:
		return v.updateViewingTask(msg)
	case v.searching:
		return v.updateSearch(msg)
	}
	return v.updateNormal(msg)
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		return func() tea.Msg { return BackToSidebar{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Enter):
		if v.selected() != nil {
			v.viewingTask = true
		}

	case key.Matches(msg, v.keys.New):
		return v.startNewTask()

	case key.Matches(msg, v.keys.Edit):
		if t := v.selected(); t != nil {
			return v.startEditTask(t)
		}

	case key.Matches(msg, v.keys.Complete):
		return v.toggleCompleted()

	case key.Matches(msg, v.keys.Delete):
		if v.selected() != nil {
			v.confirmingDelete = true
		}

	case key.Matches(msg, v.keys.Tag):
		return v.startTagging()

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		return v.searchInput.Focus()

	case key.Matches(msg, v.keys.Filter):
		v.pickingTag = true
		v.tagCursor = 0

	case key.Matches(msg, v.keys.ShowCompleted):
		if v.source.Grouped() {
			v.showCompleted = !v.showCompleted
			v.Refresh()
		}

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return nil
}

func (v *TaskListView) toggleCompleted() tea.Cmd {
	t := v.selected()
	if t == nil {
		return nil
	}
	wasRecurring := !t.IsCompleted && t.Recurrence.IsRecurring()
	if !v.vm.ToggleCompleted(v.ctx, t) {
		return nil
	}
	if wasRecurring {
		return func() tea.Msg { return StatusMsg{Text: "Next occurrence scheduled"} }
	}
	return nil
}

func (v *TaskListView) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searching = false
		v.searchInput.Blur()
		v.searchInput.Reset()
		v.Refresh()
		return nil
	case key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.searchInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.Refresh()
	return cmd
}

func (v *TaskListView) updateTagPicker(msg tea.KeyMsg) tea.Cmd {
	tags := v.vm.Tags()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.pickingTag = false
	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(tags) {
			v.tagCursor++
		}
	case key.Matches(msg, v.keys.Enter):
		v.pickingTag = false
		if v.tagCursor == 0 || v.tagCursor > len(tags) {
			v.tagFilter = nil
		} else {
			id := tags[v.tagCursor-1].ID
			v.tagFilter = &id
		}
		v.cursor = 0
		v.Refresh()
	}
	return nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingTask = false
		if t := v.selected(); t != nil && v.vm.DeleteTask(v.ctx, t) {
			title := t.Title
			return func() tea.Msg { return StatusMsg{Text: "Moved to trash: " + title} }
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
	case key.Matches(msg, v.keys.Edit):
		if t := v.selected(); t != nil {
			v.viewingTask = false
			return v.startEditTask(t)
		}
	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
	case key.Matches(msg, v.keys.Tag):
		return v.startTagging()
	case key.Matches(msg, v.keys.Complete):
		return v.toggleCompleted()
	}
	return nil
}

func (v *TaskListView) startTagging() tea.Cmd {
	if v.selected() == nil {
		return nil
	}
	v.tagging = true
	v.tagInput.Reset()
	return v.tagInput.Focus()
}

// updateTagging adds the typed tag, or removes it when the task has it
func (v *TaskListView) updateTagging(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.tagging = false
		v.tagInput.Blur()
		return nil
	case key.Matches(msg, v.keys.Enter):
		t := v.selected()
		name := strings.TrimSpace(v.tagInput.Value())
		v.tagging = false
		v.tagInput.Blur()
		if t == nil || name == "" {
			return nil
		}
		for _, tag := range v.vm.Tags() {
			if strings.EqualFold(tag.Name, name) && t.HasTag(tag.ID) {
				v.vm.ToggleTag(v.ctx, t, tag.ID)
				return nil
			}
		}
		v.vm.TagTaskByName(v.ctx, t, name)
		return nil
	}

	var cmd tea.Cmd
	v.tagInput, cmd = v.tagInput.Update(msg)
	return cmd
}

func (v *TaskListView) startNewTask() tea.Cmd {
	v.editing = true
	v.editTarget = nil
	v.editFocusIdx = fieldTitle
	v.editTitle.Reset()
	v.editNotes.Reset()
	v.editPriority.SetValue("0")
	v.editDue.Reset()
	v.editRepeat = 0

	now := v.now()
	switch v.source.List {
	case viewmodel.ListToday:
		v.editDue.SetValue(now.Format(dateLayout))
	case viewmodel.ListUpcoming:
		v.editDue.SetValue(now.AddDate(0, 0, 1).Format(dateLayout))
	}
	return v.updateEditFocus()
}

func (v *TaskListView) startEditTask(t *models.Task) tea.Cmd {
	v.editing = true
	v.editTarget = t
	v.editFocusIdx = fieldTitle
	v.editTitle.SetValue(t.Title)
	v.editNotes.SetValue(t.Notes)
	v.editPriority.SetValue(strconv.Itoa(t.Priority))
	v.editDue.Reset()
	if t.DueDate != nil {
		v.editDue.SetValue(t.DueDate.Format(dateLayout))
	}
	v.editRepeat = 0
	for i, r := range repeatChoices {
		if r == t.Recurrence.Type {
			v.editRepeat = i
		}
	}
	return v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() tea.Cmd {
	v.editTitle.Blur()
	v.editNotes.Blur()
	v.editPriority.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		return v.editTitle.Focus()
	case fieldNotes:
		return v.editNotes.Focus()
	case fieldPriority:
		return v.editPriority.Focus()
	case fieldDue:
		return v.editDue.Focus()
	}
	return nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return nil

	case key.Matches(msg, v.keys.Save):
		return v.saveTask()

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		return v.updateEditFocus()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		return v.updateEditFocus()

	case v.editFocusIdx == fieldRepeat:
		switch msg.String() {
		case "left", "h":
			v.editRepeat = (v.editRepeat + len(repeatChoices) - 1) % len(repeatChoices)
		case "right", "l", " ":
			v.editRepeat = (v.editRepeat + 1) % len(repeatChoices)
		case "enter":
			v.editFocusIdx = fieldSave
		}
		return nil

	case key.Matches(msg, v.keys.Enter) && v.editFocusIdx != fieldNotes:
		if v.editFocusIdx == fieldSave {
			return v.saveTask()
		}
		v.editFocusIdx++
		return v.updateEditFocus()
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldNotes:
		v.editNotes, cmd = v.editNotes.Update(msg)
	case fieldPriority:
		v.editPriority, cmd = v.editPriority.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return cmd
}

// saveTask submits the form. Invalid input keeps the form open; the
// view-model has already alerted the reason.
func (v *TaskListView) saveTask() tea.Cmd {
	priority, err := strconv.Atoi(strings.TrimSpace(v.editPriority.Value()))
	if err != nil {
		priority = -1
	}

	var due *time.Time
	if raw := strings.TrimSpace(v.editDue.Value()); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return func() tea.Msg { return StatusMsg{Text: "Dates look like " + v.now().Format(dateLayout)} }
		}
		due = &d
	}
	recurrence := models.Recurrence{Type: repeatChoices[v.editRepeat], Interval: 1}

	if v.editTarget == nil {
		in := repository.NewTask{
			Title:      v.editTitle.Value(),
			Notes:      strings.TrimSpace(v.editNotes.Value()),
			Priority:   priority,
			DueDate:    due,
			Recurrence: recurrence,
		}
		id := v.source.ID
		switch v.source.Kind {
		case SourceProject:
			in.ProjectID = &id
		case SourceArea:
			in.AreaID = &id
		case SourceTag:
			in.TagIDs = []uuid.UUID{id}
		}
		if v.vm.AddTask(v.ctx, in) == nil {
			return nil
		}
		v.editing = false
		return nil
	}

	title := v.editTitle.Value()
	notes := strings.TrimSpace(v.editNotes.Value())
	u := repository.TaskUpdate{
		Title:      &title,
		Notes:      &notes,
		Priority:   &priority,
		DueDate:    repository.Clear[time.Time](),
		Recurrence: &recurrence,
	}
	if due != nil {
		u.DueDate = repository.Set(*due)
	}
	if v.vm.UpdateTask(v.ctx, v.editTarget, u) {
		v.editing = false
	}
	return nil
}

func (v *TaskListView) visibleItems() int {
	// title line plus detail line per task
	return max((v.height-6)/2, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TaskListView) View() string {
	switch {
	case v.showHelpPopup:
		return v.renderHelpPopup()
	case v.editing:
		return v.renderEditForm()
	case v.viewingTask:
		return v.renderTaskView()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())

	switch {
	case v.confirmingDelete:
		b.WriteString("\n" + v.renderDeleteConfirm())
	case v.tagging:
		b.WriteString("\n" + v.styles.InputFocused.Width(clamp(v.width-6, 20, 40)).Render(v.tagInput.View()))
	case v.pickingTag:
		b.WriteString("\n" + v.renderTagPicker())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	title := v.source.Title(v.vm)
	if v.source.Grouped() && v.showCompleted {
		title += " (with completed)"
	}
	parts := []string{s.Title.Render(title)}

	if v.tagFilter != nil {
		if tag := v.vm.Tag(*v.tagFilter); tag != nil {
			parts = append(parts, s.Due.Render("#"+tag.Name))
		}
	}
	if v.searching || v.searchInput.Value() != "" {
		searchStyle := s.Input
		if v.searching {
			searchStyle = s.InputFocused
		}
		parts = append(parts, searchStyle.Width(clamp(v.width-20, 10, 30)).Render(v.searchInput.View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, "  "))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles
	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	end := min(v.scrollY+v.visibleItems(), len(v.tasks))
	var items []string
	for i := v.scrollY; i < end; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focused))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(t *models.Task, selected bool) string {
	s := v.styles
	width := max(v.width-2, 20)

	check := "[ ]"
	if t.IsCompleted {
		check = "[x]"
	}
	title := t.Title
	if t.IsCompleted {
		title = s.TaskDone.Render(title)
	}
	line := check + " " + title
	if p := styles.PriorityMarker(t.Priority); p != "" {
		line += " " + s.TaskPriority.Render(p)
	}

	var details []string
	if t.DueDate != nil {
		label := styles.DueLabel(*t.DueDate, v.now())
		if models.IsOverdue(t, v.now()) {
			details = append(details, s.Overdue.Render(label))
		} else {
			details = append(details, s.Due.Render(label))
		}
	}
	if t.Recurrence.IsRecurring() {
		details = append(details, "↻ "+string(t.Recurrence.Type))
	}
	if v.source.Kind == SourceList && t.ProjectID != nil {
		if p := v.vm.Project(*t.ProjectID); p != nil {
			details = append(details, p.Name)
		}
	}
	for _, id := range t.TagIDs {
		if tag := v.vm.Tag(id); tag != nil {
			details = append(details, lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("#"+tag.Name))
		}
	}
	detail := s.TitleMuted.Render(strings.Join(details, " · "))

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		style.Width(width).Render(line),
		style.Width(width).Render("    "+detail),
	)
}

func (v *TaskListView) renderTagPicker() string {
	s := v.styles
	items := []string{}
	none := s.ListItem
	if v.tagCursor == 0 {
		none = s.ListSelected
	}
	items = append(items, none.Render("All tags"))
	for i, tag := range v.vm.Tags() {
		style := s.ListItem
		if v.tagCursor == i+1 {
			style = s.ListSelected
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("●")
		items = append(items, style.Render(dot+" "+tag.Name))
	}
	return s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderDeleteConfirm() string {
	t := v.selected()
	if t == nil {
		return ""
	}
	s := v.styles
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.Overdue.Render(fmt.Sprintf("Move %q to trash? ", truncate(t.Title, 30))),
		s.ButtonPrimary.Render(" Y "),
		" ",
		s.Button.Render(" N "),
	)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	formTitle := "New Task"
	if v.editTarget != nil {
		formTitle = "Edit Task"
	}

	style := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btn := s.Button
	if v.editFocusIdx == fieldSave {
		btn = s.ButtonFocused
	}
	inputWidth := clamp(v.width-6, 20, 50)

	var repeat []string
	for i, r := range repeatChoices {
		label := string(r)
		if i == v.editRepeat {
			label = s.HelpKey.Render("[" + label + "]")
		}
		repeat = append(repeat, label)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		style(fieldTitle).Width(inputWidth).Render(v.editTitle.View()),
		"Notes:",
		style(fieldNotes).Render(v.editNotes.View()),
		"Priority:",
		style(fieldPriority).Width(10).Render(v.editPriority.View()),
		"Due:",
		style(fieldDue).Width(16).Render(v.editDue.View()),
		"Repeat:",
		style(fieldRepeat).Render(strings.Join(repeat, " ")),
		"",
		btn.Render(" Save "),
		"",
		s.HelpLine("tab", "next", "ctrl+s", "save", "esc", "cancel"),
	)
}

func (v *TaskListView) renderTaskView() string {
	t := v.selected()
	if t == nil {
		return ""
	}
	s := v.styles
	label := s.TitleMuted
	textWidth := clamp(v.width-4, 20, 70)
	dateOr := func(d *time.Time, none string) string {
		if d == nil {
			return none
		}
		return d.Format("Mon Jan 2, 2006")
	}

	priority := "None"
	if t.Priority > 0 {
		priority = s.TaskPriority.Render(styles.PriorityMarker(t.Priority))
	}
	notes := t.Notes
	if notes == "" {
		notes = s.TitleMuted.Render("No notes")
	}
	repeat := "Does not repeat"
	if t.Recurrence.IsRecurring() {
		repeat = fmt.Sprintf("Every %d × %s", t.Recurrence.Interval, t.Recurrence.Type)
		if t.Recurrence.EndDate != nil {
			repeat += " until " + dateOr(t.Recurrence.EndDate, "")
		}
	}
	reminder := "Off"
	if t.Reminder.Enabled {
		reminder = fmt.Sprintf("%s, %d min before", dateOr(t.Reminder.Time, "at due date"), t.Reminder.OffsetMinutes)
	}
	var tags []string
	for _, id := range t.TagIDs {
		if tag := v.vm.Tag(id); tag != nil {
			tags = append(tags, "#"+tag.Name)
		}
	}
	status := "Open"
	if t.IsCompleted {
		status = "Completed " + dateOr(t.CompletedAt, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(t.Title),
		label.Render("Status"), status, "",
		label.Render("Priority"), priority, "",
		label.Render("Due"), dateOr(t.DueDate, "No due date"), "",
		label.Render("Repeat"), repeat, "",
		label.Render("Reminder"), reminder, "",
		label.Render("Tags"), strings.Join(tags, " "), "",
		label.Render("Notes"), lipgloss.NewStyle().Width(textWidth).Render(notes), "",
		s.HelpLine("x", "done", "e", "edit", "t", "tag", "d", "delete", "esc", "back"),
	)
}

func (v *TaskListView) renderHelp() string {
	if v.width > 0 && v.width < 50 {
		return v.styles.HelpLine("?", "help")
	}
	return v.styles.HelpLine("n", "new", "x", "done", "e", "edit", "t", "tag", "/", "search", "?", "more")
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	km := v.keys
	bindings := []key.Binding{
		km.Enter, km.New, km.Edit, km.Complete, km.Delete, km.Tag,
		km.Search, km.Filter, km.ShowCompleted, km.Back, km.Quit,
	}
	var lines []string
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("%-8s %s", s.HelpKey.Render(h.Key), h.Desc))
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))
	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, lines...)...,
	)
	return s.Popup.Render(content)
}
