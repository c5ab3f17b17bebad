package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/repository"
	"github.com/tgienger/gtd/internal/ui/keys"
	"github.com/tgienger/gtd/internal/ui/styles"
	"github.com/tgienger/gtd/internal/viewmodel"
)

type sidebarEntry struct {
	header string
	source Source
	label  string
	count  int
	dim    bool
}

type promptKind int

const (
	promptNone promptKind = iota
	promptProject
	promptArea
)

// SidebarView lists smart lists, projects, areas and tags
type SidebarView struct {
	ctx     context.Context
	vm      *viewmodel.ViewModel
	styles  *styles.Styles
	keys    keys.KeyMap
	entries []sidebarEntry
	cursor  int
	height  int
	focused bool

	prompt     textinput.Model
	prompting  promptKind
	confirming bool

	// a project deletion asks what happens to its tasks
	choices   []choice
	choiceIdx int
}

func NewSidebarView(ctx context.Context, vm *viewmodel.ViewModel) *SidebarView {
	prompt := textinput.New()
	prompt.CharLimit = 100

	v := &SidebarView{
		ctx:     ctx,
		vm:      vm,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		prompt:  prompt,
		focused: true,
	}
	v.Refresh()
	return v
}

// Refresh rebuilds the entries from the view-model, keeping the cursor on
// the same source when it still exists
func (v *SidebarView) Refresh() {
	var current string
	if e, ok := v.selected(); ok {
		current = e.source.Key()
	}

	counts := v.vm.Counts()
	entries := []sidebarEntry{}
	for _, l := range viewmodel.Lists {
		entries = append(entries, sidebarEntry{source: ListSource(l), label: l.Title(), count: counts[l]})
	}

	if projects := v.vm.Projects(); len(projects) > 0 {
		entries = append(entries, sidebarEntry{header: "Projects"})
		for _, p := range projects {
			entries = append(entries, sidebarEntry{
				source: Source{Kind: SourceProject, ID: p.ID},
				label:  p.Name,
				count:  len(models.Filter(v.vm.ProjectTasks(p.ID), models.IsActive)),
				dim:    p.IsCompleted,
			})
		}
	}
	if areas := v.vm.Areas(); len(areas) > 0 {
		entries = append(entries, sidebarEntry{header: "Areas"})
		for _, a := range areas {
			entries = append(entries, sidebarEntry{
				source: Source{Kind: SourceArea, ID: a.ID},
				label:  a.Name,
				count:  len(models.Filter(v.vm.AreaTasks(a.ID), models.IsActive)),
			})
		}
	}
	if tags := v.vm.Tags(); len(tags) > 0 {
		entries = append(entries, sidebarEntry{header: "Tags"})
		for _, t := range tags {
			entries = append(entries, sidebarEntry{
				source: Source{Kind: SourceTag, ID: t.ID},
				label:  "#" + t.Name,
				count:  len(v.vm.TaggedTasks(t.ID)),
			})
		}
	}

	v.entries = entries
	v.cursor = 0
	for i, e := range entries {
		if e.header == "" && e.source.Key() == current {
			v.cursor = i
			break
		}
	}
}

// Select moves the cursor onto a source
func (v *SidebarView) Select(src Source) {
	for i, e := range v.entries {
		if e.header == "" && e.source.Key() == src.Key() {
			v.cursor = i
			return
		}
	}
}

func (v *SidebarView) SetFocused(focused bool) { v.focused = focused }

func (v *SidebarView) SetHeight(h int) { v.height = h }

// Capturing reports whether the sidebar wants every key, e.g. while typing
func (v *SidebarView) Capturing() bool {
	return v.prompting != promptNone || v.confirming
}

func (v *SidebarView) selected() (sidebarEntry, bool) {
	if v.cursor < 0 || v.cursor >= len(v.entries) {
		return sidebarEntry{}, false
	}
	e := v.entries[v.cursor]
	return e, e.header == ""
}

func (v *SidebarView) move(dir int) {
	for i := v.cursor + dir; i >= 0 && i < len(v.entries); i += dir {
		if v.entries[i].header == "" {
			v.cursor = i
			return
		}
	}
}

func (v *SidebarView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.prompting != promptNone {
		return v.updatePrompt(msg)
	}
	if v.confirming {
		return v.updateConfirmDelete(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Up):
		v.move(-1)
	case key.Matches(msg, v.keys.Down):
		v.move(1)
	case key.Matches(msg, v.keys.Enter):
		if e, ok := v.selected(); ok {
			return func() tea.Msg { return SelectedSource{Source: e.source} }
		}
	case key.Matches(msg, v.keys.New):
		return v.startPrompt(promptProject, "New project")
	case key.Matches(msg, v.keys.NewArea):
		return v.startPrompt(promptArea, "New area")
	case key.Matches(msg, v.keys.Projects):
		return func() tea.Msg { return OpenProjects{} }
	case key.Matches(msg, v.keys.Delete):
		e, ok := v.selected()
		if !ok || e.source.Kind == SourceList {
			return nil
		}
		v.choices, v.choiceIdx = nil, 0
		if e.source.Kind == SourceProject {
			p := v.vm.Project(e.source.ID)
			if p == nil {
				return nil
			}
			v.choices = deletionChoices(v.vm, p)
		}
		v.confirming = true
	}
	return nil
}

func (v *SidebarView) startPrompt(kind promptKind, placeholder string) tea.Cmd {
	v.prompting = kind
	v.prompt.Reset()
	v.prompt.Placeholder = placeholder
	return v.prompt.Focus()
}

func (v *SidebarView) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.prompting = promptNone
		v.prompt.Blur()
		return nil
	case key.Matches(msg, v.keys.Enter):
		name := v.prompt.Value()
		var created Source
		switch v.prompting {
		case promptProject:
			p := v.vm.AddProject(v.ctx, repository.NewProject{Name: name})
			if p == nil {
				return nil
			}
			created = Source{Kind: SourceProject, ID: p.ID}
		case promptArea:
			a := v.vm.AddArea(v.ctx, repository.NewArea{Name: name})
			if a == nil {
				return nil
			}
			created = Source{Kind: SourceArea, ID: a.ID}
		}
		v.prompting = promptNone
		v.prompt.Blur()
		return func() tea.Msg { return SelectedSource{Source: created} }
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return cmd
}

func (v *SidebarView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	if len(v.choices) > 0 {
		return v.updateProjectDeletion(msg)
	}

	switch msg.String() {
	case "y", "Y":
		v.confirming = false
		e, ok := v.selected()
		if !ok {
			return nil
		}
		var done bool
		switch e.source.Kind {
		case SourceArea:
			if a := v.vm.Area(e.source.ID); a != nil {
				done = v.vm.DeleteArea(v.ctx, a)
			}
		case SourceTag:
			if t := v.vm.Tag(e.source.ID); t != nil {
				done = v.vm.DeleteTag(v.ctx, t)
			}
		}
		if done {
			return func() tea.Msg { return StatusMsg{Text: "Deleted " + e.label} }
		}
	case "n", "N", "esc":
		v.confirming = false
	}
	return nil
}

func (v *SidebarView) updateProjectDeletion(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.confirming = false
		v.choices = nil
	case key.Matches(msg, v.keys.Up):
		if v.choiceIdx > 0 {
			v.choiceIdx--
		}
	case key.Matches(msg, v.keys.Down):
		if v.choiceIdx < len(v.choices)-1 {
			v.choiceIdx++
		}
	case key.Matches(msg, v.keys.Enter):
		c := v.choices[v.choiceIdx]
		v.confirming = false
		v.choices = nil
		e, ok := v.selected()
		if !ok {
			return nil
		}
		p := v.vm.Project(e.source.ID)
		if p != nil && v.vm.DeleteProject(v.ctx, p, c.deletion) {
			return func() tea.Msg { return StatusMsg{Text: "Deleted " + e.label} }
		}
	}
	return nil
}

func (v *SidebarView) View() string {
	s := v.styles
	width := styles.SidebarWidth - 2

	var lines []string
	for i, e := range v.entries {
		if e.header != "" {
			lines = append(lines, s.SidebarHeader.Render(e.header))
			continue
		}
		label := truncate(e.label, width-5)
		count := ""
		if e.count > 0 {
			count = fmt.Sprintf("%d", e.count)
		}
		pad := max(width-lipgloss.Width(label)-lipgloss.Width(count), 1)
		line := label + strings.Repeat(" ", pad) + s.Count.Render(count)

		style := s.SidebarItem
		if e.dim {
			style = s.TitleMuted
		}
		if i == v.cursor && v.focused {
			style = s.SidebarSelected
		}
		lines = append(lines, style.Width(width).Render(line))
	}

	switch {
	case v.prompting != promptNone:
		lines = append(lines, "", s.InputFocused.Width(width-2).Render(v.prompt.View()))
	case v.confirming:
		e, ok := v.selected()
		if !ok {
			break
		}
		lines = append(lines, "", s.Overdue.Render("Delete "+truncate(e.label, width-10)+"?"))
		if len(v.choices) == 0 {
			lines = append(lines, s.TitleMuted.Render("y / n"))
			break
		}
		for i, c := range v.choices {
			style := s.SidebarItem
			if i == v.choiceIdx {
				style = s.SidebarSelected
			}
			lines = append(lines, style.Width(width).Render(truncate(c.label, width-1)))
		}
		lines = append(lines, s.TitleMuted.Render("↵ confirm • esc cancel"))
	}

	box := s.Sidebar
	if v.focused {
		box = s.SidebarFocused
	}
	return box.Height(max(v.height, 1)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
