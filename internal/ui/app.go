package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planboard/internal/models"
	"github.com/tgienger/planboard/internal/persist"
	"github.com/tgienger/planboard/internal/project"
	"github.com/tgienger/planboard/internal/ui/keys"
	"github.com/tgienger/planboard/internal/ui/styles"
	"github.com/tgienger/planboard/internal/ui/views"
)

// LastTabKey is the settings key remembering the open tab between runs
const LastTabKey = "lastTab"

// Currently active overlay
type mode int

const (
	modeNormal mode = iota
	modeForm
	modeConfirm
	modeHelp
)

// SnapshotChanged tells the update loop that the store committed. It
// carries no payload: notifications may arrive out of order, so the app
// always reads the current snapshot from the service.
type SnapshotChanged struct{}

// Options configures the app
type Options struct {
	ExportDir string
	Settings  persist.KV // remembers the last tab; may be nil
	Logger    *slog.Logger
}

type App struct {
	ctx  context.Context
	svc  *project.Service
	opts Options

	sections []*views.Section
	lists    []views.ListView
	tab      int
	snap     models.Snapshot
	focus    bool

	mode      mode
	form      *views.Form
	confirm   *views.Confirm
	onSubmit  func(values []string) (string, error)
	onConfirm func() (string, error)

	status    string
	statusErr bool

	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
}

// NewApp creates the application model over a project service
func NewApp(ctx context.Context, svc *project.Service, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	sections := views.Sections()
	return &App{
		ctx:      ctx,
		svc:      svc,
		opts:     opts,
		sections: sections,
		lists:    make([]views.ListView, len(sections)),
		snap:     svc.Snapshot(),
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
}

// Bind subscribes the app to store changes. send is usually
// (*tea.Program).Send; it runs on its own goroutine because the store
// notifies synchronously from inside the update loop.
func (a *App) Bind(send func(tea.Msg)) (cancel func()) {
	return a.svc.Subscribe(func(models.Snapshot) {
		go send(SnapshotChanged{})
	})
}

func (a *App) Init() tea.Cmd {
	// Reopen the last used tab
	if a.opts.Settings == nil {
		return nil
	}
	name, ok, err := a.opts.Settings.Get(a.ctx, LastTabKey)
	if err != nil || !ok {
		return nil
	}
	for i, sec := range a.sections {
		if sec.Name == name {
			a.tab = i
			break
		}
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case SnapshotChanged:
		a.snap = a.svc.Snapshot()
		for i, sec := range a.sections {
			a.lists[i].Clamp(len(sec.Rows(a.snap, a.focus)))
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case modeHelp:
			a.mode = modeNormal
			return a, nil
		case modeForm:
			return a.updateForm(msg)
		case modeConfirm:
			return a.updateConfirm(msg)
		}
		return a.updateNormal(msg)
	}
	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state, cmd := a.form.Update(msg)
	switch state {
	case views.FormCancelled:
		a.closeOverlay()
	case views.FormSubmitted:
		values := a.form.Values()
		submit := a.onSubmit
		a.closeOverlay()
		a.report(submit(values))
	}
	return a, cmd
}

func (a *App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.confirm.Update(msg) {
	case views.FormCancelled:
		a.closeOverlay()
	case views.FormSubmitted:
		confirm := a.onConfirm
		a.closeOverlay()
		a.report(confirm())
	}
	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sec := a.section()
	rows := a.rows()
	list := &a.lists[a.tab]
	row, hasRow := list.Selected(rows)

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Back):
		a.status = ""
		return a, nil

	case key.Matches(msg, a.keys.Undo):
		ok, err := a.svc.Undo(a.ctx)
		a.report(pick(ok, "Undone", "Nothing to undo"), err)
		return a, nil

	case key.Matches(msg, a.keys.Redo):
		ok, err := a.svc.Redo(a.ctx)
		a.report(pick(ok, "Redone", "Nothing to redo"), err)
		return a, nil

	case key.Matches(msg, a.keys.NewProject):
		a.ask("New Project?", "Every collection will be cleared. Undo brings it back.", func() (string, error) {
			return "Started a new project", a.svc.NewProject(a.ctx, true)
		})
		return a, nil

	case key.Matches(msg, a.keys.Save):
		path, err := a.svc.Save(a.ctx, a.opts.ExportDir)
		a.report("Saved to "+path, err)
		return a, nil

	case key.Matches(msg, a.keys.SaveAs):
		return a, a.open("Save Project As", []views.Field{{Label: "Project name", Placeholder: "my-project"}},
			func(values []string) (string, error) {
				path, err := a.svc.SaveAs(a.ctx, a.opts.ExportDir, values[0])
				return "Saved to " + path, err
			})

	case key.Matches(msg, a.keys.Load):
		return a, a.open("Load Project File", []views.Field{{Label: "File", Placeholder: "project.json", CharLimit: 500}},
			func(values []string) (string, error) {
				path := strings.TrimSpace(values[0])
				return "Loaded " + path, a.svc.LoadFile(a.ctx, path)
			})

	case key.Matches(msg, a.keys.NextTab):
		a.switchTab(a.tab + 1)
		return a, nil

	case key.Matches(msg, a.keys.PrevTab):
		a.switchTab(a.tab - 1)
		return a, nil

	case len(msg.String()) == 1 && msg.String() >= "1" && msg.String() <= "9":
		if i := int(msg.String()[0] - '1'); i < len(a.visible()) {
			a.switchTab(i)
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		list.Up()
		return a, nil

	case key.Matches(msg, a.keys.Down):
		list.Down(len(rows), views.VisibleRows(a.height))
		return a, nil

	case key.Matches(msg, a.keys.Focus):
		a.focus = !a.focus
		a.tab = 0
		a.lists[0].Clamp(len(a.rows()))
		a.report(pick(a.focus, "Focus mode on", "Focus mode off"), nil)
		return a, nil

	case key.Matches(msg, a.keys.Help):
		a.mode = modeHelp
		return a, nil

	case key.Matches(msg, a.keys.Add):
		return a, a.open("New "+strings.TrimPrefix(strings.TrimPrefix(sec.Singular, "an "), "a "), sec.AddFields(),
			func(values []string) (string, error) {
				return "Added", sec.Add(a.ctx, a.svc, values)
			})

	case key.Matches(msg, a.keys.AddSubTask):
		if sec.AddChild != nil && hasRow {
			return a, a.open("New sub-task", sec.ChildFields(), func(values []string) (string, error) {
				return "Added", sec.AddChild(a.ctx, a.svc, row, values)
			})
		}

	case key.Matches(msg, a.keys.Edit):
		if hasRow {
			return a, a.open("Edit", sec.EditFields(a.svc.Snapshot(), row), func(values []string) (string, error) {
				return "Updated", sec.Edit(a.ctx, a.svc, a.svc.Snapshot(), row, values)
			})
		}

	case key.Matches(msg, a.keys.Toggle):
		if hasRow && sec.Toggle != nil {
			a.report("", sec.Toggle(a.ctx, a.svc, row))
		}

	case key.Matches(msg, a.keys.Delete):
		if hasRow {
			a.ask("Delete?", fmt.Sprintf("%q will be removed.", row.Title), func() (string, error) {
				return "Deleted", sec.Remove(a.ctx, a.svc, row)
			})
		}
	}
	return a, nil
}

func pick(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

// visible returns the sections shown in the tab bar. Focus mode keeps only
// Tasks.
func (a *App) visible() []*views.Section {
	if a.focus {
		return a.sections[:1]
	}
	return a.sections
}

func (a *App) section() *views.Section {
	return a.sections[a.tab]
}

func (a *App) rows() []views.Row {
	return a.section().Rows(a.snap, a.focus)
}

// switchTab moves to tab i, wrapping at either end
func (a *App) switchTab(i int) {
	n := len(a.visible())
	a.tab = (i%n + n) % n
	if a.opts.Settings != nil {
		if err := a.opts.Settings.Set(a.ctx, LastTabKey, a.section().Name); err != nil {
			a.opts.Logger.Warn("remember tab", "error", err)
		}
	}
}

func (a *App) open(title string, fields []views.Field, submit func([]string) (string, error)) tea.Cmd {
	a.form = views.NewForm(title, fields)
	a.onSubmit = submit
	a.mode = modeForm
	return textinput.Blink
}

func (a *App) ask(title, message string, confirm func() (string, error)) {
	a.confirm = views.NewConfirm(title, message)
	a.onConfirm = confirm
	a.mode = modeConfirm
}

func (a *App) closeOverlay() {
	a.mode = modeNormal
	a.form = nil
	a.confirm = nil
	a.onSubmit = nil
	a.onConfirm = nil
}

// report turns the outcome of an operation into a status bar notification
func (a *App) report(ok string, err error) {
	if err != nil {
		a.opts.Logger.Warn("operation failed", "tab", a.section().Name, "error", err)
		a.status = err.Error()
		a.statusErr = true
		return
	}
	a.status = ok
	a.statusErr = false
}

func (a *App) View() string {
	switch a.mode {
	case modeHelp:
		return a.renderHelpPopup()
	case modeForm:
		return a.form.View(a.width, a.height)
	case modeConfirm:
		return a.confirm.View(a.width, a.height)
	}

	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n")
	if sec := a.section(); sec.Summary != nil {
		b.WriteString(a.styles.TitleMuted.Render(sec.Summary(a.svc)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(views.RenderRows(a.styles, a.section(), a.rows(), &a.lists[a.tab], a.width, a.height))
	b.WriteString("\n")
	b.WriteString(a.renderHelp())
	b.WriteString("\n")
	b.WriteString(a.renderStatus())

	return styles.CenterView(b.String(), a.width, a.height)
}

func (a *App) renderTabs() string {
	s := a.styles
	tabs := make([]string, 0, len(a.sections))
	for i, sec := range a.visible() {
		label := fmt.Sprintf("%d %s", i+1, sec.Name)
		if i == a.tab {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}
	if a.focus {
		tabs = append(tabs, s.TitleMuted.Render("  focus mode"))
	}
	return s.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (a *App) renderHelp() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 60 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}

	bindings := []key.Binding{a.keys.Add, a.keys.Edit}
	if a.section().Toggle != nil {
		bindings = append(bindings, a.keys.Toggle)
	}
	if a.section().AddChild != nil {
		bindings = append(bindings, a.keys.AddSubTask)
	}
	bindings = append(bindings, a.keys.Delete, a.keys.Undo, a.keys.Save, a.keys.Help, a.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, s.HelpKey.Render(h.Key)+" "+h.Desc)
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

func (a *App) renderStatus() string {
	s := a.styles
	if a.status != "" {
		if a.statusErr {
			return s.StatusError.Render(a.status)
		}
		return s.StatusOK.Render(a.status)
	}
	undo := "-"
	if a.svc.CanUndo() {
		undo = "undo"
	}
	redo := "-"
	if a.svc.CanRedo() {
		redo = "redo"
	}
	return s.StatusBar.Render(fmt.Sprintf("%s · %s · %d tasks", undo, redo, len(a.snap.Tasks)))
}

func (a *App) renderHelpPopup() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	all := []key.Binding{
		a.keys.Add, a.keys.AddSubTask, a.keys.Edit, a.keys.Toggle, a.keys.Delete,
		a.keys.NextTab, a.keys.PrevTab, a.keys.Focus,
		a.keys.NewProject, a.keys.Save, a.keys.SaveAs, a.keys.Load,
		a.keys.Undo, a.keys.Redo, a.keys.Quit,
	}
	lines := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, b := range all {
		h := b.Help()
		lines = append(lines, s.HelpKey.Render(fmt.Sprintf("%-10s", h.Key))+" "+h.Desc)
	}
	lines = append(lines, s.HelpKey.Render(fmt.Sprintf("%-10s", "1-8"))+" jump to tab", "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		s.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
	return styles.CenterView(centered, a.width, a.height)
}
