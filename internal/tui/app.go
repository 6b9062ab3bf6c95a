package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/annotate/internal/actions"
	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/config"
	"github.com/jask/annotate/internal/reducers"
	"github.com/jask/annotate/internal/service"
	"github.com/jask/annotate/internal/store"
	"github.com/jask/annotate/internal/tui/createannotation"
	"github.com/jask/annotate/internal/tui/list"
)

type appState string

const (
	viewCreate appState = "create"
	viewList   appState = "list"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tabStyle       = lipgloss.NewStyle().Faint(true)
	statusStyle    = lipgloss.NewStyle().Faint(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// App ties together views. It owns the connected components and releases
// their subscriptions when the program quits.
type App struct {
	src   store.Source[reducers.State]
	index string
	state appState

	create *store.Bound[reducers.State, createannotation.OwnProps, createannotation.StateProps, createannotation.ActionProps]
	list   *store.Bound[reducers.State, list.OwnProps, list.StateProps, list.ActionProps]
}

// New builds the root model on top of src.
func New(src store.Source[reducers.State], cfg config.Config) *App {
	index := cfg.UI.Index
	return &App{
		src:    src,
		index:  index,
		state:  viewCreate,
		create: createannotation.Connect(src)(createannotation.OwnProps{Index: index}),
		list:   list.Connect(src)(list.OwnProps{DateFormat: cfg.UI.DateFormat}),
	}
}

func (a *App) Init() tea.Cmd {
	cmd := tea.Batch(a.create.Init(), a.list.Init())
	a.src.Dispatch(actions.Search(a.index, ""))
	return cmd
}

// Close unmounts every connected component.
func (a *App) Close() {
	a.create.Unmount()
	a.list.Unmount()
}

func (a *App) editing() bool {
	switch a.state {
	case viewCreate:
		return true
	case viewList:
		return a.list.Inner().(*list.List).Editing()
	}
	return false
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		_, c1 := a.create.Update(msg)
		_, c2 := a.list.Update(msg)
		return a, tea.Batch(c1, c2)
	}
	switch key.String() {
	case "ctrl+c":
		a.Close()
		return a, tea.Quit
	case "ctrl+t", "f2":
		a.toggle()
		return a, nil
	case "q":
		if !a.editing() {
			a.Close()
			return a, tea.Quit
		}
	case "n":
		if !a.editing() {
			a.state = viewCreate
			return a, nil
		}
	}
	var cmd tea.Cmd
	switch a.state {
	case viewList:
		_, cmd = a.list.Update(msg)
	default:
		_, cmd = a.create.Update(msg)
	}
	return a, cmd
}

func (a *App) toggle() {
	if a.state == viewCreate {
		a.state = viewList
		return
	}
	a.state = viewCreate
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewList:
		body = titleStyle.Render("Annotations") + "\n" + a.list.View()
	default:
		body = titleStyle.Render("Create annotation") + "\n" + a.create.View()
	}
	return a.renderTabs() + "\n\n" + body + "\n\n" + a.renderStatus()
}

func (a *App) renderTabs() string {
	tabs := []struct {
		state appState
		label string
	}{
		{viewCreate, "Create"},
		{viewList, "Annotations"},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.state == a.state {
			parts = append(parts, activeTabStyle.Render("["+t.label+"]"))
			continue
		}
		parts = append(parts, tabStyle.Render(" "+t.label+" "))
	}
	return strings.Join(parts, " ") + tabStyle.Render("   [ctrl+t] Switch  [ctrl+c] Quit")
}

func (a *App) renderStatus() string {
	s := a.src.State()
	switch {
	case s.Err != nil:
		return errStyle.Render("error: " + describe(s.Err))
	case s.Pending > 0:
		return statusStyle.Render("working...")
	case s.LastCreated != nil:
		return statusStyle.Render(fmt.Sprintf("created %s/%s (%s)", s.LastCreated.Index, s.LastCreated.ID, s.LastCreated.Status.DisplayText()))
	}
	return statusStyle.Render(fmt.Sprintf("index %s", a.index))
}

func describe(err error) string {
	switch {
	case errors.Is(err, service.ErrExists):
		return "an annotation with that id already exists"
	case errors.Is(err, service.ErrNotFound):
		return "annotation not found"
	case errors.Is(err, annotation.ErrInvalidKey):
		return fmt.Sprintf("index and id need at least %d characters", annotation.MinIDLength)
	}
	return err.Error()
}
