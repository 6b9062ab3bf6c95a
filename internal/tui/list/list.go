// Package list shows the annotations of the current index and edits them.
package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/annotate/internal/actions"
	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/reducers"
	"github.com/jask/annotate/internal/store"
)

// OwnProps are supplied by the parent.
type OwnProps struct {
	DateFormat string
}

// StateProps is the slice of application state the list renders.
type StateProps struct {
	Index       string
	Query       string
	Annotations []annotation.Annotation
	Pending     bool
	Err         error
}

// ActionProps are the store-bound callbacks.
type ActionProps struct {
	Search func(index, query string)
	Update func(annotation.Annotation)
	Remove func(index, id string)
}

type Props = store.Props[OwnProps, StateProps, ActionProps]

// SelectState picks what the list shows.
func SelectState(s reducers.State) StateProps {
	return StateProps{
		Index:       s.Index,
		Query:       s.Query,
		Annotations: s.Annotations,
		Pending:     s.Pending > 0,
		Err:         s.Err,
	}
}

// MapDispatch binds the list's action creators.
func MapDispatch(dispatch store.Dispatch) ActionProps {
	return ActionProps{
		Search: store.BindAction2(dispatch, actions.Search),
		Update: store.BindAction(dispatch, actions.UpdateAnnotation),
		Remove: store.BindAction2(dispatch, actions.RemoveAnnotation),
	}
}

// Connect returns the store-connected list.
func Connect(src store.Source[reducers.State]) store.Connector[reducers.State, OwnProps, StateProps, ActionProps] {
	return store.Connect(src, SelectState, MapDispatch, func(p Props) store.Component[Props] {
		return New(p)
	})
}

type mode int

const (
	modeBrowse mode = iota
	modeQuery
	modeStatus
	modeContent
	modeAssign
)

var (
	hintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const (
	defaultDateFormat = "2006-01-02 15:04"
	tableWidth        = 120
)

var prompts = map[mode]string{
	modeQuery:   "Search: ",
	modeStatus:  "Status: ",
	modeContent: "Content: ",
	modeAssign:  "Assign to: ",
}

// List shows annotations in a table with a cursor.
type List struct {
	props Props
	table table.Model
	mode  mode
	input textinput.Model
	note  string
}

func New(props Props) *List {
	cols := []table.Column{
		{Title: "ID", Width: 36},
		{Title: "Status", Width: 14},
		{Title: "Assignee", Width: 12},
		{Title: "Updated", Width: 16},
		{Title: "Content", Width: 30},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(12), table.WithWidth(tableWidth))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)

	v := &List{table: t, input: textinput.New()}
	v.SetProps(props)
	return v
}

func (v *List) Init() tea.Cmd { return nil }

func (v *List) SetProps(p Props) {
	v.props = p
	dateFormat := p.Own.DateFormat
	if dateFormat == "" {
		dateFormat = defaultDateFormat
	}
	rows := make([]table.Row, 0, len(p.State.Annotations))
	for _, a := range p.State.Annotations {
		rows = append(rows, table.Row{
			a.ID,
			a.Status.DisplayText(),
			a.AssignTo,
			a.LastUpdated.Format(dateFormat),
			a.Content,
		})
	}
	v.table.SetRows(rows)
	v.table.SetCursor(v.table.Cursor())
}

// Editing reports whether keys are going to a text prompt.
func (v *List) Editing() bool { return v.mode != modeBrowse }

func (v *List) selected() (annotation.Annotation, bool) {
	list := v.props.State.Annotations
	cursor := v.table.Cursor()
	if cursor < 0 || cursor >= len(list) {
		return annotation.Annotation{}, false
	}
	return list[cursor], true
}

func (v *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.mode != modeBrowse {
		return v, v.updatePrompt(msg)
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "/":
		return v, v.openPrompt(modeQuery, v.props.State.Query)
	case "r":
		v.search(v.props.State.Query)
		return v, nil
	case "s":
		if a, ok := v.selected(); ok {
			return v, v.openPrompt(modeStatus, string(a.Status))
		}
		return v, nil
	case "e":
		if a, ok := v.selected(); ok {
			return v, v.openPrompt(modeContent, a.Content)
		}
		return v, nil
	case "a":
		if a, ok := v.selected(); ok {
			return v, v.openPrompt(modeAssign, a.AssignTo)
		}
		return v, nil
	case "x", "delete":
		if a, ok := v.selected(); ok && v.props.Actions.Remove != nil {
			v.props.Actions.Remove(a.Index, a.ID)
			v.note = "removing " + a.ID
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *List) openPrompt(m mode, value string) tea.Cmd {
	v.mode = m
	v.note = ""
	v.input.Prompt = prompts[m]
	v.input.SetValue(value)
	v.input.CursorEnd()
	v.table.Blur()
	return v.input.Focus()
}

func (v *List) closePrompt() {
	v.mode = modeBrowse
	v.input.Blur()
	v.table.Focus()
}

func (v *List) updatePrompt(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			v.closePrompt()
			return nil
		case "enter":
			v.commitPrompt()
			return nil
		}
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *List) commitPrompt() {
	value := strings.TrimSpace(v.input.Value())
	m := v.mode
	v.closePrompt()
	if m == modeQuery {
		v.search(value)
		return
	}
	a, ok := v.selected()
	if !ok || v.props.Actions.Update == nil {
		return
	}
	switch m {
	case modeStatus:
		status, ok := annotation.MatchStatus(value)
		if !ok {
			v.note = fmt.Sprintf("unknown status %q", value)
			return
		}
		a.Status = status
	case modeContent:
		a.Content = value
	case modeAssign:
		a.AssignTo = value
	}
	v.props.Actions.Update(a)
	v.note = "saving " + a.ID
}

func (v *List) search(query string) {
	if v.props.Actions.Search == nil {
		return
	}
	v.table.GotoTop()
	v.props.Actions.Search(v.props.State.Index, query)
}

func (v *List) View() string {
	st := v.props.State
	var b strings.Builder
	fmt.Fprintf(&b, "Index: %s  Query: %q", st.Index, st.Query)
	if st.Pending {
		b.WriteString("  (loading...)")
	}
	b.WriteString("\n")
	if len(st.Annotations) == 0 {
		b.WriteString("  (no annotations)\n")
	} else {
		b.WriteString(v.table.View() + "\n")
	}
	if v.mode != modeBrowse {
		b.WriteString(v.input.View() + "\n")
	}
	b.WriteString(hintStyle.Render("[/] Search  [r] Refresh  [s] Status  [e] Content  [a] Assign  [x] Delete"))
	if st.Err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+st.Err.Error()))
	}
	if v.note != "" {
		b.WriteString("\n" + v.note)
	}
	return b.String()
}

var _ store.Component[Props] = (*List)(nil)
