// Package createannotation is the form for starting a new annotation.
package createannotation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/jask/annotate/internal/store"
)

// CreateFunc starts creating the annotation (index, id).
type CreateFunc func(index, id string)

// OwnProps are supplied by the parent.
type OwnProps struct {
	// Index prefills the index field.
	Index string
	// CreateAnnotation is used only when no bound action is present.
	CreateAnnotation CreateFunc
}

// StateProps is what the form reads from the store: nothing.
type StateProps struct{}

// ActionProps are the store-bound callbacks.
type ActionProps struct {
	CreateAnnotation CreateFunc
}

// Props is the full input of the form.
type Props = store.Props[OwnProps, StateProps, ActionProps]

// CreateAnnotation resolves the create callback. A bound action always wins
// over one passed by the parent.
func CreateAnnotation(p Props) CreateFunc {
	if p.Actions.CreateAnnotation != nil {
		return p.Actions.CreateAnnotation
	}
	return p.Own.CreateAnnotation
}

const (
	focusIndex = iota
	focusID
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// Form collects an index and id and submits them. It keeps no application
// state of its own beyond the text being typed.
type Form struct {
	props  Props
	inputs []textinput.Model
	focus  int
	note   string
}

// New returns a form rendering from props.
func New(props Props) *Form {
	labels := []string{"Index", "ID"}
	inputs := make([]textinput.Model, 0, len(labels))
	for _, label := range labels {
		inp := textinput.New()
		inp.Prompt = labelStyle.Render(fmt.Sprintf("%-6s", label)) + " "
		inputs = append(inputs, inp)
	}
	inputs[focusIndex].SetValue(props.Own.Index)

	f := &Form{props: props, inputs: inputs}
	if props.Own.Index != "" {
		f.focus = focusID
	}
	f.inputs[f.focus].Focus()
	return f
}

func (f *Form) Init() tea.Cmd { return textinput.Blink }

// SetProps implements store.Component.
func (f *Form) SetProps(p Props) {
	index := &f.inputs[focusIndex]
	if p.Own.Index != f.props.Own.Index && index.Value() == f.props.Own.Index {
		index.SetValue(p.Own.Index)
	}
	f.props = p
}

// Props returns the props the form last rendered from.
func (f *Form) Props() Props { return f.props }

// Value returns the text of input i.
func (f *Form) Value(i int) string { return f.inputs[i].Value() }

func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "shift+tab", "up":
			dir := 1
			if key.String() == "shift+tab" || key.String() == "up" {
				dir = -1
			}
			f.inputs[f.focus].Blur()
			f.focus = (f.focus + dir + len(f.inputs)) % len(f.inputs)
			return f, f.inputs[f.focus].Focus()
		case "enter":
			f.submit()
			return f, nil
		case "esc":
			f.inputs[focusID].SetValue("")
			f.note = ""
			return f, nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *Form) submit() {
	create := CreateAnnotation(f.props)
	if create == nil {
		f.note = "create is not available"
		return
	}
	index := strings.TrimSpace(f.inputs[focusIndex].Value())
	id := strings.TrimSpace(f.inputs[focusID].Value())
	if id == "" {
		id = uuid.NewString()
	}
	create(index, id)
	f.note = fmt.Sprintf("requested %s/%s", index, id)
	f.inputs[focusID].SetValue("")
}

func (f *Form) View() string {
	lines := make([]string, 0, len(f.inputs)+2)
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, hintStyle.Render("[enter] Create (blank id generates one)  [tab] Next field  [esc] Clear"))
	if f.note != "" {
		lines = append(lines, f.note)
	}
	return strings.Join(lines, "\n")
}

var _ store.Component[Props] = (*Form)(nil)
