package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planboard/internal/ui/keys"
	"github.com/tgienger/planboard/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Field describes one input of a form
type Field struct {
	Label       string
	Placeholder string
	Value       string
	CharLimit   int
}

// FormState is the outcome of feeding a key to a form
type FormState int

const (
	FormEditing FormState = iota
	FormSubmitted
	FormCancelled
)

// Form is a column of labeled text inputs followed by a submit button
type Form struct {
	title    string
	labels   []string
	inputs   []textinput.Model
	focusIdx int // len(inputs) is the button
	styles   *styles.Styles
	keys     keys.KeyMap
}

// NewForm builds a form with the first input focused
func NewForm(title string, fields []Field) *Form {
	f := &Form{
		title:  title,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
	for _, field := range fields {
		in := textinput.New()
		in.Placeholder = field.Placeholder
		in.CharLimit = field.CharLimit
		if in.CharLimit == 0 {
			in.CharLimit = 200
		}
		in.SetValue(field.Value)
		f.labels = append(f.labels, field.Label)
		f.inputs = append(f.inputs, in)
	}
	f.updateFocus()
	return f
}

// Values returns the current input values in field order
func (f *Form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = in.Value()
	}
	return values
}

// Update feeds a key to the form
func (f *Form) Update(msg tea.KeyMsg) (FormState, tea.Cmd) {
	stops := len(f.inputs) + 1

	switch {
	case key.Matches(msg, f.keys.Back):
		return FormCancelled, nil

	case msg.String() == "ctrl+s":
		return FormSubmitted, nil

	case msg.String() == "shift+tab", msg.String() == "up":
		f.focusIdx = (f.focusIdx + stops - 1) % stops
		f.updateFocus()
		return FormEditing, nil

	case msg.String() == "tab", msg.String() == "down":
		f.focusIdx = (f.focusIdx + 1) % stops
		f.updateFocus()
		return FormEditing, nil

	case key.Matches(msg, f.keys.Enter):
		if f.focusIdx == len(f.inputs) {
			return FormSubmitted, nil
		}
		f.focusIdx++
		f.updateFocus()
		return FormEditing, nil
	}

	if f.focusIdx >= len(f.inputs) {
		return FormEditing, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focusIdx], cmd = f.inputs[f.focusIdx].Update(msg)
	return FormEditing, cmd
}

func (f *Form) updateFocus() {
	for i := range f.inputs {
		if i == f.focusIdx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// View renders the form centered in the given area
func (f *Form) View(width, height int) string {
	s := f.styles
	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	lines := []string{s.Title.Render(f.title), ""}
	for i, in := range f.inputs {
		style := s.Input
		if i == f.focusIdx {
			style = s.InputFocused
		}
		lines = append(lines, f.labels[i]+":", style.Width(inputWidth).Render(in.View()), "")
	}

	btnStyle := s.Button
	if f.focusIdx == len(f.inputs) {
		btnStyle = s.ButtonFocused
	}
	lines = append(lines,
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ↵ on Save or Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, width, height)
}

// Confirm is a yes/no question
type Confirm struct {
	Title   string
	Message string
	styles  *styles.Styles
}

// NewConfirm builds a confirmation dialog
func NewConfirm(title, message string) *Confirm {
	return &Confirm{Title: title, Message: message, styles: styles.NewStyles()}
}

// Update reports FormSubmitted on y and FormCancelled on n or esc
func (c *Confirm) Update(msg tea.KeyMsg) FormState {
	switch msg.String() {
	case "y", "Y":
		return FormSubmitted
	case "n", "N", "esc":
		return FormCancelled
	}
	return FormEditing
}

func (c *Confirm) View(width, height int) string {
	s := c.styles
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Danger.Render(c.Title),
		"",
		s.TitleMuted.Render(c.Message),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}
