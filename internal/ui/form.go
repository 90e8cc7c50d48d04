package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const formPlaceholder = "Add a new task..."

// formModel is the single-line add task form.
type formModel struct {
	input  textinput.Model
	styles Styles
}

func newForm(s Styles) formModel {
	ti := textinput.New()
	ti.Placeholder = formPlaceholder
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.PromptStyle = s.Checkbox
	ti.TextStyle = s.Text
	return formModel{input: ti, styles: s}
}

func (m *formModel) Focus() tea.Cmd { return m.input.Focus() }

func (m *formModel) Blur() { m.input.Blur() }

func (m formModel) Focused() bool { return m.input.Focused() }

// SetWidth sizes the input so the Add button fits beside it.
func (m *formModel) SetWidth(w int) {
	m.input.Width = max(w-lenPrompt-lenButton-2, 10)
}

// CanSubmit reports whether the Add action is enabled.
func (m formModel) CanSubmit() bool {
	return strings.TrimSpace(m.input.Value()) != ""
}

// Submit returns the trimmed text and clears the input. ok is false when
// there is nothing to add.
func (m *formModel) Submit() (text string, ok bool) {
	text = strings.TrimSpace(m.input.Value())
	if text == "" {
		return "", false
	}
	m.input.Reset()
	return text, true
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

const (
	lenPrompt = 2
	lenButton = 5
)

func (m formModel) View() string {
	button := m.styles.ButtonDisabled.Render("Add")
	if m.CanSubmit() {
		button = m.styles.Button.Render("Add")
	}
	return m.input.View() + "  " + button
}
