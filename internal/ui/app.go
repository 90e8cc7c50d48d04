package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/tasks/internal/config"
	"github.com/simonbystrom/tasks/internal/coordinator"
	"github.com/simonbystrom/tasks/internal/swipe"
	"github.com/simonbystrom/tasks/internal/task"
)

const (
	appTitle       = "CraftAmplify Tasks"
	loadingMessage = "Loading tasks..."
	emptyMessage   = "No tasks to display"
)

// Frame offsets of the rounded border plus its padding.
const (
	frameTop  = 2
	frameLeft = 3
)

type focusArea int

const (
	focusList focusArea = iota
	focusForm
)

type copiedMsg struct {
	text string
	err  error
}

type AppModel struct {
	coord    *coordinator.Coordinator
	styles   Styles
	keys     keyMap
	form     formModel
	spinner  spinner.Model
	gesture  *swipe.Detector
	confetti confettiModel

	cellWidth int
	copyText  func(string) error

	focus  focusArea
	cursor int
	notice string

	width  int
	height int
}

func NewApp(cfg config.Config, coord *coordinator.Coordinator) AppModel {
	s := NewStyles(cfg.Colors)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner))

	return AppModel{
		coord:     coord,
		styles:    s,
		keys:      defaultKeys(),
		form:      newForm(s),
		spinner:   sp,
		gesture:   swipe.New(cfg.Swipe.MaxDistance, cfg.Swipe.Threshold),
		confetti:  newConfetti(s.Confetti, nil),
		cellWidth: max(cfg.Swipe.CellWidth, 1),
		copyText:  clipboard.WriteAll,
		focus:     focusList,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.coord.Init(), m.spinner.Tick)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetWidth(m.innerWidth())
		m.confetti.SetWidth(m.innerWidth())
		return m, nil

	case spinner.TickMsg:
		// The spinner chain stops once loading finishes; reload restarts it.
		if !m.coord.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case coordinator.CelebrateMsg:
		return m, m.confetti.Burst()

	case confettiFrameMsg:
		var cmd tea.Cmd
		m.confetti, cmd = m.confetti.Update(msg)
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			slog.Warn("copy to clipboard failed", "error", msg.err)
			m.notice = "Could not copy to clipboard"
		} else {
			m.notice = "Copied: " + msg.text
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if cmd, ok := m.coord.Handle(msg); ok {
		m.clampCursor()
		return m, cmd
	}

	// Cursor blink and other input internals.
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m AppModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusForm {
			m.blurForm()
			return m, nil
		}
		return m, m.focusForm()
	}

	if m.focus == focusForm {
		return m.updateForm(msg)
	}
	return m.updateList(msg)
}

func (m AppModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text, ok := m.form.Submit()
		if !ok {
			return m, nil
		}
		return m, m.coord.Add(text)
	case tea.KeyEsc:
		m.blurForm()
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m AppModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.coord.Ordered())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.AddTask):
		return m, m.focusForm()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.Back):
		if m.coord.OpenID() != "" {
			m.coord.CloseSwipe()
		} else {
			m.coord.ClearErr()
		}
		return m, nil
	}

	t, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.coord.Toggle(t.ID, t.Completed)
	case key.Matches(msg, m.keys.Confirm):
		if m.coord.OpenID() == t.ID {
			return m, m.coord.Delete(t.ID)
		}
		return m, m.coord.Toggle(t.ID, t.Completed)
	case key.Matches(msg, m.keys.Swipe):
		if closed := m.coord.SwipeOpen(t.ID); closed != "" {
			slog.Debug("swipe closed", "id", closed)
		}
	case key.Matches(msg, m.keys.Unswipe):
		if m.coord.OpenID() == t.ID {
			m.coord.CloseSwipe()
		}
	case key.Matches(msg, m.keys.Delete):
		return m, m.coord.Delete(t.ID)
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd(t.Text)
	}
	return m, nil
}

func (m AppModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if m.cursor < len(m.coord.Ordered())-1 {
				m.cursor++
			}
			return m, nil
		case tea.MouseButtonLeft:
		default:
			return m, nil
		}

		idx, ok := m.rowAt(msg.Y)
		if !ok {
			// Clicking anywhere else hides the delete action.
			m.coord.CloseSwipe()
			return m, nil
		}
		t := m.coord.Ordered()[idx]
		m.cursor = idx
		if m.focus == focusForm {
			m.blurForm()
		}

		col := msg.X - frameLeft
		if open := m.coord.OpenID(); open != "" && open != t.ID {
			m.coord.CloseSwipe()
		}
		if m.coord.OpenID() == t.ID && col >= m.innerWidth()-m.maxRevealCols() {
			return m, m.coord.Delete(t.ID)
		}
		if col >= cursorCols && col < cursorCols+checkboxCols {
			return m, m.coord.Toggle(t.ID, t.Completed)
		}
		m.gesture.Start(t.ID, msg.X*m.cellWidth)

	case tea.MouseActionMotion:
		if m.gesture.Active() {
			m.gesture.Move(msg.X * m.cellWidth)
		}

	case tea.MouseActionRelease:
		if !m.gesture.Active() {
			return m, nil
		}
		m.gesture.Move(msg.X * m.cellWidth)
		res := m.gesture.End()
		switch res.Intent {
		case swipe.IntentOpen:
			m.coord.SwipeOpen(res.ID)
		case swipe.IntentReset:
			// A tap on the row's own content closes its delete action too.
			if m.coord.OpenID() == res.ID {
				m.coord.CloseSwipe()
			}
		}
	}
	return m, nil
}

func (m *AppModel) focusForm() tea.Cmd {
	m.focus = focusForm
	return m.form.Focus()
}

func (m *AppModel) blurForm() {
	m.focus = focusList
	m.form.Blur()
}

func (m AppModel) reload() tea.Cmd {
	return tea.Batch(m.coord.Reload(), m.spinner.Tick)
}

func (m AppModel) copyCmd(text string) tea.Cmd {
	write := m.copyText
	return func() tea.Msg {
		return copiedMsg{text: text, err: write(text)}
	}
}

func (m AppModel) selected() (task.Task, bool) {
	ordered := m.coord.Ordered()
	if m.cursor < 0 || m.cursor >= len(ordered) {
		return task.Task{}, false
	}
	return ordered[m.cursor], true
}

func (m *AppModel) clampCursor() {
	n := len(m.coord.Ordered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// rowAt maps a screen line to an index into the display order.
func (m AppModel) rowAt(y int) (int, bool) {
	if m.coord.Loading() {
		return 0, false
	}
	i := y - frameTop - len(m.topLines())
	if i < 0 || i >= len(m.coord.Ordered()) {
		return 0, false
	}
	return i, true
}

func (m AppModel) maxRevealCols() int {
	return m.gesture.MaxDistance() / m.cellWidth
}

func (m AppModel) revealCols(id string) int {
	px := 0
	switch {
	case m.gesture.Active() && m.gesture.ID() == id:
		px = m.gesture.Offset()
	case m.coord.OpenID() == id:
		px = m.gesture.MaxDistance()
	}
	return px / m.cellWidth
}

func (m AppModel) boxWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 80
	}
	return w
}

func (m AppModel) innerWidth() int {
	return m.boxWidth() - 4
}

// topLines is everything above the task rows. Each entry is one screen line.
func (m AppModel) topLines() []string {
	lines := []string{m.styles.Title.Render(appTitle), ""}
	if err := m.coord.Err(); err != "" {
		lines = append(lines, m.styles.Error.Render(truncate(err, m.innerWidth())), "")
	}

	header := "Tasks"
	if n := m.coord.OpenCount(); n > 0 {
		header = fmt.Sprintf("Tasks (%d)", n)
	}
	lines = append(lines, m.form.View(), "", m.styles.Header.Render(header))
	return lines
}

func (m AppModel) listLines() []string {
	if m.coord.Loading() {
		return []string{m.spinner.View() + " " + loadingMessage}
	}

	ordered := m.coord.Ordered()
	if len(ordered) == 0 {
		return []string{m.styles.Help.Render(emptyMessage)}
	}

	width := m.innerWidth()
	lines := make([]string, 0, len(ordered))
	for i, t := range ordered {
		lines = append(lines, renderRow(m.styles, t, rowState{
			selected:   m.focus == focusList && i == m.cursor,
			deleting:   m.coord.IsDeleting(t.ID),
			moving:     m.coord.IsMoving(t.ID),
			adding:     m.coord.IsAdding(t.ID),
			revealCols: m.revealCols(t.ID),
		}, width))
	}
	return lines
}

func (m AppModel) helpLine() string {
	bindings := m.keys.listHelp()
	if m.focus == focusForm {
		bindings = m.keys.formHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " │ "))
}

func (m AppModel) View() string {
	lines := m.topLines()
	lines = append(lines, m.listLines()...)

	if m.confetti.Active() {
		lines = append(lines, "", m.confetti.View())
	}
	if m.notice != "" {
		lines = append(lines, "", m.styles.Notice.Render(m.notice))
	}
	lines = append(lines, "", m.helpLine())

	return m.styles.Border.Width(m.boxWidth()).Render(strings.Join(lines, "\n"))
}
