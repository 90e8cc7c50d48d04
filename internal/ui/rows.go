package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/tasks/internal/task"
)

// Row geometry, in terminal columns from the left edge of the list.
const (
	cursorCols   = 2 // "› "
	checkboxCols = 3 // "[x]"
	rowPadCols   = 1
	textStartCol = cursorCols + checkboxCols + rowPadCols
)

const deleteLabel = "Delete"

// rowState is everything the coordinator and gesture layer say about a row.
type rowState struct {
	selected bool
	deleting bool
	moving   bool
	adding   bool
	// revealCols is how much of the delete action is showing.
	revealCols int
}

func renderRow(s Styles, t task.Task, st rowState, width int) string {
	cursor := "  "
	if st.selected {
		cursor = "› "
	}

	box := "[ ]"
	if t.Completed {
		box = "[✓]"
	}

	textWidth := max(width-textStartCol-st.revealCols, 1)
	text := truncate(t.Text, textWidth)
	if w := lipgloss.Width(text); w < textWidth {
		text += strings.Repeat(" ", textWidth-w)
	}

	var textStyle lipgloss.Style
	switch {
	case st.deleting:
		textStyle = s.Deleting
	case st.moving:
		textStyle = s.Moving
	case st.adding:
		textStyle = s.Added
	case t.Completed:
		textStyle = s.Completed
	default:
		textStyle = s.Text
	}

	main := cursor + s.Checkbox.Render(box) + " " + textStyle.Render(text)
	if st.selected {
		main = s.Selected.Render(cursor) + s.Checkbox.Render(box) + " " + textStyle.Inherit(s.Selected).Render(text)
	}

	if st.revealCols > 0 {
		main += s.DeleteAction.Render(revealBlock(st.revealCols))
	}
	return main
}

// revealBlock is the visible part of the delete action. It slides in from
// the right edge, so a partial reveal shows the label's leading columns.
func revealBlock(cols int) string {
	label := " " + deleteLabel + " "
	if cols >= len(label) {
		pad := cols - len(label)
		return strings.Repeat(" ", pad/2) + label + strings.Repeat(" ", pad-pad/2)
	}
	return label[:cols]
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:min(max, len(runes))])
	}
	out := runes
	for lipgloss.Width(string(out))+3 > max && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return string(out) + "..."
}
