package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/tasks/internal/config"
)

// Styles holds every lipgloss style used by the UI.
type Styles struct {
	Title          lipgloss.Style
	Header         lipgloss.Style
	Text           lipgloss.Style
	Completed      lipgloss.Style
	Selected       lipgloss.Style
	Checkbox       lipgloss.Style
	Added          lipgloss.Style
	Moving         lipgloss.Style
	Deleting       lipgloss.Style
	DeleteAction   lipgloss.Style
	Error          lipgloss.Style
	Notice         lipgloss.Style
	Help           lipgloss.Style
	HelpActive     lipgloss.Style
	Border         lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Spinner        lipgloss.Style
	Confetti       []lipgloss.Style
}

// NewStyles builds the style set from the configured palette.
func NewStyles(c config.Colors) Styles {
	confetti := make([]lipgloss.Style, 0, len(c.Confetti))
	for _, col := range c.Confetti {
		confetti = append(confetti, lipgloss.NewStyle().Foreground(lipgloss.Color(col)))
	}
	if len(confetti) == 0 {
		confetti = append(confetti, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Title)))
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Title)),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Header)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Text)),

		Completed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Completed)).
			Strikethrough(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(c.SelectedBG)).
			Foreground(lipgloss.Color(c.SelectedFG)),

		Checkbox: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Checkbox)).
			Bold(true),

		Added: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Added)).
			Bold(true),

		Moving: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Moving)).
			Italic(true),

		Deleting: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Deleting)).
			Faint(true),

		DeleteAction: lipgloss.NewStyle().
			Background(lipgloss.Color(c.DeleteBG)).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Help)).
			Italic(true),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Help)),

		HelpActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.HelpActive)),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Border)).
			Padding(1, 2),

		Button: lipgloss.NewStyle().
			Background(lipgloss.Color(c.Checkbox)).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1),

		ButtonDisabled: lipgloss.NewStyle().
			Background(lipgloss.Color(c.Border)).
			Foreground(lipgloss.Color(c.Completed)).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Title)),

		Confetti: confetti,
	}
}
