package output

import (
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Styles used by the terminal format
type Styles struct {
	Warning  lipgloss.Style
	Package  lipgloss.Style
	Conflict lipgloss.Style
	Bullet   lipgloss.Style
	Path     lipgloss.Style
	Source   lipgloss.Style
	Summary  lipgloss.Style
	Error    lipgloss.Style

	actions map[string]lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer, so colour support is
// decided by the writer being rendered to
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Warning:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Package:  r.NewStyle().Bold(true),
		Conflict: r.NewStyle().Foreground(lipgloss.Color("9")),
		Bullet:   r.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
		Path:     r.NewStyle().Foreground(lipgloss.Color("15")),
		Source:   r.NewStyle().Faint(true),
		Summary:  r.NewStyle().Faint(true).Italic(true),
		Error:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		actions: map[string]lipgloss.Style{
			"LINK":   r.NewStyle().Foreground(lipgloss.Color("10")).Width(7),
			"UNLINK": r.NewStyle().Foreground(lipgloss.Color("9")).Width(7),
			"MKDIR":  r.NewStyle().Foreground(lipgloss.Color("12")).Width(7),
			"RMDIR":  r.NewStyle().Foreground(lipgloss.Color("13")).Width(7),
			"MV":     r.NewStyle().Foreground(lipgloss.Color("14")).Width(7),
		},
	}
}

// Action returns the label and style for a task
func (s Styles) Action(task *types.Task) (string, lipgloss.Style) {
	label := "?"
	switch task.Kind {
	case types.KindLink:
		label = "LINK"
		if task.Action == types.ActionRemove {
			label = "UNLINK"
		}
	case types.KindDir:
		label = "MKDIR"
		if task.Action == types.ActionRemove {
			label = "RMDIR"
		}
	case types.KindMove:
		label = "MV"
	}
	style, ok := s.actions[label]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return label, style
}
