package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mvillar/lazylist-cli/internal/list"
)

type Theme struct {
	Title      lipgloss.Style
	GenPill    lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style

	RowFetched   lipgloss.Style
	RowFetching  lipgloss.Style
	RowUnfetched lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpPeach := lipgloss.Color("#fab387")
	cpRed := lipgloss.Color("#f38ba8")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		GenPill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),

		RowFetched:   lipgloss.NewStyle().Foreground(cpText),
		RowFetching:  lipgloss.NewStyle().Italic(true).Foreground(cpPeach),
		RowUnfetched: lipgloss.NewStyle().Foreground(cpRed),
	}
}

// StyleRowLabel styles a row's label by its fetch status.
func (t Theme) StyleRowLabel(status list.Status, label string) string {
	switch status {
	case list.StatusFetched:
		return t.RowFetched.Render(label)
	case list.StatusFetching:
		return t.RowFetching.Render(label)
	default:
		return t.RowUnfetched.Render(label)
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
