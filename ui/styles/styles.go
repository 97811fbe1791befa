package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("62")
	muted  = lipgloss.Color("241")
)

// PaneStyle is a bordered box whose outer size is width x height.
func PaneStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(max(height, 3))
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true)
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true)
}

func ModeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 1).
		Width(width)
}

func OverlayStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width)
}

func HighlightStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("27")).
		Bold(true)
}

func ItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().PaddingLeft(3)
}
