package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/soamn/aterna/ui/styles"
)

func RenderInput(input string, width, height int) string {
	title := styles.TitleStyle().Render("input")
	return styles.PaneStyle(width, height).Render(lipgloss.JoinVertical(lipgloss.Left, title, input+"█"))
}
