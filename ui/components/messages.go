package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/soamn/aterna/ui/styles"
)

const (
	commandHint     = "[Esc] Command mode"
	CommandModeMark = " [COMMAND MODE]"
)

// RenderResponse draws the primary pane: the active model, the mode marker
// and the key hint as the title, the reply wrapped below it. The marker
// lives in the title so a body taller than the pane cannot push it out.
func RenderResponse(model, body string, commandMode bool, width, height int) string {
	title := styles.TitleStyle().Render(model)
	if commandMode {
		title += styles.ModeStyle().Render(CommandModeMark)
	}
	title += "    " + styles.HintStyle().Render(commandHint)
	return styles.PaneStyle(width, height).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
