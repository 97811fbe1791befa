package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"

	"github.com/soamn/aterna/ui/styles"
)

// RenderStatus draws the footer: key help for the current mode, plus an
// animated marker while a reply is outstanding.
func RenderStatus(h help.Model, keys help.KeyMap, waiting bool, loadingDots int, width int) string {
	h.Width = width - 2
	content := h.ShortHelpView(keys.ShortHelp())
	if waiting {
		content = "waiting" + strings.Repeat(".", loadingDots) + "  " + content
	}
	return styles.StatusStyle(width).Render(content)
}
