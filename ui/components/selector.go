package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soamn/aterna/internal/selector"
	"github.com/soamn/aterna/ui/styles"
)

// RenderSelector draws the model overlay centered in a width x height area.
func RenderSelector(sel selector.Model, width, height int) string {
	boxWidth := max(width*60/100, 20)

	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Select Model"))
	b.WriteString("\n")

	if sel.Phase() == selector.Loading {
		b.WriteString(styles.HintStyle().Render("Loading models..."))
	} else {
		items := sel.Items()
		start, end := sel.Window()
		for i := start; i < end; i++ {
			if i > start {
				b.WriteString("\n")
			}
			if i == sel.Cursor() {
				b.WriteString(styles.HighlightStyle().Render(">> " + items[i]))
			} else {
				b.WriteString(styles.ItemStyle().Render(items[i]))
			}
		}
	}

	box := styles.OverlayStyle(boxWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
