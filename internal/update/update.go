package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soamn/aterna/internal/models"
)

// HandleUpdate routes one bubbletea message to its handler.
func (h *Handler) HandleUpdate(s *models.Session, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return h.HandleKeyMsg(s, msg)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(s, msg)
		return nil
	case TickMsg:
		return h.HandleTickMsg(s)
	case CatalogMsg:
		h.HandleCatalogMsg(s, msg)
		return nil
	}
	return nil
}
