package app

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soamn/aterna/internal/models"
	"github.com/soamn/aterna/internal/update"
	"github.com/soamn/aterna/internal/utils"
	"github.com/soamn/aterna/ui/components"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	minInputRows  = 3
)

type AppModel struct {
	session  models.Session
	handler  *update.Handler
	help     help.Model
	markdown *utils.MarkdownRenderer
	rendered renderedReply
}

// renderedReply holds the last markdown output so ticks and keypresses
// that leave the reply untouched do not run glamour again.
type renderedReply struct {
	source string
	width  int
	out    string
	ok     bool
}

func (m *AppModel) Init() tea.Cmd {
	return update.TickCmd()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.handler.HandleUpdate(&m.session, msg)
}

func (m *AppModel) View() string {
	s := m.session
	width, height := s.Width, s.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	status := components.RenderStatus(m.help, update.KeyMapFor(s.Mode), s.Waiting, s.LoadingDots, width)
	body := height - lipgloss.Height(status)

	if s.Mode == models.ModelSelect {
		return lipgloss.JoinVertical(lipgloss.Left,
			components.RenderSelector(s.Selector, width, body),
			status)
	}

	responseRows := body * 9 / 10
	inputRows := body - responseRows
	if inputRows < minInputRows {
		inputRows = minInputRows
		responseRows = max(body-inputRows, minInputRows)
	}

	text := s.Response
	if m.markdown != nil && s.IsReply {
		text = m.renderReply(text, width-4)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.RenderResponse(s.ActiveModel, text, s.Mode == models.Command, width, responseRows),
		components.RenderInput(s.Input, width, inputRows),
		status)
}

func (m *AppModel) renderReply(text string, width int) string {
	if m.rendered.ok && m.rendered.source == text && m.rendered.width == width {
		return m.rendered.out
	}
	out := m.markdown.Render(text, width)
	m.rendered = renderedReply{source: text, width: width, out: out, ok: true}
	return out
}
