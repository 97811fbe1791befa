package utils

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders reply bodies with glamour, keeping one renderer
// per wrap width. It falls back to the raw text whenever rendering fails.
type MarkdownRenderer struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	style     string
}

// NewMarkdownRenderer uses the given glamour style name; an empty name
// selects the notty style, which emits no escape sequences.
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = "notty"
	}
	return &MarkdownRenderer{
		renderers: make(map[int]*glamour.TermRenderer),
		style:     style,
	}
}

func (m *MarkdownRenderer) renderer(width int) *glamour.TermRenderer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.renderers[width]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	m.renderers[width] = r
	return r
}

// Render converts markdown to styled terminal text wrapped at width.
func (m *MarkdownRenderer) Render(md string, width int) string {
	if m == nil || strings.TrimSpace(md) == "" || width <= 0 {
		return md
	}
	r := m.renderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	// glamour pads with blank lines; the pane supplies its own spacing.
	return strings.Trim(out, "\n")
}
