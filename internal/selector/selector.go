// Package selector holds the model-selection overlay state: a catalog of
// identifiers fetched once per opening and a cursor that wraps at both ends.
package selector

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultPageSize = 12

// Phase is the lifecycle stage of the overlay.
type Phase int

const (
	Closed Phase = iota
	Loading
	Ready
)

// KeyMap binds the overlay's navigation keys.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var Keys = KeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Outcome reports whether a key press ended the selection. An empty Choice
// with Done set means the user cancelled.
type Outcome struct {
	Done   bool
	Choice string
}

// Model is the overlay state. The zero value is closed.
type Model struct {
	phase    Phase
	items    []string
	cursor   int
	offset   int
	pageSize int
}

// Open puts the overlay into the loading phase while the catalog is fetched.
func Open() Model {
	return Model{phase: Loading, pageSize: defaultPageSize}
}

// Load installs the fetched catalog with the cursor on the first entry.
// It reports false for an empty catalog, which the caller treats as a
// cancellation; the overlay is closed in that case.
func (m Model) Load(items []string) (Model, bool) {
	if len(items) == 0 {
		return Model{}, false
	}
	catalog := make([]string, len(items))
	copy(catalog, items)
	if m.pageSize == 0 {
		m.pageSize = defaultPageSize
	}
	m.phase = Ready
	m.items = catalog
	m.cursor = 0
	m.offset = 0
	return m, true
}

func (m Model) Phase() Phase    { return m.phase }
func (m Model) Items() []string { return m.items }
func (m Model) Cursor() int     { return m.cursor }

// Selected returns the highlighted identifier, or "" when nothing is loaded.
func (m Model) Selected() string {
	if m.phase != Ready {
		return ""
	}
	return m.items[m.cursor]
}

// Window returns the half-open range of items currently visible.
func (m Model) Window() (start, end int) {
	end = m.offset + m.pageSize
	if end > len(m.items) {
		end = len(m.items)
	}
	return m.offset, end
}

// Update applies one key press. Keys are ignored while loading.
func (m Model) Update(msg tea.KeyMsg) (Model, Outcome) {
	if m.phase != Ready {
		return m, Outcome{}
	}

	switch {
	case key.Matches(msg, Keys.Down):
		m.cursor = (m.cursor + 1) % len(m.items)
	case key.Matches(msg, Keys.Up):
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case key.Matches(msg, Keys.Choose):
		choice := m.items[m.cursor]
		return Model{}, Outcome{Done: true, Choice: choice}
	case key.Matches(msg, Keys.Cancel):
		return Model{}, Outcome{Done: true}
	default:
		return m, Outcome{}
	}

	m.scroll()
	return m, Outcome{}
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
}
