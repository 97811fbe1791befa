package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/soamn/aterna/internal/models"
	"github.com/soamn/aterna/internal/selector"
)

// GlobalKeys are checked before any mode-specific handling.
var GlobalKeys = struct {
	Quit key.Binding
}{
	Quit: key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
}

type NormalKeyMap struct {
	Send      key.Binding
	Delete    key.Binding
	EnterMode key.Binding
}

var NormalKeys = NormalKeyMap{
	Send:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Delete:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
	EnterMode: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "command mode")),
}

func (k NormalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.EnterMode, GlobalKeys.Quit}
}

func (k NormalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Send, k.Delete, k.EnterMode, GlobalKeys.Quit}}
}

type CommandKeyMap struct {
	Quit   key.Binding
	Clear  key.Binding
	Reset  key.Binding
	Models key.Binding
	Back   key.Binding
}

var CommandKeys = CommandKeyMap{
	Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear input")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset response")),
	Models: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "select model")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

func (k CommandKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Clear, k.Reset, k.Models, k.Back}
}

func (k CommandKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// KeyMapFor returns the bindings shown in the footer for a mode.
func KeyMapFor(mode models.Mode) help.KeyMap {
	switch mode {
	case models.Command:
		return CommandKeys
	case models.ModelSelect:
		return selector.Keys
	default:
		return NormalKeys
	}
}
