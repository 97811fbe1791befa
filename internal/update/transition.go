package update

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soamn/aterna/internal/models"
)

const (
	EmptyInputNotice = "Please enter some text!"
	ThinkingNotice   = "Thinking..."
	ClearedNotice    = "Input cleared!"
	ResetNotice      = "Response reset!"
	CancelledNotice  = "Model selection cancelled."
)

// HelpText is shown for any unbound key in command mode.
const HelpText = `Command mode:
  [q] Quit
  [c] Clear input
  [r] Reset response
  [m] Select model
  [Esc] Back`

// Effect is a side effect requested by a transition.
type Effect interface {
	effect()
}

type (
	AppendText   struct{ Text string }
	DeleteLast   struct{}
	Submit       struct{}
	ClearInput   struct{}
	SetResponse  struct{ Text string }
	OpenSelector struct{}
	SelectorKey  struct{ Key tea.KeyMsg }
	Quit         struct{}
)

func (AppendText) effect()   {}
func (DeleteLast) effect()   {}
func (Submit) effect()       {}
func (ClearInput) effect()   {}
func (SetResponse) effect()  {}
func (OpenSelector) effect() {}
func (SelectorKey) effect()  {}
func (Quit) effect()         {}

// Transition maps one key press in a mode to the next mode and the effects
// to apply. It has no side effects of its own.
func Transition(mode models.Mode, msg tea.KeyMsg) (models.Mode, []Effect) {
	if key.Matches(msg, GlobalKeys.Quit) {
		return mode, []Effect{Quit{}}
	}

	switch mode {
	case models.Normal:
		return transitionNormal(msg)
	case models.Command:
		return transitionCommand(msg)
	case models.ModelSelect:
		return models.ModelSelect, []Effect{SelectorKey{Key: msg}}
	}
	return mode, nil
}

func transitionNormal(msg tea.KeyMsg) (models.Mode, []Effect) {
	switch {
	case key.Matches(msg, NormalKeys.EnterMode):
		return models.Command, nil
	case key.Matches(msg, NormalKeys.Send):
		return models.Normal, []Effect{Submit{}}
	case key.Matches(msg, NormalKeys.Delete):
		return models.Normal, []Effect{DeleteLast{}}
	}

	if text, ok := printable(msg); ok {
		return models.Normal, []Effect{AppendText{Text: text}}
	}
	return models.Normal, nil
}

func transitionCommand(msg tea.KeyMsg) (models.Mode, []Effect) {
	switch {
	case key.Matches(msg, CommandKeys.Quit):
		return models.Command, []Effect{Quit{}}
	case key.Matches(msg, CommandKeys.Clear):
		return models.Command, []Effect{ClearInput{}, SetResponse{Text: ClearedNotice}}
	case key.Matches(msg, CommandKeys.Reset):
		return models.Command, []Effect{SetResponse{Text: ResetNotice}}
	case key.Matches(msg, CommandKeys.Models):
		return models.ModelSelect, []Effect{OpenSelector{}}
	case key.Matches(msg, CommandKeys.Back):
		return models.Normal, nil
	}
	return models.Command, []Effect{SetResponse{Text: HelpText}}
}

// printable returns the text a key press inserts, if any. Alt-modified runes
// are treated as shortcuts, not text.
func printable(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return " ", true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return "", false
		}
		return string(msg.Runes), true
	}
	return "", false
}
