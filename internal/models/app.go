package models

import (
	"github.com/soamn/aterna/internal/config"
	"github.com/soamn/aterna/internal/selector"
)

// Mode is the key-dispatch mode of the session.
type Mode int

const (
	Normal Mode = iota
	Command
	ModelSelect
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Command:
		return "command"
	case ModelSelect:
		return "model-select"
	}
	return "unknown"
}

const Greeting = "Hello from Bot!"

// Session is the UI state. It is only touched from the bubbletea Update
// goroutine; background work reaches it through the result bus.
type Session struct {
	Mode        Mode
	Input       string
	Response    string
	IsReply     bool // Response came from the endpoint rather than the client
	ActiveModel string
	Credential  config.Credential
	LatestSeq   uint64 // sequence number of the most recent dispatch
	Waiting     bool   // a request with LatestSeq is still in flight
	LoadingDots int
	Selector    selector.Model
	Width       int
	Height      int
}

// NewSession returns a session in Normal mode showing the greeting.
func NewSession(model string, cred config.Credential) Session {
	response := Greeting
	if cred.IsMissing() {
		response += "\n\nNo API key configured: set " + config.CredentialEnv + " or run `aterna profile edit`."
	}
	return Session{
		Mode:        Normal,
		Response:    response,
		ActiveModel: model,
		Credential:  cred,
	}
}

// SetNotice shows client-generated text, which is displayed verbatim.
func (s *Session) SetNotice(text string) {
	s.Response = text
	s.IsReply = false
}

// SetReply shows text returned by the endpoint, which may be rendered as
// markdown.
func (s *Session) SetReply(text string) {
	s.Response = text
	s.IsReply = true
}
