package models

import "github.com/soamn/aterna/internal/config"

// PendingRequest is one outbound chat completion.
type PendingRequest struct {
	Seq        uint64
	Prompt     string
	Model      string
	Credential config.Credential
}

// Completion is the single result of a PendingRequest.
type Completion struct {
	Seq  uint64
	Text string
	Err  error
}

// Display returns the text shown in the response pane.
func (c Completion) Display() string {
	if c.Err != nil {
		return "Error: " + c.Err.Error()
	}
	return c.Text
}
