package update

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/soamn/aterna/internal/config"
	"github.com/soamn/aterna/internal/eventbus"
	"github.com/soamn/aterna/internal/models"
	"github.com/soamn/aterna/internal/selector"
)

// PollInterval is the cadence of the main loop: one completion check per tick.
const PollInterval = 100 * time.Millisecond

const defaultFetchTimeout = 15 * time.Second

// Sender schedules a request in the background and returns immediately.
type Sender interface {
	Dispatch(req models.PendingRequest)
}

// Catalog lists the models available to a credential.
type Catalog interface {
	ListModels(ctx context.Context, cred config.Credential) ([]string, error)
}

// Handler applies transitions to a session.
type Handler struct {
	Sender       Sender
	Catalog      Catalog
	Bus          *eventbus.EventBus
	Logger       *zap.Logger
	FetchTimeout time.Duration
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// CatalogMsg carries the result of the selector's catalog fetch.
type CatalogMsg struct {
	Models []string
	Err    error
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// HandleKeyMsg runs one key press through Transition and applies its effects.
func (h *Handler) HandleKeyMsg(s *models.Session, keyMsg tea.KeyMsg) tea.Cmd {
	mode, effects := Transition(s.Mode, keyMsg)
	if mode != s.Mode {
		h.logger().Debug("mode change", zap.Stringer("from", s.Mode), zap.Stringer("to", mode))
	}
	s.Mode = mode

	var cmds []tea.Cmd
	for _, e := range effects {
		if cmd := h.apply(s, e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return batch(cmds)
}

func (h *Handler) apply(s *models.Session, e Effect) tea.Cmd {
	switch e := e.(type) {
	case AppendText:
		s.Input += e.Text
	case DeleteLast:
		if s.Input != "" {
			_, size := utf8.DecodeLastRuneInString(s.Input)
			s.Input = s.Input[:len(s.Input)-size]
		}
	case Submit:
		h.submit(s)
	case ClearInput:
		s.Input = ""
	case SetResponse:
		s.SetNotice(e.Text)
	case OpenSelector:
		s.Selector = selector.Open()
		return h.fetchCatalog(s.Credential)
	case SelectorKey:
		sel, out := s.Selector.Update(e.Key)
		s.Selector = sel
		if out.Done {
			finishSelection(s, out.Choice)
		}
	case Quit:
		return tea.Quit
	}
	return nil
}

// submit dispatches the input buffer, or asks for text when it is blank.
// The input buffer is cleared either way.
func (h *Handler) submit(s *models.Session) {
	defer func() { s.Input = "" }()

	if strings.TrimSpace(s.Input) == "" {
		s.SetNotice(EmptyInputNotice)
		return
	}

	s.LatestSeq++
	req := models.PendingRequest{
		Seq:        s.LatestSeq,
		Prompt:     s.Input,
		Model:      s.ActiveModel,
		Credential: s.Credential,
	}
	s.SetNotice(ThinkingNotice)
	s.Waiting = true
	s.LoadingDots = 0

	h.logger().Info("dispatching request", zap.Uint64("seq", req.Seq), zap.String("model", req.Model))
	h.Sender.Dispatch(req)
}

func (h *Handler) fetchCatalog(cred config.Credential) tea.Cmd {
	timeout := h.FetchTimeout
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}
	catalog := h.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ids, err := catalog.ListModels(ctx, cred)
		return CatalogMsg{Models: ids, Err: err}
	}
}

// HandleCatalogMsg loads the fetched catalog into the open selector. A fetch
// failure is reported distinctly; an empty catalog counts as a cancellation.
func (h *Handler) HandleCatalogMsg(s *models.Session, msg CatalogMsg) {
	if s.Mode != models.ModelSelect || s.Selector.Phase() != selector.Loading {
		return
	}

	if msg.Err != nil {
		h.logger().Warn("model catalog fetch failed", zap.Error(msg.Err))
		s.Selector = selector.Model{}
		s.SetNotice("Model selection failed: " + msg.Err.Error())
		s.Mode = models.Command
		return
	}

	sel, ok := s.Selector.Load(msg.Models)
	if !ok {
		finishSelection(s, "")
		return
	}
	s.Selector = sel
}

func finishSelection(s *models.Session, choice string) {
	if choice == "" {
		s.SetNotice(CancelledNotice)
	} else {
		s.ActiveModel = choice
		s.SetNotice("Model changed to " + choice)
	}
	s.Selector = selector.Model{}
	s.Mode = models.Command
}

// HandleCompletion applies a completion only if it answers the most recent
// dispatch. Replies to superseded requests are dropped.
func (h *Handler) HandleCompletion(s *models.Session, c models.Completion) bool {
	if c.Seq != s.LatestSeq {
		h.logger().Debug("dropping stale completion", zap.Uint64("seq", c.Seq), zap.Uint64("latest", s.LatestSeq))
		return false
	}
	if c.Err != nil {
		s.SetNotice(c.Display())
	} else {
		s.SetReply(c.Text)
	}
	s.Waiting = false
	return true
}

// HandleTickMsg is one main-loop iteration: take at most one queued
// completion, advance the loading animation, schedule the next tick.
func (h *Handler) HandleTickMsg(s *models.Session) tea.Cmd {
	if h.Bus != nil {
		if c, ok := h.Bus.Poll(); ok {
			h.HandleCompletion(s, c)
		}
	}
	if s.Waiting {
		s.LoadingDots = (s.LoadingDots + 1) % 4
	}
	return TickCmd()
}

func HandleWindowSizeMsg(s *models.Session, sizeMsg tea.WindowSizeMsg) {
	s.Width = sizeMsg.Width
	s.Height = sizeMsg.Height
}

func batch(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}
