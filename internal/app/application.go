package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/soamn/aterna/internal/config"
	"github.com/soamn/aterna/internal/core"
	"github.com/soamn/aterna/internal/dispatcher"
	"github.com/soamn/aterna/internal/eventbus"
	"github.com/soamn/aterna/internal/models"
	"github.com/soamn/aterna/internal/update"
	"github.com/soamn/aterna/internal/utils"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	Model  string // overrides the profile's model when set
	Plain  bool   // disables markdown rendering
	Logger *zap.Logger
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	logger     *zap.Logger
	model      *AppModel
}

func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Error("event bus error", zap.String("operation", e.Operation), zap.Error(e.Err))
	})

	service := core.NewChatService(cfg.GetBaseURL(), logger)
	disp := dispatcher.NewEventDispatcher(eb, service, logger)

	cred := cfg.ResolveCredential()
	if cred.IsMissing() {
		logger.Warn("no API key configured, using placeholder", zap.String("profile", cfg.ActiveProfile))
	}

	modelName := cfg.GetModel()
	if opts.Model != "" {
		modelName = opts.Model
	}

	var markdown *utils.MarkdownRenderer
	if cfg.RenderMarkdown && !opts.Plain {
		markdown = utils.NewMarkdownRenderer("dark")
	}

	handler := &update.Handler{
		Sender:  disp,
		Catalog: service,
		Bus:     eb,
		Logger:  logger,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		logger:     logger,
		model:      NewAppModel(models.NewSession(modelName, cred), handler, markdown),
	}, nil
}

func (app *Application) Start() error {
	app.logger.Info("starting session",
		zap.String("profile", app.config.ActiveProfile),
		zap.String("model", app.model.session.ActiveModel))

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal session failed: %w", err)
	}
	return nil
}

// Stop cancels any outstanding request and waits for it to unwind.
func (app *Application) Stop() {
	app.dispatcher.Stop()
	app.logger.Info("session ended")
}

func NewAppModel(session models.Session, handler *update.Handler, markdown *utils.MarkdownRenderer) *AppModel {
	return &AppModel{
		session:  session,
		handler:  handler,
		help:     help.New(),
		markdown: markdown,
	}
}
