package dispatcher

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/soamn/aterna/internal/core"
	"github.com/soamn/aterna/internal/eventbus"
	"github.com/soamn/aterna/internal/models"
)

// EventDispatcher runs outbound requests in the background and routes their
// completions onto the event bus. Only the latest request is kept alive:
// dispatching a new one cancels the one it supersedes.
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	client   core.Client
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inflight context.CancelFunc
	wg       sync.WaitGroup
}

func NewEventDispatcher(eventBus *eventbus.EventBus, client core.Client, logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		client:   client,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Dispatch starts req in its own goroutine and returns immediately. The
// completion is published with req.Seq so the consumer can drop stale ones.
func (ed *EventDispatcher) Dispatch(req models.PendingRequest) {
	ctx, cancel := context.WithCancel(ed.ctx)

	ed.mu.Lock()
	if ed.inflight != nil {
		ed.inflight()
	}
	ed.inflight = cancel
	ed.mu.Unlock()

	ed.wg.Add(1)
	go func() {
		defer ed.wg.Done()
		defer cancel()

		text, err := ed.client.Complete(ctx, req)
		if err != nil {
			ed.logger.Info("request failed", zap.Uint64("seq", req.Seq), zap.Error(err))
		}
		completion := models.Completion{Seq: req.Seq, Text: text, Err: err}
		if err := ed.eventBus.Publish(completion); err == nil {
			return
		}
		// The bus is full of stale results. The latest one must still reach
		// the consumer, so wait for room until superseded or stopped.
		ed.logger.Debug("bus full, waiting to publish", zap.Uint64("seq", req.Seq))
		if err := ed.eventBus.PublishWait(ctx, completion); err != nil {
			ed.logger.Warn("dropping completion", zap.Uint64("seq", req.Seq), zap.Error(err))
		}
	}()
}

// Stop cancels any in-flight request and waits for its goroutine to return.
func (ed *EventDispatcher) Stop() {
	ed.cancel()
	ed.wg.Wait()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
