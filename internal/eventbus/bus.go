package eventbus

import (
	"context"
	"errors"
	"time"

	"github.com/soamn/aterna/internal/models"
)

const defaultCapacity = 16

// ErrBusFull is returned when a completion cannot be queued without blocking.
var ErrBusFull = errors.New("result bus is full")

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// EventBus carries completions from background requests to the UI loop.
// Publish is safe from any goroutine; Poll must only be called by the
// single consumer.
type EventBus struct {
	results       chan models.Completion
	errorCallback func(EventBusError)
}

func NewEventBus() *EventBus {
	return NewEventBusWithCapacity(defaultCapacity)
}

func NewEventBusWithCapacity(capacity int) *EventBus {
	if capacity < 1 {
		capacity = 1
	}
	return &EventBus{results: make(chan models.Completion, capacity)}
}

// SetErrorCallback must be called before any goroutine publishes.
func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) error {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}
	if eb.errorCallback != nil {
		eb.errorCallback(busError)
	}
	return busError
}

// Publish queues a completion without blocking.
func (eb *EventBus) Publish(c models.Completion) error {
	select {
	case eb.results <- c:
		return nil
	default:
		return eb.reportError("Publish", ErrBusFull)
	}
}

// PublishWait queues a completion, blocking until the consumer makes room
// or ctx is done.
func (eb *EventBus) PublishWait(ctx context.Context, c models.Completion) error {
	select {
	case eb.results <- c:
		return nil
	case <-ctx.Done():
		return eb.reportError("PublishWait", ctx.Err())
	}
}

// Poll returns a completed result if one is queued. It never blocks.
func (eb *EventBus) Poll() (models.Completion, bool) {
	select {
	case c := <-eb.results:
		return c, true
	default:
		return models.Completion{}, false
	}
}

// Len reports the number of queued completions.
func (eb *EventBus) Len() int {
	return len(eb.results)
}
