package bus

import (
	"log/slog"
	"sync"

	"github.com/finconsole/notifykit/pkg/notification"
)

// Handler receives a notification event payload.
type Handler[T any] func(T)

// Subscription represents a registered handler. Closing it unsubscribes;
// Close is idempotent.
type Subscription interface {
	Close()
}

// Bus is the process-wide broker that decouples notification producers from
// consumers. Dispatch is synchronous, on the caller's goroutine, in handler
// registration order; the bus itself holds no notification state and does
// not queue. Listeners registered after an emission never see that event.
type Bus struct {
	logger *slog.Logger

	shown        registry[notification.Notification]
	acknowledged registry[string]
	dismissed    registry[string]
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report recovered handler panics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an event bus.
func New(opts ...Option) *Bus {
	b := &Bus{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	b.shown.logger = b.logger
	b.acknowledged.logger = b.logger
	b.dismissed.logger = b.logger
	return b
}

// OnNotification registers a handler for newly shown notifications.
func (b *Bus) OnNotification(fn Handler[notification.Notification]) Subscription {
	return b.shown.on(fn)
}

// OnAcknowledged registers a handler for acknowledgments.
func (b *Bus) OnAcknowledged(fn Handler[string]) Subscription {
	return b.acknowledged.on(fn)
}

// OnDismissed registers a handler for dismissals.
func (b *Bus) OnDismissed(fn Handler[string]) Subscription {
	return b.dismissed.on(fn)
}

// Show emits the notification to all currently registered listeners.
// Fire-and-forget, at-most-once: there is no retry and no replay.
func (b *Bus) Show(n notification.Notification) {
	b.shown.emit("notification", n)
}

// Acknowledge emits an acknowledgment for the given notification ID.
// The bus does not mutate any store; consumers translate the event into
// their own state transitions.
func (b *Bus) Acknowledge(id string) {
	b.acknowledged.emit("acknowledged", id)
}

// Dismiss emits a dismissal for the given notification ID.
func (b *Bus) Dismiss(id string) {
	b.dismissed.emit("dismissed", id)
}

// registry holds the ordered handler list for a single topic.
type registry[T any] struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	nextID  uint64
	entries []entry[T]
}

type entry[T any] struct {
	id uint64
	fn Handler[T]
}

func (r *registry[T]) on(fn Handler[T]) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, entry[T]{id: id, fn: fn})

	return &subscription{cancel: func() { r.off(id) }}
}

func (r *registry[T]) off(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// emit invokes every handler registered at the time of the call, in
// registration order. The entry slice is snapshotted first so a handler that
// unsubscribes itself (or others) mid-emission cannot skip or double-invoke
// anyone. A panicking handler is recovered and logged; the remaining
// handlers still run.
func (r *registry[T]) emit(topic string, payload T) {
	r.mu.RLock()
	snapshot := make([]entry[T], len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	for _, e := range snapshot {
		r.invoke(topic, e, payload)
	}
}

func (r *registry[T]) invoke(topic string, e entry[T], payload T) {
	defer func() {
		if rec := recover(); rec != nil {
			logger := r.logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Error("event handler panicked",
				slog.String("topic", topic),
				slog.Uint64("handler_id", e.id),
				slog.Any("panic", rec),
			)
		}
	}()
	e.fn(payload)
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Close() {
	s.once.Do(s.cancel)
}
