package bus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/finconsole/notifykit/pkg/notification"
)

// EventKind identifies the topic an Event was emitted on.
type EventKind string

const (
	EventNotification EventKind = "notification"
	EventAcknowledged EventKind = "acknowledged"
	EventDismissed    EventKind = "dismissed"
)

// Event is the transport-facing projection of a bus emission. Notification
// is set only for EventNotification; NotificationID is set for all kinds.
type Event struct {
	Kind           EventKind                  `json:"kind"`
	Notification   *notification.Notification `json:"notification,omitempty"`
	NotificationID string                     `json:"notificationId"`
}

// DefaultWatchBuffer is the event channel capacity used by Watch.
const DefaultWatchBuffer = 32

// Watch returns a channel that receives every subsequent bus emission as an
// Event. The channel is buffered; when a consumer falls behind, events are
// dropped rather than blocking producers. The subscription ends and the
// channel is closed when ctx is cancelled.
func (b *Bus) Watch(ctx context.Context) <-chan Event {
	return b.WatchBuffer(ctx, DefaultWatchBuffer)
}

// WatchBuffer is Watch with an explicit channel capacity.
func (b *Bus) WatchBuffer(ctx context.Context, buffer int) <-chan Event {
	w := &watcher{
		ch:     make(chan Event, max(buffer, 1)),
		logger: b.logger,
	}

	subs := []Subscription{
		b.OnNotification(func(n notification.Notification) {
			w.send(Event{Kind: EventNotification, Notification: &n, NotificationID: n.ID})
		}),
		b.OnAcknowledged(func(id string) {
			w.send(Event{Kind: EventAcknowledged, NotificationID: id})
		}),
		b.OnDismissed(func(id string) {
			w.send(Event{Kind: EventDismissed, NotificationID: id})
		}),
	}

	go func() {
		<-ctx.Done()
		for _, sub := range subs {
			sub.Close()
		}
		w.close()
	}()

	return w.ch
}

// watcher bridges synchronous bus dispatch into a buffered channel. The
// closed flag is checked under the lock so an emission snapshotted before
// unsubscription cannot send on a closed channel.
type watcher struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool
	logger *slog.Logger
}

func (w *watcher) send(ev Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.ch <- ev:
	default:
		if w.logger != nil {
			w.logger.Debug("watcher buffer full, dropping event",
				slog.String("kind", string(ev.Kind)),
				slog.String("notification_id", ev.NotificationID),
			)
		}
	}
}

func (w *watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}
