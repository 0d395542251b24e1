package center

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finconsole/notifykit/pkg/bus"
	"github.com/finconsole/notifykit/pkg/notification"
	"github.com/finconsole/notifykit/pkg/toast"
)

const (
	// DefaultPollInterval is how often the refresh loop resyncs from the API.
	DefaultPollInterval = 30 * time.Second

	// DefaultBellLimit is how many recent notifications the bell popover shows.
	DefaultBellLimit = 5

	// DefaultRemoteTimeout bounds the optimistic mutation calls.
	DefaultRemoteTimeout = 10 * time.Second
)

// RemoteAPI is the slice of the platform API the center talks to. The
// apiclient package provides the production implementation.
type RemoteAPI interface {
	List(ctx context.Context) ([]notification.Notification, error)
	MarkRead(ctx context.Context, ids ...string) error
	MarkUnread(ctx context.Context, ids ...string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, ids ...string) error
	ClearRead(ctx context.Context) error
}

// WebSocketMessage is an opaque server-push frame handed through to the
// application's sync layer.
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload []byte `json:"payload,omitempty"`
}

// SyncHandler consumes pass-through websocket frames.
type SyncHandler func(WebSocketMessage)

// Center wires the event bus to the state container and the toast surface,
// and exposes the imperative API the rest of the application uses. All
// surfaces observe mutations through the bus, so bell, history and toast
// stay consistent regardless of which one initiated a change.
type Center struct {
	store  *notification.Store
	bus    *bus.Bus
	toasts *toast.Manager

	remote        RemoteAPI
	syncHandler   SyncHandler
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
	pollInterval  time.Duration
	bellLimit     int
	remoteTimeout time.Duration

	subs      []bus.Subscription
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Center.
type Option func(*Center)

// WithLogger sets the center's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Center) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRemote attaches the platform API used for resync and optimistic
// mutation calls. Without it the center runs purely locally.
func WithRemote(remote RemoteAPI) Option {
	return func(c *Center) {
		c.remote = remote
	}
}

// WithSyncHandler sets the consumer for pass-through websocket frames.
func WithSyncHandler(fn SyncHandler) Option {
	return func(c *Center) {
		c.syncHandler = fn
	}
}

// WithPollInterval sets the refresh loop cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithBellLimit sets how many recent notifications the bell view returns.
func WithBellLimit(n int) Option {
	return func(c *Center) {
		if n > 0 {
			c.bellLimit = n
		}
	}
}

// WithRemoteTimeout bounds each optimistic mutation call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.remoteTimeout = d
		}
	}
}

// WithNow overrides the clock. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDFunc overrides notification ID generation. Intended for tests.
func WithIDFunc(fn func() string) Option {
	return func(c *Center) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New creates the center and registers its bus subscriptions. The center
// owns the toast surface lifecycle; callers own the store and bus.
func New(store *notification.Store, b *bus.Bus, toasts *toast.Manager, opts ...Option) *Center {
	c := &Center{
		store:         store,
		bus:           b,
		toasts:        toasts,
		logger:        slog.Default(),
		now:           time.Now,
		newID:         uuid.NewString,
		pollInterval:  DefaultPollInterval,
		bellLimit:     DefaultBellLimit,
		remoteTimeout: DefaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.subs = []bus.Subscription{
		b.OnNotification(c.onNotification),
		b.OnAcknowledged(c.onAcknowledged),
		b.OnDismissed(c.onDismissed),
	}
	return c
}

// onNotification inserts the record and raises a toast when warranted.
func (c *Center) onNotification(n notification.Notification) {
	if err := c.store.Add(n); err != nil {
		if errors.Is(err, notification.ErrDuplicateID) {
			c.logger.Warn("dropping duplicate notification",
				slog.String("notification_id", n.ID))
			return
		}
		c.logger.Error("rejecting malformed notification",
			slog.String("notification_id", n.ID),
			slog.Any("error", err))
		return
	}
	c.toasts.Offer(n)
}

// onAcknowledged marks the record read, clears its toast and syncs the read
// state upstream best-effort.
func (c *Center) onAcknowledged(id string) {
	c.store.MarkRead(id)
	c.toasts.Dismiss(id)
	c.remoteAsync("mark read", func(ctx context.Context, r RemoteAPI) error {
		return r.MarkRead(ctx, id)
	})
}

// onDismissed removes the record, clears its toast and deletes upstream
// best-effort.
func (c *Center) onDismissed(id string) {
	c.store.Remove(id)
	c.toasts.Dismiss(id)
	c.remoteAsync("delete", func(ctx context.Context, r RemoteAPI) error {
		return r.Delete(ctx, id)
	})
}

// ShowNotification validates the input, constructs the full record and
// emits it on the bus. The returned record carries the assigned ID.
func (c *Center) ShowNotification(in notification.Input) (notification.Notification, error) {
	if err := in.Validate(); err != nil {
		return notification.Notification{}, err
	}
	n := in.Build(c.newID(), c.now())
	c.bus.Show(n)
	return n, nil
}

// AcknowledgeNotification marks the notification read and dismisses its
// toast, via the bus so every surface observes the change.
func (c *Center) AcknowledgeNotification(id string) {
	c.bus.Acknowledge(id)
}

// DismissNotification removes the notification and its toast.
func (c *Center) DismissNotification(id string) {
	c.bus.Dismiss(id)
}

// MarkRead marks one notification read (bell or history click). Local state
// changes first; the server call is best-effort.
func (c *Center) MarkRead(id string) {
	c.store.MarkRead(id)
	c.remoteAsync("mark read", func(ctx context.Context, r RemoteAPI) error {
		return r.MarkRead(ctx, id)
	})
}

// MarkUnread reverts one notification to unread.
func (c *Center) MarkUnread(id string) {
	c.store.MarkUnread(id)
	c.remoteAsync("mark unread", func(ctx context.Context, r RemoteAPI) error {
		return r.MarkUnread(ctx, id)
	})
}

// MarkAllRead marks every notification read.
func (c *Center) MarkAllRead() {
	c.store.MarkAllRead()
	c.remoteAsync("mark all read", func(ctx context.Context, r RemoteAPI) error {
		return r.MarkAllRead(ctx)
	})
}

// ClearAllNotifications removes every read notification. Unread entries are
// not eligible for bulk clearing and stay in place.
func (c *Center) ClearAllNotifications() {
	c.store.ClearRead()
	c.remoteAsync("clear read", func(ctx context.Context, r RemoteAPI) error {
		return r.ClearRead(ctx)
	})
}

// HandleWebSocketMessage forwards a server-push frame to the application's
// sync layer. The center itself does not interpret the frame.
func (c *Center) HandleWebSocketMessage(msg WebSocketMessage) {
	if c.syncHandler == nil {
		c.logger.Debug("dropping websocket message, no sync handler",
			slog.String("type", msg.Type))
		return
	}
	c.syncHandler(msg)
}

// Refresh pulls the authoritative list from the API and replaces local
// state. A result arriving after ctx is cancelled is discarded so a late
// response cannot write into a torn-down center.
func (c *Center) Refresh(ctx context.Context) error {
	if c.remote == nil {
		return ErrNoRemote
	}
	list, err := c.remote.List(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.store.SetAll(list)
	return nil
}

// Run refreshes immediately and then on every poll interval until ctx is
// cancelled. A failed refresh leaves the current list stale until the next
// successful poll; it never aborts the loop.
func (c *Center) Run(ctx context.Context) error {
	if c.remote == nil {
		return ErrNoRemote
	}

	if err := c.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("initial notification refresh failed", slog.Any("error", err))
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.Warn("notification refresh failed", slog.Any("error", err))
			}
		}
	}
}

// Watch exposes the bus event stream for transports.
func (c *Center) Watch(ctx context.Context) <-chan bus.Event {
	return c.bus.Watch(ctx)
}

// WatchBuffer is Watch with an explicit per-consumer buffer size.
func (c *Center) WatchBuffer(ctx context.Context, buffer int) <-chan bus.Event {
	return c.bus.WatchBuffer(ctx, buffer)
}

// Store returns the underlying state container.
func (c *Center) Store() *notification.Store {
	return c.store
}

// Toasts returns the currently active toast notifications.
func (c *Center) Toasts() []notification.Notification {
	return c.toasts.Active()
}

// UnreadCount returns the store's unread counter.
func (c *Center) UnreadCount() int {
	return c.store.UnreadCount()
}

// Close unsubscribes from the bus, waits for in-flight remote calls and
// clears the toast surface.
func (c *Center) Close() {
	c.closeOnce.Do(func() {
		for _, sub := range c.subs {
			sub.Close()
		}
		c.wg.Wait()
		c.toasts.Close()
	})
}

// remoteAsync runs a best-effort server call in the background. Failures
// are logged and swallowed: the local state change already happened and the
// next resync reconciles any drift.
func (c *Center) remoteAsync(op string, call func(context.Context, RemoteAPI) error) {
	if c.remote == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.remoteTimeout)
		defer cancel()
		if err := call(ctx, c.remote); err != nil {
			c.logger.Warn("optimistic notification sync failed",
				slog.String("operation", op),
				slog.Any("error", err))
		}
	}()
}
