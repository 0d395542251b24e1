package toast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/finconsole/notifykit/pkg/notification"
)

const (
	// DefaultAutoHide is how long a non-persistent toast stays on screen.
	DefaultAutoHide = 6 * time.Second

	// DefaultFreshness is the maximum notification age that still raises a
	// toast. Older records go straight to the bell and history surfaces.
	DefaultFreshness = 5 * time.Second
)

// Timer is the stoppable handle behind a toast's auto-hide countdown.
type Timer interface {
	Stop() bool
}

// TimerFunc schedules fn after d and returns a stoppable handle.
type TimerFunc func(d time.Duration, fn func()) Timer

// Manager owns the map of currently visible toasts, keyed by notification
// ID. Entries for non-persistent notifications expire on a timer; persistent
// ones stay until explicitly dismissed. The map is reconstructible from the
// store plus the eligibility predicate. It is presentation state, not a
// second source of truth.
type Manager struct {
	mu     sync.Mutex
	active map[string]*entry

	autoHide  time.Duration
	freshness time.Duration
	now       func() time.Time
	after     TimerFunc
	logger    *slog.Logger
}

type entry struct {
	n     notification.Notification
	timer Timer
}

// Option configures a Manager.
type Option func(*Manager)

// WithAutoHide sets the auto-dismiss duration for non-persistent toasts.
func WithAutoHide(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.autoHide = d
		}
	}
}

// WithFreshness sets the age window inside which a notification may still
// raise a toast.
func WithFreshness(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.freshness = d
		}
	}
}

// WithClock overrides the clock used for age checks. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTimerFunc overrides timer construction. Intended for tests that need
// to fire or freeze auto-hide countdowns deterministically.
func WithTimerFunc(after TimerFunc) Option {
	return func(m *Manager) {
		if after != nil {
			m.after = after
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a toast manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		active:    make(map[string]*entry),
		autoHide:  DefaultAutoHide,
		freshness: DefaultFreshness,
		now:       time.Now,
		after: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Eligible reports whether the notification qualifies for a toast right now:
// priority high or critical, or an explicit action requirement, and an age
// inside the freshness window.
func (m *Manager) Eligible(n notification.Notification) bool {
	urgent := n.Priority == notification.PriorityHigh ||
		n.Priority == notification.PriorityCritical ||
		n.ActionRequired
	if !urgent {
		return false
	}
	age := n.Age(m.now())
	return age >= 0 && age < m.freshness
}

// Offer adds the notification to the active map if it is eligible and not
// already showing. Returns true when a toast became active. Non-persistent
// toasts are scheduled for auto-dismissal.
func (m *Manager) Offer(n notification.Notification) bool {
	if !m.Eligible(n) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, showing := m.active[n.ID]; showing {
		return false
	}

	e := &entry{n: n}
	m.active[n.ID] = e

	if !n.Persistent {
		e.timer = m.after(m.autoHide, func() { m.expire(n.ID, e) })
	}

	m.logger.Debug("toast activated",
		slog.String("notification_id", n.ID),
		slog.String("priority", n.Priority.String()),
		slog.Bool("persistent", n.Persistent),
	)
	return true
}

// Dismiss removes the toast and stops its auto-hide timer. Returns false if
// no toast was active for the ID. Dismissal is terminal for this toast
// instance; the same ID can only reappear through a fresh Offer.
func (m *Manager) Dismiss(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.active[id]
	if !ok {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(m.active, id)
	return true
}

// IsActive reports whether a toast is currently showing for the ID.
func (m *Manager) IsActive(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[id]
	return ok
}

// Active returns the currently visible toasts, most urgent first is not
// guaranteed; callers order for display.
func (m *Manager) Active() []notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]notification.Notification, 0, len(m.active))
	for _, e := range m.active {
		out = append(out, e.n)
	}
	return out
}

// Len returns the number of active toasts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Close dismisses every active toast and stops all timers.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.active {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(m.active, id)
	}
}

// expire removes the entry when its auto-hide timer fires. The identity
// check guards against a timer from a dismissed instance removing a newer
// toast re-offered under the same ID.
func (m *Manager) expire(id string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.active[id]; ok && current == e {
		delete(m.active, id)
	}
}
