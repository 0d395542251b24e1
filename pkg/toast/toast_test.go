package toast_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finconsole/notifykit/pkg/notification"
	"github.com/finconsole/notifykit/pkg/toast"
)

// fakeScheduler collects scheduled timers and lets tests fire them manually,
// simulating the passage of the auto-hide duration.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
	mu      sync.Mutex
}

func (f *fakeTimer) Stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fired {
		return false
	}
	f.stopped = true
	return true
}

func (f *fakeTimer) fire() {
	f.mu.Lock()
	if f.stopped || f.fired {
		f.mu.Unlock()
		return
	}
	f.fired = true
	fn := f.fn
	f.mu.Unlock()
	fn()
}

func (s *fakeScheduler) after(d time.Duration, fn func()) toast.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// advance fires every timer whose duration is within elapsed.
func (s *fakeScheduler) advance(elapsed time.Duration) {
	s.mu.Lock()
	timers := make([]*fakeTimer, len(s.timers))
	copy(timers, s.timers)
	s.mu.Unlock()

	for _, t := range timers {
		if t.d <= elapsed {
			t.fire()
		}
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
}

func freshNotification(id string, p notification.Priority, actionRequired, persistent bool) notification.Notification {
	return notification.Notification{
		ID:             id,
		Type:           notification.TypeError,
		Priority:       p,
		Category:       "transaction",
		Title:          "Title " + id,
		Message:        "Message " + id,
		CreatedAt:      fixedNow().Add(-time.Second),
		ActionRequired: actionRequired,
		Persistent:     persistent,
	}
}

func newManager(s *fakeScheduler) *toast.Manager {
	return toast.NewManager(
		toast.WithClock(fixedNow),
		toast.WithTimerFunc(s.after),
	)
}

func TestManager_Eligible(t *testing.T) {
	m := toast.NewManager(toast.WithClock(fixedNow))

	tests := []struct {
		name string
		n    notification.Notification
		want bool
	}{
		{name: "high priority fresh", n: freshNotification("a", notification.PriorityHigh, false, false), want: true},
		{name: "critical priority fresh", n: freshNotification("b", notification.PriorityCritical, false, false), want: true},
		{name: "low priority with action required", n: freshNotification("c", notification.PriorityLow, true, false), want: true},
		{name: "low priority never toasts", n: freshNotification("d", notification.PriorityLow, false, false), want: false},
		{name: "medium priority never toasts", n: freshNotification("e", notification.PriorityMedium, false, false), want: false},
		{
			name: "stale high priority is skipped",
			n: func() notification.Notification {
				n := freshNotification("f", notification.PriorityHigh, false, false)
				n.CreatedAt = fixedNow().Add(-10 * time.Second)
				return n
			}(),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Eligible(tt.n))
		})
	}
}

func TestManager_Offer(t *testing.T) {
	t.Run("ineligible notification never enters the map", func(t *testing.T) {
		s := &fakeScheduler{}
		m := newManager(s)

		ok := m.Offer(freshNotification("low", notification.PriorityLow, false, false))

		assert.False(t, ok)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("idempotent by id", func(t *testing.T) {
		s := &fakeScheduler{}
		m := newManager(s)
		n := freshNotification("n1", notification.PriorityHigh, false, false)

		assert.True(t, m.Offer(n))
		assert.False(t, m.Offer(n))
		assert.Equal(t, 1, m.Len())
	})

	t.Run("non-persistent auto-dismisses after the timer", func(t *testing.T) {
		s := &fakeScheduler{}
		m := newManager(s)

		require.True(t, m.Offer(freshNotification("n1", notification.PriorityHigh, false, false)))
		require.True(t, m.IsActive("n1"))

		s.advance(6001 * time.Millisecond)

		assert.False(t, m.IsActive("n1"))
	})

	t.Run("persistent survives the auto-hide duration", func(t *testing.T) {
		s := &fakeScheduler{}
		m := newManager(s)

		require.True(t, m.Offer(freshNotification("n1", notification.PriorityCritical, false, true)))

		s.advance(6001 * time.Millisecond)

		assert.True(t, m.IsActive("n1"), "persistent toast must outlive the auto-hide timer")

		assert.True(t, m.Dismiss("n1"))
		assert.False(t, m.IsActive("n1"))
	})
}

func TestManager_Dismiss(t *testing.T) {
	t.Run("stops the pending timer", func(t *testing.T) {
		s := &fakeScheduler{}
		m := newManager(s)
		require.True(t, m.Offer(freshNotification("n1", notification.PriorityHigh, false, false)))

		assert.True(t, m.Dismiss("n1"))

		require.Len(t, s.timers, 1)
		assert.True(t, s.timers[0].stopped)
	})

	t.Run("unknown id returns false", func(t *testing.T) {
		m := newManager(&fakeScheduler{})
		assert.False(t, m.Dismiss("missing"))
	})

	t.Run("re-offer after dismissal is a new instance", func(t *testing.T) {
		s := &fakeScheduler{}
		m := newManager(s)
		n := freshNotification("n1", notification.PriorityHigh, false, false)

		require.True(t, m.Offer(n))
		require.True(t, m.Dismiss("n1"))
		assert.True(t, m.Offer(n))
		assert.True(t, m.IsActive("n1"))

		// The first instance's timer must not kill the second instance.
		s.timers[0].fire()
		assert.True(t, m.IsActive("n1"))
	})
}

func TestManager_Close(t *testing.T) {
	s := &fakeScheduler{}
	m := newManager(s)
	require.True(t, m.Offer(freshNotification("a", notification.PriorityHigh, false, false)))
	require.True(t, m.Offer(freshNotification("b", notification.PriorityCritical, false, true)))

	m.Close()

	assert.Equal(t, 0, m.Len())
	assert.True(t, s.timers[0].stopped)
}

func TestManager_ActiveReturnsCopies(t *testing.T) {
	s := &fakeScheduler{}
	m := newManager(s)
	require.True(t, m.Offer(freshNotification("a", notification.PriorityHigh, false, false)))

	active := m.Active()
	require.Len(t, active, 1)
	active[0].Title = "mutated"

	again := m.Active()
	assert.Equal(t, "Title a", again[0].Title)
}
