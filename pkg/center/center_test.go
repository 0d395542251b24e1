package center_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finconsole/notifykit/pkg/bus"
	"github.com/finconsole/notifykit/pkg/center"
	"github.com/finconsole/notifykit/pkg/notification"
	"github.com/finconsole/notifykit/pkg/toast"
)

// fakeRemote records API calls and can be set to fail everything.
type fakeRemote struct {
	mu          sync.Mutex
	listResult  []notification.Notification
	listErr     error
	failAll     bool
	calls       []string
	onList      func(ctx context.Context)
	markedRead  [][]string
	deletedIDs  [][]string
	markAllRead int
	clearedRead int
}

func (f *fakeRemote) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.failAll {
		return errors.New("api down")
	}
	return nil
}

func (f *fakeRemote) List(ctx context.Context) ([]notification.Notification, error) {
	if f.onList != nil {
		f.onList(ctx)
	}
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listResult, f.listErr
}

func (f *fakeRemote) MarkRead(ctx context.Context, ids ...string) error {
	err := f.record("mark_read")
	f.mu.Lock()
	f.markedRead = append(f.markedRead, ids)
	f.mu.Unlock()
	return err
}

func (f *fakeRemote) MarkUnread(ctx context.Context, ids ...string) error {
	return f.record("mark_unread")
}

func (f *fakeRemote) MarkAllRead(ctx context.Context) error {
	err := f.record("mark_all_read")
	f.mu.Lock()
	f.markAllRead++
	f.mu.Unlock()
	return err
}

func (f *fakeRemote) Delete(ctx context.Context, ids ...string) error {
	err := f.record("delete")
	f.mu.Lock()
	f.deletedIDs = append(f.deletedIDs, ids)
	f.mu.Unlock()
	return err
}

func (f *fakeRemote) ClearRead(ctx context.Context) error {
	err := f.record("clear_read")
	f.mu.Lock()
	f.clearedRead++
	f.mu.Unlock()
	return err
}

func (f *fakeRemote) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

var fixedTime = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store  *notification.Store
	bus    *bus.Bus
	toasts *toast.Manager
	center *center.Center
	remote *fakeRemote
}

func newFixture(t *testing.T, opts ...center.Option) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		store:  notification.NewStore(notification.WithNow(func() time.Time { return fixedTime })),
		bus:    bus.New(bus.WithLogger(logger)),
		remote: &fakeRemote{},
	}
	f.toasts = toast.NewManager(
		toast.WithClock(func() time.Time { return fixedTime }),
		toast.WithLogger(logger),
	)

	seq := 0
	base := []center.Option{
		center.WithLogger(logger),
		center.WithNow(func() time.Time { return fixedTime }),
		center.WithIDFunc(func() string { seq++; return fmt.Sprintf("id-%d", seq) }),
		center.WithRemote(f.remote),
	}
	f.center = center.New(f.store, f.bus, f.toasts, append(base, opts...)...)
	t.Cleanup(f.center.Close)
	return f
}

func errorInput() notification.Input {
	return notification.Input{
		Type:           notification.TypeError,
		Priority:       notification.PriorityHigh,
		Category:       "transaction",
		Title:          "Transaction Failed",
		Message:        "Payment was declined by the issuer",
		ActionRequired: true,
	}
}

func infoInput(title string) notification.Input {
	return notification.Input{
		Type:     notification.TypeInfo,
		Priority: notification.PriorityLow,
		Category: "system",
		Title:    title,
	}
}

func TestCenter_ShowNotification(t *testing.T) {
	t.Run("high priority raises a toast and bumps unread", func(t *testing.T) {
		f := newFixture(t)

		n, err := f.center.ShowNotification(errorInput())
		require.NoError(t, err)

		assert.Equal(t, 1, f.center.UnreadCount())
		assert.Equal(t, 1, f.store.Len())
		assert.True(t, f.toasts.IsActive(n.ID), "toast should be active for %s", n.ID)

		stored, ok := f.store.Get(n.ID)
		require.True(t, ok)
		assert.False(t, stored.Read)
		assert.Equal(t, fixedTime, stored.CreatedAt)
	})

	t.Run("low priority never toasts", func(t *testing.T) {
		f := newFixture(t)

		n, err := f.center.ShowNotification(infoInput("Maintenance window"))
		require.NoError(t, err)

		assert.Equal(t, 1, f.center.UnreadCount())
		assert.False(t, f.toasts.IsActive(n.ID))
		assert.Empty(t, f.center.Toasts())
	})

	t.Run("invalid input rejected before emission", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.center.ShowNotification(notification.Input{Type: "bogus"})

		assert.Error(t, err)
		assert.Equal(t, 0, f.store.Len())
	})

	t.Run("duplicate IDs are dropped, not double counted", func(t *testing.T) {
		f := newFixture(t, center.WithIDFunc(func() string { return "same-id" }))

		_, err := f.center.ShowNotification(infoInput("first"))
		require.NoError(t, err)
		_, err = f.center.ShowNotification(infoInput("second"))
		require.NoError(t, err)

		assert.Equal(t, 1, f.store.Len())
		assert.Equal(t, 1, f.center.UnreadCount())
	})

	t.Run("synchronous producers keep call order, most recent first", func(t *testing.T) {
		f := newFixture(t)

		for _, title := range []string{"A", "B", "C"} {
			_, err := f.center.ShowNotification(infoInput(title))
			require.NoError(t, err)
		}

		all := f.store.All()
		require.Len(t, all, 3)
		assert.Equal(t, "C", all[0].Title)
		assert.Equal(t, "B", all[1].Title)
		assert.Equal(t, "A", all[2].Title)
	})
}

func TestCenter_AcknowledgeNotification(t *testing.T) {
	f := newFixture(t)

	n, err := f.center.ShowNotification(errorInput())
	require.NoError(t, err)
	require.True(t, f.toasts.IsActive(n.ID))
	require.Equal(t, 1, f.center.UnreadCount())

	f.center.AcknowledgeNotification(n.ID)

	assert.Equal(t, 0, f.center.UnreadCount())
	assert.False(t, f.toasts.IsActive(n.ID))

	stored, ok := f.store.Get(n.ID)
	require.True(t, ok)
	assert.True(t, stored.Read)
	require.NotNil(t, stored.ReadAt)
	assert.Equal(t, fixedTime, *stored.ReadAt)

	f.center.Close()
	assert.Contains(t, f.remote.callNames(), "mark_read")
}

func TestCenter_DismissNotification(t *testing.T) {
	f := newFixture(t)

	n, err := f.center.ShowNotification(errorInput())
	require.NoError(t, err)

	f.center.DismissNotification(n.ID)

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 0, f.center.UnreadCount())
	assert.False(t, f.toasts.IsActive(n.ID))

	f.center.Close()
	assert.Contains(t, f.remote.callNames(), "delete")
}

func TestCenter_MarkAllReadThenClear(t *testing.T) {
	f := newFixture(t)

	var ids []string
	for i := 0; i < 5; i++ {
		n, err := f.center.ShowNotification(infoInput(fmt.Sprintf("N%d", i)))
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	f.center.MarkRead(ids[0])
	f.center.MarkRead(ids[1])
	require.Equal(t, 3, f.center.UnreadCount())

	f.center.MarkAllRead()

	assert.Equal(t, 0, f.center.UnreadCount())
	for _, n := range f.store.All() {
		assert.True(t, n.Read)
	}

	f.center.ClearAllNotifications()

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 0, f.center.UnreadCount())
}

func TestCenter_ClearSkipsUnread(t *testing.T) {
	f := newFixture(t)

	read, err := f.center.ShowNotification(infoInput("read me"))
	require.NoError(t, err)
	_, err = f.center.ShowNotification(infoInput("keep me"))
	require.NoError(t, err)
	f.center.MarkRead(read.ID)

	f.center.ClearAllNotifications()

	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, 1, f.center.UnreadCount())
}

func TestCenter_MarkUnread(t *testing.T) {
	f := newFixture(t)

	n, err := f.center.ShowNotification(infoInput("toggle me"))
	require.NoError(t, err)

	f.center.MarkRead(n.ID)
	require.Equal(t, 0, f.center.UnreadCount())

	f.center.MarkUnread(n.ID)

	assert.Equal(t, 1, f.center.UnreadCount())
	stored, _ := f.store.Get(n.ID)
	assert.False(t, stored.Read)
	assert.Nil(t, stored.ReadAt)
}

func TestCenter_OptimisticUpdateSurvivesAPIFailure(t *testing.T) {
	f := newFixture(t)
	f.remote.failAll = true

	n, err := f.center.ShowNotification(infoInput("optimistic"))
	require.NoError(t, err)

	f.center.MarkRead(n.ID)

	// The local transition applies regardless of the server outcome.
	assert.Equal(t, 0, f.center.UnreadCount())
	stored, _ := f.store.Get(n.ID)
	assert.True(t, stored.Read)
}

func TestCenter_Refresh(t *testing.T) {
	t.Run("applies the server list wholesale", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.center.ShowNotification(infoInput("stale local"))
		require.NoError(t, err)

		readAt := fixedTime.Add(-time.Hour)
		f.remote.listResult = []notification.Notification{
			{ID: "srv-1", Type: notification.TypeInfo, Priority: notification.PriorityLow, Title: "from server", CreatedAt: fixedTime.Add(-2 * time.Hour)},
			{ID: "srv-2", Type: notification.TypeInfo, Priority: notification.PriorityLow, Title: "older", Read: true, ReadAt: &readAt, CreatedAt: fixedTime.Add(-3 * time.Hour)},
		}

		require.NoError(t, f.center.Refresh(context.Background()))

		assert.Equal(t, 2, f.store.Len())
		assert.Equal(t, 1, f.center.UnreadCount())
		_, ok := f.store.Get("srv-1")
		assert.True(t, ok)
	})

	t.Run("discards results arriving after cancellation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.center.ShowNotification(infoInput("local")) // present before refresh
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		f.remote.onList = func(context.Context) { cancel() }
		f.remote.listResult = []notification.Notification{
			{ID: "late", Type: notification.TypeInfo, Priority: notification.PriorityLow, Title: "late write", CreatedAt: fixedTime},
		}

		err = f.center.Refresh(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		_, ok := f.store.Get("late")
		assert.False(t, ok, "stale refresh result must not be applied")
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("requires a remote", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		c := center.New(notification.NewStore(), bus.New(bus.WithLogger(logger)), toast.NewManager(), center.WithLogger(logger))
		defer c.Close()

		assert.ErrorIs(t, c.Refresh(context.Background()), center.ErrNoRemote)
		assert.ErrorIs(t, c.Run(context.Background()), center.ErrNoRemote)
	})
}

func TestCenter_Run(t *testing.T) {
	f := newFixture(t, center.WithPollInterval(10*time.Millisecond))
	f.remote.listResult = []notification.Notification{
		{ID: "srv-1", Type: notification.TypeInfo, Priority: notification.PriorityLow, Title: "t", CreatedAt: fixedTime},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.center.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return len(f.remote.callNames()) >= 2
	}, time.Second, 5*time.Millisecond, "expected at least initial refresh plus one poll")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}

func TestCenter_HandleWebSocketMessage(t *testing.T) {
	t.Run("forwards to the sync handler", func(t *testing.T) {
		var got center.WebSocketMessage
		f := newFixture(t, center.WithSyncHandler(func(msg center.WebSocketMessage) { got = msg }))

		f.center.HandleWebSocketMessage(center.WebSocketMessage{Type: "notification.created", Payload: []byte(`{}`)})

		assert.Equal(t, "notification.created", got.Type)
	})

	t.Run("safe without a handler", func(t *testing.T) {
		f := newFixture(t)
		assert.NotPanics(t, func() {
			f.center.HandleWebSocketMessage(center.WebSocketMessage{Type: "ping"})
		})
	})
}

func TestCenter_Views(t *testing.T) {
	f := newFixture(t, center.WithBellLimit(3))

	for i := 0; i < 6; i++ {
		_, err := f.center.ShowNotification(infoInput(fmt.Sprintf("N%d", i)))
		require.NoError(t, err)
	}

	bell := f.center.Bell()
	assert.Equal(t, 6, bell.UnreadCount)
	require.Len(t, bell.Recent, 3)
	assert.Equal(t, "N5", bell.Recent[0].Title)

	page := f.center.History(notification.Filter{Search: "n4"})
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "N4", page.Notifications[0].Title)
}

func TestCenter_WatchSeesImperativeCalls(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := f.center.Watch(ctx)

	n, err := f.center.ShowNotification(errorInput())
	require.NoError(t, err)
	f.center.AcknowledgeNotification(n.ID)

	var kinds []bus.EventKind
	for i := 0; i < 2; i++ {
		select {
		case ev := <-ch:
			kinds = append(kinds, ev.Kind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for watch event")
		}
	}
	assert.Equal(t, []bus.EventKind{bus.EventNotification, bus.EventAcknowledged}, kinds)
}

func TestCenter_CloseDetachesFromBus(t *testing.T) {
	f := newFixture(t)

	f.center.Close()

	// Emissions after Close must not reach the torn-down center.
	f.bus.Show(notification.Notification{
		ID: "after-close", Type: notification.TypeInfo, Priority: notification.PriorityLow,
		Title: "t", CreatedAt: fixedTime,
	})
	assert.Equal(t, 0, f.store.Len())
}
