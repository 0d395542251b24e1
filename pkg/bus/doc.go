// Package bus provides the in-process event broker that decouples
// notification producers from consumers.
//
// Three topics exist: shown notifications, acknowledgments and dismissals.
// Dispatch is synchronous on the emitting goroutine, in handler registration
// order, with no internal queueing. Delivery is fire-and-forget and
// at-most-once: handlers registered after an emission never see it, and
// there is no retry. A panicking handler is isolated: it is recovered and
// logged, and the remaining handlers for the event still run.
//
//	b := bus.New()
//	sub := b.OnNotification(func(n notification.Notification) {
//		// react to the new notification
//	})
//	defer sub.Close()
//	b.Show(n)
//
// For transports that want a channel instead of a callback, Watch bridges
// all three topics into a buffered Event channel scoped to a context.
// Slow consumers drop events rather than blocking producers.
package bus
