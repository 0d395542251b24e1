// Package center is the provider that assembles the notification subsystem.
//
// It connects the event bus to the state container and the toast surface
// and exposes the imperative API used by the rest of the application:
//
//	store := notification.NewStore()
//	b := bus.New()
//	toasts := toast.NewManager()
//	c := center.New(store, b, toasts, center.WithRemote(client))
//	defer c.Close()
//
//	n, _ := c.ShowNotification(notification.Input{
//		Type:     notification.TypeError,
//		Priority: notification.PriorityHigh,
//		Category: "transaction",
//		Title:    "Transaction Failed",
//	})
//	c.AcknowledgeNotification(n.ID)
//
// Acknowledge and dismiss round-trip through the bus so every subscribed
// surface observes the same transition. Mutations apply locally first; the
// matching server call is best-effort, with failures logged and reconciled
// by the next poll. Run drives the periodic resync; its context tears the
// loop down and causes late responses to be discarded.
package center
