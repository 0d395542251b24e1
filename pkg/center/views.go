package center

import "github.com/finconsole/notifykit/pkg/notification"

// BellView is the compact summary surface: the unread badge plus the most
// recent items for the popover.
type BellView struct {
	UnreadCount int                         `json:"unreadCount"`
	Recent      []notification.Notification `json:"recent"`
}

// Bell returns the bell surface data.
func (c *Center) Bell() BellView {
	return BellView{
		UnreadCount: c.store.UnreadCount(),
		Recent:      c.store.Recent(c.bellLimit),
	}
}

// History returns one filtered, paginated page of the full list. It is a
// pure derived view; no fetch is triggered by a filter change.
func (c *Center) History(f notification.Filter) notification.Page {
	return c.store.List(f)
}
