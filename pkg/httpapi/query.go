package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/finconsole/notifykit/pkg/notification"
)

// filterFromQuery maps the history query string onto a notification filter.
// Repeatable params: type, priority, category. Times are RFC 3339.
func filterFromQuery(q url.Values) (notification.Filter, error) {
	var f notification.Filter

	for _, raw := range q["type"] {
		t, err := notification.ParseType(raw)
		if err != nil {
			return notification.Filter{}, fmt.Errorf("type %q: %w", raw, err)
		}
		f.Types = append(f.Types, t)
	}

	for _, raw := range q["priority"] {
		p, err := notification.ParsePriority(raw)
		if err != nil {
			return notification.Filter{}, fmt.Errorf("priority %q: %w", raw, err)
		}
		f.Priorities = append(f.Priorities, p)
	}

	f.Categories = q["category"]
	f.Search = q.Get("search")

	if raw := q.Get("read"); raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			return notification.Filter{}, fmt.Errorf("read %q: not a boolean", raw)
		}
		f.Read = &read
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return notification.Filter{}, fmt.Errorf("from %q: not RFC 3339", raw)
		}
		f.From = &t
	}

	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return notification.Filter{}, fmt.Errorf("to %q: not RFC 3339", raw)
		}
		f.To = &t
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return notification.Filter{}, fmt.Errorf("page %q: not an integer", raw)
		}
		f.Page = page
	}

	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return notification.Filter{}, fmt.Errorf("pageSize %q: not an integer", raw)
		}
		f.PageSize = size
	}

	return f, nil
}
