package notification

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DefaultPageSize is the history page size when the filter does not set one.
const DefaultPageSize = 25

// Filter describes a derived view over the store's list. All criteria are
// conjunctive; zero values mean "no constraint". Filtering never mutates
// the underlying list.
type Filter struct {
	Types      []Type
	Priorities []Priority
	Categories []string
	Read       *bool      // nil = both read and unread
	Search     string     // case-folded match over title, message and category
	From       *time.Time // inclusive lower bound on CreatedAt
	To         *time.Time // inclusive upper bound on CreatedAt
	Page       int        // 1-based; values < 1 mean page 1
	PageSize   int        // values < 1 mean DefaultPageSize
}

// Page is one page of a filtered view.
type Page struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	PageSize      int            `json:"pageSize"`
	TotalPages    int            `json:"totalPages"`
}

// folder performs Unicode case folding for the free-text search. A single
// caser is enough; cases.Fold is safe for concurrent use.
var folder = cases.Fold()

// Matches reports whether the notification satisfies every criterion.
func (f Filter) Matches(n Notification) bool {
	if len(f.Types) > 0 && !containsType(f.Types, n.Type) {
		return false
	}
	if len(f.Priorities) > 0 && !containsPriority(f.Priorities, n.Priority) {
		return false
	}
	if len(f.Categories) > 0 && !containsString(f.Categories, n.Category) {
		return false
	}
	if f.Read != nil && n.Read != *f.Read {
		return false
	}
	if f.From != nil && n.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && n.CreatedAt.After(*f.To) {
		return false
	}
	if f.Search != "" {
		needle := folder.String(f.Search)
		if !strings.Contains(folder.String(n.Title), needle) &&
			!strings.Contains(folder.String(n.Message), needle) &&
			!strings.Contains(folder.String(n.Category), needle) {
			return false
		}
	}
	return true
}

// List applies the filter to the store and returns the requested page.
// Ordering follows the store's most-recent-first list.
func (s *Store) List(f Filter) Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Notification
	for _, n := range s.items {
		if f.Matches(n) {
			matched = append(matched, n)
		}
	}

	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]Notification, end-start)
	copy(out, matched[start:end])

	return Page{
		Notifications: out,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}
}

func containsType(list []Type, t Type) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func containsPriority(list []Priority, p Priority) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
