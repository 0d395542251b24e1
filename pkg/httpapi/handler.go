package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finconsole/notifykit/pkg/center"
	"github.com/finconsole/notifykit/pkg/notification"
	"github.com/finconsole/notifykit/pkg/preferences"
)

// Handler exposes the notification center over HTTP for the dashboard shell.
type Handler struct {
	center *center.Center
	prefs  *preferences.Manager
	logger *slog.Logger
	buffer int
}

// Option configures the Handler.
type Option func(*Handler)

// WithPreferences attaches a preferences manager. Without it the
// preferences endpoints respond 404.
func WithPreferences(m *preferences.Manager) Option {
	return func(h *Handler) { h.prefs = m }
}

// WithLogger supplies a logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithStreamBuffer sets the per-connection event buffer for /stream.
func WithStreamBuffer(n int) Option {
	if n <= 0 {
		panic("WithStreamBuffer: buffer must be > 0")
	}
	return func(h *Handler) { h.buffer = n }
}

// New returns a Handler serving the given center.
func New(c *center.Center, opts ...Option) *Handler {
	h := &Handler{center: c}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	return h
}

// Router builds the chi router with all notification endpoints mounted.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/bell", h.getBell)
	r.Get("/unread-count", h.getUnreadCount)
	r.Get("/stream", h.getStream)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.listNotifications)
		r.Post("/", h.createNotification)
		r.Post("/read-all", h.markAllRead)
		r.Post("/clear-read", h.clearRead)

		r.Route("/{id}", func(r chi.Router) {
			r.Post("/read", h.markRead)
			r.Post("/unread", h.markUnread)
			r.Post("/acknowledge", h.acknowledge)
			r.Delete("/", h.dismiss)
		})
	})

	if h.prefs != nil {
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", h.getPreferences)
			r.Put("/", h.putPreferences)
			r.Post("/{category}/{channel}/toggle", h.togglePreference)
		})
	}

	return r
}

func (h *Handler) getBell(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.center.Bell())
}

func (h *Handler) getUnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"unreadCount": h.center.UnreadCount()})
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, h.center.History(f))
}

func (h *Handler) createNotification(w http.ResponseWriter, r *http.Request) {
	var in notification.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	n, err := h.center.ShowNotification(in)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// Mutations apply to the local store immediately; the remote sync runs in
// the background. 202 reflects that the API write may still be in flight.
func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	h.center.MarkRead(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) markUnread(w http.ResponseWriter, r *http.Request) {
	h.center.MarkUnread(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) acknowledge(w http.ResponseWriter, r *http.Request) {
	h.center.AcknowledgeNotification(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	h.center.DismissNotification(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	h.center.MarkAllRead()
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) clearRead(w http.ResponseWriter, r *http.Request) {
	h.center.ClearAllNotifications()
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.prefs.Snapshot())
}

func (h *Handler) putPreferences(w http.ResponseWriter, r *http.Request) {
	var s preferences.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	h.prefs.Replace(s)
	if err := h.prefs.Save(r.Context()); err != nil && !errors.Is(err, preferences.ErrNoSaveFunc) {
		h.logger.ErrorContext(r.Context(), "failed to persist preferences", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errors.New("failed to persist preferences"))
		return
	}
	writeJSON(w, http.StatusOK, h.prefs.Snapshot())
}

func (h *Handler) togglePreference(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	channel := preferences.Channel(chi.URLParam(r, "channel"))

	enabled, err := h.prefs.Toggle(category, channel)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"channel":  channel,
		"enabled":  enabled,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
