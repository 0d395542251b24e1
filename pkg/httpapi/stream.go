package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/finconsole/notifykit/pkg/bus"
)

// streamSignals is the reactive state pushed to the dashboard shell on
// every bus event. The frontend binds its bell badge and toast region to
// these signals; no DOM is patched server-side.
type streamSignals struct {
	UnreadCount int       `json:"unreadCount"`
	LastEvent   bus.Event `json:"lastEvent"`
}

// getStream holds the connection open and pushes a signal patch for every
// lifecycle event until the client disconnects.
func (h *Handler) getStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var events <-chan bus.Event
	if h.buffer > 0 {
		events = h.center.WatchBuffer(ctx, h.buffer)
	} else {
		events = h.center.Watch(ctx)
	}

	sse := datastar.NewSSE(w, r)

	// Initial state so a freshly connected client renders without waiting
	// for the next event.
	if err := h.patchSignals(sse, streamSignals{UnreadCount: h.center.UnreadCount()}); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			patch := streamSignals{
				UnreadCount: h.center.UnreadCount(),
				LastEvent:   ev,
			}
			if err := h.patchSignals(sse, patch); err != nil {
				h.logger.DebugContext(ctx, "stream client gone",
					slog.String("kind", string(ev.Kind)),
					slog.Any("error", err))
				return
			}
		}
	}
}

func (h *Handler) patchSignals(sse *datastar.ServerSentEventGenerator, s streamSignals) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return sse.PatchSignals(data)
}
