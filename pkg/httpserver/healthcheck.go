package httpserver

import (
	"context"
	"log/slog"
	"net/http"
)

// Healthcheck returns a probe handler. With no check funcs it answers
// liveness: always 200 with body "ok". With checks it answers readiness:
// 200 "ok" when every check passes, 503 "unavailable" otherwise.
func Healthcheck(logger *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "readiness check failed", slog.Any("error", err))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
