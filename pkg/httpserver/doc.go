// Package httpserver provides a small http.Server wrapper with graceful
// shutdown on context cancellation or SIGINT/SIGTERM.
//
// Usage:
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithLogger(log),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", slog.Any("error", err))
//	}
//
// Run blocks until shutdown completes; a clean stop returns nil. The
// default write timeout is zero so SSE connections stay open.
package httpserver
