// Command notifyd runs the notification center as a local HTTP service:
// the in-memory store, the event bus and the toast surface behind a JSON
// API with an SSE stream, optionally synced against the platform API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/finconsole/notifykit/pkg/apiclient"
	"github.com/finconsole/notifykit/pkg/bus"
	"github.com/finconsole/notifykit/pkg/center"
	"github.com/finconsole/notifykit/pkg/config"
	"github.com/finconsole/notifykit/pkg/httpapi"
	"github.com/finconsole/notifykit/pkg/httpserver"
	"github.com/finconsole/notifykit/pkg/logger"
	"github.com/finconsole/notifykit/pkg/notification"
	"github.com/finconsole/notifykit/pkg/preferences"
	"github.com/finconsole/notifykit/pkg/toast"
)

type appConfig struct {
	Logging       config.Logging
	Notifications config.Notifications
	API           config.API
	HTTP          config.HTTP
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "notifyd:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.Logging.Level)),
		logger.WithFormat(logger.Format(cfg.Logging.Format)),
		logger.WithService(cfg.Logging.Service),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := notification.NewStore()
	events := bus.New(bus.WithLogger(log))
	toasts := toast.NewManager(
		toast.WithAutoHide(cfg.Notifications.ToastAutoHide),
		toast.WithFreshness(cfg.Notifications.ToastFreshness),
		toast.WithLogger(log),
	)

	centerOpts := []center.Option{
		center.WithLogger(log),
		center.WithPollInterval(cfg.Notifications.PollInterval),
		center.WithBellLimit(cfg.Notifications.BellRecentLimit),
		center.WithRemoteTimeout(cfg.API.Timeout),
	}

	remote := cfg.API.BaseURL != ""
	if remote {
		client, err := apiclient.New(cfg.API.BaseURL,
			apiclient.WithToken(func() string { return cfg.API.Token }),
			apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		)
		if err != nil {
			return err
		}
		centerOpts = append(centerOpts, center.WithRemote(client))
	}

	ctr := center.New(store, events, toasts, centerOpts...)
	defer ctr.Close()

	prefs, err := loadPreferences(cfg.Notifications.PreferencesFile)
	if err != nil {
		return err
	}

	api := httpapi.New(ctr,
		httpapi.WithPreferences(prefs),
		httpapi.WithLogger(log),
		httpapi.WithStreamBuffer(cfg.Notifications.StreamBuffer),
	)

	router := chi.NewRouter()
	router.Get("/healthz", httpserver.Healthcheck(log))
	router.Mount("/api/notifications", api.Router())

	if remote {
		go func() {
			if err := ctr.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("poll loop stopped", logger.Error(err))
			}
		}()
	}

	// A zero write timeout keeps the SSE stream open indefinitely.
	srvOpts := []httpserver.Option{
		httpserver.WithAddr(cfg.HTTP.Addr),
		httpserver.WithLogger(log),
	}
	if cfg.HTTP.ReadTimeout > 0 {
		srvOpts = append(srvOpts, httpserver.WithReadTimeout(cfg.HTTP.ReadTimeout))
	}
	if cfg.HTTP.WriteTimeout > 0 {
		srvOpts = append(srvOpts, httpserver.WithWriteTimeout(cfg.HTTP.WriteTimeout))
	}
	if cfg.HTTP.IdleTimeout > 0 {
		srvOpts = append(srvOpts, httpserver.WithIdleTimeout(cfg.HTTP.IdleTimeout))
	}
	if cfg.HTTP.ShutdownTimeout > 0 {
		srvOpts = append(srvOpts, httpserver.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout))
	}
	return httpserver.New(srvOpts...).Run(ctx, router)
}

// loadPreferences seeds the preferences manager from a YAML defaults file
// when one is configured; without a file the manager starts empty.
func loadPreferences(path string) (*preferences.Manager, error) {
	if path == "" {
		return preferences.NewManager(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preferences file: %w", err)
	}
	defaults, err := preferences.ParseDefaults(data)
	if err != nil {
		return nil, fmt.Errorf("parse preferences file: %w", err)
	}
	return preferences.NewManager(preferences.WithDefaults(defaults)), nil
}
