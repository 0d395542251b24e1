package config

import (
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParse is returned when environment variables cannot be parsed into a
// config struct.
var ErrParse = errors.New("config: failed to parse environment")

// Logging configures the process logger.
type Logging struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"json"`
	Service string `env:"SERVICE_NAME" envDefault:"notifyd"`
}

// Notifications holds the subsystem tunables. The poll interval and toast
// auto-hide duration are the two knobs the product exposes; the rest carry
// the platform defaults.
type Notifications struct {
	PollInterval    time.Duration `env:"NOTIFY_POLL_INTERVAL" envDefault:"30s"`
	ToastAutoHide   time.Duration `env:"NOTIFY_TOAST_AUTO_HIDE" envDefault:"6s"`
	ToastFreshness  time.Duration `env:"NOTIFY_TOAST_FRESHNESS" envDefault:"5s"`
	BellRecentLimit int           `env:"NOTIFY_BELL_RECENT" envDefault:"5"`
	HistoryPageSize int           `env:"NOTIFY_PAGE_SIZE" envDefault:"25"`
	StreamBuffer    int           `env:"NOTIFY_STREAM_BUFFER" envDefault:"32"`
	PreferencesFile string        `env:"NOTIFY_PREFERENCES_FILE"`
}

// API configures the client for the platform's REST API. An empty base URL
// means the subsystem runs without a backing server.
type API struct {
	BaseURL string        `env:"NOTIFY_API_BASE_URL"`
	Timeout time.Duration `env:"NOTIFY_API_TIMEOUT" envDefault:"10s"`
	Token   string        `env:"NOTIFY_API_TOKEN"`
}

// HTTP configures the local HTTP surface.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"0"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

var loadDotEnv sync.Once

// Load parses environment variables into the provided config struct. The
// default .env file, when present, is loaded once per process first.
func Load[T any](v *T) error {
	loadDotEnv.Do(func() {
		// The .env file is optional; a missing file is not an error.
		_ = godotenv.Load()
	})
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Used at startup where a
// broken environment should prevent the process from starting.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}
