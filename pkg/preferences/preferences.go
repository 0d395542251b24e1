package preferences

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Channel is a delivery channel a category can be toggled on or off for.
type Channel string

const (
	ChannelInApp Channel = "inapp"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// IsValid checks if the channel is one of the known delivery channels.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush:
		return true
	default:
		return false
	}
}

// ChannelSet maps each channel to its enabled state for one category.
type ChannelSet map[Channel]bool

// Settings holds per-category channel toggles.
type Settings map[string]ChannelSet

// SaveFunc persists the settings. The destination (typically the platform
// API) is supplied by the caller; the manager itself stores nothing outside
// the session.
type SaveFunc func(ctx context.Context, s Settings) error

// Manager holds the session-local notification preferences. The toggles are
// collected and saved but are not consulted by the delivery path; that
// matches the platform's current behavior, where channel enforcement lives
// server-side.
type Manager struct {
	mu       sync.RWMutex
	settings Settings
	save     SaveFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefaults seeds the manager with initial settings.
func WithDefaults(s Settings) Option {
	return func(m *Manager) {
		if s != nil {
			m.settings = s.clone()
		}
	}
}

// WithSaveFunc sets the persistence callback invoked by Save.
func WithSaveFunc(fn SaveFunc) Option {
	return func(m *Manager) {
		m.save = fn
	}
}

// NewManager creates a preferences manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{settings: make(Settings)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enabled reports whether the channel is on for the category. Unknown
// categories and channels default to off.
func (m *Manager) Enabled(category string, ch Channel) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.settings[category]
	if !ok {
		return false
	}
	return set[ch]
}

// Set flips one channel toggle for a category, creating the category entry
// if needed.
func (m *Manager) Set(category string, ch Channel, enabled bool) error {
	if !ch.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.settings[category]
	if !ok {
		set = make(ChannelSet)
		m.settings[category] = set
	}
	set[ch] = enabled
	return nil
}

// Toggle inverts one channel toggle and returns the new state.
func (m *Manager) Toggle(category string, ch Channel) (bool, error) {
	if !ch.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.settings[category]
	if !ok {
		set = make(ChannelSet)
		m.settings[category] = set
	}
	set[ch] = !set[ch]
	return set[ch], nil
}

// Get returns a copy of the channel set for a category.
func (m *Manager) Get(category string) ChannelSet {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.settings[category]
	if !ok {
		return ChannelSet{}
	}
	out := make(ChannelSet, len(set))
	for ch, on := range set {
		out[ch] = on
	}
	return out
}

// Snapshot returns a deep copy of all settings.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.clone()
}

// Replace swaps in a whole new settings map.
func (m *Manager) Replace(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s.clone()
}

// Save invokes the configured persistence callback with a snapshot of the
// current settings.
func (m *Manager) Save(ctx context.Context) error {
	if m.save == nil {
		return ErrNoSaveFunc
	}
	return m.save(ctx, m.Snapshot())
}

func (s Settings) clone() Settings {
	out := make(Settings, len(s))
	for category, set := range s {
		cs := make(ChannelSet, len(set))
		for ch, on := range set {
			cs[ch] = on
		}
		out[category] = cs
	}
	return out
}

// defaultsFile is the YAML shape for seed settings:
//
//	categories:
//	  transaction:
//	    inapp: true
//	    email: true
type defaultsFile struct {
	Categories map[string]map[string]bool `yaml:"categories"`
}

// ParseDefaults reads seed settings from YAML. Unknown channel names are
// rejected so a typo in a defaults file fails loudly at startup.
func ParseDefaults(data []byte) (Settings, error) {
	var f defaultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("preferences: parse defaults: %w", err)
	}

	out := make(Settings, len(f.Categories))
	for category, channels := range f.Categories {
		set := make(ChannelSet, len(channels))
		for name, on := range channels {
			ch := Channel(name)
			if !ch.IsValid() {
				return nil, fmt.Errorf("%w: %q in category %q", ErrUnknownChannel, name, category)
			}
			set[ch] = on
		}
		out[category] = set
	}
	return out, nil
}
