// Package notification provides the completion chime.
package notification

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/current/internal/config"
	"github.com/xvierd/current/internal/ports"
)

// Notifier plays the completion chime: a terminal beep when sound is on and
// a desktop notification when notifications are enabled. Its settings can be
// replaced while a session runs.
type Notifier struct {
	mu         sync.RWMutex
	cfg        config.NotificationConfig
	configured bool
	muted      bool

	beep   func() error
	notify func(title, message string) error
}

// New creates a new notifier with the given configuration. A nil config
// plays nothing.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
	if cfg != nil {
		n.cfg = *cfg
		n.configured = true
	}
	return n
}

// Play implements ports.Chime.
func (n *Notifier) Play() error {
	n.mu.RLock()
	cfg, configured, muted := n.cfg, n.configured, n.muted
	n.mu.RUnlock()
	if !configured {
		return nil
	}

	var errs []error
	if cfg.Sound && !muted {
		if err := n.beep(); err != nil {
			errs = append(errs, fmt.Errorf("beep: %w", err))
		}
	}
	if cfg.Enabled {
		if err := n.notify("🌊 Time's up", "You rode the current. Keep going or wrap up?"); err != nil {
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SetConfig replaces the notification settings. A mute set with Mute
// survives the swap.
func (n *Notifier) SetConfig(cfg config.NotificationConfig) {
	n.mu.Lock()
	n.cfg = cfg
	n.configured = true
	n.mu.Unlock()
}

// Config returns the settings the next Play will use.
func (n *Notifier) Config() config.NotificationConfig {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.configured && n.cfg.Enabled
}

// Mute stops the beep for the notifier's lifetime, whatever the config says.
func (n *Notifier) Mute() {
	n.mu.Lock()
	n.muted = true
	n.mu.Unlock()
}

// IsMuted reports whether Mute was called.
func (n *Notifier) IsMuted() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.muted
}

// Ensure Notifier implements ports.Chime.
var _ ports.Chime = (*Notifier)(nil)
