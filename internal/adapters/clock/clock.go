// Package clock provides ports.Clock implementations: the system wall
// clock and a manually advanced clock for deterministic tests and demos.
package clock

import (
	"sync"
	"time"

	"github.com/xvierd/current/internal/ports"
)

// System reads the wall clock.
type System struct{}

// New returns the system clock.
func New() ports.Clock {
	return System{}
}

// Now implements ports.Clock.
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements ports.Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

var (
	_ ports.Clock = System{}
	_ ports.Clock = (*Manual)(nil)
)
