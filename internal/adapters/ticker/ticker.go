// Package ticker provides ports.Ticker implementations.
package ticker

import (
	"sync"
	"time"

	"github.com/xvierd/current/internal/ports"
)

// Interval runs callbacks on a time.Ticker in its own goroutine.
type Interval struct{}

// New returns the goroutine-backed ticker.
func New() ports.Ticker {
	return Interval{}
}

// Start implements ports.Ticker. The returned stop never waits for the
// goroutine, so it is safe to call from inside fn.
func (Interval) Start(interval time.Duration, fn func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// Manual fires its callbacks only when Fire is called.
type Manual struct {
	mu      sync.Mutex
	nextID  int
	active  map[int]func()
	started int
}

// NewManual creates a manual ticker.
func NewManual() *Manual {
	return &Manual{active: make(map[int]func())}
}

// Start implements ports.Ticker.
func (m *Manual) Start(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.active[id] = fn
	m.started++
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.active, id)
		m.mu.Unlock()
	}
}

// Fire invokes every active callback once, outside the lock.
func (m *Manual) Fire() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.active))
	for _, fn := range m.active {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Active returns the number of schedules that have not been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Started returns how many schedules were ever started.
func (m *Manual) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

var (
	_ ports.Ticker = Interval{}
	_ ports.Ticker = (*Manual)(nil)
)
