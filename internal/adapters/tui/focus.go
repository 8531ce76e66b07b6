package tui

import (
	"sync"

	"github.com/xvierd/current/internal/ports"
)

// FocusBroadcaster turns terminal focus reports into visibility changes.
// It only notifies subscribers when the foreground state actually flips.
type FocusBroadcaster struct {
	mu         sync.Mutex
	foreground bool
	nextID     int
	subs       map[int]func(bool)
}

// NewFocusBroadcaster creates a broadcaster that starts in the foreground.
func NewFocusBroadcaster() *FocusBroadcaster {
	return &FocusBroadcaster{
		foreground: true,
		subs:       make(map[int]func(bool)),
	}
}

// Subscribe implements ports.Visibility.
func (f *FocusBroadcaster) Subscribe(fn func(foreground bool)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Set records the foreground state and notifies subscribers on change.
func (f *FocusBroadcaster) Set(foreground bool) {
	f.mu.Lock()
	if f.foreground == foreground {
		f.mu.Unlock()
		return
	}
	f.foreground = foreground
	subs := make([]func(bool), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(foreground)
	}
}

// Foreground reports the last known state.
func (f *FocusBroadcaster) Foreground() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.foreground
}

// Ensure FocusBroadcaster implements ports.Visibility.
var _ ports.Visibility = (*FocusBroadcaster)(nil)
