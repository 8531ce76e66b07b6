package ports

import "time"

// Clock is the single source of "now" for a session. Start timestamps,
// pause timestamps and tick recomputation must all read the same Clock.
// This is a driven port (implemented by adapters).
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
}

// Ticker schedules periodic work for the countdown.
// This is a driven port (implemented by adapters).
type Ticker interface {
	// Start calls fn every interval until the returned stop function is
	// called. Stop must be idempotent and safe to call from inside fn.
	Start(interval time.Duration, fn func()) (stop func())
}

// Chime plays the completion sound when a run reaches zero.
// This is a driven port (implemented by adapters).
type Chime interface {
	// Play fires the chime. Errors are reported but never fatal.
	Play() error
}

// Visibility reports whether the UI is in the foreground.
// This is a driving port (implemented by the presentation layer).
type Visibility interface {
	// Subscribe registers fn for foreground changes and returns a
	// function that removes the subscription.
	Subscribe(fn func(foreground bool)) (unsubscribe func())
}
