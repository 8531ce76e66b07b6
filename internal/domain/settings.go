package domain

import "time"

// TimerSettings holds the tunable durations of a focus session.
type TimerSettings struct {
	DefaultMinutes   int
	AddMinutes       int
	KeepGoingMinutes int
	TickInterval     time.Duration
}

// DefaultTimerSettings returns the standard settings.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		DefaultMinutes:   25,
		AddMinutes:       15,
		KeepGoingMinutes: 15,
		TickInterval:     time.Second,
	}
}

// Normalize replaces out-of-range values with defaults.
func (s TimerSettings) Normalize() TimerSettings {
	d := DefaultTimerSettings()
	if s.DefaultMinutes < 1 {
		s.DefaultMinutes = d.DefaultMinutes
	}
	if s.AddMinutes < 1 {
		s.AddMinutes = d.AddMinutes
	}
	if s.KeepGoingMinutes < 1 {
		s.KeepGoingMinutes = d.KeepGoingMinutes
	}
	if s.TickInterval <= 0 {
		s.TickInterval = d.TickInterval
	}
	return s
}
