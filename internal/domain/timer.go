package domain

import "time"

// TimerState holds the bookkeeping for the current countdown run.
// Remaining time is always derived from timestamps, never decremented.
type TimerState struct {
	RunID            string
	OriginalMinutes  int
	StartedAt        *time.Time
	AccumulatedPause time.Duration
	PauseStartedAt   *time.Time
	RemainingSeconds int

	// Notified is set once the run has crossed zero.
	Notified bool
}

// ComputeRemaining returns the whole seconds left in the run at now:
// max(0, OriginalMinutes*60 - floor((now - StartedAt - AccumulatedPause) / 1s)).
// A timer that was never started reports its full length.
func ComputeRemaining(now time.Time, t TimerState) int {
	total := t.OriginalMinutes * 60
	if t.StartedAt == nil {
		if total < 0 {
			return 0
		}
		return total
	}

	elapsed := now.Sub(*t.StartedAt) - t.AccumulatedPause
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := total - int(elapsed/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NewRun returns a timer for a fresh run of minutes starting at now.
func NewRun(now time.Time, minutes int) (TimerState, error) {
	if minutes < 1 {
		return TimerState{}, ErrInvalidDuration
	}
	started := now
	return TimerState{
		RunID:            generateID(),
		OriginalMinutes:  minutes,
		StartedAt:        &started,
		RemainingSeconds: minutes * 60,
	}, nil
}

// effectiveNow freezes the clock at the pause instant while paused.
func (t *TimerState) effectiveNow(now time.Time) time.Time {
	if t.PauseStartedAt != nil {
		return *t.PauseStartedAt
	}
	return now
}

// RemainingAt computes the remaining seconds at now, honoring an active pause.
func (t *TimerState) RemainingAt(now time.Time) int {
	return ComputeRemaining(t.effectiveNow(now), *t)
}

// Refresh recomputes and caches RemainingSeconds.
func (t *TimerState) Refresh(now time.Time) int {
	t.RemainingSeconds = t.RemainingAt(now)
	return t.RemainingSeconds
}

// ElapsedAt returns focused time in the run, excluding pauses.
func (t *TimerState) ElapsedAt(now time.Time) time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	elapsed := t.effectiveNow(now).Sub(*t.StartedAt) - t.AccumulatedPause
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Pause freezes the run at now. It is a no-op if already paused.
func (t *TimerState) Pause(now time.Time) {
	if t.PauseStartedAt != nil || t.StartedAt == nil {
		return
	}
	t.Refresh(now)
	paused := now
	t.PauseStartedAt = &paused
}

// Resume folds the time spent paused into AccumulatedPause.
func (t *TimerState) Resume(now time.Time) {
	if t.PauseStartedAt == nil {
		return
	}
	pausedFor := now.Sub(*t.PauseStartedAt)
	if pausedFor > 0 {
		t.AccumulatedPause += pausedFor
	}
	t.PauseStartedAt = nil
	t.Refresh(now)
}

// AddMinutes extends the run target without touching elapsed accounting.
func (t *TimerState) AddMinutes(now time.Time, minutes int) error {
	if minutes < 1 {
		return ErrInvalidDuration
	}
	t.OriginalMinutes += minutes
	t.Refresh(now)
	return nil
}

// Progress returns the completion fraction of the run (0.0 to 1.0).
func (t *TimerState) Progress(now time.Time) float64 {
	total := t.OriginalMinutes * 60
	if total <= 0 {
		return 0
	}
	done := float64(total-t.RemainingAt(now)) / float64(total)
	if done < 0 {
		return 0
	}
	if done > 1 {
		return 1
	}
	return done
}
