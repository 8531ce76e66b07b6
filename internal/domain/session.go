// Package domain contains the core entities of a focus session: the
// session record, its countdown timer and the emotion check-in. They are
// independent of the terminal UI and of any infrastructure.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxIntentionLength is the maximum intention length in runes.
const MaxIntentionLength = 150

// SessionState is the single record describing the current session.
// The zero value is not used; start from NewSessionState.
type SessionState struct {
	ID        string
	Intention string
	Emotion   *Emotion
	Phase     Phase
	Timer     TimerState

	// Runs counts countdown runs started in this session.
	Runs int
	// FocusedSeconds is the focused time of runs that reached zero.
	FocusedSeconds int
}

// NewSessionState returns the idle state the application starts in.
func NewSessionState() SessionState {
	return SessionState{Phase: PhaseIdle}
}

// NormalizeIntention trims whitespace and truncates to MaxIntentionLength runes.
func NormalizeIntention(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= MaxIntentionLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:MaxIntentionLength]))
}

// Begin marks the start of a new session with the given intention.
func (s *SessionState) Begin(intention string) {
	s.ID = generateID()
	s.Intention = NormalizeIntention(intention)
}

// StartRun replaces the timer with a new run of minutes starting at now.
func (s *SessionState) StartRun(now time.Time, minutes int) error {
	run, err := NewRun(now, minutes)
	if err != nil {
		return err
	}
	s.Timer = run
	s.Phase = PhaseRunning
	s.Runs++
	return nil
}

// FocusedMinutes returns total focused minutes across finished runs.
func (s SessionState) FocusedMinutes() int {
	return s.FocusedSeconds / 60
}

// IsActive returns true if a countdown is running or paused.
func (s SessionState) IsActive() bool {
	return s.Phase == PhaseRunning || s.Phase == PhasePaused
}

// Clone returns a deep copy safe to hand to readers.
func (s SessionState) Clone() SessionState {
	out := s
	if s.Emotion != nil {
		e := *s.Emotion
		out.Emotion = &e
	}
	if s.Timer.StartedAt != nil {
		t := *s.Timer.StartedAt
		out.Timer.StartedAt = &t
	}
	if s.Timer.PauseStartedAt != nil {
		t := *s.Timer.PauseStartedAt
		out.Timer.PauseStartedAt = &t
	}
	return out
}
