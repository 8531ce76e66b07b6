// Package ports defines the interfaces (driven and driving ports)
// for the current application following hexagonal architecture principles.
// These interfaces define the contracts between the session core and
// the terminal UI, the system clock and the notification sound.
package ports

import "github.com/xvierd/current/internal/domain"

// SessionController is the set of user intents a screen may emit.
// Screens receive read-only snapshots and never mutate state directly.
// This is a driving port (called by the presentation layer).
type SessionController interface {
	// SubmitIntention stores the intention and moves to the emotion check.
	SubmitIntention(text string)

	// JustStart stores the intention and starts a run with the default duration.
	JustStart(text string)

	// SelectEmotion records the check-in answer and moves to duration selection.
	SelectEmotion(category domain.EmotionCategory, label domain.EmotionLabel) error

	// RefineIntention replaces the intention while choosing a duration.
	RefineIntention(text string)

	// Back returns to the previous selection step.
	Back()

	// ChooseDuration starts a run of the given minutes.
	ChooseDuration(minutes int) error

	// Pause freezes a running countdown.
	Pause()

	// Resume continues a paused countdown.
	Resume()

	// TogglePause pauses a running countdown or resumes a paused one.
	TogglePause()

	// AddMinutes extends the current run without changing elapsed time.
	AddMinutes(minutes int) error

	// KeepGoing starts an extension run from the pre-finish prompt.
	KeepGoing(extensionMinutes int) error

	// CompleteSession finishes the session from the pre-finish prompt.
	CompleteSession()

	// StartAgain resets a completed session.
	StartAgain()

	// Quit ends the session from any phase.
	Quit()

	// Snapshot returns a copy of the current state.
	Snapshot() domain.SessionState

	// Subscribe registers fn to receive a snapshot after every change.
	Subscribe(fn func(domain.SessionState)) (unsubscribe func())

	// Settings returns the active timer settings.
	Settings() domain.TimerSettings
}
