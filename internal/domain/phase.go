package domain

// Phase represents where the current session is in its lifecycle.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingEmotion  Phase = "awaiting_emotion"
	PhaseAwaitingDuration Phase = "awaiting_duration"
	PhaseRunning          Phase = "running"
	PhasePaused           Phase = "paused"
	PhasePreFinish        Phase = "pre_finish"
	PhaseCompleted        Phase = "completed"
)

// IsSelecting returns true while the user is still choosing how to start
// (emotion check or duration selection).
func (p Phase) IsSelecting() bool {
	return p == PhaseAwaitingEmotion || p == PhaseAwaitingDuration
}

// HasRun returns true if a countdown run exists in this phase.
func (p Phase) HasRun() bool {
	switch p {
	case PhaseRunning, PhasePaused, PhasePreFinish, PhaseCompleted:
		return true
	default:
		return false
	}
}

// Label returns a human-readable label for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseAwaitingEmotion:
		return "Checking in"
	case PhaseAwaitingDuration:
		return "Choosing duration"
	case PhaseRunning:
		return "Focus Time"
	case PhasePaused:
		return "Paused"
	case PhasePreFinish:
		return "Time's up"
	case PhaseCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
